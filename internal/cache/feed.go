// Package cache keeps the full post feed in Redis for a short time.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/yourEmotion/goonrails/internal/models"
	"go.uber.org/zap"
)

const (
	// FeedKey holds the JSON-encoded feed.
	FeedKey = "main:feed"
	// GenerationKey counts writes. A feed read under an older generation is
	// never stored.
	GenerationKey = "main:feed:gen"
)

// setIfCurrent stores ARGV[2] under KEYS[1] for ARGV[3] ms only while
// KEYS[2] still equals ARGV[1].
var setIfCurrent = redis.NewScript(`
local gen = redis.call('GET', KEYS[2])
if not gen then gen = '0' end
if gen ~= ARGV[1] then return 0 end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// Histogram over Redis round trips; tails show slow cache calls.
var (
	redisFeedDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "redis_feed_duration_seconds",
		Help:    "Time taken by feed cache operations in Redis",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	feedLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_cache_lookups_total",
		Help: "Feed cache lookups by result",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(redisFeedDuration, feedLookups)
}

type Feed struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeed returns a cache storing the feed for ttl. A zero ttl disables it.
func NewFeed(client *redis.Client, ttl time.Duration) *Feed {
	return &Feed{client: client, ttl: ttl}
}

func (f *Feed) enabled() bool { return f != nil && f.client != nil && f.ttl > 0 }

// Get returns the cached feed and whether it was present.
func (f *Feed) Get(ctx context.Context) ([]models.Post, bool) {
	if !f.enabled() {
		return nil, false
	}
	var cached string
	err := observe("get", func() error {
		var err error
		cached, err = f.client.Get(ctx, FeedKey).Result()
		return err
	})
	if errors.Is(err, redis.Nil) {
		feedLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		feedLookups.WithLabelValues("error").Inc()
		return nil, false
	}
	var posts []models.Post
	if err := json.Unmarshal([]byte(cached), &posts); err != nil {
		zap.L().Warn("discarding undecodable feed cache", zap.Error(err))
		feedLookups.WithLabelValues("error").Inc()
		return nil, false
	}
	feedLookups.WithLabelValues("hit").Inc()
	return posts, true
}

// Generation returns the current write generation. Read it before loading
// the feed from the database and pass it to Set.
func (f *Feed) Generation(ctx context.Context) (string, error) {
	if !f.enabled() {
		return "", nil
	}
	var gen string
	err := observe("gen", func() error {
		var err error
		gen, err = f.client.Get(ctx, GenerationKey).Result()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return gen, err
}

// Set caches posts unless a write has bumped the generation since gen was
// read. It reports whether the feed was stored.
func (f *Feed) Set(ctx context.Context, gen string, posts []models.Post) (bool, error) {
	if !f.enabled() {
		return false, nil
	}
	data, err := json.Marshal(posts)
	if err != nil {
		return false, fmt.Errorf("encode feed: %w", err)
	}
	var stored int64
	err = observe("set", func() error {
		var err error
		stored, err = setIfCurrent.Run(ctx, f.client,
			[]string{FeedKey, GenerationKey},
			gen, data, f.ttl.Milliseconds(),
		).Int64()
		return err
	})
	if err != nil {
		return false, err
	}
	if stored == 0 {
		zap.L().Debug("feed changed while loading, not caching", zap.String("generation", gen))
	}
	return stored == 1, nil
}

// Invalidate bumps the generation and drops the cached feed after a write.
func (f *Feed) Invalidate(ctx context.Context) error {
	if !f.enabled() {
		return nil
	}
	return observe("del", func() error {
		_, err := f.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Incr(ctx, GenerationKey)
			pipe.Del(ctx, FeedKey)
			return nil
		})
		return err
	})
}

func observe(operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	duration := time.Since(start)
	if err != nil && !errors.Is(err, redis.Nil) {
		zap.L().Warn("redis feed operation failed",
			zap.String("operation", operation),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	} else {
		zap.L().Debug("redis feed operation",
			zap.String("operation", operation),
			zap.Duration("duration", duration),
		)
	}
	redisFeedDuration.WithLabelValues(operation).Observe(duration.Seconds())
	return err
}

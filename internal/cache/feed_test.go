package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourEmotion/goonrails/internal/models"
)

func newFeed(t *testing.T, ttl time.Duration) (*Feed, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewFeed(client, ttl), mr
}

func TestFeed_SetGetExpire(t *testing.T) {
	ctx := context.Background()
	feed, mr := newFeed(t, 30*time.Second)

	_, ok := feed.Get(ctx)
	assert.False(t, ok, "empty cache must miss")

	posts := []models.Post{{ID: 1, Title: "Cached post title", Content: "Cached post content body", UserID: 7}}
	gen, err := feed.Generation(ctx)
	require.NoError(t, err)
	stored, err := feed.Set(ctx, gen, posts)
	require.NoError(t, err)
	assert.True(t, stored)
	assert.Equal(t, 30*time.Second, mr.TTL(FeedKey))

	got, ok := feed.Get(ctx)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, posts[0].Title, got[0].Title)
	assert.Equal(t, int64(7), got[0].UserID)

	mr.FastForward(31 * time.Second)
	_, ok = feed.Get(ctx)
	assert.False(t, ok, "expired feed must miss")
}

func TestFeed_Invalidate(t *testing.T) {
	ctx := context.Background()
	feed, mr := newFeed(t, time.Minute)

	_, err := feed.Set(ctx, "0", []models.Post{{ID: 1}})
	require.NoError(t, err)
	require.NoError(t, feed.Invalidate(ctx))
	assert.False(t, mr.Exists(FeedKey))

	gen, err := feed.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", gen)
}

func TestFeed_SetSkipsWhenWrittenMeanwhile(t *testing.T) {
	ctx := context.Background()
	feed, mr := newFeed(t, time.Minute)

	gen, err := feed.Generation(ctx)
	require.NoError(t, err)

	// A write lands after the feed was read from the database.
	require.NoError(t, feed.Invalidate(ctx))

	stored, err := feed.Set(ctx, gen, []models.Post{{ID: 1}})
	require.NoError(t, err)
	assert.False(t, stored)
	assert.False(t, mr.Exists(FeedKey), "feed read before the write must not be cached")

	gen, err = feed.Generation(ctx)
	require.NoError(t, err)
	stored, err = feed.Set(ctx, gen, []models.Post{{ID: 1}, {ID: 2}})
	require.NoError(t, err)
	assert.True(t, stored)
	assert.True(t, mr.Exists(FeedKey))
}

func TestFeed_Disabled(t *testing.T) {
	ctx := context.Background()
	var nilFeed *Feed
	stored, err := nilFeed.Set(ctx, "", nil)
	require.NoError(t, err)
	assert.False(t, stored)
	require.NoError(t, nilFeed.Invalidate(ctx))
	_, ok := nilFeed.Get(ctx)
	assert.False(t, ok)

	feed, mr := newFeed(t, 0)
	gen, err := feed.Generation(ctx)
	require.NoError(t, err)
	assert.Empty(t, gen)
	_, err = feed.Set(ctx, gen, []models.Post{{ID: 1}})
	require.NoError(t, err)
	assert.False(t, mr.Exists(FeedKey), "zero ttl must not write")
}

func TestFeed_CorruptEntryMisses(t *testing.T) {
	ctx := context.Background()
	feed, mr := newFeed(t, time.Minute)
	require.NoError(t, mr.Set(FeedKey, "{not json"))

	_, ok := feed.Get(ctx)
	assert.False(t, ok)
}

func TestFeed_RedisDownMisses(t *testing.T) {
	ctx := context.Background()
	feed, mr := newFeed(t, time.Minute)
	mr.Close()

	_, ok := feed.Get(ctx)
	assert.False(t, ok)
	_, err := feed.Generation(ctx)
	assert.Error(t, err)
	_, err = feed.Set(ctx, "0", []models.Post{{ID: 1}})
	assert.Error(t, err)
}

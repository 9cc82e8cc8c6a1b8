package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const upsertUser = `INSERT INTO users (email, created_at, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (email) DO UPDATE SET updated_at = EXCLUDED.updated_at
RETURNING id`

var postColumns = []string{"title", "content", "user_id", "created_at", "updated_at"}

// DB is the part of a pgx pool the loader uses.
type DB interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
}

type Options struct {
	Users int
	Posts int
	Batch int
	Seed  int64
}

// Result counts what Run wrote.
type Result struct {
	Users    int
	Posts    int64
	Duration time.Duration
}

// NewPool connects to Postgres for bulk loading.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 4
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// Run upserts opts.Users users, then copies opts.Posts posts spread over
// them in chunks of opts.Batch rows. The tables must already exist.
func Run(ctx context.Context, db DB, opts Options) (*Result, error) {
	if opts.Users <= 0 {
		return nil, errors.New("seed: at least one user is required")
	}
	if opts.Posts < 0 {
		return nil, errors.New("seed: negative post count")
	}
	if opts.Batch <= 0 {
		opts.Batch = 1000
	}

	start := time.Now()
	gen := NewGenerator(opts.Seed)

	ids, err := insertUsers(ctx, db, gen, opts.Users, opts.Batch)
	if err != nil {
		return nil, err
	}
	zap.L().Info("users seeded", zap.Int("count", len(ids)))

	var copied int64
	rows := make([][]any, 0, opts.Batch)
	flush := func() error {
		if len(rows) == 0 {
			return nil
		}
		n, err := db.CopyFrom(ctx, pgx.Identifier{"posts"}, postColumns, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("copy posts: %w", err)
		}
		copied += n
		rows = rows[:0]
		zap.L().Debug("posts batch copied", zap.Int64("total", copied))
		return nil
	}

	for i := 0; i < opts.Posts; i++ {
		p := gen.Post(ids)
		rows = append(rows, []any{p.Title, p.Content, p.UserID, p.CreatedAt, p.UpdatedAt})
		if len(rows) >= opts.Batch {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	res := &Result{Users: len(ids), Posts: copied, Duration: time.Since(start)}
	zap.L().Info("posts seeded", zap.Int64("count", copied), zap.Duration("duration", res.Duration))
	return res, nil
}

// insertUsers upserts users batch by batch and returns their ids.
func insertUsers(ctx context.Context, db DB, gen *Generator, n, size int) ([]int64, error) {
	ids := make([]int64, 0, n)
	for from := 0; from < n; from += size {
		to := min(n, from+size)
		batch := &pgx.Batch{}
		for i := from; i < to; i++ {
			u := gen.User(i + 1)
			batch.Queue(upsertUser, u.Email, u.CreatedAt, u.UpdatedAt)
		}

		br := db.SendBatch(ctx, batch)
		for i := from; i < to; i++ {
			var id int64
			if err := br.QueryRow().Scan(&id); err != nil {
				_ = br.Close()
				return nil, fmt.Errorf("insert user %d: %w", i+1, err)
			}
			ids = append(ids, id)
		}
		if err := br.Close(); err != nil {
			return nil, fmt.Errorf("batch close: %w", err)
		}
	}
	return ids, nil
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourEmotion/goonrails/internal/config"
	"github.com/yourEmotion/goonrails/internal/seed"
)

var seedOpts seed.Options

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Bulk load synthetic users and posts into Postgres",
	Long: `Migrates the schema, upserts --users users and copies --posts posts
spread over them, --batch rows per round trip. Postgres only.

Example:
  goonrails seed --users 100 --posts 100000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Database.Driver != "postgres" {
			return fmt.Errorf("seed needs the postgres driver, not %q", cfg.Database.Driver)
		}
		if seedOpts.Seed == 0 {
			seedOpts.Seed = time.Now().UnixNano()
		}

		db, err := config.OpenDatabase(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		if err := config.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		pool, err := seed.NewPool(cmd.Context(), cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		defer pool.Close()

		zap.L().Info("Seeding",
			zap.Int("users", seedOpts.Users),
			zap.Int("posts", seedOpts.Posts),
			zap.Int("batch", seedOpts.Batch),
		)
		res, err := seed.Run(cmd.Context(), pool, seedOpts)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users and %d posts in %s\n",
			res.Users, res.Posts, res.Duration.Truncate(time.Millisecond))
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedOpts.Users, "users", 10, "number of users")
	seedCmd.Flags().IntVar(&seedOpts.Posts, "posts", 100, "number of posts")
	seedCmd.Flags().IntVar(&seedOpts.Batch, "batch", 1000, "rows per batch")
	seedCmd.Flags().Int64Var(&seedOpts.Seed, "seed", 0, "random seed (0 picks one)")
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourEmotion/goonrails/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the users and posts tables",
	RunE: func(cmd *cobra.Command, args []string) error {
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
		zap.L().Info("Schema migrated", zap.String("driver", cfg.Database.Driver))
		return nil
	},
}

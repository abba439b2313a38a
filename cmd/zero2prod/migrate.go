package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xxc-git/zero2prod/internal/config"
	"github.com/xxc-git/zero2prod/internal/db/migrations"
	"github.com/xxc-git/zero2prod/middlewares"
	"github.com/xxc-git/zero2prod/pkg/db"
	"github.com/xxc-git/zero2prod/pkg/logger"
)

func newMigrateCmd(envFiles *[]string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*envFiles...)
			if err != nil {
				return err
			}
			log := logger.FromConfig(cfg.Log, middlewares.RequestIDExtractor())

			pool, err := db.Connect(cmd.Context(), cfg.DB)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()

			return db.Migrate(cmd.Context(), pool, migrations.FS, cfg.DB.MigrationsTable, log)
		},
	}
}

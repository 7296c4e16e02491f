package main

import (
	"fmt"

	pg "dog-kennel/internal/adapters/storage/postgres"
	"dog-kennel/internal/config"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Storage.DSN == "" {
				return fmt.Errorf("KENNEL_STORAGE_DSN is required to migrate")
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, err := pg.Open(cfg.Storage.DSN)
			if err != nil {
				return fmt.Errorf("open postgres: %w", err)
			}
			defer db.Close()

			if err := pg.Migrate(db); err != nil {
				return err
			}
			log.Info("migrations applied", nil)
			return nil
		},
	}
}

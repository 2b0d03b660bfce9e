package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations for the configured backend",
		Long: `Migrate applies the embedded SQL migrations to the configured storage backend
and, when clickhouse_dsn is set, to the ClickHouse analytics mirror.
Migrations are idempotent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags)

			b, err := openBackend(cmd.Context(), cfg.Storage, true, logger)
			if err != nil {
				return err
			}
			b.cleanup()

			logger.Println("Migrations applied")
			return nil
		},
	}
}

package cli

import (
	"context"
	"fmt"

	"quick-sums/internal/domain"
	pgmigrations "quick-sums/internal/infra/postgres/migrations"

	"github.com/spf13/cobra"
)

// NewMigrateCmd applies database migrations.
func NewMigrateCmd(configPath, logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), *configPath, *logLevel)
		},
	}
}

func runMigrations(ctx context.Context, configPath, logLevel string) error {
	cfg, logger, err := loadRuntime(configPath, logLevel)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("migrate: %w (postgres url)", domain.ErrStoreNotConfigured)
	}
	return pgmigrations.Apply(ctx, cfg.Postgres.URL, logger)
}

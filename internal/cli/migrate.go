package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/evcraddock/realty-site/internal/config"
	"github.com/evcraddock/realty-site/internal/logging"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema and seed the catalog",
		Long:  "Opens the configured store, applying schema migrations and seeding developers and locations if they are empty.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context())
		},
	}
}

func runMigrate(ctx context.Context) error {
	cfg, err := config.Load(configFile())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logging.Setup(!cfg.IsProduction())

	if ctx == nil {
		ctx = context.Background()
	}
	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			slog.Error("closing store", "error", err)
		}
	}()

	if _, err := backend.Users.EnsureAdmin(ctx, cfg.AdminUsername); err != nil {
		return fmt.Errorf("ensuring admin user: %w", err)
	}

	if isJSON() {
		return printJSON(map[string]any{"store": backend.Name, "migrated": true})
	}
	fmt.Printf("Store %s is up to date.\n", backend.Name)
	return nil
}

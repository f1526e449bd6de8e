package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simaogato/portfolio-backend/pkg/config"
	"github.com/simaogato/portfolio-backend/pkg/logger"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the asset schema",
	Long: `Creates the assets table and its indexes in the configured store.
Running it again is a no-op.

Example:
  DB_DRIVER=sqlite SQLITE_PATH=data/portfolio.db go run ./cmd/server migrate`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	store, err := openStorage(context.Background(), cfg, log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.close()

	log.WithField("driver", cfg.Database.Driver).Info("Schema is up to date")
	return nil
}

package cmd

import (
	"fmt"

	"github.com/oliver-reborn/ITG-Commute-Time/internal/logger"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/repositories"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/repositories/postgres"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/route"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the Postgres route with the segments of a CSV file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("database_url is required for import")
		}

		r, err := route.LoadCSV(cfg.RouteFile)
		if err != nil {
			return err
		}

		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		var repo repositories.RouteRepository = postgres.NewRouteRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := repo.DeleteAll(ctx); err != nil {
			return err
		}
		if err := repo.BulkCreate(ctx, r.Segments); err != nil {
			return err
		}

		count, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		logger.Info("imported route", zap.String("file", cfg.RouteFile), zap.Int("segments", count))
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d segments from %s\n", count, cfg.RouteFile)
		return nil
	},
}

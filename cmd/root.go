package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/logger"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/models"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/repositories/postgres"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/route"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	cfg     *models.Config
)

var rootCmd = &cobra.Command{
	Use:   "commutesim",
	Short: "Estimates commute time over a fixed route for a given departure time",
	Long: `commutesim simulates a commute over an ordered list of road segments. Each segment's
speed comes from its road name and whether the departure falls in a rush-hour window.
Run one departure with "simulate" or scan a window of departures with "sweep".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error loading .env file: %w", err)
		}

		var err error
		cfg, err = models.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}

		if err := logger.Init(cfg.Environment); err != nil {
			return fmt.Errorf("error initializing logger: %w", err)
		}
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", zap.String("path", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./commutesim.yaml)")

	rootCmd.PersistentFlags().String("route-source", "", "Route source: csv or postgres")
	rootCmd.PersistentFlags().String("route-file", "", "Route CSV file")
	rootCmd.PersistentFlags().String("database-url", "", "Postgres connection string")
	rootCmd.PersistentFlags().String("output-format", "", "Output format: table, json, csv, parquet or kafka")
	rootCmd.PersistentFlags().String("output-path", "", "Base directory for file output")
	rootCmd.PersistentFlags().String("environment", "", "development or production")
	rootCmd.PersistentFlags().Bool("memoize-distances", true, "Reuse segment distances across departures")

	bindFlags(rootCmd, map[string]string{
		"route_source":      "route-source",
		"route_file":        "route-file",
		"database_url":      "database-url",
		"output_format":     "output-format",
		"output_path":       "output-path",
		"environment":       "environment",
		"memoize_distances": "memoize-distances",
	})

	rootCmd.AddCommand(simulateCmd, sweepCmd, generateCmd, importCmd)
}

// bindFlags binds config keys to flags so that a flag set on the command line wins.
func bindFlags(cmd *cobra.Command, keys map[string]string) {
	for key, flag := range keys {
		f := cmd.PersistentFlags().Lookup(flag)
		if f == nil {
			f = cmd.Flags().Lookup(flag)
		}
		cobra.CheckErr(viper.BindPFlag(key, f))
	}
}

// loadRoute reads the route from the configured source. The Postgres pool
// only lives for the duration of the load.
func loadRoute(ctx context.Context) (models.Route, error) {
	if cfg.RouteSource != models.RouteSourcePostgres {
		return route.Load(ctx, cfg, nil)
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return models.Route{}, fmt.Errorf("%w: %w", models.ErrRouteLoad, err)
	}
	defer pool.Close()

	return route.Load(ctx, cfg, postgres.NewRouteRepository(pool))
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

package cmd

import (
	"github.com/oliver-reborn/ITG-Commute-Time/internal/logger"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/output"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/simulator"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate one commute for a departure time",
	Example: `  commutesim simulate --departure 08:00
  commutesim simulate --departure "5:30 PM" --output-format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		r, err := loadRoute(ctx)
		if err != nil {
			return err
		}

		sim, err := simulator.NewSimulator(cfg)
		if err != nil {
			return err
		}

		result, err := sim.Simulate(r, cfg.Departure)
		if err != nil {
			return err
		}
		logger.Info("simulation complete",
			zap.Stringer("departure", result.Departure),
			zap.Int("segments", len(result.Segments)),
			zap.Float64("total_minutes", result.TotalMinutes))

		dest, err := output.New(ctx, cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if err := dest.WriteSimulation(ctx, result); err != nil {
			dest.Close()
			return err
		}
		return dest.Close()
	},
}

func init() {
	simulateCmd.Flags().String("departure", "", "Departure time, e.g. 08:00 or 5:30 PM")
	bindFlags(simulateCmd, map[string]string{"departure": "departure"})
}

package cmd

import (
	"os"

	"github.com/oliver-reborn/ITG-Commute-Time/internal/logger"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/models"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/output"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/simulator"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var sweepCmd = &cobra.Command{
	Use:     "sweep",
	Short:   "Simulate every departure in a time window",
	Example: `  commutesim sweep --start 07:00 --end 09:00 --interval 10`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		ticks, err := simulator.Ticks(cfg.SweepStart, cfg.SweepEnd, cfg.SweepIntervalMinutes)
		if err != nil {
			return err
		}

		r, err := loadRoute(ctx)
		if err != nil {
			return err
		}

		sim, err := simulator.NewSimulator(cfg)
		if err != nil {
			return err
		}

		bar := progressbar.NewOptions(len(ticks),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Sweeping departures"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		series, err := sim.SweepFunc(r, cfg.SweepStart, cfg.SweepEnd, cfg.SweepIntervalMinutes, func(models.SweepPoint) {
			_ = bar.Add(1)
		})
		_ = bar.Finish()
		if err != nil {
			return err
		}

		if fastest, ok := series.Fastest(); ok {
			logger.Info("sweep complete",
				zap.Int("points", series.Len()),
				zap.String("fastest", fastest.Label),
				zap.Float64("fastest_minutes", fastest.TotalMinutes))
		}

		dest, err := output.New(ctx, cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if err := dest.WriteSweep(ctx, series); err != nil {
			dest.Close()
			return err
		}
		return dest.Close()
	},
}

func init() {
	sweepCmd.Flags().String("start", "", "First departure of the window")
	sweepCmd.Flags().String("end", "", "Last departure of the window, inclusive")
	sweepCmd.Flags().Int("interval", 10, "Minutes between departures")
	bindFlags(sweepCmd, map[string]string{
		"sweep_start":            "start",
		"sweep_end":              "end",
		"sweep_interval_minutes": "interval",
	})
}

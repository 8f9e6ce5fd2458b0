package cmd

import (
	"fmt"
	"os"

	"github.com/oliver-reborn/ITG-Commute-Time/internal/factories"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a synthetic route CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		genCfg := factories.DefaultGenerateConfig()
		flags := cmd.Flags()
		genCfg.Segments, _ = flags.GetInt("segments")
		genCfg.Seed, _ = flags.GetInt64("seed")
		out, _ := flags.GetString("out")
		if genCfg.Segments <= 0 {
			return fmt.Errorf("--segments must be positive, got %d", genCfg.Segments)
		}

		r := factories.NewSegmentFactory(genCfg.Seed).CreateRoute(genCfg)

		w := cmd.OutOrStdout()
		if out != "" && out != "-" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("error creating %s: %w", out, err)
			}
			defer f.Close()
			w = f
		}
		if err := factories.WriteCSV(w, r); err != nil {
			return err
		}

		logger.Info("generated route", zap.Int("segments", r.Len()), zap.Int64("seed", genCfg.Seed), zap.String("out", out))
		return nil
	},
}

func init() {
	defaults := factories.DefaultGenerateConfig()
	generateCmd.Flags().Int("segments", defaults.Segments, "Number of segments")
	generateCmd.Flags().Int64("seed", defaults.Seed, "Random seed")
	generateCmd.Flags().String("out", "-", "Output CSV file, - for stdout")
}

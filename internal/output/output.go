// Package output renders and exports simulation results. It sits outside the
// simulation core; nothing here changes a result.
package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/oliver-reborn/ITG-Commute-Time/internal/cloudwriter"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/models"
)

type Destination interface {
	WriteSimulation(ctx context.Context, result models.SimulationResult) error
	WriteSweep(ctx context.Context, series models.SweepSeries) error
	Close() error
}

// New picks the destination named by config.OutputFormat. Table output goes to w.
func New(ctx context.Context, config *models.Config, w io.Writer) (Destination, error) {
	switch config.OutputFormat {
	case models.OutputFormatTable, "":
		return NewConsoleOutput(w), nil
	case models.OutputFormatJSON:
		return NewJSONOutput(config.OutputPath, config.OutputFolder), nil
	case models.OutputFormatCSV:
		return NewCSVOutput(config.OutputPath, config.OutputFolder), nil
	case models.OutputFormatParquet:
		var factory cloudwriter.CloudWriterFactory
		switch config.CloudStorage.Provider {
		case "":
		case "s3":
			f, err := cloudwriter.NewS3WriterFactory(ctx, config.CloudStorage.Region)
			if err != nil {
				return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
			}
			factory = f
		default:
			return nil, fmt.Errorf("unsupported cloud storage provider: %s", config.CloudStorage.Provider)
		}
		return NewParquetOutput(config.OutputPath, config.OutputFolder, factory, config.CloudStorage.BucketName), nil
	case models.OutputFormatKafka:
		brokers := strings.Split(config.KafkaBrokerList, ",")
		return NewKafkaOutput(brokers, config.KafkaTopic)
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedOutput, config.OutputFormat)
	}
}

package output

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/oliver-reborn/ITG-Commute-Time/internal/models"
)

const barWidth = 40

// ConsoleOutput prints a results table and a text bar chart.
type ConsoleOutput struct {
	w io.Writer
}

func NewConsoleOutput(w io.Writer) *ConsoleOutput {
	return &ConsoleOutput{w: w}
}

func (c *ConsoleOutput) WriteSimulation(_ context.Context, result models.SimulationResult) error {
	fmt.Fprintf(c.w, "Departure %s: estimated commute %.1f minutes\n\n", result.Departure, result.TotalMinutes)

	tw := tabwriter.NewWriter(c.w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tsegment_name\tdistance_km\tsimulated_speed_kph\tsimulated_duration_sec\t")
	for i, seg := range result.Segments {
		name := "-"
		if seg.Name != nil {
			name = *seg.Name
		}
		fmt.Fprintf(tw, "%d\t%s\t%.3f\t%.1f\t%.1f\t\n", i+1, name, seg.DistanceKm, seg.SpeedKph, seg.DurationSec)
	}
	return tw.Flush()
}

func (c *ConsoleOutput) WriteSweep(_ context.Context, series models.SweepSeries) error {
	var longest float64
	for _, p := range series.Points {
		longest = math.Max(longest, p.TotalMinutes)
	}

	for _, p := range series.Points {
		fmt.Fprintf(c.w, "%s | %-*s %.1f min\n", p.Label, barWidth, bar(p.TotalMinutes, longest), p.TotalMinutes)
	}

	if fastest, ok := series.Fastest(); ok {
		_, err := fmt.Fprintf(c.w, "\nFastest departure: %s (%.1f minutes)\n", fastest.Label, fastest.TotalMinutes)
		return err
	}
	return nil
}

func (c *ConsoleOutput) Close() error {
	return nil
}

func bar(v, longest float64) string {
	if longest <= 0 || v <= 0 {
		return ""
	}
	n := int(math.Round(v / longest * barWidth))
	if n < 1 {
		n = 1
	}
	return strings.Repeat("#", n)
}

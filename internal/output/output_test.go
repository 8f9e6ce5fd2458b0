package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/oliver-reborn/ITG-Commute-Time/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedExport = time.Date(2024, time.March, 5, 8, 30, 0, 0, time.UTC)

func pinRun(t *testing.T, id string) {
	t.Helper()
	prevNow, prevID := now, newRunID
	now = func() time.Time { return fixedExport }
	newRunID = func() string { return id }
	t.Cleanup(func() {
		now, newRunID = prevNow, prevID
	})
}

func sampleResult() models.SimulationResult {
	return models.SimulationResult{
		Departure: models.MustDepartureTime(8, 0),
		Segments: []models.SegmentResult{
			{Name: models.StringPtr("台中工業區聯絡道"), DistanceKm: 7.2, SpeedKph: 20, DurationSec: 1296},
			{DistanceKm: 1.5, SpeedKph: 25, DurationSec: 216},
		},
		TotalMinutes: 25.2,
	}
}

func sampleSeries() models.SweepSeries {
	return models.SweepSeries{Points: []models.SweepPoint{
		{Label: "07:00", Departure: models.MustDepartureTime(7, 0), TotalMinutes: 30},
		{Label: "07:30", Departure: models.MustDepartureTime(7, 30), TotalMinutes: 30},
		{Label: "08:30", Departure: models.MustDepartureTime(8, 30), TotalMinutes: 15},
	}}
}

func TestNew_SelectsDestination(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		format string
		want   interface{}
	}{
		{"", &ConsoleOutput{}},
		{models.OutputFormatTable, &ConsoleOutput{}},
		{models.OutputFormatJSON, &JSONOutput{}},
		{models.OutputFormatCSV, &CSVOutput{}},
		{models.OutputFormatParquet, &ParquetOutput{}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			dest, err := New(ctx, &models.Config{OutputFormat: tt.format, OutputPath: dir}, &bytes.Buffer{})
			require.NoError(t, err)
			assert.IsType(t, tt.want, dest)
			assert.NoError(t, dest.Close())
		})
	}
}

func TestNew_UnsupportedFormat(t *testing.T) {
	_, err := New(context.Background(), &models.Config{OutputFormat: "xml"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, models.ErrUnsupportedOutput)
}

func TestNew_UnsupportedCloudProvider(t *testing.T) {
	cfg := &models.Config{OutputFormat: models.OutputFormatParquet}
	cfg.CloudStorage.Provider = "ftp"
	_, err := New(context.Background(), cfg, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unsupported cloud storage provider")
}

func TestConsoleOutput_Simulation(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleOutput(&buf).WriteSimulation(context.Background(), sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "Departure 08:00: estimated commute 25.2 minutes")
	assert.Contains(t, out, "segment_name")
	assert.Contains(t, out, "台中工業區聯絡道")
	assert.Contains(t, out, "7.200")
	assert.Contains(t, out, "1296.0")
	// unnamed segments render a placeholder
	assert.Contains(t, out, " -")
}

func TestConsoleOutput_Sweep(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleOutput(&buf).WriteSweep(context.Background(), sampleSeries()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "07:00 | "+strings.Repeat("#", barWidth)))
	assert.True(t, strings.HasPrefix(lines[2], "08:30 | "+strings.Repeat("#", barWidth/2)+" "))
	assert.Equal(t, "Fastest departure: 08:30 (15.0 minutes)", lines[4])
}

func TestConsoleOutput_EmptySweep(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleOutput(&buf).WriteSweep(context.Background(), models.SweepSeries{}))
	assert.Empty(t, buf.String())
}

func TestBar(t *testing.T) {
	assert.Equal(t, "", bar(0, 10))
	assert.Equal(t, "", bar(5, 0))
	assert.Equal(t, "#", bar(0.001, 100))
	assert.Len(t, bar(10, 10), barWidth)
}

func TestRecordBuilders(t *testing.T) {
	r := run{ID: "run1", ExportedAt: fixedExport.Unix()}

	segs := segmentRecords(r, sampleResult())
	require.Len(t, segs, 2)
	assert.Equal(t, int32(0), segs[0].Position)
	assert.Equal(t, "台中工業區聯絡道", *segs[0].SegmentName)
	assert.Nil(t, segs[1].SegmentName)
	assert.Equal(t, "08:00", segs[1].Departure)
	assert.Equal(t, "", segs[1].csvRow()[4])

	total := simulationRecord(r, sampleResult())
	assert.Equal(t, int32(2), total.Segments)
	assert.Equal(t, []string{"run1", "1709627400", "08:00", "2", "25.2"}, total.csvRow())

	points := sweepRecords(r, sampleSeries())
	require.Len(t, points, 3)
	assert.Equal(t, int32(510), points[2].DepartureMinutes)
	assert.Len(t, points[0].csvRow(), len(points[0].csvHeader()))
}

func TestPartitionPath(t *testing.T) {
	assert.Equal(t, "year=2024/month=03/day=05", partitionPath(fixedExport.Unix()))
}

func TestJSONOutput_WritesNDJSON(t *testing.T) {
	pinRun(t, "run1")
	dir := t.TempDir()
	out := NewJSONOutput(dir, "exports")

	require.NoError(t, out.WriteSimulation(context.Background(), sampleResult()))
	require.NoError(t, out.WriteSweep(context.Background(), sampleSeries()))
	require.NoError(t, out.Close())

	partition := filepath.FromSlash(partitionPath(fixedExport.Unix()))

	data, err := os.ReadFile(filepath.Join(dir, "exports", KindSegments, partition, "data.json"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var first SegmentRecord
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "run1", first.RunID)
	assert.Equal(t, 7.2, first.DistanceKm)
	assert.Contains(t, lines[1], `"segmentName":null`)

	data, err = os.ReadFile(filepath.Join(dir, "exports", KindSimulations, partition, "data.json"))
	require.NoError(t, err)
	var total SimulationRecord
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &total))
	assert.Equal(t, 25.2, total.TotalMinutes)

	data, err = os.ReadFile(filepath.Join(dir, "exports", KindSweep, partition, "data.json"))
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "\n"))
}

func TestCSVOutput_HeaderWrittenOnce(t *testing.T) {
	pinRun(t, "run1")
	dir := t.TempDir()

	for i := 0; i < 2; i++ {
		out := NewCSVOutput(dir, "exports")
		require.NoError(t, out.WriteSweep(context.Background(), sampleSeries()))
		require.NoError(t, out.Close())
	}

	f, err := os.Open(filepath.Join(dir, "exports", KindSweep, filepath.FromSlash(partitionPath(fixedExport.Unix())), "data.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, SweepRecord{}.csvHeader(), rows[0])
	assert.Equal(t, []string{"run1", "1709627400", "08:30", "510", "15"}, rows[3])
}

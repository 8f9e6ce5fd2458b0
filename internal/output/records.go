package output

import (
	"fmt"
	"strconv"
	"time"

	"github.com/lucsky/cuid"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/models"
)

const (
	KindSegments    = "segment_results"
	KindSimulations = "simulation_totals"
	KindSweep       = "sweep_points"
)

// Overridden in tests.
var (
	now      = time.Now
	newRunID = cuid.New
)

// run tags every record of one export with a shared id and timestamp.
type run struct {
	ID         string
	ExportedAt int64
}

func newRun() run {
	return run{ID: newRunID(), ExportedAt: now().Unix()}
}

// SegmentRecord is one row of the per-segment results table.
type SegmentRecord struct {
	RunID       string  `json:"runId" parquet:"name=runId,type=BYTE_ARRAY,convertedtype=UTF8"`
	ExportedAt  int64   `json:"exportedAt" parquet:"name=exportedAt,type=INT64"`
	Departure   string  `json:"departure" parquet:"name=departure,type=BYTE_ARRAY,convertedtype=UTF8"`
	Position    int32   `json:"position" parquet:"name=position,type=INT32"`
	SegmentName *string `json:"segmentName" parquet:"name=segmentName,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
	DistanceKm  float64 `json:"distanceKm" parquet:"name=distanceKm,type=DOUBLE"`
	SpeedKph    float64 `json:"speedKph" parquet:"name=speedKph,type=DOUBLE"`
	DurationSec float64 `json:"durationSec" parquet:"name=durationSec,type=DOUBLE"`
}

// SimulationRecord is the aggregate of a single simulation.
type SimulationRecord struct {
	RunID        string  `json:"runId" parquet:"name=runId,type=BYTE_ARRAY,convertedtype=UTF8"`
	ExportedAt   int64   `json:"exportedAt" parquet:"name=exportedAt,type=INT64"`
	Departure    string  `json:"departure" parquet:"name=departure,type=BYTE_ARRAY,convertedtype=UTF8"`
	Segments     int32   `json:"segments" parquet:"name=segments,type=INT32"`
	TotalMinutes float64 `json:"totalMinutes" parquet:"name=totalMinutes,type=DOUBLE"`
}

// SweepRecord is one tick of a sweep.
type SweepRecord struct {
	RunID            string  `json:"runId" parquet:"name=runId,type=BYTE_ARRAY,convertedtype=UTF8"`
	ExportedAt       int64   `json:"exportedAt" parquet:"name=exportedAt,type=INT64"`
	Label            string  `json:"label" parquet:"name=label,type=BYTE_ARRAY,convertedtype=UTF8"`
	DepartureMinutes int32   `json:"departureMinutes" parquet:"name=departureMinutes,type=INT32"`
	TotalMinutes     float64 `json:"totalMinutes" parquet:"name=totalMinutes,type=DOUBLE"`
}

func segmentRecords(r run, result models.SimulationResult) []SegmentRecord {
	records := make([]SegmentRecord, len(result.Segments))
	for i, seg := range result.Segments {
		records[i] = SegmentRecord{
			RunID:       r.ID,
			ExportedAt:  r.ExportedAt,
			Departure:   result.Departure.String(),
			Position:    int32(i),
			SegmentName: seg.Name,
			DistanceKm:  seg.DistanceKm,
			SpeedKph:    seg.SpeedKph,
			DurationSec: seg.DurationSec,
		}
	}
	return records
}

func simulationRecord(r run, result models.SimulationResult) SimulationRecord {
	return SimulationRecord{
		RunID:        r.ID,
		ExportedAt:   r.ExportedAt,
		Departure:    result.Departure.String(),
		Segments:     int32(len(result.Segments)),
		TotalMinutes: result.TotalMinutes,
	}
}

func sweepRecords(r run, series models.SweepSeries) []SweepRecord {
	records := make([]SweepRecord, len(series.Points))
	for i, p := range series.Points {
		records[i] = SweepRecord{
			RunID:            r.ID,
			ExportedAt:       r.ExportedAt,
			Label:            p.Label,
			DepartureMinutes: int32(p.Departure.Minutes()),
			TotalMinutes:     p.TotalMinutes,
		}
	}
	return records
}

func (r SegmentRecord) csvHeader() []string {
	return []string{"runId", "exportedAt", "departure", "position", "segmentName", "distanceKm", "speedKph", "durationSec"}
}

func (r SegmentRecord) csvRow() []string {
	name := ""
	if r.SegmentName != nil {
		name = *r.SegmentName
	}
	return []string{
		r.RunID,
		strconv.FormatInt(r.ExportedAt, 10),
		r.Departure,
		strconv.Itoa(int(r.Position)),
		name,
		formatFloat(r.DistanceKm),
		formatFloat(r.SpeedKph),
		formatFloat(r.DurationSec),
	}
}

func (r SimulationRecord) csvHeader() []string {
	return []string{"runId", "exportedAt", "departure", "segments", "totalMinutes"}
}

func (r SimulationRecord) csvRow() []string {
	return []string{
		r.RunID,
		strconv.FormatInt(r.ExportedAt, 10),
		r.Departure,
		strconv.Itoa(int(r.Segments)),
		formatFloat(r.TotalMinutes),
	}
}

func (r SweepRecord) csvHeader() []string {
	return []string{"runId", "exportedAt", "label", "departureMinutes", "totalMinutes"}
}

func (r SweepRecord) csvRow() []string {
	return []string{
		r.RunID,
		strconv.FormatInt(r.ExportedAt, 10),
		r.Label,
		strconv.Itoa(int(r.DepartureMinutes)),
		formatFloat(r.TotalMinutes),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// partitionPath mirrors the year/month/day layout used for exported files.
func partitionPath(exportedAt int64) string {
	year, month, day := time.Unix(exportedAt, 0).UTC().Date()
	return fmt.Sprintf("year=%d/month=%02d/day=%02d", year, month, day)
}

package simulator

import (
	"fmt"
	"math"

	"github.com/oliver-reborn/ITG-Commute-Time/internal/geo"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/models"
)

// Simulator estimates commute durations over a route. It holds no per-call
// state; the same Simulator may serve concurrent calls.
type Simulator struct {
	Speed     SpeedModel
	Distances *geo.Calculator
}

func New(speed SpeedModel, distances *geo.Calculator) *Simulator {
	if distances == nil {
		distances = geo.NewCalculator(false)
	}
	return &Simulator{Speed: speed, Distances: distances}
}

func NewSimulator(config *models.Config) (*Simulator, error) {
	speed, err := NewSpeedModel(config)
	if err != nil {
		return nil, err
	}
	return New(speed, geo.NewCalculator(config.MemoizeDistances)), nil
}

// Simulate computes per-segment distance, speed and duration for a departure
// at t, in route order, and the total in minutes.
func (s *Simulator) Simulate(route models.Route, t models.DepartureTime) (models.SimulationResult, error) {
	if route.Len() == 0 {
		return models.SimulationResult{}, fmt.Errorf("%w: empty route", models.ErrSimulation)
	}

	result := models.SimulationResult{
		Departure: t,
		Segments:  make([]models.SegmentResult, 0, route.Len()),
	}

	var totalSec float64
	for i, seg := range route.Segments {
		row, err := s.simulateSegment(seg, t)
		if err != nil {
			return models.SimulationResult{}, fmt.Errorf("segment %d (%q): %w", i, seg.DisplayName(), err)
		}
		result.Segments = append(result.Segments, row)
		totalSec += row.DurationSec
	}

	result.TotalMinutes = totalSec / 60
	return result, nil
}

func (s *Simulator) simulateSegment(seg models.Segment, t models.DepartureTime) (models.SegmentResult, error) {
	km, err := s.Distances.SegmentDistance(seg)
	if err != nil {
		return models.SegmentResult{}, fmt.Errorf("%w: %w", models.ErrSimulation, err)
	}
	if math.IsNaN(km) || math.IsInf(km, 0) {
		return models.SegmentResult{}, fmt.Errorf("%w: non-finite distance %g", models.ErrSimulation, km)
	}

	kph := s.Speed.Speed(seg.Name, t)
	if !positiveFinite(kph) {
		return models.SegmentResult{}, fmt.Errorf("%w: speed %g km/h", models.ErrSimulation, kph)
	}

	return models.SegmentResult{
		Name:        seg.Name,
		DistanceKm:  km,
		SpeedKph:    kph,
		DurationSec: km / kph * 3600,
	}, nil
}

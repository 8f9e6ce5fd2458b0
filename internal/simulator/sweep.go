package simulator

import (
	"fmt"

	"github.com/oliver-reborn/ITG-Commute-Time/internal/models"
)

// Ticks lists departure times from start to end inclusive, intervalMinutes apart.
func Ticks(start, end models.DepartureTime, intervalMinutes int) ([]models.DepartureTime, error) {
	if intervalMinutes <= 0 {
		return nil, fmt.Errorf("%w: interval must be positive, got %d", models.ErrInvalidRange, intervalMinutes)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %s is before start %s", models.ErrInvalidRange, end, start)
	}

	n := (end.Minutes()-start.Minutes())/intervalMinutes + 1
	ticks := make([]models.DepartureTime, n)
	for k := range ticks {
		ticks[k] = start.Add(k * intervalMinutes)
	}
	return ticks, nil
}

// Sweep simulates every tick between start and end and returns the totals.
func (s *Simulator) Sweep(route models.Route, start, end models.DepartureTime, intervalMinutes int) (models.SweepSeries, error) {
	return s.SweepFunc(route, start, end, intervalMinutes, nil)
}

// SweepFunc is Sweep with a callback invoked after each tick.
func (s *Simulator) SweepFunc(route models.Route, start, end models.DepartureTime, intervalMinutes int, fn func(models.SweepPoint)) (models.SweepSeries, error) {
	ticks, err := Ticks(start, end, intervalMinutes)
	if err != nil {
		return models.SweepSeries{}, err
	}

	series := models.SweepSeries{Points: make([]models.SweepPoint, 0, len(ticks))}
	for _, tick := range ticks {
		result, err := s.Simulate(route, tick)
		if err != nil {
			return models.SweepSeries{}, fmt.Errorf("sweep at %s: %w", tick, err)
		}
		point := models.SweepPoint{
			Label:        tick.String(),
			Departure:    tick,
			TotalMinutes: result.TotalMinutes,
		}
		series.Points = append(series.Points, point)
		if fn != nil {
			fn(point)
		}
	}
	return series, nil
}

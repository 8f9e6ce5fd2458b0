package simulator

import (
	"testing"

	"github.com/oliver-reborn/ITG-Commute-Time/internal/geo"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep_MorningTicks(t *testing.T) {
	sim := New(DefaultSpeedModel(), nil)
	series, err := sim.Sweep(industrialRoute(), models.MustDepartureTime(7, 0), models.MustDepartureTime(9, 0), 10)
	require.NoError(t, err)

	require.Equal(t, 13, series.Len())
	assert.Equal(t, "07:00", series.Points[0].Label)
	assert.Equal(t, "09:00", series.Points[12].Label)

	for i := 1; i < series.Len(); i++ {
		assert.True(t, series.Points[i-1].Departure.Before(series.Points[i].Departure))
	}
}

func TestSweep_MatchesSimulate(t *testing.T) {
	sim := New(DefaultSpeedModel(), geo.NewCalculator(true))
	route := industrialRoute()
	series, err := sim.Sweep(route, models.MustDepartureTime(8, 0), models.MustDepartureTime(9, 0), 15)
	require.NoError(t, err)

	for _, p := range series.Points {
		single, err := sim.Simulate(route, p.Departure)
		require.NoError(t, err)
		assert.Equal(t, single.TotalMinutes, p.TotalMinutes, p.Label)
	}
	// 08:00 and 08:15 are inside the morning peak, 08:30 onwards is not
	assert.InDelta(t, series.Points[0].TotalMinutes/2, series.Points[2].TotalMinutes, 1e-9)
}

func TestTicks_Count(t *testing.T) {
	tests := []struct {
		start, end models.DepartureTime
		interval   int
		want       int
		last       string
	}{
		{models.MustDepartureTime(7, 0), models.MustDepartureTime(9, 0), 10, 13, "09:00"},
		{models.MustDepartureTime(7, 0), models.MustDepartureTime(9, 5), 10, 13, "09:00"},
		{models.MustDepartureTime(7, 0), models.MustDepartureTime(7, 0), 5, 1, "07:00"},
		{models.MustDepartureTime(0, 0), models.MustDepartureTime(23, 59), 60, 24, "23:00"},
		{models.MustDepartureTime(6, 30), models.MustDepartureTime(6, 45), 20, 1, "06:30"},
	}
	for _, tt := range tests {
		ticks, err := Ticks(tt.start, tt.end, tt.interval)
		require.NoError(t, err)
		assert.Len(t, ticks, tt.want)
		assert.Equal(t, tt.last, ticks[len(ticks)-1].String())
	}
}

func TestSweep_InvalidRange(t *testing.T) {
	sim := New(DefaultSpeedModel(), nil)
	route := industrialRoute()

	_, err := sim.Sweep(route, models.MustDepartureTime(9, 0), models.MustDepartureTime(7, 0), 10)
	assert.ErrorIs(t, err, models.ErrInvalidRange)

	_, err = sim.Sweep(route, models.MustDepartureTime(7, 0), models.MustDepartureTime(9, 0), 0)
	assert.ErrorIs(t, err, models.ErrInvalidRange)

	_, err = sim.Sweep(route, models.MustDepartureTime(7, 0), models.MustDepartureTime(9, 0), -5)
	assert.ErrorIs(t, err, models.ErrInvalidRange)
}

func TestSweep_EmptyRoute(t *testing.T) {
	sim := New(DefaultSpeedModel(), nil)
	_, err := sim.Sweep(models.Route{}, models.MustDepartureTime(7, 0), models.MustDepartureTime(8, 0), 30)
	assert.ErrorIs(t, err, models.ErrSimulation)
}

func TestSweepFunc_Callback(t *testing.T) {
	sim := New(DefaultSpeedModel(), nil)
	var labels []string
	series, err := sim.SweepFunc(industrialRoute(), models.MustDepartureTime(17, 0), models.MustDepartureTime(18, 0), 30,
		func(p models.SweepPoint) { labels = append(labels, p.Label) })
	require.NoError(t, err)
	assert.Equal(t, []string{"17:00", "17:30", "18:00"}, labels)
	assert.Equal(t, 3, series.Len())
}

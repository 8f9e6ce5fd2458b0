package factories

import (
	"bytes"
	"testing"

	"github.com/oliver-reborn/ITG-Commute-Time/internal/geo"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoute_Chained(t *testing.T) {
	cfg := DefaultGenerateConfig()
	r := NewSegmentFactory(cfg.Seed).CreateRoute(cfg)
	require.Equal(t, cfg.Segments, r.Len())

	assert.Equal(t, cfg.CityLon, r.Segments[0].Coords[0].Lon)
	assert.Equal(t, cfg.CityLat, r.Segments[0].Coords[0].Lat)
	for i, seg := range r.Segments {
		assert.NotEmpty(t, seg.ID)
		if i > 0 {
			assert.Equal(t, r.Segments[i-1].Coords[1], seg.Coords[0])
		}
		km, err := geo.SegmentDistance(seg)
		require.NoError(t, err)
		assert.InDelta(t, (cfg.MinStepKm+cfg.MaxStepKm)/2, km, (cfg.MaxStepKm-cfg.MinStepKm)/2+0.05)
	}
}

func TestCreateRoute_SeedIsReproducible(t *testing.T) {
	cfg := DefaultGenerateConfig()
	a := NewSegmentFactory(7).CreateRoute(cfg)
	b := NewSegmentFactory(7).CreateRoute(cfg)
	for i := range a.Segments {
		assert.Equal(t, a.Segments[i].Coords, b.Segments[i].Coords)
		assert.Equal(t, a.Segments[i].Name, b.Segments[i].Name)
	}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	cfg := DefaultGenerateConfig()
	cfg.Segments = 25
	want := NewSegmentFactory(3).CreateRoute(cfg)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, want))

	got, err := route.ParseCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

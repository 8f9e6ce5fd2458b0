// Package geo computes distances between route points on the WGS-84 ellipsoid.
package geo

import (
	"fmt"
	"math"
	"sync"

	"github.com/oliver-reborn/ITG-Commute-Time/internal/models"
	"github.com/tidwall/geodesic"
)

// ValidateLocation rejects non-finite or out-of-range degree values.
func ValidateLocation(l models.Location) error {
	if math.IsNaN(l.Lon) || math.IsInf(l.Lon, 0) || math.IsNaN(l.Lat) || math.IsInf(l.Lat, 0) {
		return fmt.Errorf("%w: %s is not finite", models.ErrInvalidCoordinate, l)
	}
	if l.Lon < -180 || l.Lon > 180 {
		return fmt.Errorf("%w: longitude %g outside [-180, 180]", models.ErrInvalidCoordinate, l.Lon)
	}
	if l.Lat < -90 || l.Lat > 90 {
		return fmt.Errorf("%w: latitude %g outside [-90, 90]", models.ErrInvalidCoordinate, l.Lat)
	}
	return nil
}

// Distance returns the geodesic distance in kilometres between a and b.
// Points are (lon, lat); the ellipsoid solver takes (lat, lon).
func Distance(a, b models.Location) (float64, error) {
	if err := ValidateLocation(a); err != nil {
		return 0, err
	}
	if err := ValidateLocation(b); err != nil {
		return 0, err
	}

	if a == b {
		return 0, nil
	}

	var meters float64
	geodesic.WGS84.Inverse(a.Lat, a.Lon, b.Lat, b.Lon, &meters, nil, nil)
	return meters / 1000, nil
}

// SegmentDistance returns the length of seg in kilometres.
func SegmentDistance(seg models.Segment) (float64, error) {
	return Distance(seg.Coords[0], seg.Coords[1])
}

// Calculator computes segment distances, optionally remembering them.
// Distances do not depend on departure time, so a sweep can reuse them.
type Calculator struct {
	memoize bool
	mu      sync.RWMutex
	cache   map[[2]models.Location]float64
}

func NewCalculator(memoize bool) *Calculator {
	return &Calculator{
		memoize: memoize,
		cache:   make(map[[2]models.Location]float64),
	}
}

func (c *Calculator) SegmentDistance(seg models.Segment) (float64, error) {
	if !c.memoize {
		return SegmentDistance(seg)
	}

	c.mu.RLock()
	km, ok := c.cache[seg.Coords]
	c.mu.RUnlock()
	if ok {
		return km, nil
	}

	km, err := SegmentDistance(seg)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.cache[seg.Coords] = km
	c.mu.Unlock()
	return km, nil
}

// Cached returns the number of remembered segment distances.
func (c *Calculator) Cached() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

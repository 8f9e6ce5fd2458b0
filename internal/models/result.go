package models

type SegmentResult struct {
	Name        *string `json:"segment_name"`
	DistanceKm  float64 `json:"distance_km"`
	SpeedKph    float64 `json:"simulated_speed_kph"`
	DurationSec float64 `json:"simulated_duration_sec"`
}

// SimulationResult is the outcome of one departure time over a route.
type SimulationResult struct {
	Departure    DepartureTime   `json:"departure"`
	Segments     []SegmentResult `json:"segments"`
	TotalMinutes float64         `json:"total_minutes"`
}

type SweepPoint struct {
	Label        string        `json:"label"`
	Departure    DepartureTime `json:"departure"`
	TotalMinutes float64       `json:"total_minutes"`
}

// SweepSeries holds one point per tick, ascending by departure time.
type SweepSeries struct {
	Points []SweepPoint `json:"points"`
}

func (s SweepSeries) Len() int { return len(s.Points) }

// Fastest returns the point with the lowest total. ok is false for an empty series.
func (s SweepSeries) Fastest() (p SweepPoint, ok bool) {
	for i, pt := range s.Points {
		if i == 0 || pt.TotalMinutes < p.TotalMinutes {
			p = pt
		}
	}
	return p, len(s.Points) > 0
}

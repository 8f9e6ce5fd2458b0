package simulator

import (
	"fmt"
	"math"
	"strings"

	"github.com/oliver-reborn/ITG-Commute-Time/internal/models"
)

// SpeedModel assigns a travel speed to a segment from its name and the
// departure time. Rules are checked in order; the first whose pattern occurs
// in the name sets the base speed. Inside a peak window the base speed is
// scaled by PeakFactor.
type SpeedModel struct {
	Rules        []models.SpeedRule
	DefaultSpeed float64
	PeakWindows  []models.PeakWindow
	PeakFactor   float64
}

func DefaultSpeedModel() SpeedModel {
	return SpeedModel{
		Rules:        models.DefaultSpeedRules(),
		DefaultSpeed: models.DefaultSpeedKph,
		PeakWindows:  models.DefaultPeakWindows(),
		PeakFactor:   models.DefaultPeakFactor,
	}
}

func NewSpeedModel(config *models.Config) (SpeedModel, error) {
	m := SpeedModel{
		Rules:        config.SpeedRules,
		DefaultSpeed: config.DefaultSpeedKph,
		PeakWindows:  config.PeakWindows,
		PeakFactor:   config.PeakFactor,
	}
	if err := m.Validate(); err != nil {
		return SpeedModel{}, err
	}
	return m, nil
}

func (m SpeedModel) Validate() error {
	if !positiveFinite(m.DefaultSpeed) {
		return fmt.Errorf("%w: default speed %g", models.ErrInvalidSpeedModel, m.DefaultSpeed)
	}
	for i, r := range m.Rules {
		if !positiveFinite(r.BaseKph) {
			return fmt.Errorf("%w: rule %d has base speed %g", models.ErrInvalidSpeedModel, i, r.BaseKph)
		}
		if len(r.Patterns) == 0 {
			return fmt.Errorf("%w: rule %d has no patterns", models.ErrInvalidSpeedModel, i)
		}
		for _, p := range r.Patterns {
			if p == "" {
				return fmt.Errorf("%w: rule %d has an empty pattern", models.ErrInvalidSpeedModel, i)
			}
		}
	}
	if !(m.PeakFactor > 0 && m.PeakFactor <= 1) {
		return fmt.Errorf("%w: peak factor %g outside (0, 1]", models.ErrInvalidSpeedModel, m.PeakFactor)
	}
	for i, w := range m.PeakWindows {
		if w.Start < 0 || w.End > 24 || w.Start >= w.End {
			return fmt.Errorf("%w: peak window %d [%g, %g)", models.ErrInvalidSpeedModel, i, w.Start, w.End)
		}
	}
	return nil
}

// BaseSpeed classifies a segment name. An absent name gets the default.
func (m SpeedModel) BaseSpeed(name *string) float64 {
	if name == nil {
		return m.DefaultSpeed
	}
	for _, rule := range m.Rules {
		for _, pattern := range rule.Patterns {
			if strings.Contains(*name, pattern) {
				return rule.BaseKph
			}
		}
	}
	return m.DefaultSpeed
}

func (m SpeedModel) IsPeak(t models.DepartureTime) bool {
	hour := t.DecimalHour()
	for _, w := range m.PeakWindows {
		if w.Start <= hour && hour < w.End {
			return true
		}
	}
	return false
}

// Speed returns the simulated speed in km/h.
func (m SpeedModel) Speed(name *string, t models.DepartureTime) float64 {
	base := m.BaseSpeed(name)
	if m.IsPeak(t) {
		return base * m.PeakFactor
	}
	return base
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

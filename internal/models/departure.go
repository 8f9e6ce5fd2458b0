package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DepartureTime is a time of day. Only hour and minute matter to the speed model.
type DepartureTime struct {
	Hour   int
	Minute int
}

var strictClock = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// Layouts tried after the strict HH:MM form fails, in order.
var tolerantLayouts = []string{
	"15:04:05",
	"3:04PM",
	"3:04 PM",
	"3:04pm",
	"3:04 pm",
	"3PM",
	"3 PM",
	"3pm",
	"3 pm",
	"15h04",
	"1504",
}

func NewDepartureTime(hour, minute int) (DepartureTime, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return DepartureTime{}, fmt.Errorf("%w: %02d:%02d out of range", ErrTimeParse, hour, minute)
	}
	return DepartureTime{Hour: hour, Minute: minute}, nil
}

// MustDepartureTime panics on an out-of-range value. Intended for constants and tests.
func MustDepartureTime(hour, minute int) DepartureTime {
	t, err := NewDepartureTime(hour, minute)
	if err != nil {
		panic(err)
	}
	return t
}

func FromTime(t time.Time) DepartureTime {
	return DepartureTime{Hour: t.Hour(), Minute: t.Minute()}
}

// ParseDepartureTime accepts strict 24-hour HH:MM first, then a small set of
// looser clock formats (seconds, AM/PM, "15h30", "1530").
func ParseDepartureTime(s string) (DepartureTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DepartureTime{}, fmt.Errorf("%w: empty input", ErrTimeParse)
	}

	if m := strictClock.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if t, err := NewDepartureTime(hour, minute); err == nil {
			return t, nil
		}
		return DepartureTime{}, fmt.Errorf("%w: %q", ErrTimeParse, s)
	}

	for _, candidate := range []string{s, strings.ToUpper(s)} {
		for _, layout := range tolerantLayouts {
			if t, err := time.Parse(layout, candidate); err == nil {
				return FromTime(t), nil
			}
		}
	}

	return DepartureTime{}, fmt.Errorf("%w: %q (expected HH:MM, e.g. 07:30)", ErrTimeParse, s)
}

// DecimalHour returns hour + minute/60.
func (t DepartureTime) DecimalHour() float64 {
	return float64(t.Hour) + float64(t.Minute)/60
}

// Minutes returns minutes since midnight.
func (t DepartureTime) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Add returns t shifted by the given minutes. It does not wrap at midnight.
func (t DepartureTime) Add(minutes int) DepartureTime {
	m := t.Minutes() + minutes
	return DepartureTime{Hour: m / 60, Minute: m % 60}
}

func (t DepartureTime) Before(o DepartureTime) bool {
	return t.Minutes() < o.Minutes()
}

func (t DepartureTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t DepartureTime) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *DepartureTime) UnmarshalText(b []byte) error {
	parsed, err := ParseDepartureTime(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

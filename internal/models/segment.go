package models

// Segment is one leg of the commute route. Coords[0] is the start, Coords[1] the end.
type Segment struct {
	ID     string      `json:"id,omitempty"`
	Name   *string     `json:"name"`
	Coords [2]Location `json:"coords"`
}

// DisplayName returns the segment name, or "" when it is absent.
func (s Segment) DisplayName() string {
	if s.Name == nil {
		return ""
	}
	return *s.Name
}

// Route is an ordered list of segments. It is not mutated after loading.
type Route struct {
	Segments []Segment `json:"segments"`
}

func (r Route) Len() int { return len(r.Segments) }

// StringPtr returns nil for an empty name.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

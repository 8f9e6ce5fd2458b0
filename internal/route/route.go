// Package route loads the commute route from its configured source.
package route

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/oliver-reborn/ITG-Commute-Time/internal/geo"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/models"
)

// trailingComma matches a comma left before a closing bracket, as in "((1, 2), (3, 4),)".
var trailingComma = regexp.MustCompile(`,\s*\]`)

const (
	ColumnID     = "segment_id"
	ColumnName   = "segment_name"
	ColumnCoords = "segment_coords"
)

// Source is satisfied by the Postgres route repository.
type Source interface {
	GetAll(ctx context.Context) ([]models.Segment, error)
}

// Load returns the route from the source named in config. repo is only
// consulted for the postgres source.
func Load(ctx context.Context, config *models.Config, repo Source) (models.Route, error) {
	switch config.RouteSource {
	case models.RouteSourceCSV:
		return LoadCSV(config.RouteFile)
	case models.RouteSourcePostgres:
		if repo == nil {
			return models.Route{}, fmt.Errorf("%w: no route repository configured", models.ErrRouteLoad)
		}
		segments, err := repo.GetAll(ctx)
		if err != nil {
			return models.Route{}, fmt.Errorf("%w: %w", models.ErrRouteLoad, err)
		}
		return FromSegments(segments)
	default:
		return models.Route{}, fmt.Errorf("%w: unknown route source %q", models.ErrRouteLoad, config.RouteSource)
	}
}

// FromSegments validates segments from a non-CSV source.
func FromSegments(segments []models.Segment) (models.Route, error) {
	if len(segments) == 0 {
		return models.Route{}, fmt.Errorf("%w: route has no segments", models.ErrRouteLoad)
	}
	out := make([]models.Segment, len(segments))
	for i, seg := range segments {
		for _, p := range seg.Coords {
			if err := geo.ValidateLocation(p); err != nil {
				return models.Route{}, fmt.Errorf("%w: segment %d: %w", models.ErrRouteLoad, i, err)
			}
		}
		out[i] = seg
	}
	return models.Route{Segments: out}, nil
}

func LoadCSV(path string) (models.Route, error) {
	file, err := os.Open(path)
	if err != nil {
		return models.Route{}, fmt.Errorf("%w: %w", models.ErrRouteLoad, err)
	}
	defer file.Close()

	route, err := ParseCSV(file)
	if err != nil {
		return models.Route{}, fmt.Errorf("%s: %w", path, err)
	}
	return route, nil
}

// ParseCSV reads a headered CSV with at least segment_name and segment_coords.
func ParseCSV(r io.Reader) (models.Route, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return models.Route{}, fmt.Errorf("%w: empty file", models.ErrRouteLoad)
	}
	if err != nil {
		return models.Route{}, fmt.Errorf("%w: reading header: %w", models.ErrRouteLoad, err)
	}

	cols := indexColumns(header)
	nameCol, ok := cols[ColumnName]
	if !ok {
		return models.Route{}, fmt.Errorf("%w: missing column %q", models.ErrRouteLoad, ColumnName)
	}
	coordsCol, ok := cols[ColumnCoords]
	if !ok {
		return models.Route{}, fmt.Errorf("%w: missing column %q", models.ErrRouteLoad, ColumnCoords)
	}
	idCol, hasID := cols[ColumnID]

	var segments []models.Segment
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.Route{}, fmt.Errorf("%w: %w", models.ErrRouteLoad, err)
		}
		line, _ := reader.FieldPos(0)
		if len(fields) <= nameCol || len(fields) <= coordsCol {
			return models.Route{}, fmt.Errorf("%w: line %d: expected at least %d fields, got %d",
				models.ErrRouteLoad, line, max(nameCol, coordsCol)+1, len(fields))
		}

		coords, err := ParseCoords(fields[coordsCol])
		if err != nil {
			return models.Route{}, fmt.Errorf("line %d: %w", line, err)
		}

		seg := models.Segment{
			Name:   models.StringPtr(fields[nameCol]),
			Coords: coords,
		}
		if hasID && len(fields) > idCol {
			seg.ID = strings.TrimSpace(fields[idCol])
		}
		segments = append(segments, seg)
	}

	if len(segments) == 0 {
		return models.Route{}, fmt.Errorf("%w: no segments", models.ErrRouteLoad)
	}
	return models.Route{Segments: segments}, nil
}

// ParseCoords decodes "[[lon, lat], [lon, lat]]". Tuple spellings such as
// "((lon, lat), (lon, lat))" are accepted too, with or without trailing commas. Anything other than exactly two
// valid numeric pairs is rejected.
func ParseCoords(s string) ([2]models.Location, error) {
	var out [2]models.Location

	normalized := strings.NewReplacer("(", "[", ")", "]").Replace(strings.TrimSpace(s))
	normalized = trailingComma.ReplaceAllString(normalized, "]")
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(normalized), &raw); err != nil {
		return out, fmt.Errorf("%w: coords %q: %v", models.ErrRouteLoad, s, err)
	}
	if len(raw) != 2 {
		return out, fmt.Errorf("%w: coords %q: expected 2 points, got %d", models.ErrRouteLoad, s, len(raw))
	}

	for i, r := range raw {
		var pair []float64
		if err := json.Unmarshal(r, &pair); err != nil {
			return out, fmt.Errorf("%w: coords %q: point %d: %v", models.ErrRouteLoad, s, i, err)
		}
		if len(pair) != 2 {
			return out, fmt.Errorf("%w: coords %q: point %d has %d values", models.ErrRouteLoad, s, i, len(pair))
		}
		loc := models.Location{Lon: pair[0], Lat: pair[1]}
		if err := geo.ValidateLocation(loc); err != nil {
			return out, fmt.Errorf("%w: coords %q: %w", models.ErrRouteLoad, s, err)
		}
		out[i] = loc
	}
	return out, nil
}

// DistanceOf returns the segment length in kilometres.
func DistanceOf(seg models.Segment) (float64, error) {
	return geo.SegmentDistance(seg)
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, seen := cols[h]; !seen {
			cols[h] = i
		}
	}
	return cols
}

package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Location is a (longitude, latitude) pair in degrees.
type Location struct {
	Lon float64 `json:"lon" parquet:"name=lon,type=DOUBLE"`
	Lat float64 `json:"lat" parquet:"name=lat,type=DOUBLE"`
}

func (l Location) String() string {
	return fmt.Sprintf("(%g, %g)", l.Lon, l.Lat)
}

// Scan reads the WKT point PostGIS returns for ST_AsText(geom), "POINT(lon lat)".
// A NULL column leaves l unchanged.
func (l *Location) Scan(value interface{}) error {
	var wkt string
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		wkt = string(v)
	case string:
		wkt = v
	default:
		return fmt.Errorf("unsupported type for Location: %T", value)
	}

	body, ok := strings.CutPrefix(strings.TrimSpace(wkt), "POINT")
	body = strings.TrimSpace(body)
	if !ok || !strings.HasPrefix(body, "(") || !strings.HasSuffix(body, ")") {
		return fmt.Errorf("%w: not a WKT point: %q", ErrRouteLoad, wkt)
	}
	fields := strings.Fields(body[1 : len(body)-1])
	if len(fields) != 2 {
		return fmt.Errorf("%w: WKT point %q needs exactly lon and lat", ErrRouteLoad, wkt)
	}

	lon, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return fmt.Errorf("%w: WKT point %q: %w", ErrRouteLoad, wkt, err)
	}
	lat, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return fmt.Errorf("%w: WKT point %q: %w", ErrRouteLoad, wkt, err)
	}
	*l = Location{Lon: lon, Lat: lat}
	return nil
}

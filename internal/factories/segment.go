package factories

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/models"
)

const kmPerDegreeLat = 111.32

var (
	roadMarkers  = []string{"台中工業區", "向上路", "文心路", "福田路", "建國路", "中港路", "五權路", "忠明路", "台灣大道"}
	roadSuffixes = []string{"一段", "二段", "三段", "聯絡道", ""}
)

type GenerateConfig struct {
	Segments  int
	Seed      int64
	CityLon   float64
	CityLat   float64
	MinStepKm float64
	MaxStepKm float64
}

func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		Segments:  12,
		Seed:      42,
		CityLon:   models.DefaultCityLon,
		CityLat:   models.DefaultCityLat,
		MinStepKm: 0.3,
		MaxStepKm: 2.5,
	}
}

// SegmentFactory builds synthetic routes for demos. Segments are chained, so
// each one starts where the previous ended.
type SegmentFactory struct {
	fake faker.Faker
}

func NewSegmentFactory(seed int64) *SegmentFactory {
	return &SegmentFactory{fake: faker.NewWithSeed(rand.NewSource(seed))}
}

func (sf *SegmentFactory) CreateRoute(config GenerateConfig) models.Route {
	segments := make([]models.Segment, 0, config.Segments)
	current := models.Location{Lon: config.CityLon, Lat: config.CityLat}
	for i := 0; i < config.Segments; i++ {
		next := sf.step(current, config)
		segments = append(segments, models.Segment{
			ID:     cuid.New(),
			Name:   sf.roadName(),
			Coords: [2]models.Location{current, next},
		})
		current = next
	}
	return models.Route{Segments: segments}
}

func (sf *SegmentFactory) roadName() *string {
	// roughly one segment in twenty has no name, like unnamed service roads in the source data
	if sf.fake.IntBetween(0, 19) == 0 {
		return nil
	}
	marker := sf.fake.RandomStringElement(roadMarkers)
	suffix := sf.fake.RandomStringElement(roadSuffixes)
	return models.StringPtr(marker + suffix)
}

func (sf *SegmentFactory) step(from models.Location, config GenerateConfig) models.Location {
	km := config.MinStepKm + sf.fake.Float64(4, 0, 1)*(config.MaxStepKm-config.MinStepKm)
	heading := sf.fake.Float64(4, 0, 360) * math.Pi / 180

	dLat := km * math.Cos(heading) / kmPerDegreeLat
	dLon := km * math.Sin(heading) / (kmPerDegreeLat * math.Cos(from.Lat*math.Pi/180))

	return models.Location{
		Lon: roundTo(from.Lon+dLon, 6),
		Lat: roundTo(from.Lat+dLat, 6),
	}
}

// WriteCSV writes route in the format route.ParseCSV reads.
func WriteCSV(w io.Writer, route models.Route) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"segment_id", "segment_name", "segment_coords"}); err != nil {
		return err
	}
	for i, seg := range route.Segments {
		coords, err := json.Marshal([2][2]float64{
			{seg.Coords[0].Lon, seg.Coords[0].Lat},
			{seg.Coords[1].Lon, seg.Coords[1].Lat},
		})
		if err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
		if err := writer.Write([]string{seg.ID, seg.DisplayName(), string(coords)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

package models

const (
	RouteSourceCSV      = "csv"
	RouteSourcePostgres = "postgres"

	OutputFormatTable   = "table"
	OutputFormatJSON    = "json"
	OutputFormatCSV     = "csv"
	OutputFormatParquet = "parquet"
	OutputFormatKafka   = "kafka"

	DefaultSpeedKph   = 50.0
	DefaultPeakFactor = 0.5

	// Taichung, where the reference route lives.
	DefaultCityLon = 120.65
	DefaultCityLat = 24.15
)

// SpeedRule assigns BaseKph to any segment whose name contains one of Patterns.
type SpeedRule struct {
	Patterns []string `mapstructure:"patterns" json:"patterns"`
	BaseKph  float64  `mapstructure:"base_kph" json:"base_kph"`
}

// PeakWindow is the half-open decimal-hour interval [Start, End).
type PeakWindow struct {
	Start float64 `mapstructure:"start" json:"start"`
	End   float64 `mapstructure:"end" json:"end"`
}

// DefaultSpeedRules is evaluated first match wins.
// 向上/文心 has been seen at both 50 and 60 kph; 50 is the shipped value.
func DefaultSpeedRules() []SpeedRule {
	return []SpeedRule{
		{Patterns: []string{"工業區"}, BaseKph: 40},
		{Patterns: []string{"向上", "文心"}, BaseKph: 50},
		{Patterns: []string{"福田", "建國"}, BaseKph: 50},
	}
}

func DefaultPeakWindows() []PeakWindow {
	return []PeakWindow{
		{Start: 7.0, End: 8.5},
		{Start: 17.0, End: 19.0},
	}
}

package models

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

type Config struct {
	Environment string `mapstructure:"environment"`

	RouteSource string `mapstructure:"route_source"`
	RouteFile   string `mapstructure:"route_file"`
	DatabaseURL string `mapstructure:"database_url"`

	Departure            DepartureTime `mapstructure:"departure"`
	SweepStart           DepartureTime `mapstructure:"sweep_start"`
	SweepEnd             DepartureTime `mapstructure:"sweep_end"`
	SweepIntervalMinutes int           `mapstructure:"sweep_interval_minutes"`

	SpeedRules       []SpeedRule  `mapstructure:"speed_rules"`
	DefaultSpeedKph  float64      `mapstructure:"default_speed_kph"`
	PeakWindows      []PeakWindow `mapstructure:"peak_windows"`
	PeakFactor       float64      `mapstructure:"peak_factor"`
	MemoizeDistances bool         `mapstructure:"memoize_distances"`

	OutputFormat    string             `mapstructure:"output_format"`
	OutputPath      string             `mapstructure:"output_path"`
	OutputFolder    string             `mapstructure:"output_folder"`
	KafkaBrokerList string             `mapstructure:"kafka_broker_list"`
	KafkaTopic      string             `mapstructure:"kafka_topic"`
	CloudStorage    CloudStorageConfig `mapstructure:"cloud_storage"`
}

// SetDefaults registers the defaults on v so the tool runs without a config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("route_source", RouteSourceCSV)
	v.SetDefault("route_file", "route_segments_with_real_names.csv")
	v.SetDefault("departure", "08:00")
	v.SetDefault("sweep_start", "07:00")
	v.SetDefault("sweep_end", "09:00")
	v.SetDefault("sweep_interval_minutes", 10)
	v.SetDefault("speed_rules", speedRulesToMaps(DefaultSpeedRules()))
	v.SetDefault("default_speed_kph", DefaultSpeedKph)
	v.SetDefault("peak_windows", peakWindowsToMaps(DefaultPeakWindows()))
	v.SetDefault("peak_factor", DefaultPeakFactor)
	v.SetDefault("memoize_distances", true)
	v.SetDefault("output_format", OutputFormatTable)
	v.SetDefault("output_path", "output")
	v.SetDefault("output_folder", "commutesim")
	v.SetDefault("kafka_broker_list", "localhost:9092")
	v.SetDefault("kafka_topic", "commute_simulations")
	v.SetDefault("cloud_storage.provider", "")
	v.SetDefault("cloud_storage.bucket_name", "")
	v.SetDefault("cloud_storage.region", "us-east-1")
}

var departureKeys = []string{"departure", "sweep_start", "sweep_end"}

// LoadConfig initializes and reads the configuration using Viper. A missing
// config file is only an error when cfgFile was given explicitly.
func LoadConfig(cfgFile string) (*Config, error) {
	return LoadConfigFrom(viper.GetViper(), cfgFile)
}

func LoadConfigFrom(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("commutesim")
	}

	v.SetEnvPrefix("commutesim")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Parsed up front so a bad clock value keeps its ErrTimeParse chain;
	// mapstructure flattens decode hook errors into text.
	for _, key := range departureKeys {
		if _, err := ParseDepartureTime(v.GetString(key)); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			StringToDepartureTimeHookFunc(),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// StringToDepartureTimeHookFunc decodes "HH:MM" strings into DepartureTime.
func StringToDepartureTimeHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(DepartureTime{}) {
			return data, nil
		}
		return ParseDepartureTime(data.(string))
	}
}

func (c *Config) Validate() error {
	switch c.RouteSource {
	case RouteSourceCSV:
		if c.RouteFile == "" {
			return fmt.Errorf("route_file is required when route_source is %q", RouteSourceCSV)
		}
	case RouteSourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url is required when route_source is %q", RouteSourcePostgres)
		}
	default:
		return fmt.Errorf("unknown route_source %q", c.RouteSource)
	}

	switch c.OutputFormat {
	case OutputFormatTable, OutputFormatJSON, OutputFormatCSV, OutputFormatParquet, OutputFormatKafka:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedOutput, c.OutputFormat)
	}

	if c.DefaultSpeedKph <= 0 {
		return fmt.Errorf("%w: default_speed_kph must be positive", ErrInvalidSpeedModel)
	}
	return nil
}

func speedRulesToMaps(rules []SpeedRule) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(rules))
	for _, r := range rules {
		out = append(out, map[string]interface{}{"patterns": r.Patterns, "base_kph": r.BaseKph})
	}
	return out
}

func peakWindowsToMaps(windows []PeakWindow) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(windows))
	for _, w := range windows {
		out = append(out, map[string]interface{}{"start": w.Start, "end": w.End})
	}
	return out
}

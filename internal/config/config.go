// Package config defines the filmfilter configuration and its viper loader.
package config

import "errors"

// Config is the top-level configuration struct for filmfilter.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Filters   FiltersConfig   `mapstructure:"filters"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Server    ServerConfig    `mapstructure:"server"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// DatasetConfig holds the source file locations.
type DatasetConfig struct {
	TitlesPath  string `mapstructure:"titles_path"`
	RatingsPath string `mapstructure:"ratings_path"`
	TagsPath    string `mapstructure:"tags_path"`
}

// FiltersConfig holds the default filter selection applied when a query does
// not override it.
type FiltersConfig struct {
	Genres              []string `mapstructure:"genres"`
	YearMin             int      `mapstructure:"year_min"`
	YearMax             int      `mapstructure:"year_max"`
	ScoreMin            float64  `mapstructure:"score_min"`
	ScoreMax            float64  `mapstructure:"score_max"`
	TopN                int      `mapstructure:"top_n"`
	IncludeUnknownYears bool     `mapstructure:"include_unknown_years"`
}

// DashboardConfig holds presentation settings for rendered pages.
type DashboardConfig struct {
	Title string `mapstructure:"title"`
	Theme string `mapstructure:"theme"`
}

// ServerConfig holds serving-mode settings.
type ServerConfig struct {
	Addr      string `mapstructure:"addr"`
	CacheSize int    `mapstructure:"cache_size"`
}

// TelemetryConfig holds logging and OTel export settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	LogJSON      bool    `mapstructure:"log_json"`
	LogLevel     string  `mapstructure:"log_level"`
}

// Defaults mirror the source dashboard's initial filter state.
const (
	DefaultYearMin  = 2000
	DefaultYearMax  = 2014
	DefaultScoreMin = 3.0
	DefaultScoreMax = 5.0
	DefaultTopN     = 20

	DefaultDashboardTitle = "FilmFilter"
	DefaultTheme          = "dark"
	DefaultServerAddr     = ":8080"
	DefaultCacheSize      = 128
	DefaultLogLevel       = "info"
)

// DefaultGenres is the initial genre selection.
func DefaultGenres() []string {
	return []string{"Action", "Comedy", "Sci-Fi"}
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidYearRange indicates filters.year_min exceeds filters.year_max.
	ErrInvalidYearRange = errors.New("filters.year_min must not exceed filters.year_max")
	// ErrInvalidScoreRange indicates filters.score_min exceeds filters.score_max.
	ErrInvalidScoreRange = errors.New("filters.score_min must not exceed filters.score_max")
	// ErrInvalidTopN indicates filters.top_n is not positive.
	ErrInvalidTopN = errors.New("filters.top_n must be positive")
	// ErrInvalidTheme indicates dashboard.theme is neither dark nor light.
	ErrInvalidTheme = errors.New("dashboard.theme must be \"dark\" or \"light\"")
	// ErrInvalidCacheSize indicates server.cache_size is negative.
	ErrInvalidCacheSize = errors.New("server.cache_size must be non-negative")
	// ErrInvalidSampleRatio indicates telemetry.sample_ratio is out of [0, 1].
	ErrInvalidSampleRatio = errors.New("telemetry.sample_ratio must be between 0 and 1")
)

// maxSampleRatio is the upper bound for the trace sampling ratio.
const maxSampleRatio = 1.0

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Filters.YearMin > c.Filters.YearMax {
		return ErrInvalidYearRange
	}

	if c.Filters.ScoreMin > c.Filters.ScoreMax {
		return ErrInvalidScoreRange
	}

	if c.Filters.TopN <= 0 {
		return ErrInvalidTopN
	}

	if c.Dashboard.Theme != "dark" && c.Dashboard.Theme != "light" {
		return ErrInvalidTheme
	}

	if c.Server.CacheSize < 0 {
		return ErrInvalidCacheSize
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > maxSampleRatio {
		return ErrInvalidSampleRatio
	}

	return nil
}

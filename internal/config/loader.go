package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".filmfilter"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for filmfilter settings.
const envPrefix = "FILMFILTER"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("dataset.titles_path", "movies.csv")
	viperCfg.SetDefault("dataset.ratings_path", "ratings.csv")
	viperCfg.SetDefault("dataset.tags_path", "tags.csv")

	viperCfg.SetDefault("filters.genres", DefaultGenres())
	viperCfg.SetDefault("filters.year_min", DefaultYearMin)
	viperCfg.SetDefault("filters.year_max", DefaultYearMax)
	viperCfg.SetDefault("filters.score_min", DefaultScoreMin)
	viperCfg.SetDefault("filters.score_max", DefaultScoreMax)
	viperCfg.SetDefault("filters.top_n", DefaultTopN)
	viperCfg.SetDefault("filters.include_unknown_years", false)

	viperCfg.SetDefault("dashboard.title", DefaultDashboardTitle)
	viperCfg.SetDefault("dashboard.theme", DefaultTheme)

	viperCfg.SetDefault("server.addr", DefaultServerAddr)
	viperCfg.SetDefault("server.cache_size", DefaultCacheSize)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", 0.0)
	viperCfg.SetDefault("telemetry.log_json", false)
	viperCfg.SetDefault("telemetry.log_level", DefaultLogLevel)
}

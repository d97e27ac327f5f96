package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults applied when neither the file nor the environment sets a value.
const (
	DefaultMatchSort = "section_no"
	DefaultSortKey   = "point"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultTimezone  = "Asia/Tokyo"
)

// Config struct to hold the configuration settings
type Config struct {
	Standings     StandingsConfig     `yaml:"standings"`
	Logging       LoggingConfig       `yaml:"logging"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// StandingsConfig holds the inputs and defaults of a ranking run.
type StandingsConfig struct {
	SeasonMap string `yaml:"season_map"`
	MatchSort string `yaml:"match_sort" validate:"oneof=section_no match_date"`
	SortKey   string `yaml:"sort_key" validate:"required"`
	Timezone  string `yaml:"timezone" validate:"timezone"`
	// DefaultGroup names the group of match logs without a group column.
	DefaultGroup string `yaml:"default_group"`
}

// LoggingConfig holds slog handler settings.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	// MetricsFile receives a node-exporter textfile dump after each run. Empty disables it.
	MetricsFile string `yaml:"metrics_file"`
	Environment string `yaml:"environment"`
}

var validate = validator.New()

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config
	applyEnv(&cfg)
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("STANDINGS_SEASON_MAP"); v != "" {
		cfg.Standings.SeasonMap = v
	}
	if v := os.Getenv("STANDINGS_MATCH_SORT"); v != "" {
		cfg.Standings.MatchSort = v
	}
	if v := os.Getenv("STANDINGS_SORT_KEY"); v != "" {
		cfg.Standings.SortKey = v
	}
	if v := os.Getenv("STANDINGS_TIMEZONE"); v != "" {
		cfg.Standings.Timezone = v
	}
	if v := os.Getenv("STANDINGS_DEFAULT_GROUP"); v != "" {
		cfg.Standings.DefaultGroup = v
	}
	if v := os.Getenv("STANDINGS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("STANDINGS_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("STANDINGS_METRICS_FILE"); v != "" {
		cfg.Observability.MetricsFile = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Standings.MatchSort == "" {
		cfg.Standings.MatchSort = DefaultMatchSort
	}
	if cfg.Standings.SortKey == "" {
		cfg.Standings.SortKey = DefaultSortKey
	}
	if cfg.Standings.Timezone == "" {
		cfg.Standings.Timezone = DefaultTimezone
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}

// Validate checks enumerated settings and the time zone name.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SlogLevel maps the configured level name to a slog.Level.
func (l LoggingConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

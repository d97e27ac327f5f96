package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
standings:
  season_map: season_map.json
  match_sort: match_date
  sort_key: disp_point
  timezone: Europe/London
  default_group: J1
logging:
  level: debug
  format: json
observability:
  metrics_file: /tmp/standings.prom
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, StandingsConfig{
		SeasonMap:    "season_map.json",
		MatchSort:    "match_date",
		SortKey:      "disp_point",
		Timezone:     "Europe/London",
		DefaultGroup: "J1",
	}, cfg.Standings)
	assert.Equal(t, LoggingConfig{Level: "debug", Format: "json"}, cfg.Logging)
	assert.Equal(t, "/tmp/standings.prom", cfg.Observability.MetricsFile)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "standings:\n  season_map: map.yaml\n"))
	require.NoError(t, err)
	assert.Equal(t, "map.yaml", cfg.Standings.SeasonMap)
	assert.Equal(t, DefaultMatchSort, cfg.Standings.MatchSort)
	assert.Equal(t, DefaultSortKey, cfg.Standings.SortKey)
	assert.Equal(t, DefaultTimezone, cfg.Standings.Timezone)
	assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Logging.Format)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("STANDINGS_SEASON_MAP", "env_map.json")
	t.Setenv("STANDINGS_MATCH_SORT", "match_date")
	t.Setenv("STANDINGS_LOG_LEVEL", "warn")
	t.Setenv("STANDINGS_METRICS_FILE", "env.prom")

	cfg, err := LoadConfig(writeConfig(t, "standings:\n  season_map: file_map.json\n  match_sort: section_no\n"))
	require.NoError(t, err)
	assert.Equal(t, "env_map.json", cfg.Standings.SeasonMap)
	assert.Equal(t, "match_date", cfg.Standings.MatchSort)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "env.prom", cfg.Observability.MetricsFile)
}

func TestLoadConfig_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("STANDINGS_SEASON_MAP", "env_map.json")
	t.Setenv("STANDINGS_TIMEZONE", "UTC")
	t.Setenv("STANDINGS_LOG_FORMAT", "json")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env_map.json", cfg.Standings.SeasonMap)
	assert.Equal(t, "UTC", cfg.Standings.Timezone)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, DefaultMatchSort, cfg.Standings.MatchSort)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed yaml", body: "standings: [unclosed"},
		{name: "unknown match sort", body: "standings:\n  match_sort: kickoff\n"},
		{name: "unknown log format", body: "logging:\n  format: xml\n"},
		{name: "unknown timezone", body: "standings:\n  timezone: Mars/Olympus_Mons\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}

func TestLoggingConfig_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LoggingConfig{Level: "debug"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, LoggingConfig{Level: "WARN"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LoggingConfig{Level: "loud"}.SlogLevel())
}

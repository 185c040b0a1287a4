package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethanolivertroy/dep-inventory/internal/config"
	"github.com/ethanolivertroy/dep-inventory/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
paths = ["services/api"]
include_indirect = true

[dependencies]
required = ["requests", "numpy"]
dev = ["pytest"]

[registry]
python = ["/opt/venv/lib/python3.12/site-packages"]
node_modules = "web/node_modules"

[[registry.static]]
name = "vendored-lib"
version = "1.4.2"

[telemetry]
enabled = true
endpoint = "https://stats.example.invalid/v1/usage"
data_context_id = "00000000-0000-0000-0000-000000000001"
timeout = "3s"
cache_ttl = "1h"

[output]
format = "json"
fail_on_missing = true
`

func TestMerge(t *testing.T) {
	cfg := models.DefaultConfig()
	require.NoError(t, config.Merge(cfg, []byte(sample)))

	assert.Equal(t, []string{"services/api"}, cfg.Paths)
	assert.True(t, cfg.IncludeIndirect)
	assert.Equal(t, []string{"requests", "numpy"}, cfg.Required)
	assert.Equal(t, []string{"pytest"}, cfg.Dev)
	assert.Equal(t, []string{"/opt/venv/lib/python3.12/site-packages"}, cfg.Registry.Python)
	assert.Equal(t, "web/node_modules", cfg.Registry.NodeModules)
	assert.Equal(t, []models.StaticPackage{{Name: "vendored-lib", Version: "1.4.2"}}, cfg.Registry.Static)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "https://stats.example.invalid/v1/usage", cfg.Telemetry.Endpoint)
	assert.Equal(t, 3*time.Second, cfg.Telemetry.Timeout)
	assert.Equal(t, time.Hour, cfg.Telemetry.CacheTTL)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.True(t, cfg.FailOnMissing)
}

func TestMerge_KeepsDefaultsForAbsentKeys(t *testing.T) {
	cfg := models.DefaultConfig()
	require.NoError(t, config.Merge(cfg, []byte("[dependencies]\ndev = [\"ruff\"]\n")))

	assert.Equal(t, []string{"."}, cfg.Paths)
	assert.Nil(t, cfg.Required)
	assert.Equal(t, []string{"ruff"}, cfg.Dev)
	assert.Equal(t, "terminal", cfg.OutputFormat)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Telemetry.Timeout)
}

func TestMerge_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[dependencies\n"},
		{"unknown key", "[dependencies]\noptional = [\"x\"]\n"},
		{"bad format", "[output]\nformat = \"xml\"\n"},
		{"bad duration", "[telemetry]\ntimeout = \"soon\"\n"},
		{"zero timeout", "[telemetry]\ntimeout = \"0s\"\n"},
		{"nameless static", "[[registry.static]]\nversion = \"1.0\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := config.Merge(models.DefaultConfig(), []byte(tt.content))
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		value   string
		enabled bool
	}{
		{"", true},
		{"true", true},
		{"false", false},
		{"FALSE", false},
		{"0", false},
		{"no", false},
		{"1", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg := models.DefaultConfig()
			config.ApplyEnv(cfg, func(key string) string {
				if key == config.UsageStatsEnv {
					return tt.value
				}
				return ""
			})
			assert.Equal(t, tt.enabled, cfg.Telemetry.Enabled)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	t.Setenv(config.UsageStatsEnv, "no")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.False(t, cfg.Telemetry.Enabled)

	_, err = config.Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, config.ErrConfigNotFound)
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(config.UsageStatsEnv, "")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultConfig(), cfg)
}

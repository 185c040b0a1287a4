// Package config loads .dep-inventory.toml and the environment overrides on
// top of the built-in defaults.
package config

import (
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ethanolivertroy/dep-inventory/internal/models"
	"go.trai.ch/zerr"
)

// DefaultFile is read from the working directory when no path is given
const DefaultFile = ".dep-inventory.toml"

// UsageStatsEnv disables telemetry when set to false, 0 or no
const UsageStatsEnv = "DEP_INVENTORY_USAGE_STATS"

// Formats lists the supported output formats
var Formats = []string{"terminal", "json", "sarif"}

var (
	// ErrInvalidConfig is returned for a config file that cannot be decoded or
	// holds an out-of-range value.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrConfigNotFound is returned when an explicitly named file is missing.
	ErrConfigNotFound = zerr.New("config file not found")
)

type fileConfig struct {
	Dependencies struct {
		Required []string `toml:"required"`
		Dev      []string `toml:"dev"`
	} `toml:"dependencies"`

	Paths           []string `toml:"paths"`
	IncludeIndirect *bool    `toml:"include_indirect"`

	Registry struct {
		Python      []string `toml:"python"`
		NodeModules string   `toml:"node_modules"`
		GoBinary    string   `toml:"go_binary"`
		Static      []struct {
			Name    string `toml:"name"`
			Version string `toml:"version"`
		} `toml:"static"`
	} `toml:"registry"`

	Telemetry struct {
		Enabled       *bool  `toml:"enabled"`
		Endpoint      string `toml:"endpoint"`
		DataContextID string `toml:"data_context_id"`
		Timeout       string `toml:"timeout"`
		CacheTTL      string `toml:"cache_ttl"`
	} `toml:"telemetry"`

	Output struct {
		Format        string `toml:"format"`
		FailOnMissing *bool  `toml:"fail_on_missing"`
	} `toml:"output"`
}

// Load returns the defaults merged with the file at path and the environment.
// An empty path reads DefaultFile when it exists.
func Load(path string) (*models.Config, error) {
	cfg := models.DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := Merge(cfg, content); err != nil {
			return nil, zerr.With(err, "path", path)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	case errors.Is(err, fs.ErrNotExist):
		return nil, zerr.With(zerr.Wrap(ErrConfigNotFound, "failed to load config"), "path", path)
	default:
		return nil, zerr.With(zerr.Wrap(err, "failed to read config"), "path", path)
	}

	ApplyEnv(cfg, os.Getenv)
	return cfg, nil
}

// Merge decodes TOML content over cfg. Keys absent from content leave cfg
// untouched.
func Merge(cfg *models.Config, content []byte) error {
	var fc fileConfig
	md, err := toml.Decode(string(content), &fc)
	if err != nil {
		return zerr.Wrap(ErrInvalidConfig, err.Error())
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return zerr.With(zerr.Wrap(ErrInvalidConfig, "unknown key"), "key", undecoded[0].String())
	}

	if fc.Dependencies.Required != nil {
		cfg.Required = fc.Dependencies.Required
	}
	if fc.Dependencies.Dev != nil {
		cfg.Dev = fc.Dependencies.Dev
	}
	if len(fc.Paths) > 0 {
		cfg.Paths = fc.Paths
	}
	if fc.IncludeIndirect != nil {
		cfg.IncludeIndirect = *fc.IncludeIndirect
	}

	if fc.Registry.Python != nil {
		cfg.Registry.Python = fc.Registry.Python
	}
	if fc.Registry.NodeModules != "" {
		cfg.Registry.NodeModules = fc.Registry.NodeModules
	}
	if fc.Registry.GoBinary != "" {
		cfg.Registry.GoBinary = fc.Registry.GoBinary
	}
	for _, p := range fc.Registry.Static {
		if p.Name == "" {
			return zerr.Wrap(ErrInvalidConfig, "registry.static entry without a name")
		}
		cfg.Registry.Static = append(cfg.Registry.Static, models.StaticPackage{Name: p.Name, Version: p.Version})
	}

	t := fc.Telemetry
	if t.Enabled != nil {
		cfg.Telemetry.Enabled = *t.Enabled
	}
	if t.Endpoint != "" {
		cfg.Telemetry.Endpoint = t.Endpoint
	}
	if t.DataContextID != "" {
		cfg.Telemetry.DataContextID = t.DataContextID
	}
	if err := parseDuration("telemetry.timeout", t.Timeout, &cfg.Telemetry.Timeout); err != nil {
		return err
	}
	if err := parseDuration("telemetry.cache_ttl", t.CacheTTL, &cfg.Telemetry.CacheTTL); err != nil {
		return err
	}

	if fc.Output.Format != "" {
		cfg.OutputFormat = fc.Output.Format
	}
	if fc.Output.FailOnMissing != nil {
		cfg.FailOnMissing = *fc.Output.FailOnMissing
	}

	return Validate(cfg)
}

// ApplyEnv applies environment overrides using getenv
func ApplyEnv(cfg *models.Config, getenv func(string) string) {
	switch strings.ToLower(strings.TrimSpace(getenv(UsageStatsEnv))) {
	case "false", "0", "no":
		cfg.Telemetry.Enabled = false
	}
}

// Validate checks value ranges of cfg
func Validate(cfg *models.Config) error {
	if !slices.Contains(Formats, cfg.OutputFormat) {
		return zerr.With(zerr.Wrap(ErrInvalidConfig, "unknown output format"), "format", cfg.OutputFormat)
	}
	if cfg.Telemetry.Timeout <= 0 {
		return zerr.With(zerr.Wrap(ErrInvalidConfig, "telemetry timeout must be positive"), "timeout", cfg.Telemetry.Timeout.String())
	}
	if cfg.Telemetry.CacheTTL < 0 {
		return zerr.With(zerr.Wrap(ErrInvalidConfig, "telemetry cache ttl must not be negative"), "cache_ttl", cfg.Telemetry.CacheTTL.String())
	}
	return nil
}

func parseDuration(key, raw string, dst *time.Duration) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return zerr.With(zerr.Wrap(ErrInvalidConfig, err.Error()), "key", key)
	}
	*dst = d
	return nil
}

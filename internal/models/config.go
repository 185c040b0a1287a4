package models

import "time"

// Config holds the effective settings of one run
type Config struct {
	// Paths to search for manifest files
	Paths []string

	// Declared names listed directly in the config file
	Required []string
	Dev      []string

	// Go manifests: also treat // indirect requirements as required
	IncludeIndirect bool

	Registry  RegistryConfig
	Telemetry TelemetryConfig

	// Output settings
	OutputFormat  string // "terminal", "json", "sarif"
	OutputFile    string // Optional output file path
	FailOnMissing bool   // Exit with code 1 if a required dependency is missing
}

// RegistryConfig selects where installed packages are looked up
type RegistryConfig struct {
	Python      []string // site-packages directories; empty means auto-detect
	NodeModules string   // node_modules directory
	GoBinary    string   // Go binary to read build info from
	Static      []StaticPackage
}

// StaticPackage is a fixed installed package from the config file
type StaticPackage struct {
	Name    string
	Version string
}

// TelemetryConfig controls usage event emission
type TelemetryConfig struct {
	Enabled       bool
	Endpoint      string
	DataContextID string
	Timeout       time.Duration
	CacheTTL      time.Duration
	NoCache       bool
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Paths:        []string{"."},
		OutputFormat: "terminal",
		Telemetry: TelemetryConfig{
			Enabled:  true,
			Timeout:  10 * time.Second,
			CacheTTL: 24 * time.Hour,
		},
	}
}

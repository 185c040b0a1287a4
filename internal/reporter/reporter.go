// Package reporter renders a dependency inventory as a terminal table, JSON
// or SARIF.
package reporter

import "github.com/ethanolivertroy/dep-inventory/internal/models"

// Reporter is the interface for output formatters
type Reporter interface {
	// Report generates output for the given inventory entries
	Report(entries []models.Entry) ([]byte, error)
}

// Get returns a reporter for the specified format
func Get(format string) Reporter {
	switch format {
	case "json":
		return &JSONReporter{}
	case "sarif":
		return &SARIFReporter{}
	default:
		return &TerminalReporter{}
	}
}

// Summary counts entries by install state
type Summary struct {
	Total           int `json:"total"`
	Installed       int `json:"installed"`
	Missing         int `json:"missing"`
	MissingRequired int `json:"missing_required"`
	Required        int `json:"required"`
	Dev             int `json:"dev"`
}

// Summarize counts entries
func Summarize(entries []models.Entry) Summary {
	s := Summary{Total: len(entries)}
	for _, e := range entries {
		if e.Package.Installed {
			s.Installed++
		} else {
			s.Missing++
		}
		if e.Missing() {
			s.MissingRequired++
		}
		switch e.Package.InstallEnvironment {
		case models.EnvironmentRequired:
			s.Required++
		case models.EnvironmentDev:
			s.Dev++
		}
	}
	return s
}

// location formats the declaring file and line of an entry
func location(e models.Entry) string {
	if e.Declaration == nil || e.Declaration.SourceFile == "" {
		return ""
	}
	if e.Declaration.Line > 0 {
		return e.Declaration.SourceFile + ":" + itoa(e.Declaration.Line)
	}
	return e.Declaration.SourceFile
}

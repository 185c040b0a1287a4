package reporter

import (
	"encoding/json"
	"strconv"

	"github.com/ethanolivertroy/dep-inventory/internal/models"
)

// JSONReporter outputs the inventory in JSON format
type JSONReporter struct{}

// jsonOutput represents the JSON output structure
type jsonOutput struct {
	Summary      Summary          `json:"summary"`
	Dependencies []jsonDependency `json:"dependencies"`
}

type jsonDependency struct {
	PackageName        string  `json:"package_name"`
	Installed          bool    `json:"installed"`
	InstallEnvironment string  `json:"install_environment"`
	Version            *string `json:"version"`
	Ecosystem          string  `json:"ecosystem,omitempty"`
	Constraint         string  `json:"constraint,omitempty"`
	SourceFile         string  `json:"source_file,omitempty"`
	Line               int     `json:"line,omitempty"`
}

// Report generates JSON output for the given entries
func (r *JSONReporter) Report(entries []models.Entry) ([]byte, error) {
	output := jsonOutput{
		Summary:      Summarize(entries),
		Dependencies: make([]jsonDependency, 0, len(entries)),
	}

	for _, e := range entries {
		jd := jsonDependency{
			PackageName:        e.Package.PackageName,
			Installed:          e.Package.Installed,
			InstallEnvironment: e.Package.InstallEnvironment.String(),
		}
		if e.Package.Version != nil {
			v := e.Package.VersionString()
			jd.Version = &v
		}
		if d := e.Declaration; d != nil {
			jd.Ecosystem = string(d.Ecosystem)
			jd.Constraint = d.Constraint
			jd.SourceFile = d.SourceFile
			jd.Line = d.Line
		}
		output.Dependencies = append(output.Dependencies, jd)
	}

	return json.MarshalIndent(output, "", "  ")
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

package manifest

import (
	"strings"

	"github.com/ethanolivertroy/dep-inventory/internal/models"
)

// RequirementsParser parses pip requirements files
type RequirementsParser struct{}

// devRequirementFiles are requirement files whose entries are development dependencies
var devRequirementFiles = map[string]bool{
	"requirements-dev.txt":  true,
	"requirements_dev.txt":  true,
	"requirements-test.txt": true,
	"requirements_test.txt": true,
	"dev-requirements.txt":  true,
	"test-requirements.txt": true,
}

// CanParse returns true for requirements.txt files
func (p *RequirementsParser) CanParse(filename string) bool {
	return filename == "requirements.txt" ||
		strings.HasSuffix(filename, "-requirements.txt") ||
		strings.HasSuffix(filename, "_requirements.txt") ||
		devRequirementFiles[filename]
}

func requirementsEnvironment(filename string) models.InstallEnvironment {
	if devRequirementFiles[filename] || strings.HasSuffix(filename, "-dev-requirements.txt") {
		return models.EnvironmentDev
	}
	return models.EnvironmentRequired
}

// Parse extracts dependencies from requirements.txt content
func (p *RequirementsParser) Parse(path string, content []byte) ([]models.Dependency, error) {
	env := requirementsEnvironment(baseName(path))

	var deps []models.Dependency
	lines := strings.Split(string(content), "\n")

	for lineNum, line := range lines {
		line = strings.TrimSpace(line)

		// Skip empty lines, comments, and options (-r, -e, --index-url)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}

		if idx := strings.Index(line, " #"); idx > 0 {
			line = strings.TrimSpace(line[:idx])
		}

		name, constraint, ok := splitRequirement(line)
		if !ok {
			continue
		}
		deps = append(deps, models.Dependency{
			Name:        name,
			Ecosystem:   models.EcosystemPyPI,
			Environment: env,
			Constraint:  constraint,
			SourceFile:  path,
			Line:        lineNum + 1,
		})
	}

	return deps, nil
}

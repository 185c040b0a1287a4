package manifest

import (
	"strings"

	"github.com/ethanolivertroy/dep-inventory/internal/models"
	"gopkg.in/yaml.v3"
)

// CondaParser parses conda environment files
type CondaParser struct{}

// CanParse returns true for environment.yml and environment.yaml
func (p *CondaParser) CanParse(filename string) bool {
	return filename == "environment.yml" || filename == "environment.yaml"
}

type condaEnvironment struct {
	Dependencies []yaml.Node `yaml:"dependencies"`
}

// Parse extracts dependencies from a conda environment file. Conda entries
// and the nested pip list are both required dependencies.
func (p *CondaParser) Parse(path string, content []byte) ([]models.Dependency, error) {
	var env condaEnvironment
	if err := yaml.Unmarshal(content, &env); err != nil {
		return nil, invalid(err, path)
	}

	var deps []models.Dependency
	for i := range env.Dependencies {
		node := &env.Dependencies[i]
		switch node.Kind {
		case yaml.ScalarNode:
			name, constraint := splitCondaSpec(node.Value)
			if name == "" || name == "python" || name == "pip" {
				continue
			}
			deps = append(deps, models.Dependency{
				Name:        name,
				Ecosystem:   models.EcosystemConda,
				Environment: models.EnvironmentRequired,
				Constraint:  constraint,
				SourceFile:  path,
				Line:        node.Line,
			})

		case yaml.MappingNode:
			deps = append(deps, pipSection(node, path)...)
		}
	}

	return deps, nil
}

// pipSection reads the {pip: [...]} entry of a conda dependency list
func pipSection(node *yaml.Node, path string) []models.Dependency {
	var deps []models.Dependency
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if key.Value != "pip" || val.Kind != yaml.SequenceNode {
			continue
		}
		for _, item := range val.Content {
			if item.Kind != yaml.ScalarNode || strings.HasPrefix(item.Value, "-") {
				continue
			}
			name, constraint, ok := splitRequirement(item.Value)
			if !ok {
				continue
			}
			deps = append(deps, models.Dependency{
				Name:        name,
				Ecosystem:   models.EcosystemPyPI,
				Environment: models.EnvironmentRequired,
				Constraint:  constraint,
				SourceFile:  path,
				Line:        item.Line,
			})
		}
	}
	return deps
}

// splitCondaSpec parses a conda match spec such as "conda-forge::numpy>=1.26"
// or "scipy=1.11.*".
func splitCondaSpec(spec string) (name, constraint string) {
	spec = strings.TrimSpace(spec)
	if idx := strings.LastIndex(spec, "::"); idx >= 0 {
		spec = spec[idx+2:]
	}
	end := strings.IndexAny(spec, "=<>!~ [")
	if end < 0 {
		return spec, ""
	}
	return spec[:end], strings.TrimSpace(spec[end:])
}

package manifest

import (
	"github.com/BurntSushi/toml"
	"github.com/ethanolivertroy/dep-inventory/internal/models"
)

// PyProjectParser parses pyproject.toml files (PEP 621 and Poetry)
type PyProjectParser struct{}

// devExtras are optional-dependency groups treated as development dependencies
var devExtras = map[string]bool{
	"dev":   true,
	"test":  true,
	"tests": true,
	"lint":  true,
	"docs":  true,
}

// CanParse returns true for pyproject.toml files
func (p *PyProjectParser) CanParse(filename string) bool {
	return filename == "pyproject.toml"
}

// pyproject represents the parts of pyproject.toml we read
type pyproject struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Dependencies    map[string]any `toml:"dependencies"`
			DevDependencies map[string]any `toml:"dev-dependencies"`
			Group           map[string]struct {
				Dependencies map[string]any `toml:"dependencies"`
			} `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// Parse extracts dependencies from pyproject.toml content. Table keys are
// visited in document order using the decoder metadata.
func (p *PyProjectParser) Parse(path string, content []byte) ([]models.Dependency, error) {
	var proj pyproject
	md, err := toml.Decode(string(content), &proj)
	if err != nil {
		return nil, invalid(err, path)
	}

	var deps []models.Dependency
	add := func(name, constraint string, env models.InstallEnvironment) {
		deps = append(deps, models.Dependency{
			Name:        name,
			Ecosystem:   models.EcosystemPyPI,
			Environment: env,
			Constraint:  constraint,
			SourceFile:  path,
		})
	}

	// PEP 621 required dependencies come first regardless of layout.
	for _, spec := range proj.Project.Dependencies {
		if name, constraint, ok := splitRequirement(spec); ok {
			add(name, constraint, models.EnvironmentRequired)
		}
	}

	for _, key := range md.Keys() {
		switch {
		case len(key) == 3 && key[0] == "project" && key[1] == "optional-dependencies":
			if !devExtras[key[2]] {
				continue
			}
			for _, spec := range proj.Project.OptionalDependencies[key[2]] {
				if name, constraint, ok := splitRequirement(spec); ok {
					add(name, constraint, models.EnvironmentDev)
				}
			}

		case len(key) == 4 && key[0] == "tool" && key[1] == "poetry" && key[2] == "dependencies":
			if key[3] == "python" {
				continue
			}
			add(key[3], poetryConstraint(proj.Tool.Poetry.Dependencies[key[3]]), models.EnvironmentRequired)

		case len(key) == 4 && key[0] == "tool" && key[1] == "poetry" && key[2] == "dev-dependencies":
			add(key[3], poetryConstraint(proj.Tool.Poetry.DevDependencies[key[3]]), models.EnvironmentDev)

		case len(key) == 6 && key[0] == "tool" && key[1] == "poetry" && key[2] == "group" && key[4] == "dependencies":
			group := proj.Tool.Poetry.Group[key[3]]
			add(key[5], poetryConstraint(group.Dependencies[key[5]]), models.EnvironmentDev)
		}
	}

	return deps, nil
}

// poetryConstraint extracts the version from a Poetry dependency value, which
// is either a string or a table with a version key.
func poetryConstraint(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case map[string]any:
		if ver, ok := v["version"].(string); ok {
			return ver
		}
	}
	return ""
}

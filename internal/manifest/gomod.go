package manifest

import (
	"strings"

	"github.com/ethanolivertroy/dep-inventory/internal/models"
	"golang.org/x/mod/modfile"
)

// GoModParser parses go.mod files
type GoModParser struct {
	IncludeIndirect bool // Whether to include indirect dependencies
}

// CanParse returns true for go.mod files
func (p *GoModParser) CanParse(filename string) bool {
	return filename == "go.mod"
}

// Parse extracts dependencies from go.mod content. Direct requirements are
// required; tool directives are development dependencies named by the module
// that provides the tool.
func (p *GoModParser) Parse(path string, content []byte) ([]models.Dependency, error) {
	mod, err := modfile.Parse(path, content, nil)
	if err != nil {
		return nil, invalid(err, path)
	}

	var deps []models.Dependency

	for _, req := range mod.Require {
		if req.Indirect && !p.IncludeIndirect {
			continue
		}
		deps = append(deps, models.Dependency{
			Name:        req.Mod.Path,
			Ecosystem:   models.EcosystemGo,
			Environment: models.EnvironmentRequired,
			Constraint:  req.Mod.Version,
			SourceFile:  path,
			Line:        syntaxLine(req.Syntax),
		})
	}

	for _, tool := range mod.Tool {
		name, constraint := toolModule(mod, tool.Path)
		deps = append(deps, models.Dependency{
			Name:        name,
			Ecosystem:   models.EcosystemGo,
			Environment: models.EnvironmentDev,
			Constraint:  constraint,
			SourceFile:  path,
			Line:        syntaxLine(tool.Syntax),
		})
	}

	return deps, nil
}

// toolModule finds the required module providing pkg, preferring the longest
// matching module path. Unmatched tools fall back to the package path.
func toolModule(mod *modfile.File, pkg string) (path, version string) {
	path = pkg
	best := -1
	for _, req := range mod.Require {
		p := req.Mod.Path
		if (pkg == p || strings.HasPrefix(pkg, p+"/")) && len(p) > best {
			path, version, best = p, req.Mod.Version, len(p)
		}
	}
	return path, version
}

func syntaxLine(line *modfile.Line) int {
	if line == nil {
		return 0
	}
	return line.Start.Line
}

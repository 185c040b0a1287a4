package manifest

import "github.com/ethanolivertroy/dep-inventory/internal/models"

// Static is a dependency source over two fixed name lists, typically taken
// from the configuration file
type Static struct {
	Required []string
	Dev      []string
}

// NewStatic returns a Static source
func NewStatic(required, dev []string) *Static {
	return &Static{Required: required, Dev: dev}
}

// RequiredDependencyNames returns a copy of the required list
func (s *Static) RequiredDependencyNames() []string {
	return append([]string{}, s.Required...)
}

// DevDependencyNames returns a copy of the dev list
func (s *Static) DevDependencyNames() []string {
	return append([]string{}, s.Dev...)
}

// Dependencies returns the names as declarations without a source file
func (s *Static) Dependencies() []models.Dependency {
	deps := make([]models.Dependency, 0, len(s.Required)+len(s.Dev))
	for _, n := range s.Required {
		deps = append(deps, models.Dependency{Name: n, Environment: models.EnvironmentRequired})
	}
	for _, n := range s.Dev {
		deps = append(deps, models.Dependency{Name: n, Environment: models.EnvironmentDev})
	}
	return deps
}

// Declarations is implemented by sources that can list their declarations
type Declarations interface {
	Dependencies() []models.Dependency
}

// Combine merges sources, preserving each source's order
func Combine(sources ...Declarations) *Combined {
	c := &Combined{}
	for _, s := range sources {
		c.deps = append(c.deps, s.Dependencies()...)
	}
	return c
}

// Combined is the concatenation of several sources
type Combined struct {
	deps []models.Dependency
}

// RequiredDependencyNames returns the required names of all sources
func (c *Combined) RequiredDependencyNames() []string {
	return namesFor(c.deps, models.EnvironmentRequired)
}

// DevDependencyNames returns the dev names of all sources
func (c *Combined) DevDependencyNames() []string {
	return namesFor(c.deps, models.EnvironmentDev)
}

// Dependencies returns every declaration
func (c *Combined) Dependencies() []models.Dependency {
	return append([]models.Dependency(nil), c.deps...)
}

// Entries pairs inventory records with their declarations. Records are matched
// to declarations with the same name and environment, first come first served.
func Entries(infos []models.PackageInfo, declared []models.Dependency) []models.Entry {
	type key struct {
		name string
		env  models.InstallEnvironment
	}
	queue := make(map[key][]int)
	for i, d := range declared {
		k := key{d.Name, d.Environment}
		queue[k] = append(queue[k], i)
	}

	entries := make([]models.Entry, 0, len(infos))
	for _, info := range infos {
		e := models.Entry{Package: info}
		k := key{info.PackageName, info.InstallEnvironment}
		if idx := queue[k]; len(idx) > 0 {
			d := declared[idx[0]]
			e.Declaration = &d
			queue[k] = idx[1:]
		}
		entries = append(entries, e)
	}
	return entries
}

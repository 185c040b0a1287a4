package registry

// Package is one installed package as reported by a registry
type Package struct {
	Name    string
	Version string
}

// Static is a Registry over a fixed, ordered package list. It backs offline
// runs configured from the config file and serves as a test fixture.
type Static struct {
	packages []Package
}

// NewStatic returns a Static registry holding pkgs in the given order.
func NewStatic(pkgs ...Package) *Static {
	return &Static{packages: append([]Package(nil), pkgs...)}
}

// InstalledPackageNames returns the configured names in order
func (s *Static) InstalledPackageNames() ([]string, error) {
	return packageNames(s.packages), nil
}

// Version returns the configured version for name
func (s *Static) Version(name string) (string, error) {
	return findVersion(s.packages, name)
}

// packageNames returns the distinct names of pkgs, first occurrence first.
func packageNames(pkgs []Package) []string {
	seen := make(map[string]bool, len(pkgs))
	names := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		names = append(names, p.Name)
	}
	return names
}

func findVersion(pkgs []Package, name string) (string, error) {
	for _, p := range pkgs {
		if p.Name == name {
			return p.Version, nil
		}
	}
	return "", notFound(name)
}

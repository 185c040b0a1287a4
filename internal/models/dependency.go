package models

// Ecosystem represents a package ecosystem
type Ecosystem string

const (
	EcosystemPyPI  Ecosystem = "PyPI"
	EcosystemNpm   Ecosystem = "npm"
	EcosystemGo    Ecosystem = "Go"
	EcosystemConda Ecosystem = "conda"
)

// Dependency represents a single declared dependency
type Dependency struct {
	Name        string
	Ecosystem   Ecosystem
	Environment InstallEnvironment
	Constraint  string // Version specifier as declared, e.g. ">=1.2"
	SourceFile  string // File where this dependency was declared
	Line        int    // Line number in source file (if available)
}

// String returns a human-readable representation
func (d Dependency) String() string {
	if d.Constraint == "" {
		return d.Name
	}
	return d.Name + d.Constraint
}

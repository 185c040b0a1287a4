package models

import (
	"github.com/ethanolivertroy/dep-inventory/internal/version"
)

// PackageInfo is the resolved install state of one declared dependency name.
//
// Values are never mutated after construction. Version is nil exactly when
// Installed is false.
type PackageInfo struct {
	PackageName        string             `json:"package_name"`
	Installed          bool               `json:"installed"`
	InstallEnvironment InstallEnvironment `json:"install_environment"`
	Version            *version.Version   `json:"version"`
}

// Equal reports whether p and o match on all four fields. Versions must agree
// by value and by original text, so "0.9.3" and "0.9.3.post1" differ and so do
// "1.0" and "1.0.0".
func (p PackageInfo) Equal(o PackageInfo) bool {
	if p.PackageName != o.PackageName ||
		p.Installed != o.Installed ||
		p.InstallEnvironment != o.InstallEnvironment {
		return false
	}
	if p.Version == nil || o.Version == nil {
		return p.Version == nil && o.Version == nil
	}
	return p.Version.Equal(o.Version) && p.Version.Original() == o.Version.Original()
}

// VersionString returns the original version text, or "" when absent
func (p PackageInfo) VersionString() string {
	if p.Version == nil {
		return ""
	}
	return p.Version.Original()
}

// Entry pairs an inventory record with the manifest declaration it came from
type Entry struct {
	Package     PackageInfo
	Declaration *Dependency // nil when the name came from a fixed list
}

// Missing returns true for a required dependency that is not installed
func (e Entry) Missing() bool {
	return !e.Package.Installed && e.Package.InstallEnvironment == EnvironmentRequired
}

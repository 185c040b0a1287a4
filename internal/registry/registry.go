// Package registry provides read access to the packages installed in a host
// environment: Python site-packages, node_modules, Go build info, or a fixed
// list.
package registry

import "go.trai.ch/zerr"

// ErrPackageNotFound is returned by Version when the name is not installed.
var ErrPackageNotFound = zerr.New("package not found")

// Registry is the installed-package boundary consumed by the inventory.
//
//go:generate go run go.uber.org/mock/mockgen -source=registry.go -destination=mocks/mock_registry.go -package=mocks
type Registry interface {
	// InstalledPackageNames enumerates every package identifier visible in the
	// environment. Implementations may be expensive; callers should cache.
	InstalledPackageNames() ([]string, error)

	// Version returns the version string of an installed package. It returns an
	// error wrapping ErrPackageNotFound when name is not installed.
	Version(name string) (string, error)
}

func notFound(name string) error {
	return zerr.With(zerr.Wrap(ErrPackageNotFound, "version lookup failed"), "package", name)
}

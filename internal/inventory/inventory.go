// Package inventory builds the ordered list of declared dependencies with
// their install state in the host environment.
//
// An Inventory is built once, eagerly, by New and never changes afterwards.
// To observe a changed environment, build a new Inventory.
package inventory

import (
	"github.com/ethanolivertroy/dep-inventory/internal/logger"
	"github.com/ethanolivertroy/dep-inventory/internal/models"
	"github.com/ethanolivertroy/dep-inventory/internal/registry"
	"github.com/ethanolivertroy/dep-inventory/internal/version"
	"go.trai.ch/zerr"
)

// Inventory holds the dependency records of one classification pass
type Inventory struct {
	source   DependencySource
	registry registry.Registry
	log      logger.Logger

	// installed caches the registry enumeration; nil until first loaded.
	installed    []string
	installedSet map[string]struct{}

	dependencies []models.PackageInfo
}

// Option configures an Inventory
type Option func(*Inventory)

// WithLogger sets the logger used for debug output during the build
func WithLogger(l logger.Logger) Option {
	return func(i *Inventory) {
		i.log = l
	}
}

// New enumerates the installed packages once and classifies the required
// names, then the dev names, against them.
//
// Any failure aborts the build: no partial inventory is returned.
func New(source DependencySource, reg registry.Registry, opts ...Option) (*Inventory, error) {
	inv := &Inventory{
		source:   source,
		registry: reg,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(inv)
	}

	if _, err := inv.InstalledPackageNames(); err != nil {
		return nil, err
	}

	required := source.RequiredDependencyNames()
	dev := source.DevDependencyNames()
	inv.dependencies = make([]models.PackageInfo, 0, len(required)+len(dev))

	if err := inv.classify(required, models.EnvironmentRequired); err != nil {
		return nil, err
	}
	if err := inv.classify(dev, models.EnvironmentDev); err != nil {
		return nil, err
	}

	inv.log.Debug("dependency inventory built",
		"required", len(required),
		"dev", len(dev),
		"installed_packages", len(inv.installed))
	return inv, nil
}

// InstalledPackageNames returns every package identifier visible in the
// environment. The registry is queried at most once per Inventory; later
// calls return the cached names.
func (i *Inventory) InstalledPackageNames() ([]string, error) {
	if i.installed == nil {
		names, err := i.registry.InstalledPackageNames()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to enumerate installed packages")
		}
		if names == nil {
			names = []string{}
		}
		set := make(map[string]struct{}, len(names))
		for _, n := range names {
			set[n] = struct{}{}
		}
		i.installed = names
		i.installedSet = set
		i.log.Debug("enumerated installed packages", "count", len(names))
	}
	return append([]string(nil), i.installed...), nil
}

// Dependencies returns the required records followed by the dev records, each
// in declaration order.
func (i *Inventory) Dependencies() []models.PackageInfo {
	return append([]models.PackageInfo(nil), i.dependencies...)
}

// IsInstalled reports whether name was present in the enumeration
func (i *Inventory) IsInstalled(name string) bool {
	_, ok := i.installedSet[name]
	return ok
}

// classify appends one record per name, in order. Absent names never reach
// the version lookup.
func (i *Inventory) classify(names []string, env models.InstallEnvironment) error {
	for _, name := range names {
		if !i.IsInstalled(name) {
			i.dependencies = append(i.dependencies, models.PackageInfo{
				PackageName:        name,
				Installed:          false,
				InstallEnvironment: env,
				Version:            nil,
			})
			continue
		}

		v, err := i.versionOf(name)
		if err != nil {
			return zerr.With(err, "install_environment", env.String())
		}
		i.dependencies = append(i.dependencies, models.PackageInfo{
			PackageName:        name,
			Installed:          true,
			InstallEnvironment: env,
			Version:            v,
		})
	}
	return nil
}

// versionOf looks up and parses the version of an installed package. Callers
// must only pass names confirmed installed; otherwise the registry's
// ErrPackageNotFound is returned.
func (i *Inventory) versionOf(name string) (*version.Version, error) {
	raw, err := i.registry.Version(name)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to look up version"), "package", name)
	}
	v, err := version.Parse(raw)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse version"), "package", name)
	}
	return v, nil
}

package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethanolivertroy/dep-inventory/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func distInfo(t *testing.T, sitePackages, dirName, name, version string) {
	t.Helper()
	writeFile(t, filepath.Join(sitePackages, dirName, "METADATA"),
		"Metadata-Version: 2.1\nName: "+name+"\nVersion: "+version+"\nSummary: test package\n"+
			"License: MIT\n    continued license line\n\nLong description body.\nName: not-a-header\n")
}

func TestPython_InstalledPackageNames(t *testing.T) {
	site := t.TempDir()
	distInfo(t, site, "numpy-1.26.4.dist-info", "numpy", "1.26.4")
	distInfo(t, site, "ruamel.yaml-0.17.21.dist-info", "ruamel.yaml", "0.17.21")
	writeFile(t, filepath.Join(site, "legacy_pkg-0.1.egg-info", "PKG-INFO"), "Metadata-Version: 1.0\nName: legacy-pkg\nVersion: 0.1\n")
	writeFile(t, filepath.Join(site, "single-2.0.egg-info"), "Metadata-Version: 1.0\nName: single\nVersion: 2.0\n")
	// Not a distribution
	writeFile(t, filepath.Join(site, "numpy", "__init__.py"), "")
	// dist-info without METADATA is skipped
	require.NoError(t, os.MkdirAll(filepath.Join(site, "broken-1.0.dist-info"), 0o755))

	py := registry.NewPython(site, filepath.Join(t.TempDir(), "missing"))
	names, err := py.InstalledPackageNames()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"numpy", "ruamel.yaml", "legacy-pkg", "single"}, names)
}

func TestPython_Version(t *testing.T) {
	site := t.TempDir()
	distInfo(t, site, "PyYAML-6.0.1.dist-info", "PyYAML", "6.0.1")
	distInfo(t, site, "typing_extensions-4.9.0.dist-info", "typing_extensions", "4.9.0")

	py := registry.NewPython(site)

	v, err := py.Version("PyYAML")
	require.NoError(t, err)
	assert.Equal(t, "6.0.1", v)

	// Lookup falls back to PEP 503 normalized names.
	v, err = py.Version("typing-extensions")
	require.NoError(t, err)
	assert.Equal(t, "4.9.0", v)

	_, err = py.Version("requests")
	require.Error(t, err)
	assert.ErrorIs(t, err, registry.ErrPackageNotFound)
}

func TestPython_ReadsSitePackagesOnce(t *testing.T) {
	site := t.TempDir()
	distInfo(t, site, "requests-2.31.0.dist-info", "requests", "2.31.0")

	py := registry.NewPython(site)
	names, err := py.InstalledPackageNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"requests"}, names)

	// Later changes on disk are not observed by the same registry.
	require.NoError(t, os.RemoveAll(filepath.Join(site, "requests-2.31.0.dist-info")))
	distInfo(t, site, "idna-3.6.dist-info", "idna", "3.6")

	v, err := py.Version("requests")
	require.NoError(t, err)
	assert.Equal(t, "2.31.0", v)

	_, err = py.Version("idna")
	assert.ErrorIs(t, err, registry.ErrPackageNotFound)

	fresh, err := registry.NewPython(site).InstalledPackageNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"idna"}, fresh)
}

func TestPython_DefaultSitePackages(t *testing.T) {
	venv := t.TempDir()
	site := filepath.Join(venv, "lib", "python3.12", "site-packages")
	require.NoError(t, os.MkdirAll(site, 0o755))
	t.Setenv("VIRTUAL_ENV", venv)
	t.Setenv("CONDA_PREFIX", "")

	assert.Equal(t, []string{site}, registry.DefaultSitePackages())
	assert.Equal(t, []string{site}, registry.NewPython().SitePackages)
}

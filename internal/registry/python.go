package registry

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"net/textproto"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"go.trai.ch/zerr"
)

// Python enumerates distributions installed in one or more site-packages
// directories, the same data importlib.metadata reads. The directories are
// read once; later calls answer from that snapshot.
type Python struct {
	SitePackages []string

	mu      sync.Mutex
	scanned bool
	pkgs    []Package
}

// NewPython returns a Python registry over the given site-packages
// directories. With no directories it falls back to DefaultSitePackages.
func NewPython(dirs ...string) *Python {
	if len(dirs) == 0 {
		dirs = DefaultSitePackages()
	}
	return &Python{SitePackages: dirs}
}

// DefaultSitePackages returns the site-packages directories of the active
// virtualenv or conda environment, if any.
func DefaultSitePackages() []string {
	var dirs []string
	for _, env := range []string{"VIRTUAL_ENV", "CONDA_PREFIX"} {
		prefix := os.Getenv(env)
		if prefix == "" {
			continue
		}
		matches, _ := filepath.Glob(filepath.Join(prefix, "lib", "python*", "site-packages"))
		dirs = append(dirs, matches...)
		// Windows layout
		if info, err := os.Stat(filepath.Join(prefix, "Lib", "site-packages")); err == nil && info.IsDir() {
			dirs = append(dirs, filepath.Join(prefix, "Lib", "site-packages"))
		}
	}
	return dirs
}

// InstalledPackageNames returns the Name header of every distribution found
func (p *Python) InstalledPackageNames() ([]string, error) {
	pkgs, err := p.scan()
	if err != nil {
		return nil, err
	}
	return packageNames(pkgs), nil
}

// Version returns the Version header of the distribution called name. An exact
// name match wins; otherwise names are compared after PEP 503 normalization,
// as importlib.metadata.version does.
func (p *Python) Version(name string) (string, error) {
	pkgs, err := p.scan()
	if err != nil {
		return "", err
	}
	if v, err := findVersion(pkgs, name); err == nil {
		return v, nil
	}
	want := normalizeDistName(name)
	for _, pkg := range pkgs {
		if normalizeDistName(pkg.Name) == want {
			return pkg.Version, nil
		}
	}
	return "", notFound(name)
}

func (p *Python) scan() ([]Package, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.scanned {
		return p.pkgs, nil
	}
	pkgs, err := p.read()
	if err != nil {
		return nil, err
	}
	p.pkgs, p.scanned = pkgs, true
	return pkgs, nil
}

func (p *Python) read() ([]Package, error) {
	var pkgs []Package
	for _, dir := range p.SitePackages {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, zerr.With(zerr.Wrap(err, "failed to read site-packages"), "path", dir)
		}

		for _, entry := range entries {
			metaPath, ok := metadataPath(dir, entry)
			if !ok {
				continue
			}
			pkg, err := readDistMetadata(metaPath)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue // dist-info without METADATA, e.g. a half-finished install
				}
				return nil, err
			}
			if pkg.Name == "" {
				continue
			}
			pkgs = append(pkgs, pkg)
		}
	}
	return pkgs, nil
}

func metadataPath(dir string, entry fs.DirEntry) (string, bool) {
	name := entry.Name()
	switch {
	case strings.HasSuffix(name, ".dist-info") && entry.IsDir():
		return filepath.Join(dir, name, "METADATA"), true
	case strings.HasSuffix(name, ".egg-info") && entry.IsDir():
		return filepath.Join(dir, name, "PKG-INFO"), true
	case strings.HasSuffix(name, ".egg-info"):
		// legacy single-file egg-info is the PKG-INFO itself
		return filepath.Join(dir, name), true
	default:
		return "", false
	}
}

// readDistMetadata reads the RFC 822 style header block of a METADATA or
// PKG-INFO file. The description body after the first blank line is ignored.
func readDistMetadata(path string) (Package, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from a directory listing
	if err != nil {
		return Package{}, err
	}
	defer f.Close()

	header, err := textproto.NewReader(bufio.NewReader(f)).ReadMIMEHeader()
	if err != nil && !errors.Is(err, io.EOF) {
		return Package{}, zerr.With(zerr.Wrap(err, "failed to parse distribution metadata"), "path", path)
	}
	return Package{
		Name:    strings.TrimSpace(header.Get("Name")),
		Version: strings.TrimSpace(header.Get("Version")),
	}, nil
}

var distNameSeparators = regexp.MustCompile(`[-_.]+`)

func normalizeDistName(name string) string {
	return strings.ToLower(distNameSeparators.ReplaceAllString(name, "-"))
}

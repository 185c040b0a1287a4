package registry

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/zerr"
)

// Node enumerates packages installed under a node_modules directory. The
// directory is read once per Node.
type Node struct {
	Dir string

	mu      sync.Mutex
	scanned bool
	pkgs    []Package
}

// NewNode returns a Node registry rooted at dir (usually "./node_modules").
func NewNode(dir string) *Node {
	return &Node{Dir: dir}
}

// hiddenLockfile is the structure of node_modules/.package-lock.json written by npm >= 7
type hiddenLockfile struct {
	Packages map[string]struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Link    bool   `json:"link"`
	} `json:"packages"`
}

type packageManifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InstalledPackageNames returns the names of all installed packages, nested ones included
func (n *Node) InstalledPackageNames() ([]string, error) {
	pkgs, err := n.scan()
	if err != nil {
		return nil, err
	}
	return packageNames(pkgs), nil
}

// Version returns the version of name, preferring the top-level install
func (n *Node) Version(name string) (string, error) {
	pkgs, err := n.scan()
	if err != nil {
		return "", err
	}
	return findVersion(pkgs, name)
}

func (n *Node) scan() ([]Package, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.scanned {
		return n.pkgs, nil
	}
	pkgs, err := n.read()
	if err != nil {
		return nil, err
	}
	n.pkgs, n.scanned = pkgs, true
	return pkgs, nil
}

func (n *Node) read() ([]Package, error) {
	pkgs, err := n.readHiddenLockfile()
	if err == nil {
		return pkgs, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return n.walk()
}

func (n *Node) readHiddenLockfile() ([]Package, error) {
	path := filepath.Join(n.Dir, ".package-lock.json")
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, err
	}

	var lock hiddenLockfile
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse hidden lockfile"), "path", path)
	}

	// Shallow paths sort first so top-level installs win version lookups.
	paths := make([]string, 0, len(lock.Packages))
	for p := range lock.Packages {
		paths = append(paths, p)
	}
	slices.SortFunc(paths, func(a, b string) int {
		if da, db := strings.Count(a, "node_modules/"), strings.Count(b, "node_modules/"); da != db {
			return da - db
		}
		return strings.Compare(a, b)
	})

	pkgs := make([]Package, 0, len(paths))
	for _, p := range paths {
		entry := lock.Packages[p]
		if p == "" || entry.Link {
			continue
		}
		name := entry.Name
		if name == "" {
			name = packageNameFromPath(p)
		}
		if name == "" {
			continue
		}
		pkgs = append(pkgs, Package{Name: name, Version: entry.Version})
	}
	return pkgs, nil
}

// packageNameFromPath extracts the package name from a path like
// "node_modules/a/node_modules/@types/node".
func packageNameFromPath(path string) string {
	if idx := strings.LastIndex(path, "node_modules/"); idx >= 0 {
		return path[idx+len("node_modules/"):]
	}
	return ""
}

// walk reads node_modules/*/package.json and node_modules/@scope/*/package.json.
func (n *Node) walk() ([]Package, error) {
	entries, err := os.ReadDir(n.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read node_modules"), "path", n.Dir)
	}

	var pkgs []Package
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !entry.IsDir() {
			continue
		}

		if !strings.HasPrefix(name, "@") {
			if pkg, ok := readPackageManifest(filepath.Join(n.Dir, name), name); ok {
				pkgs = append(pkgs, pkg)
			}
			continue
		}

		scoped, err := os.ReadDir(filepath.Join(n.Dir, name))
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to read scope directory"), "path", filepath.Join(n.Dir, name))
		}
		for _, s := range scoped {
			if !s.IsDir() {
				continue
			}
			full := name + "/" + s.Name()
			if pkg, ok := readPackageManifest(filepath.Join(n.Dir, name, s.Name()), full); ok {
				pkgs = append(pkgs, pkg)
			}
		}
	}
	return pkgs, nil
}

func readPackageManifest(dir, fallbackName string) (Package, bool) {
	data, err := os.ReadFile(filepath.Join(dir, "package.json")) //nolint:gosec // path comes from a directory listing
	if err != nil {
		return Package{}, false
	}
	var m packageManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Package{}, false
	}
	if m.Name == "" {
		m.Name = fallbackName
	}
	return Package{Name: m.Name, Version: m.Version}, true
}

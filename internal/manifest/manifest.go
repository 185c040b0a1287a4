package manifest

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ethanolivertroy/dep-inventory/internal/logger"
	"github.com/ethanolivertroy/dep-inventory/internal/models"
	"go.trai.ch/zerr"
)

// skipDirs are directories never descended into during discovery
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"vendor":       true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
}

// Manifest holds the declarations found in the discovered manifest files
type Manifest struct {
	parsers []Parser
	log     logger.Logger

	files []string
	deps  []models.Dependency
}

// Option configures discovery
type Option func(*Manifest)

// WithParsers replaces the default parser set
func WithParsers(parsers ...Parser) Option {
	return func(m *Manifest) {
		m.parsers = parsers
	}
}

// WithLogger sets the logger used to report skipped files
func WithLogger(l logger.Logger) Option {
	return func(m *Manifest) {
		m.log = l
	}
}

// Discover walks paths and parses every recognised manifest. Directories are
// walked in lexical order; a file that fails to parse during a walk is logged
// and skipped, while an explicitly named file must parse.
func Discover(paths []string, opts ...Option) (*Manifest, error) {
	m := &Manifest{
		parsers: DefaultParsers(false),
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
		}

		if !info.IsDir() {
			parsed, err := m.parseFile(path)
			if err != nil {
				return nil, err
			}
			if !parsed {
				return nil, zerr.With(zerr.Wrap(ErrUnsupportedManifest, "no parser for file"), "path", path)
			}
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if p != path && skipDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}

			if _, err := m.parseFile(p); err != nil {
				m.log.Warn("skipping unreadable manifest", "path", p, "error", err.Error())
			}
			return nil
		})
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to walk directory"), "path", path)
		}
	}

	m.log.Debug("manifests discovered", "files", len(m.files), "dependencies", len(m.deps))
	return m, nil
}

// parseFile parses path with the first matching parser. It reports false when
// no parser accepts the file name.
func (m *Manifest) parseFile(path string) (bool, error) {
	filename := baseName(path)

	for _, parser := range m.parsers {
		if !parser.CanParse(filename) {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return true, zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", path)
		}
		deps, err := parser.Parse(path, content)
		if err != nil {
			return true, err
		}
		m.files = append(m.files, path)
		m.deps = append(m.deps, deps...)
		return true, nil
	}

	return false, nil
}

// Files returns the manifest files that were parsed, in discovery order
func (m *Manifest) Files() []string {
	return append([]string(nil), m.files...)
}

// Dependencies returns every declaration in discovery order
func (m *Manifest) Dependencies() []models.Dependency {
	return append([]models.Dependency(nil), m.deps...)
}

// RequiredDependencyNames returns the names declared as required
func (m *Manifest) RequiredDependencyNames() []string {
	return namesFor(m.deps, models.EnvironmentRequired)
}

// DevDependencyNames returns the names declared as development dependencies
func (m *Manifest) DevDependencyNames() []string {
	return namesFor(m.deps, models.EnvironmentDev)
}

func namesFor(deps []models.Dependency, env models.InstallEnvironment) []string {
	names := []string{}
	for _, d := range deps {
		if d.Environment == env {
			names = append(names, d.Name)
		}
	}
	return names
}

func baseName(path string) string {
	return filepath.Base(path)
}

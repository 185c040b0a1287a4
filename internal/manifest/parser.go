// Package manifest discovers dependency manifests on disk and extracts the
// declared dependency names, split into required and development lists.
package manifest

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/ethanolivertroy/dep-inventory/internal/models"
	"go.trai.ch/zerr"
)

// ErrInvalidManifest is returned when a manifest file cannot be decoded.
var ErrInvalidManifest = zerr.New("invalid manifest")

// ErrUnsupportedManifest is returned for an explicitly named file no parser accepts.
var ErrUnsupportedManifest = zerr.New("unsupported manifest")

// Parser is the interface for dependency manifest parsers
type Parser interface {
	// CanParse returns true if this parser can handle the given filename
	CanParse(filename string) bool

	// Parse extracts dependencies from the file content, in declaration order
	Parse(path string, content []byte) ([]models.Dependency, error)
}

// DefaultParsers returns all available parsers
func DefaultParsers(includeIndirect bool) []Parser {
	return []Parser{
		&RequirementsParser{},
		&PyProjectParser{},
		&PackageJSONParser{},
		&CondaParser{},
		&GoModParser{IncludeIndirect: includeIndirect},
	}
}

func invalid(err error, path string) error {
	return zerr.With(zerr.Wrap(ErrInvalidManifest, err.Error()), "path", path)
}

// requirementPattern splits a PEP 508 requirement into name, extras and the rest
var requirementPattern = regexp.MustCompile(`^([A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?)\s*(\[[^\]]*\])?\s*(.*)$`)

// splitRequirement returns the distribution name and version specifier of a
// PEP 508 requirement. Environment markers are dropped. Direct references
// ("name @ url") keep the reference as the constraint.
func splitRequirement(spec string) (name, constraint string, ok bool) {
	spec = strings.TrimSpace(spec)
	if idx := strings.Index(spec, ";"); idx >= 0 {
		spec = strings.TrimSpace(spec[:idx])
	}
	m := requirementPattern.FindStringSubmatch(spec)
	if m == nil {
		return "", "", false
	}
	rest := strings.TrimSpace(m[3])
	if rest != "" && !strings.ContainsAny(rest[:1], "<>=!~@(") {
		return "", "", false
	}
	rest = strings.TrimSuffix(strings.TrimPrefix(rest, "("), ")")
	return m[1], strings.TrimSpace(rest), true
}

// lineAt returns the 1-based line containing byte offset off
func lineAt(content []byte, off int64) int {
	if off > int64(len(content)) {
		off = int64(len(content))
	}
	return bytes.Count(content[:off], []byte("\n")) + 1
}

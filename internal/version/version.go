// Package version parses package version strings reported by installed-package
// registries into comparable values.
//
// PEP 440 is tried first since it covers Python distributions as well as
// plain dotted releases of any length. Strings only semver can express, such
// as Go pseudo-versions and dotted npm pre-release identifiers, fall back to
// github.com/Masterminds/semver/v3.
package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	pep440 "github.com/aquasecurity/go-pep440-version"
	"go.trai.ch/zerr"
)

// ErrParse is returned when a version string cannot be parsed.
var ErrParse = zerr.New("malformed version")

// Scheme names the grammar a version was parsed with
type Scheme uint8

const (
	// SchemePEP440 covers Python distributions and plain dotted releases
	SchemePEP440 Scheme = iota + 1
	// SchemeSemver covers what PEP 440 rejects, such as Go pseudo-versions
	SchemeSemver
)

// Version is a parsed version that keeps the text it was parsed from.
// The zero value is not valid; use Parse.
type Version struct {
	original string
	scheme   Scheme
	pep      pep440.Version
	sem      *semver.Version
}

// Parse parses raw as a PEP 440 version, or failing that as a semantic
// version. Epochs and release segments of any length are accepted.
func Parse(raw string) (*Version, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, zerr.With(zerr.Wrap(ErrParse, "empty version string"), "version", raw)
	}

	if p, err := pep440.Parse(s); err == nil {
		return &Version{original: s, scheme: SchemePEP440, pep: p}, nil
	}
	sv, err := semver.NewVersion(s)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(ErrParse, err.Error()), "version", raw)
	}
	return &Version{original: s, scheme: SchemeSemver, sem: sv}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(raw string) *Version {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// Original returns the text v was parsed from, without surrounding space
func (v *Version) Original() string {
	return v.original
}

// Scheme reports which grammar parsed v
func (v *Version) Scheme() Scheme {
	return v.scheme
}

// String returns the normalized form: "1.0rc1" for "1.0-RC.1", "1.2.3" for "v1.2.3".
func (v *Version) String() string {
	if v.scheme == SchemeSemver {
		return v.sem.String()
	}
	return v.pep.String()
}

// Compare orders v against o under the grammar both were parsed with. When
// the grammars differ, both are read as semver if possible and otherwise
// ordered by their normalized text.
func (v *Version) Compare(o *Version) int {
	switch {
	case v.scheme == SchemePEP440 && o.scheme == SchemePEP440:
		return v.pep.Compare(o.pep)
	case v.scheme == SchemeSemver && o.scheme == SchemeSemver:
		return v.sem.Compare(o.sem)
	}
	a, aerr := v.asSemver()
	b, berr := o.asSemver()
	if aerr == nil && berr == nil {
		return a.Compare(b)
	}
	return strings.Compare(v.String(), o.String())
}

// Equal reports whether v and o are the same version by value. "1.0" and
// "1.0.0" are equal; "0.9.3" and "0.9.3.post1" are not.
func (v *Version) Equal(o *Version) bool {
	return v.Compare(o) == 0
}

// MarshalText implements encoding.TextMarshaler with the original text
func (v *Version) MarshalText() ([]byte, error) {
	return []byte(v.original), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = *parsed
	return nil
}

func (v *Version) asSemver() (*semver.Version, error) {
	if v.sem != nil {
		return v.sem, nil
	}
	return semver.NewVersion(v.original)
}

// Compare orders a and b, treating nil as lower than any version.
func Compare(a, b *Version) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(b)
}

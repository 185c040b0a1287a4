package registry

import (
	"errors"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Multi combines several registries into one. Names are merged in member
// order; Version asks members in order and returns the first hit.
type Multi struct {
	members []Registry
}

// NewMulti returns a registry over members.
func NewMulti(members ...Registry) *Multi {
	return &Multi{members: members}
}

// InstalledPackageNames enumerates all members concurrently and merges the
// results deterministically, first occurrence first.
func (m *Multi) InstalledPackageNames() ([]string, error) {
	results := make([][]string, len(m.members))

	var g errgroup.Group
	for i, member := range m.members {
		g.Go(func() error {
			names, err := member.InstalledPackageNames()
			if err != nil {
				return zerr.With(zerr.Wrap(err, "failed to enumerate registry"), "member", i)
			}
			results[i] = names
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []Package
	for _, names := range results {
		for _, name := range names {
			merged = append(merged, Package{Name: name})
		}
	}
	return packageNames(merged), nil
}

// Version returns the version reported by the first member that has name
func (m *Multi) Version(name string) (string, error) {
	for _, member := range m.members {
		v, err := member.Version(name)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrPackageNotFound) {
			return "", err
		}
	}
	return "", notFound(name)
}

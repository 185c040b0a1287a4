package registry_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ethanolivertroy/dep-inventory/internal/registry"
	"github.com/ethanolivertroy/dep-inventory/internal/registry/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestStatic(t *testing.T) {
	s := registry.NewStatic(
		registry.Package{Name: "b", Version: "1.0.0"},
		registry.Package{Name: "a", Version: "2.0.0"},
		registry.Package{Name: "b", Version: "3.0.0"},
	)

	names, err := s.InstalledPackageNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, names)

	v, err := s.Version("b")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", v)

	_, err = s.Version("c")
	assert.ErrorIs(t, err, registry.ErrPackageNotFound)
}

func TestMulti_MergesInMemberOrder(t *testing.T) {
	first := registry.NewStatic(registry.Package{Name: "numpy", Version: "1.26.4"}, registry.Package{Name: "shared", Version: "1.0.0"})
	second := registry.NewStatic(registry.Package{Name: "lodash", Version: "4.17.21"}, registry.Package{Name: "shared", Version: "2.0.0"})

	m := registry.NewMulti(first, second)
	names, err := m.InstalledPackageNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"numpy", "shared", "lodash"}, names)

	v, err := m.Version("shared")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", v)

	v, err = m.Version("lodash")
	require.NoError(t, err)
	assert.Equal(t, "4.17.21", v)

	_, err = m.Version("missing")
	assert.ErrorIs(t, err, registry.ErrPackageNotFound)
}

func TestMulti_EnumerationError(t *testing.T) {
	ctrl := gomock.NewController(t)

	failing := mocks.NewMockRegistry(ctrl)
	failing.EXPECT().InstalledPackageNames().Return(nil, errors.New("permission denied")).Times(1)

	m := registry.NewMulti(registry.NewStatic(), failing)
	_, err := m.InstalledPackageNames()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestMulti_VersionErrorStopsLookup(t *testing.T) {
	ctrl := gomock.NewController(t)

	broken := mocks.NewMockRegistry(ctrl)
	broken.EXPECT().Version("numpy").Return("", errors.New("corrupt metadata")).Times(1)
	// The second member must not be consulted after a hard failure.
	never := mocks.NewMockRegistry(ctrl)

	m := registry.NewMulti(broken, never)
	_, err := m.Version("numpy")
	require.Error(t, err)
	assert.NotErrorIs(t, err, registry.ErrPackageNotFound)
}

func TestGoBinary_UnreadableFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "not-a-binary")
	writeFile(t, path, "#!/bin/sh\necho hi\n")

	g := registry.NewGoBinary(path)
	_, err := g.InstalledPackageNames()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read build info")

	_, err = g.Version("golang.org/x/mod")
	require.Error(t, err)
}

package registry

import (
	"debug/buildinfo"
	"runtime/debug"

	"go.trai.ch/zerr"
)

// ErrNoBuildInfo is returned when a Go binary carries no module information.
var ErrNoBuildInfo = zerr.New("no module build info")

// GoBinary lists the modules compiled into a Go binary. With an empty Path it
// inspects the running process.
type GoBinary struct {
	Path string
}

// NewGoBinary returns a GoBinary registry for the binary at path.
func NewGoBinary(path string) *GoBinary {
	return &GoBinary{Path: path}
}

// InstalledPackageNames returns the main module (when versioned) and every dependency module path
func (g *GoBinary) InstalledPackageNames() ([]string, error) {
	pkgs, err := g.modules()
	if err != nil {
		return nil, err
	}
	return packageNames(pkgs), nil
}

// Version returns the module version, honouring replace directives
func (g *GoBinary) Version(name string) (string, error) {
	pkgs, err := g.modules()
	if err != nil {
		return "", err
	}
	return findVersion(pkgs, name)
}

func (g *GoBinary) modules() ([]Package, error) {
	info, err := g.readBuildInfo()
	if err != nil {
		return nil, err
	}

	pkgs := make([]Package, 0, len(info.Deps)+1)
	// "(devel)" is not a version; a locally built main module is left out.
	if info.Main.Path != "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		pkgs = append(pkgs, Package{Name: info.Main.Path, Version: info.Main.Version})
	}
	for _, dep := range info.Deps {
		v := dep.Version
		if dep.Replace != nil && dep.Replace.Version != "" {
			v = dep.Replace.Version
		}
		pkgs = append(pkgs, Package{Name: dep.Path, Version: v})
	}
	return pkgs, nil
}

func (g *GoBinary) readBuildInfo() (*debug.BuildInfo, error) {
	if g.Path == "" {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return nil, ErrNoBuildInfo
		}
		return info, nil
	}
	info, err := buildinfo.ReadFile(g.Path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read build info"), "path", g.Path)
	}
	return info, nil
}

package cmd

import (
	"os"
	"path/filepath"

	"github.com/ethanolivertroy/dep-inventory/internal/build"
	"github.com/ethanolivertroy/dep-inventory/internal/config"
	"github.com/ethanolivertroy/dep-inventory/internal/inventory"
	"github.com/ethanolivertroy/dep-inventory/internal/logger"
	"github.com/ethanolivertroy/dep-inventory/internal/manifest"
	"github.com/ethanolivertroy/dep-inventory/internal/models"
	"github.com/ethanolivertroy/dep-inventory/internal/registry"
	"github.com/ethanolivertroy/dep-inventory/internal/reporter"
	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

var (
	flagOutput          string
	flagFormat          string
	flagFailOnMissing   bool
	flagIncludeIndirect bool
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory [paths...]",
	Short: "Report install status and version of every declared dependency",
	RunE:  runInventory,
}

func init() {
	inventoryCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file path (default: stdout)")
	inventoryCmd.Flags().StringVarP(&flagFormat, "format", "f", "terminal", "Output format: terminal, json, sarif")
	inventoryCmd.Flags().BoolVar(&flagFailOnMissing, "fail-on-missing", false, "Exit with code 1 if a required dependency is not installed")
	inventoryCmd.Flags().BoolVar(&flagIncludeIndirect, "include-indirect", false, "Treat // indirect go.mod requirements as required")
	rootCmd.AddCommand(inventoryCmd)
}

func runInventory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.Paths = args
	}
	if cmd.Flags().Changed("format") {
		cfg.OutputFormat = flagFormat
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputFile = flagOutput
	}
	if cmd.Flags().Changed("fail-on-missing") {
		cfg.FailOnMissing = flagFailOnMissing
	}
	if cmd.Flags().Changed("include-indirect") {
		cfg.IncludeIndirect = flagIncludeIndirect
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	log := newLogger(cmd)
	entries, err := buildEntries(cfg, log)
	if err != nil {
		return err
	}

	rep := reporter.Get(cfg.OutputFormat)
	if s, ok := rep.(*reporter.SARIFReporter); ok {
		s.ToolVersion = build.Version
	}
	output, err := rep.Report(entries)
	if err != nil {
		return zerr.Wrap(err, "failed to generate report")
	}
	if err := writeOutput(cmd, cfg.OutputFile, output); err != nil {
		return err
	}

	if cfg.FailOnMissing && reporter.Summarize(entries).MissingRequired > 0 {
		return errCheckFailed
	}
	return nil
}

// buildEntries discovers declarations, builds the inventory and pairs each
// record with its declaration.
func buildEntries(cfg *models.Config, log logger.Logger) ([]models.Entry, error) {
	source, err := buildSource(cfg, log)
	if err != nil {
		return nil, err
	}

	inv, err := inventory.New(source, buildRegistry(cfg), inventory.WithLogger(log))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to build dependency inventory")
	}

	return manifest.Entries(inv.Dependencies(), source.Dependencies()), nil
}

func buildSource(cfg *models.Config, log logger.Logger) (*manifest.Combined, error) {
	found, err := manifest.Discover(cfg.Paths,
		manifest.WithParsers(manifest.DefaultParsers(cfg.IncludeIndirect)...),
		manifest.WithLogger(log),
	)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to discover manifests")
	}
	return manifest.Combine(manifest.NewStatic(cfg.Required, cfg.Dev), found), nil
}

// buildRegistry composes the configured registries. Python site-packages are
// always consulted; node_modules defaults to ./node_modules when present.
func buildRegistry(cfg *models.Config) registry.Registry {
	var members []registry.Registry

	if len(cfg.Registry.Static) > 0 {
		pkgs := make([]registry.Package, 0, len(cfg.Registry.Static))
		for _, p := range cfg.Registry.Static {
			pkgs = append(pkgs, registry.Package{Name: p.Name, Version: p.Version})
		}
		members = append(members, registry.NewStatic(pkgs...))
	}

	members = append(members, registry.NewPython(cfg.Registry.Python...))

	nodeModules := cfg.Registry.NodeModules
	if nodeModules == "" {
		if info, err := os.Stat("node_modules"); err == nil && info.IsDir() {
			nodeModules = "node_modules"
		}
	}
	if nodeModules != "" {
		members = append(members, registry.NewNode(filepath.Clean(nodeModules)))
	}

	if cfg.Registry.GoBinary != "" {
		members = append(members, registry.NewGoBinary(cfg.Registry.GoBinary))
	}

	return registry.NewMulti(members...)
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/ethanolivertroy/dep-inventory/internal/build"
	"github.com/ethanolivertroy/dep-inventory/internal/config"
	"github.com/ethanolivertroy/dep-inventory/internal/logger"
	"github.com/ethanolivertroy/dep-inventory/internal/models"
	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

// errCheckFailed marks a completed run whose result should exit with code 1.
// The report has already been written when it is returned.
var errCheckFailed = zerr.New("check failed")

var (
	flagConfig  string
	flagVerbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dep-inventory",
	Short: "Inventory declared dependencies against the installed environment",
	Long: `dep-inventory reads the dependencies your project declares and reports,
for each one, whether it is installed in the current environment and at which
version. Required dependencies are listed before development dependencies,
each in declaration order.

Declared dependencies are read from:
  - Python: requirements*.txt, pyproject.toml (PEP 621 and Poetry)
  - conda: environment.yml
  - Node.js: package.json
  - Go: go.mod
  - the [dependencies] table of .dep-inventory.toml

Installed packages are looked up in Python site-packages, node_modules, the
build info of a Go binary, and any fixed list from the config file.

Examples:
  # Inventory the current directory
  dep-inventory inventory

  # JSON report for specific paths
  dep-inventory inventory ./api ./web --format json

  # Fail CI when a required dependency is missing
  dep-inventory inventory --fail-on-missing --format sarif --output deps.sarif

  # Preview the anonymized usage event
  dep-inventory emit --dry-run

  # Check that every value of a CSV column is spelt correctly
  dep-inventory spelling --file data.csv --column comment --mostly 0.95`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       build.Version,
}

// Execute runs the CLI and returns the process exit code
func Execute() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err := rootCmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errCheckFailed):
		return 1
	default:
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		return 2
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file path (default: ./"+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

func newLogger(cmd *cobra.Command) logger.Logger {
	return logger.New(cmd.ErrOrStderr(), flagVerbose)
}

func loadConfig() (*models.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

// writeOutput writes data to path, or to the command's stdout when path is empty
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write output file"), "path", path)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", path)
	return nil
}

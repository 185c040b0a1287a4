package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ethanolivertroy/dep-inventory/internal/cache"
	"github.com/ethanolivertroy/dep-inventory/internal/config"
	"github.com/ethanolivertroy/dep-inventory/internal/models"
	"github.com/ethanolivertroy/dep-inventory/internal/telemetry"
	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

const appName = "dep-inventory"

var (
	flagDryRun     bool
	flagEndpoint   string
	flagResetCache bool
)

var emitCmd = &cobra.Command{
	Use:   "emit [paths...]",
	Short: "Send the anonymized dependency inventory usage event",
	Long: `emit builds the dependency inventory and posts it as a
data_context.__init__ usage event. The data context id is anonymized before
sending; package names and versions are sent as is.

Set ` + config.UsageStatsEnv + `=false (or 0, no) to disable sending.`,
	RunE: runEmit,
}

func init() {
	emitCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the event instead of sending it")
	emitCmd.Flags().StringVar(&flagEndpoint, "endpoint", "", "Usage statistics endpoint URL")
	emitCmd.Flags().BoolVar(&flagResetCache, "reset-cache", false, "Forget previously sent events")
	rootCmd.AddCommand(emitCmd)
}

func runEmit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.Paths = args
	}
	if cmd.Flags().Changed("endpoint") {
		cfg.Telemetry.Endpoint = flagEndpoint
	}

	log := newLogger(cmd)
	if !cfg.Telemetry.Enabled && !flagDryRun {
		log.Info("usage statistics disabled, nothing sent")
		return nil
	}

	entries, err := buildEntries(cfg, log)
	if err != nil {
		return err
	}
	infos := make([]models.PackageInfo, 0, len(entries))
	for _, e := range entries {
		infos = append(infos, e.Package)
	}

	contextID, err := dataContextID(cfg)
	if err != nil {
		return err
	}
	ev := telemetry.NewEvent(infos, contextID, time.Now())

	if flagDryRun {
		body, err := telemetry.Marshal(ev)
		if err != nil {
			return err
		}
		var out bytes.Buffer
		if err := json.Indent(&out, body, "", "  "); err != nil {
			return zerr.Wrap(err, "failed to format usage event")
		}
		out.WriteByte('\n')
		return writeOutput(cmd, "", out.Bytes())
	}

	var opts []telemetry.EmitterOption
	opts = append(opts, telemetry.WithLogger(log))
	if !cfg.Telemetry.NoCache {
		c, err := cache.New(appName, cfg.Telemetry.CacheTTL)
		if err != nil {
			log.Warn("usage event cache unavailable", "error", err.Error())
		} else {
			if flagResetCache {
				if err := c.Clear(); err != nil {
					return err
				}
			}
			opts = append(opts, telemetry.WithCache(c))
		}
	}

	emitter := telemetry.NewEmitter(cfg.Telemetry.Endpoint, cfg.Telemetry.Timeout, opts...)
	sent, err := emitter.Emit(cmd.Context(), ev)
	if err != nil {
		return err
	}
	if sent {
		fmt.Fprintf(cmd.ErrOrStderr(), "Usage event sent (%d dependencies)\n", len(infos))
	} else {
		fmt.Fprintln(cmd.ErrOrStderr(), "Usage event already sent recently, skipped")
	}
	return nil
}

// dataContextID returns the configured id, or the absolute working directory
// so that repeated runs in one project share an id
func dataContextID(cfg *models.Config) (string, error) {
	if cfg.Telemetry.DataContextID != "" {
		return cfg.Telemetry.DataContextID, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve working directory")
	}
	return filepath.Clean(wd), nil
}

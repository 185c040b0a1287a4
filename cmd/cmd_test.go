package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethanolivertroy/dep-inventory/internal/config"
	"github.com/ethanolivertroy/dep-inventory/internal/telemetry"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default so runs do not leak state
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFixture(t *testing.T) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	cfgPath = filepath.Join(dir, "inventory.toml")
	cfg := `
[dependencies]
required = ["req-package-1", "req-package-2", "not-installed-req-1"]
dev = ["dev-package-1"]

[registry]
python = ["` + filepath.ToSlash(filepath.Join(dir, "no-site-packages")) + `"]

[[registry.static]]
name = "req-package-1"
version = "8.8.8"

[[registry.static]]
name = "req-package-2"
version = "8.8.8"

[[registry.static]]
name = "dev-package-1"
version = "8.8.8"

[telemetry]
data_context_id = "fixture"
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return dir, cfgPath
}

func TestInventoryCommand_JSON(t *testing.T) {
	dir, cfgPath := writeFixture(t)

	out, err := execute(t, "inventory", dir, "--config", cfgPath, "--format", "json")
	require.NoError(t, err)

	var doc struct {
		Summary struct {
			Total           int `json:"total"`
			MissingRequired int `json:"missing_required"`
		} `json:"summary"`
		Dependencies []struct {
			PackageName        string  `json:"package_name"`
			Installed          bool    `json:"installed"`
			InstallEnvironment string  `json:"install_environment"`
			Version            *string `json:"version"`
		} `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, 4, doc.Summary.Total)
	assert.Equal(t, 1, doc.Summary.MissingRequired)
	require.Len(t, doc.Dependencies, 4)

	names := []string{}
	for _, d := range doc.Dependencies {
		names = append(names, d.PackageName)
	}
	assert.Equal(t, []string{"req-package-1", "req-package-2", "not-installed-req-1", "dev-package-1"}, names)
	assert.Equal(t, "8.8.8", *doc.Dependencies[0].Version)
	assert.Nil(t, doc.Dependencies[2].Version)
	assert.Equal(t, "dev", doc.Dependencies[3].InstallEnvironment)
}

func TestInventoryCommand_FailOnMissing(t *testing.T) {
	dir, cfgPath := writeFixture(t)

	_, err := execute(t, "inventory", dir, "--config", cfgPath, "--fail-on-missing")
	assert.ErrorIs(t, err, errCheckFailed)

	_, err = execute(t, "inventory", dir, "--config", cfgPath)
	assert.NoError(t, err)
}

func TestInventoryCommand_BadFormat(t *testing.T) {
	dir, cfgPath := writeFixture(t)

	_, err := execute(t, "inventory", dir, "--config", cfgPath, "--format", "xml")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestEmitCommand_DryRun(t *testing.T) {
	dir, cfgPath := writeFixture(t)

	out, err := execute(t, "emit", dir, "--config", cfgPath, "--dry-run")
	require.NoError(t, err)
	require.NoError(t, telemetry.Validate([]byte(out)))
	assert.Contains(t, out, `"data_context.__init__"`)
	assert.Contains(t, out, telemetry.Anonymize("fixture"))
}

func TestEmitCommand_Sends(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.UsageStatsEnv, "")

	received := make(chan []byte, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- body
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	dir, cfgPath := writeFixture(t)
	_, err := execute(t, "emit", dir, "--config", cfgPath, "--endpoint", srv.URL, "--reset-cache")
	require.NoError(t, err)
	assert.NoError(t, telemetry.Validate(<-received))
}

func TestEmitCommand_Disabled(t *testing.T) {
	t.Setenv(config.UsageStatsEnv, "false")

	dir, cfgPath := writeFixture(t)
	_, err := execute(t, "emit", dir, "--config", cfgPath, "--endpoint", "http://127.0.0.1:1/unreachable")
	assert.NoError(t, err)
}

func TestSpellingCommand(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(data, []byte("x,y\nthis,this\nsentence,sentnence\nis,not\nspelt,splet\ncorrectly,corectly\n"), 0o644))

	out, err := execute(t, "spelling", "--file", data, "--column", "x")
	require.NoError(t, err)
	assert.Contains(t, out, "PASSED")

	out, err = execute(t, "spelling", "--file", data, "--column", "y", "--mostly", "1")
	assert.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out, "sentnence, splet, corectly")

	_, err = execute(t, "spelling", "--file", data, "--column", "y", "--mostly", "0.4")
	assert.NoError(t, err)
}

func TestSpellingExamplesCommand(t *testing.T) {
	out, err := execute(t, "spelling", "examples")
	require.NoError(t, err)
	assert.Contains(t, out, "basic_positive_test")
	assert.Contains(t, out, "basic_negative_test")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dep-inventory version dev\n", out)
}

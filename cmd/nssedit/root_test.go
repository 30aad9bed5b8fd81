// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nssedit/nssedit/internal/config"
	"github.com/nssedit/nssedit/internal/issue"

	"github.com/spf13/cobra"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v0.3.0"
		Commit = "abc1234"
		BuildDate = "2026-10-01T10:00:00Z"

		got := getVersionString()
		want := "v0.3.0 (commit: abc1234, built: 2026-10-01T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got := getVersionString(); got != "dev (built from source)" {
			t.Errorf("getVersionString() = %q", got)
		}
	})
}

func TestNewRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	app, err := NewApp(Dependencies{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	root := NewRootCommand(app)

	for _, name := range []string{"show", "ids", "modify", "remove", "import", "watch", "config"} {
		if sub, _, err := root.Find([]string{name}); err != nil || sub.Name() != name {
			t.Errorf("subcommand %q not registered (err = %v)", name, err)
		}
	}
	for _, flag := range []string{"config", "verbose", "root", "file", "imports"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("global flag --%s not registered", flag)
		}
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		level     config.LogLevel
		verbose   bool
		wantDebug bool
		wantWarn  bool
	}{
		{name: "warn", level: config.LogLevelWarn, wantWarn: true},
		{name: "error hides warn", level: config.LogLevelError},
		{name: "debug", level: config.LogLevelDebug, wantDebug: true, wantWarn: true},
		{name: "verbose overrides level", level: config.LogLevelError, verbose: true, wantDebug: true, wantWarn: true},
		{name: "unknown falls back to warn", level: "loud", wantWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level, tt.verbose)
			logger.Debug("debug-record")
			logger.Warn("warn-record")

			out := buf.String()
			if got := strings.Contains(out, "debug-record"); got != tt.wantDebug {
				t.Errorf("debug written = %v, want %v\n%s", got, tt.wantDebug, out)
			}
			if got := strings.Contains(out, "warn-record"); got != tt.wantWarn {
				t.Errorf("warn written = %v, want %v\n%s", got, tt.wantWarn, out)
			}
			if out != "" && !strings.Contains(out, config.AppName) {
				t.Errorf("log output lacks the %q prefix: %s", config.AppName, out)
			}
		})
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	plain := errors.New("plain")
	if got := formatErrorForDisplay(plain, false); got != "plain" {
		t.Errorf("formatErrorForDisplay(plain) = %q", got)
	}

	ae := issue.NewErrorContext().
		WithOperation("save sections").
		WithSuggestion("keep one id").
		Wrap(plain).
		Build()
	got := formatErrorForDisplay(ae, true)
	for _, want := range []string{"failed to save sections", "keep one id", "Error chain:"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatErrorForDisplay() missing %q:\n%s", want, got)
		}
	}
}

func TestPrepareSettings_VerboseFromConfig(t *testing.T) {
	h := newCLIHarness(t)
	h.cfg.UI.Verbose = true

	app, err := NewApp(Dependencies{
		Config: &stubConfigProvider{cfg: h.cfg},
		Fs:     h.fs,
		Stdout: &h.stdout,
		Stderr: &h.stderr,
	})
	if err != nil {
		t.Fatal(err)
	}
	root := NewRootCommand(app)
	var seen *settings
	root.AddCommand(newProbeCommand(&seen))
	root.SetArgs([]string{"--root", "/elsewhere", "probe"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}

	if seen == nil || !seen.verbose {
		t.Fatalf("settings = %+v, want verbose from ui.verbose", seen)
	}
	if seen.cfg.Files.ProjectRoot != "/elsewhere" {
		t.Errorf("project root = %q, want the --root override", seen.cfg.Files.ProjectRoot)
	}
}

// newProbeCommand records the settings the root pre-run installed.
func newProbeCommand(seen **settings) *cobra.Command {
	return &cobra.Command{
		Use: "probe",
		RunE: func(cmd *cobra.Command, _ []string) error {
			*seen = settingsFromContext(cmd.Context())
			return nil
		},
	}
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nssedit/nssedit/internal/config"
	"github.com/nssedit/nssedit/internal/issue"
	"github.com/nssedit/nssedit/internal/testutil"
)

// useConfigDir points the config directory at a temp dir for one test.
func useConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	config.SetConfigDirOverride(dir)
	t.Cleanup(config.Reset)
	return dir
}

func TestConfigShow(t *testing.T) {
	h := newCLIHarness(t)
	h.cfg.Directives.MatchStrategy = "exact"
	useConfigDir(t)

	h.mustRun("config", "show")

	out := h.stdout.String()
	for _, want := range []string{"Current Configuration", "(using defaults)", "project_root: " + testRoot, "match_strategy: exact", "debounce: 500ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}
}

func TestConfigShow_LoadFailure(t *testing.T) {
	h := newCLIHarness(t)
	useConfigDir(t)

	app, err := NewApp(Dependencies{
		Config: &stubConfigProvider{err: errors.New("bad cue")},
		Fs:     h.fs,
		Stdout: &h.stdout,
		Stderr: &h.stderr,
	})
	if err != nil {
		t.Fatal(err)
	}
	root := NewRootCommand(app)
	root.SetArgs([]string{"config", "show"})
	root.SetOut(&h.stdout)
	root.SetErr(&h.stderr)

	var svcErr *ServiceError
	if err := root.Execute(); !errors.As(err, &svcErr) || svcErr.IssueID != issue.ConfigLoadFailedId {
		t.Fatalf("error = %v, want ConfigLoadFailed service error", err)
	}
	if !strings.Contains(h.stderr.String(), "Failed to load configuration") {
		t.Errorf("stderr does not render the catalog entry:\n%s", h.stderr.String())
	}
}

func TestConfigInit(t *testing.T) {
	h := newCLIHarness(t)
	dir := useConfigDir(t)
	path := filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt)

	h.mustRun("config", "init")
	if got := testutil.MustReadFile(t, path); got != config.GenerateCUE(config.DefaultConfig()) {
		t.Errorf("config init wrote:\n%s", got)
	}

	err := h.run("config", "init")
	if !errors.Is(err, config.ErrConfigExists) {
		t.Fatalf("second init error = %v, want ErrConfigExists", err)
	}
	if !strings.Contains(h.stderr.String(), "--force") {
		t.Errorf("stderr should suggest --force:\n%s", h.stderr.String())
	}

	h.mustRun("config", "init", "--force")
}

func TestConfigShow_LocalFile(t *testing.T) {
	useConfigDir(t)
	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), "directives: match_strategy: \"exact\"\n")
	defer testutil.MustChdir(t, dir)()

	var stdout, stderr strings.Builder
	app, err := NewApp(Dependencies{Stdout: &stdout, Stderr: &stderr})
	if err != nil {
		t.Fatal(err)
	}
	root := NewRootCommand(app)
	root.SetArgs([]string{"config", "show"})
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	if err := root.Execute(); err != nil {
		t.Fatalf("config show: %v\n%s", err, stderr.String())
	}

	out := stdout.String()
	if !strings.Contains(out, "config.cue") || !strings.Contains(out, "match_strategy: exact") {
		t.Errorf("config show did not use the local file:\n%s", out)
	}
}

func TestConfigPath(t *testing.T) {
	h := newCLIHarness(t)
	dir := useConfigDir(t)

	h.mustRun("config", "path")
	want := filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt)
	if got := strings.TrimSpace(h.stdout.String()); got != want {
		t.Errorf("config path = %q, want %q", got, want)
	}
	if !strings.Contains(h.stderr.String(), "does not exist") {
		t.Errorf("stderr = %q", h.stderr.String())
	}
}

func TestConfigPath_ExplicitMissing(t *testing.T) {
	h := newCLIHarness(t)
	useConfigDir(t)

	if err := h.run("--config", filepath.Join(t.TempDir(), "nope.cue"), "config", "path"); err == nil {
		t.Fatal("expected an error for a missing --config file")
	}
}

func TestConfigDump(t *testing.T) {
	h := newCLIHarness(t)
	h.mustRun("config", "dump")

	if got, want := h.stdout.String(), config.GenerateCUE(h.cfg); got != want {
		t.Errorf("config dump =\n%s\nwant\n%s", got, want)
	}
}

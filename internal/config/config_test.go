// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/nssedit/nssedit/internal/issue"
	"github.com/nssedit/nssedit/internal/testutil"
	"github.com/nssedit/nssedit/pkg/nss"
)

func load(t *testing.T, opts LoadOptions) (*Config, string, error) {
	t.Helper()
	if opts.ConfigDirPath == "" {
		opts.ConfigDirPath = t.TempDir()
	}
	if opts.WorkDir == "" {
		opts.WorkDir = t.TempDir()
	}
	return loadWithOptions(context.Background(), opts)
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Files.Target != "imports/modify.nss" || cfg.Files.Imports != "shell.nss" || cfg.Files.ProjectRoot != "." {
		t.Errorf("Files = %+v", cfg.Files)
	}
	if cfg.Directives.MatchStrategy != nss.MatchSubstring {
		t.Errorf("MatchStrategy = %q", cfg.Directives.MatchStrategy)
	}
	if !cfg.UI.Confirm || cfg.UI.Verbose || cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("UI = %+v", cfg.UI)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Debounce = %v", cfg.Watch.Debounce)
	}
	if cfg.Log.Level != LogLevelWarn {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup is Linux-specific")
	}

	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if want := filepath.Join("/tmp/xdg", AppName); dir != want {
		t.Errorf("ConfigDir() = %s, want %s", dir, want)
	}

	restore := testutil.MustUnsetenv(t, "XDG_CONFIG_HOME")
	defer restore()
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".config", AppName); dir != want {
		t.Errorf("ConfigDir() = %s, want %s", dir, want)
	}
}

func TestConfigDir_Override(t *testing.T) {
	SetConfigDirOverride("/custom/dir")
	defer Reset()

	dir, err := ConfigDir()
	if err != nil || dir != "/custom/dir" {
		t.Errorf("ConfigDir() = %q, %v", dir, err)
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	cfg, path, err := load(t, LoadOptions{})
	if err != nil {
		t.Fatalf("load error = %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want none", path)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoad_UserFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), `
files: project_root: "/opt/shell"
directives: match_strategy: "exact"
ui: confirm: false
watch: debounce: "2s"
`)

	cfg, path, err := load(t, LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("load error = %v", err)
	}
	if path != filepath.Join(dir, "config.cue") {
		t.Errorf("path = %q", path)
	}
	if cfg.Files.ProjectRoot != "/opt/shell" {
		t.Errorf("ProjectRoot = %q", cfg.Files.ProjectRoot)
	}
	if cfg.Files.Target != "imports/modify.nss" {
		t.Errorf("Target default lost: %q", cfg.Files.Target)
	}
	if cfg.Directives.MatchStrategy != nss.MatchExactFields {
		t.Errorf("MatchStrategy = %q", cfg.Directives.MatchStrategy)
	}
	if cfg.UI.Confirm {
		t.Error("Confirm = true, want false")
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("Debounce = %v", cfg.Watch.Debounce)
	}
}

func TestLoad_LocalFile(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(work, "config.cue"), `log: level: "debug"`)

	cfg, path, err := load(t, LoadOptions{WorkDir: work})
	if err != nil {
		t.Fatalf("load error = %v", err)
	}
	if path != filepath.Join(work, "config.cue") || cfg.Log.Level != LogLevelDebug {
		t.Errorf("path = %q, level = %q", path, cfg.Log.Level)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), `ui: verbose: false`)
	t.Setenv("NSSEDIT_UI_VERBOSE", "true")
	t.Setenv("NSSEDIT_FILES_TARGET", "custom.nss")

	cfg, _, err := load(t, LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("load error = %v", err)
	}
	if !cfg.UI.Verbose {
		t.Error("NSSEDIT_UI_VERBOSE not applied")
	}
	if cfg.Files.Target != "custom.nss" {
		t.Errorf("Target = %q", cfg.Files.Target)
	}
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Setenv("NSSEDIT_DIRECTIVES_MATCH_STRATEGY", "fuzzy")

	_, _, err := load(t, LoadOptions{})
	if !errors.Is(err, ErrInvalidMatchStrategy) {
		t.Fatalf("load error = %v, want ErrInvalidMatchStrategy", err)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.Operation != "validate configuration" {
		t.Errorf("error is not an actionable validation error: %v", err)
	}
}

func TestLoad_CustomPath(t *testing.T) {
	t.Parallel()

	custom := filepath.Join(t.TempDir(), "mine.cue")
	testutil.MustWriteFile(t, custom, `ui: color_scheme: "dark"`)

	cfg, path, err := load(t, LoadOptions{ConfigFilePath: custom})
	if err != nil {
		t.Fatalf("load error = %v", err)
	}
	if path != custom || cfg.UI.ColorScheme != ColorSchemeDark {
		t.Errorf("path = %q, scheme = %q", path, cfg.UI.ColorScheme)
	}
}

func TestLoad_CustomPathNotFound(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.cue")
	_, _, err := load(t, LoadOptions{ConfigFilePath: missing})
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error = %v, want *issue.ActionableError", err)
	}
	if ae.Resource != missing || !ae.HasSuggestions() {
		t.Errorf("ActionableError = %+v", ae)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "syntax", content: "files: {", want: "config.cue"},
		{name: "strategy", content: `directives: match_strategy: "fuzzy"`, want: "directives.match_strategy"},
		{name: "target extension", content: `files: target: "modify.txt"`, want: "files.target"},
		{name: "debounce format", content: `watch: debounce: "soon"`, want: "watch.debounce"},
		{name: "unknown key", content: `theme: "x"`, want: "theme"},
		{name: "wrong type", content: `ui: verbose: "yes"`, want: "ui.verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), tt.content)
			_, _, err := load(t, LoadOptions{ConfigDirPath: dir})
			if err == nil {
				t.Fatal("load accepted invalid config")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestResolvePath_Precedence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	work := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(work, "config.cue"), "")

	opts := LoadOptions{ConfigDirPath: dir, WorkDir: work}
	if got, _ := ResolvePath(opts); got != filepath.Join(work, "config.cue") {
		t.Errorf("ResolvePath() = %q, want local file", got)
	}

	testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), "")
	if got, _ := ResolvePath(opts); got != filepath.Join(dir, "config.cue") {
		t.Errorf("ResolvePath() = %q, want user file", got)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	opts := LoadOptions{ConfigDirPath: filepath.Join(t.TempDir(), "nested")}
	path, err := CreateDefaultConfig(opts, false)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}

	cfg, loadedFrom, err := load(t, opts)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if loadedFrom != path || *cfg != *DefaultConfig() {
		t.Errorf("loaded %+v from %q", cfg, loadedFrom)
	}

	if _, err := CreateDefaultConfig(opts, false); !errors.Is(err, ErrConfigExists) {
		t.Errorf("second CreateDefaultConfig() error = %v, want ErrConfigExists", err)
	}
	if _, err := CreateDefaultConfig(opts, true); err != nil {
		t.Errorf("forced CreateDefaultConfig() error = %v", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	want := DefaultConfig()
	want.Files.ProjectRoot = "/opt/nilesoft"
	want.Directives.MatchStrategy = nss.MatchExactFields
	want.UI.Verbose = true
	want.Watch.Debounce = 1500 * time.Millisecond
	want.Log.Level = LogLevelError

	custom := filepath.Join(t.TempDir(), "config.cue")
	testutil.MustWriteFile(t, custom, GenerateCUE(want))

	got, _, err := load(t, LoadOptions{ConfigFilePath: custom})
	if err != nil {
		t.Fatalf("load error = %v", err)
	}
	if *got != *want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestProvider_Load(t *testing.T) {
	t.Parallel()

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir(), WorkDir: t.TempDir()})
	if err != nil || cfg == nil {
		t.Fatalf("Load() = %v, %v", cfg, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load(canceled) error = %v", err)
	}
}

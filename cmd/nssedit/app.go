// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/nssedit/nssedit/internal/config"
	"github.com/nssedit/nssedit/internal/issue"
	"github.com/nssedit/nssedit/internal/session"
	"github.com/nssedit/nssedit/internal/tui"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type (
	settingsContextKey struct{}

	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: all Cobra command handlers receive an App reference and reach
	// configuration, the filesystem and prompts through it.
	App struct {
		Config   ConfigProvider
		Prompter Prompter
		fs       afero.Fs
		stdout   io.Writer
		stderr   io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp. Tests supply an in-memory
	// filesystem, a fixed configuration and a scripted prompter.
	Dependencies struct {
		Config   ConfigProvider
		Prompter Prompter
		Fs       afero.Fs
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	// This abstraction enables testing with custom config sources or mock implementations.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// Prompter asks the user for confirmation.
	Prompter interface {
		Confirm(ctx context.Context, opts tui.ConfirmOptions) (bool, error)
	}

	// settings is the per-invocation state resolved by the root command:
	// configuration with flag overrides applied and the installed logger.
	settings struct {
		cfg        *config.Config
		configPath string
		verbose    bool
		logger     *slog.Logger
	}

	tuiPrompter struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Prompter == nil {
		deps.Prompter = tuiPrompter{}
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}

	return &App{
		Config:   deps.Config,
		Prompter: deps.Prompter,
		fs:       deps.Fs,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}, nil
}

func (tuiPrompter) Confirm(ctx context.Context, opts tui.ConfirmOptions) (bool, error) {
	return tui.Confirm(ctx, opts)
}

func contextWithSettings(ctx context.Context, s *settings) context.Context {
	return context.WithValue(ctx, settingsContextKey{}, s)
}

// settingsFromContext returns the settings installed by the root command, or
// defaults when a command runs outside the root pre-run (tests, config).
func settingsFromContext(ctx context.Context) *settings {
	if ctx != nil {
		if s, ok := ctx.Value(settingsContextKey{}).(*settings); ok && s != nil {
			return s
		}
	}
	return &settings{cfg: config.DefaultConfig(), logger: slog.Default()}
}

// openSession opens an editing session on the files named by the resolved
// configuration.
func (a *App) openSession(ctx context.Context) (*session.Session, error) {
	s := settingsFromContext(ctx)
	return session.Open(session.Options{
		ProjectRoot: s.cfg.Files.ProjectRoot,
		Target:      s.cfg.Files.Target,
		Imports:     s.cfg.Files.Imports,
		Strategy:    s.cfg.Directives.MatchStrategy,
		Fs:          a.fs,
		Logger:      s.logger,
	})
}

// promptConfig derives prompt settings from the configured color scheme.
func (a *App) promptConfig(ctx context.Context) tui.Config {
	cfg := tui.DefaultConfig()
	cfg.Output = a.stderr
	cfg.Theme = tui.ThemeForScheme(settingsFromContext(ctx).cfg.UI.ColorScheme.String())
	return cfg
}

// issueStyle picks the glamour style for catalog entries written to stderr.
func (a *App) issueStyle(ctx context.Context) string {
	if f, ok := a.stderr.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		return "notty"
	}
	if settingsFromContext(ctx).cfg.UI.ColorScheme == config.ColorSchemeLight {
		return "light"
	}
	return "dark"
}

// runE adapts a handler so that failures are classified against the issue
// catalog and the matching entry is rendered to stderr before Cobra and fang
// report the error itself.
func (a *App) runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := classifyError(fn(cmd, args))
		var (
			svcErr *ServiceError
			ae     *issue.ActionableError
		)
		if !errors.As(err, &svcErr) && errors.As(err, &ae) && ae.HasSuggestions() {
			svcErr = newServiceError(err, 0, "")
			err = svcErr
		}
		if svcErr != nil {
			if svcErr.StyledMessage == "" && errors.As(svcErr.Err, &ae) && ae.HasSuggestions() {
				svcErr.StyledMessage = formatErrorForDisplay(ae, settingsFromContext(cmd.Context()).verbose) + "\n"
			}
			renderServiceError(a.stderr, svcErr, a.issueStyle(cmd.Context()))
		}
		return err
	}
}

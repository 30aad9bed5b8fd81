// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nssedit/nssedit/internal/config"
	"github.com/nssedit/nssedit/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the global flags shared by every subcommand.
type rootFlagValues struct {
	configPath  string
	verbose     bool
	projectRoot string
	target      string
	imports     string
}

// NewRootCommand builds the nssedit command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "nssedit",
		Short: "Edit Nilesoft Shell context menu configuration",
		Long: TitleStyle.Render("nssedit") + SubtitleStyle.Render(" - Edit Nilesoft Shell context menu configuration") + `

nssedit reads and rewrites the parts of a Nilesoft Shell configuration it
manages, leaving everything else byte-for-byte intact:

  - the hide, more and shift id lists of imports/modify.nss
  - modify(find=... title=... icon=...) directives
  - the remove(find="a|b|c") directive
  - import '<path>' lines of shell.nss

` + SubtitleStyle.Render("Examples:") + `
  nssedit show                              Show everything nssedit manages
  nssedit ids add hide id.copy_path         Hide an entry
  nssedit modify add --find Open --title Launch
  nssedit import add imports/theme.nss      Import a file from shell.nss
  nssedit --root "C:/Program Files/Nilesoft Shell" watch`,
		SilenceUsage: true,
		PersistentPreRunE: app.runE(func(cmd *cobra.Command, _ []string) error {
			return prepareSettings(cmd, app, flags)
		}),
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/nssedit/config.cue)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&flags.projectRoot, "root", "", "Nilesoft Shell directory (overrides files.project_root)")
	pf.StringVar(&flags.target, "file", "", "managed .nss file (overrides files.target)")
	pf.StringVar(&flags.imports, "imports", "", "file holding import lines (overrides files.imports)")

	rootCmd.AddCommand(
		newShowCommand(app),
		newIDsCommand(app),
		newModifyCommand(app),
		newRemoveCommand(app),
		newImportCommand(app),
		newWatchCommand(app),
		newConfigCommand(app, flags),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the App and the command tree and runs it through fang.
// This is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// prepareSettings loads configuration, applies the global flag overrides,
// installs the logger and stores the result in the command context.
func prepareSettings(cmd *cobra.Command, app *App, flags *rootFlagValues) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return newServiceError(err, issue.ConfigLoadFailedId, "")
	}

	if flags.projectRoot != "" {
		cfg.Files.ProjectRoot = flags.projectRoot
	}
	if flags.target != "" {
		cfg.Files.Target = flags.target
	}
	if flags.imports != "" {
		cfg.Files.Imports = flags.imports
	}

	s := &settings{
		cfg:        cfg,
		configPath: flags.configPath,
		verbose:    flags.verbose || cfg.UI.Verbose,
	}
	s.logger = newLogger(app.stderr, cfg.Log.Level, s.verbose)
	slog.SetDefault(s.logger)

	s.logger.Debug("settings resolved",
		"root", cfg.Files.ProjectRoot,
		"target", cfg.Files.Target,
		"imports", cfg.Files.Imports,
		"strategy", cfg.Directives.MatchStrategy)

	cmd.SetContext(contextWithSettings(ctx, s))
	return nil
}

// newLogger returns a slog.Logger backed by charmbracelet/log. Verbose mode
// lowers the level to debug.
func newLogger(w io.Writer, level config.LogLevel, verbose bool) *slog.Logger {
	lvl, err := log.ParseLevel(level.String())
	if err != nil {
		lvl = log.WarnLevel
	}
	if verbose {
		lvl = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  lvl,
	})
	return slog.New(handler)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// printWarning writes a warning line to stderr.
func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, WarningStyle.Render("Warning: ")+fmt.Sprintf(format, args...))
}

// printSuccess writes a success line to stdout.
func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, SuccessStyle.Render("✓ ")+fmt.Sprintf(format, args...))
}

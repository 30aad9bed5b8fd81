// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nssedit/nssedit/internal/config"
	"github.com/nssedit/nssedit/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `nssedit config` command tree.
// Subcommands that read configuration use the App's ConfigProvider. The tree
// replaces the root pre-run so that a broken config file can still be
// located, dumped and regenerated.
func newConfigCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage nssedit configuration",
		Long: `Manage nssedit configuration.

Configuration is stored in:
  - Linux: ~/.config/nssedit/config.cue
  - macOS: ~/Library/Application Support/nssedit/config.cue
  - Windows: %APPDATA%\nssedit\config.cue

A config.cue in the working directory is used when the user file is absent.
Environment variables prefixed with NSSEDIT_ override file values.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(app.stderr, config.LogLevelWarn, rootFlags.verbose)
			slog.SetDefault(logger)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(contextWithSettings(ctx, &settings{
				cfg:        config.DefaultConfig(),
				configPath: rootFlags.configPath,
				verbose:    rootFlags.verbose,
				logger:     logger,
			}))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd.Context(), app, rootFlags.configPath)
		}),
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, _ []string) error {
			path, err := config.CreateDefaultConfig(config.LoadOptions{}, force)
			if errors.Is(err, config.ErrConfigExists) {
				return issue.NewErrorContext().
					WithOperation("create configuration").
					WithResource(path).
					WithSuggestion("Re-run with --force to overwrite it").
					WithSuggestion("Inspect it with 'nssedit config show'").
					Wrap(err).
					BuildError()
			}
			if err != nil {
				return err
			}
			printSuccess(app.stdout, "Created %s", path)
			return nil
		}),
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, _ []string) error {
			return showConfigPath(app, rootFlags.configPath)
		}),
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: rootFlags.configPath})
			if err != nil {
				return newServiceError(err, issue.ConfigLoadFailedId, "")
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		}),
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, configPath string) error {
	opts := config.LoadOptions{ConfigFilePath: configPath}
	cfg, err := app.Config.Load(ctx, opts)
	if err != nil {
		return newServiceError(err, issue.ConfigLoadFailedId, "")
	}

	keyStyle := CmdStyle
	w := app.stdout

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if path, pathErr := config.ResolvePath(opts); pathErr == nil && path != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("files"))
	fmt.Fprintf(w, "  project_root: %s\n", cfg.Files.ProjectRoot)
	fmt.Fprintf(w, "  target: %s\n", cfg.Files.Target)
	fmt.Fprintf(w, "  imports: %s\n", cfg.Files.Imports)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("directives"))
	fmt.Fprintf(w, "  match_strategy: %s\n", cfg.Directives.MatchStrategy)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", cfg.UI.ColorScheme)
	fmt.Fprintf(w, "  verbose: %v\n", cfg.UI.Verbose)
	fmt.Fprintf(w, "  confirm: %v\n", cfg.UI.Confirm)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("watch"))
	fmt.Fprintf(w, "  debounce: %s\n", cfg.Watch.Debounce)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("log"))
	fmt.Fprintf(w, "  level: %s\n", cfg.Log.Level)
	return nil
}

func showConfigPath(app *App, configPath string) error {
	opts := config.LoadOptions{ConfigFilePath: configPath}
	path, err := config.ResolvePath(opts)
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintln(app.stdout, path)
		return nil
	}

	defaultPath, err := config.DefaultFilePath(opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(app.stdout, defaultPath)
	fmt.Fprintln(app.stderr, SubtitleStyle.Render("(file does not exist; defaults apply)"))
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nssedit/nssedit/internal/issue"
	"github.com/nssedit/nssedit/internal/tui"
	"github.com/nssedit/nssedit/pkg/nss"

	"github.com/spf13/cobra"
)

// modifyFlagValues holds the directive fields shared by the modify subcommands.
type modifyFlagValues struct {
	find  string
	title string
	icon  string
}

func (f *modifyFlagValues) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.find, "find", "", "menu item title to match (required)")
	cmd.Flags().StringVar(&f.title, "title", "", "replacement title (required)")
	cmd.Flags().StringVar(&f.icon, "icon", "", "icon path (optional)")
}

func (f *modifyFlagValues) fields() nss.ModifyFields {
	return nss.ModifyFields{Find: f.find, Title: f.title, Icon: f.icon}
}

// newModifyCommand creates the `nssedit modify` command tree.
func newModifyCommand(app *App) *cobra.Command {
	modifyCmd := &cobra.Command{
		Use:   "modify",
		Short: "Edit modify(find=... title=... icon=...) directives",
		Long: `Edit the single-line modify directives of the target file:

  modify(find='<old>' title='<new>' icon='<icon>')

Deletion matches find, title and icon as substrings by default, so one request
can remove several lines. Use --dry-run to preview, --exact to compare whole
fields, or set directives.match_strategy to "exact".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	modifyCmd.AddCommand(
		newModifyListCommand(app),
		newModifyAddCommand(app),
		newModifyDeleteCommand(app),
		newModifyReplaceCommand(app),
	)
	return modifyCmd
}

func newModifyListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List modify directives with their index",
		Args:  cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, _ []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return err
			}
			for i, m := range sess.Snapshot().Modifies {
				fmt.Fprintf(app.stdout, "%d. %s\n", i+1, CmdStyle.Render(strings.TrimSpace(m.Raw)))
			}
			return nil
		}),
	}
}

func newModifyAddCommand(app *App) *cobra.Command {
	var flags modifyFlagValues

	cmd := &cobra.Command{
		Use:   "add --find <old> --title <new> [--icon <path>]",
		Short: "Append a modify directive",
		Args:  cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, _ []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return err
			}
			if err := sess.AppendModify(flags.fields()); err != nil {
				return err
			}
			printSuccess(app.stdout, "Added %s", nss.FormatModify(flags.fields()))
			return nil
		}),
	}

	flags.register(cmd)
	return cmd
}

func newModifyDeleteCommand(app *App) *cobra.Command {
	var (
		flags  modifyFlagValues
		exact  bool
		yes    bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "delete --find <old> --title <new> [--icon <path>]",
		Short: "Delete the modify directives matching the given fields",
		Long: `Delete every modify directive whose line matches the given fields.

When more than one line matches and ui.confirm is enabled, nssedit asks before
deleting. Pass --yes to skip the question (required when stdin is not a
terminal).`,
		Args: cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := app.openSession(ctx)
			if err != nil {
				return err
			}

			var strategy nss.MatchStrategy
			if exact {
				strategy = nss.MatchExactFields
			}
			f := flags.fields()

			preview, err := sess.PreviewDeleteModify(f, strategy)
			if err != nil {
				return err
			}

			if dryRun {
				fmt.Fprintf(app.stdout, "Would delete %d modify %s\n", preview.Affected, plural(preview.Affected, "line", "lines"))
				return nil
			}

			switch preview.Kind() {
			case nss.OutcomeNone:
				printWarning(app.stderr, "no modify directive matched; nothing deleted")
				return nil
			case nss.OutcomeMultiple:
				if err := confirmMultipleDelete(cmd, app, preview, yes, sess.TargetPath()); err != nil {
					return err
				}
			}

			outcome, err := sess.DeleteModify(f, strategy)
			if err != nil {
				return err
			}
			printSuccess(app.stdout, "Deleted %d modify %s", outcome.Affected, plural(outcome.Affected, "line", "lines"))
			if outcome.Kind() == nss.OutcomeMultiple {
				printWarning(app.stderr, "%s", outcome.Kind())
			}
			return nil
		}),
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&exact, "exact", false, "match whole fields instead of substrings")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete multiple matches without asking")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report how many lines would be deleted and exit")
	return cmd
}

// confirmMultipleDelete asks before a delete that affects several lines.
// It returns nil when the delete may proceed.
func confirmMultipleDelete(cmd *cobra.Command, app *App, preview nss.Outcome, yes bool, target string) error {
	ctx := cmd.Context()
	if yes || !settingsFromContext(ctx).cfg.UI.Confirm {
		return nil
	}

	confirmed, err := app.Prompter.Confirm(ctx, tui.ConfirmOptions{
		Title:       fmt.Sprintf("Delete %d modify lines?", preview.Affected),
		Description: "The fields matched more than one directive.",
		Config:      app.promptConfig(ctx),
	})
	if errors.Is(err, tui.ErrNotInteractive) {
		return newServiceError(issue.NewErrorContext().
			WithOperation("delete modify directives").
			WithResource(target).
			WithSuggestion("Re-run with --yes to delete every match").
			WithSuggestion("Re-run with --exact to compare whole fields").
			Wrap(fmt.Errorf("%d lines matched and no terminal is available to confirm: %w", preview.Affected, err)).
			BuildError(), issue.AmbiguousMatchId, "")
	}
	if err != nil {
		return err
	}
	if !confirmed {
		return &ExitError{Code: 1, Err: errors.New("deletion cancelled")}
	}
	return nil
}

func newModifyReplaceCommand(app *App) *cobra.Command {
	var (
		flags modifyFlagValues
		line  string
		index int
	)

	cmd := &cobra.Command{
		Use:   "replace (--line <raw> | --index <n>) --find <old> --title <new> [--icon <path>]",
		Short: "Replace a modify directive identified by its exact line",
		Long: `Replace the modify directive whose line is exactly --line (or the n-th
directive of 'nssedit modify list' with --index) by a freshly formatted one.

When the line no longer exists, for example because the file was edited in
the meantime, nothing is written and nssedit exits with status 2.`,
		Args: cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, _ []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return err
			}

			raw := line
			if cmd.Flags().Changed("index") {
				modifies := sess.Snapshot().Modifies
				if index < 1 || index > len(modifies) {
					return fmt.Errorf("--index %d is out of range (1-%d)", index, len(modifies))
				}
				raw = modifies[index-1].Raw
			}

			outcome, err := sess.ReplaceModify(raw, flags.fields())
			if err != nil {
				return err
			}
			switch outcome.Kind() {
			case nss.OutcomeNone:
				printWarning(app.stderr, "no modify directive equals %q; nothing replaced", strings.TrimSpace(raw))
				return &ExitError{Code: exitNoMatch, Err: errors.New("modify line not found")}
			case nss.OutcomeMultiple:
				printWarning(app.stderr, "%d identical lines were replaced", outcome.Affected)
			}
			printSuccess(app.stdout, "Replaced with %s", nss.FormatModify(flags.fields()))
			return nil
		}),
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&line, "line", "", "exact directive line to replace")
	cmd.Flags().IntVar(&index, "index", 0, "1-based position from 'nssedit modify list'")
	cmd.MarkFlagsMutuallyExclusive("line", "index")
	cmd.MarkFlagsOneRequired("line", "index")
	return cmd
}

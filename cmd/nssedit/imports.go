// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nssedit/nssedit/internal/issue"
	"github.com/nssedit/nssedit/internal/session"
	"github.com/nssedit/nssedit/pkg/nss"

	"github.com/spf13/cobra"
)

// newImportCommand creates the `nssedit import` command tree.
func newImportCommand(app *App) *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Edit the import lines of the imports file",
		Long: `Edit the import '<path>' lines of the imports file (shell.nss by default).

Paths are stored relative to the project root with forward slashes. Existing
import lines keep their position; new ones are appended in sorted order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	importCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print the imported paths, one per line",
		Args:  cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, _ []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return err
			}
			for _, imp := range sess.Snapshot().Imports {
				fmt.Fprintln(app.stdout, imp.RelativePath)
			}
			return nil
		}),
	})

	importCmd.AddCommand(&cobra.Command{
		Use:   "add <path>",
		Short: "Import a .nss file",
		Long: `Import a .nss file, given absolute or relative to the project root.
The .nss extension is added when missing.`,
		Args: cobra.ExactArgs(1),
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return err
			}
			rel, err := sess.AddImport(args[0])
			if err != nil {
				return importsError(err)
			}
			printSuccess(app.stdout, "Imported %s", rel)
			return nil
		}),
	})

	importCmd.AddCommand(&cobra.Command{
		Use:   "delete <name-or-path>",
		Short: "Drop an import by relative path or file name",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			var paths []string
			for _, imp := range sess.Snapshot().Imports {
				paths = append(paths, imp.RelativePath)
			}
			return paths, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return err
			}
			outcome, err := sess.DeleteImport(args[0])
			if err != nil {
				return importsError(err)
			}
			if outcome.Kind() == nss.OutcomeNone {
				printWarning(app.stderr, "no import matches %q", args[0])
				return nil
			}
			printSuccess(app.stdout, "Dropped import %s", args[0])
			return nil
		}),
	})

	importCmd.AddCommand(&cobra.Command{
		Use:   "sync [path]...",
		Short: "Make the imports exactly the given paths",
		Long: `Reconcile the imports file against the given root-relative paths: imports
not listed are dropped and listed paths that are missing are appended. With
no arguments every import is dropped.`,
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return err
			}
			desired := make([]string, 0, len(args))
			for _, p := range args {
				desired = append(desired, filepath.ToSlash(strings.TrimSpace(p)))
			}
			result, err := sess.SyncImports(desired)
			if err != nil {
				return importsError(err)
			}
			if !result.Changed() {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("Imports already up to date"))
				return nil
			}
			for _, p := range result.Added {
				printSuccess(app.stdout, "Imported %s", p)
			}
			for _, p := range result.Removed {
				printSuccess(app.stdout, "Dropped import %s", p)
			}
			return nil
		}),
	})

	return importCmd
}

// importsError points a missing file at the imports entry of the catalog;
// the generic classification would blame the managed file.
func importsError(err error) error {
	var missing *nss.MissingFileError
	if errors.As(err, &missing) {
		return newServiceError(err, issue.ImportsNotFoundId, "")
	}
	if errors.Is(err, session.ErrAlreadyImported) {
		return newServiceError(err, issue.AlreadyImportedId, "")
	}
	return err
}

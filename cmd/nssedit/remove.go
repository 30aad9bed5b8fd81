// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/nssedit/nssedit/pkg/nss"

	"github.com/spf13/cobra"
)

// newRemoveCommand creates the `nssedit remove` command tree.
func newRemoveCommand(app *App) *cobra.Command {
	removeCmd := &cobra.Command{
		Use:   "remove",
		Short: `Edit the remove(find="a|b|c") directive`,
		Long: `Edit the items of the remove directive, which hides menu entries by title.

Items form a set. The directive line is written with the first item and
dropped together with the last one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	removeCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print the remove items, one per line",
		Args:  cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, _ []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return err
			}
			for _, item := range sess.Snapshot().RemoveItems {
				fmt.Fprintln(app.stdout, item)
			}
			return nil
		}),
	})

	removeCmd.AddCommand(&cobra.Command{
		Use:   "add <item>...",
		Short: "Add items to the remove directive",
		Args:  cobra.MinimumNArgs(1),
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return err
			}
			for _, item := range args {
				outcome, err := sess.AddRemoveItem(item)
				if err != nil {
					return err
				}
				if outcome.Kind() == nss.OutcomeNone {
					printWarning(app.stderr, "%q is already removed", item)
					continue
				}
				printSuccess(app.stdout, "Removing %q", item)
			}
			return nil
		}),
	})

	removeCmd.AddCommand(&cobra.Command{
		Use:   "delete <item>...",
		Short: "Delete items from the remove directive",
		Args:  cobra.MinimumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return sess.Snapshot().RemoveItems, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return err
			}
			for _, item := range args {
				outcome, err := sess.DeleteRemoveItem(item)
				if err != nil {
					return err
				}
				if outcome.Kind() == nss.OutcomeNone {
					printWarning(app.stderr, "%q is not in the remove directive", item)
					continue
				}
				printSuccess(app.stdout, "No longer removing %q", item)
			}
			return nil
		}),
	})

	return removeCmd
}

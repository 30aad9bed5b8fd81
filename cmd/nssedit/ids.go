// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/nssedit/nssedit/internal/session"
	"github.com/nssedit/nssedit/pkg/nss"

	"github.com/spf13/cobra"
)

// idListFlagValues holds the output flags shared by the id listing commands.
type idListFlagValues struct {
	filter string
	names  bool
}

func (f *idListFlagValues) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.filter, "filter", "", "only print ids whose id or display name contains this text")
	cmd.Flags().BoolVar(&f.names, "names", false, "print the display name next to each id")
}

// newIDsCommand creates the `nssedit ids` command tree.
func newIDsCommand(app *App) *cobra.Command {
	idsCmd := &cobra.Command{
		Use:   "ids",
		Short: "Edit the hide, more and shift id lists",
		Long: `Edit the id lists of the managed sections of the target file.

Sections:
  hide    entries removed from the context menu
  more    entries moved into the "more options" submenu
  shift   entries shown only while Shift is held

A section must keep at least one id; a save that would empty one is rejected
and nothing is written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var listFlags idListFlagValues
	listCmd := &cobra.Command{
		Use:               "list <section>",
		Short:             "Print the ids of a section, one per line",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSection,
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			sec, err := nss.SectionByName(args[0])
			if err != nil {
				return err
			}
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return err
			}
			printIDs(app.stdout, nss.FilterIDs(sess.Snapshot().IDs(sec), listFlags.filter), listFlags.names)
			return nil
		}),
	}
	listFlags.register(listCmd)
	idsCmd.AddCommand(listCmd)

	var availableFlags idListFlagValues
	availableCmd := &cobra.Command{
		Use:   "available",
		Short: "Print the built-in ids no section uses yet",
		Long: `Print the built-in Nilesoft Shell menu ids that are not listed by the hide,
more or shift section. Use --filter to search them by id or display name.`,
		Args: cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, _ []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return err
			}
			snap := sess.Snapshot()
			ids := nss.AvailableIDs(nss.KnownIDs(), snap.HideIDs, snap.MoreIDs, snap.ShiftIDs)
			printIDs(app.stdout, nss.FilterIDs(ids, availableFlags.filter), availableFlags.names)
			return nil
		}),
	}
	availableFlags.register(availableCmd)
	idsCmd.AddCommand(availableCmd)

	idsCmd.AddCommand(&cobra.Command{
		Use:               "set <section> [id]...",
		Short:             "Replace the ids of a section",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeSection,
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			sec, err := nss.SectionByName(args[0])
			if err != nil {
				return err
			}
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return err
			}
			return saveSection(app, sess, sec, args[1:])
		}),
	})

	idsCmd.AddCommand(&cobra.Command{
		Use:               "add <section> <id>...",
		Short:             "Append ids to a section",
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: completeSection,
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			sec, err := nss.SectionByName(args[0])
			if err != nil {
				return err
			}
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return err
			}

			ids := slices.Clone(sess.Snapshot().IDs(sec))
			added := 0
			for _, id := range normalizeIDs(args[1:]) {
				if slices.Contains(ids, id) {
					printWarning(app.stderr, "%s already lists %s", sec.Name, id)
					continue
				}
				ids = append(ids, id)
				added++
			}
			if added == 0 {
				return nil
			}
			return saveSection(app, sess, sec, ids)
		}),
	})

	idsCmd.AddCommand(&cobra.Command{
		Use:               "remove <section> <id>...",
		Short:             "Remove ids from a section",
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: completeSection,
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			sec, err := nss.SectionByName(args[0])
			if err != nil {
				return err
			}
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return err
			}

			current := sess.Snapshot().IDs(sec)
			drop := normalizeIDs(args[1:])
			for _, id := range drop {
				if !slices.Contains(current, id) {
					printWarning(app.stderr, "%s does not list %s", sec.Name, id)
				}
			}
			ids := slices.DeleteFunc(slices.Clone(current), func(id string) bool {
				return slices.Contains(drop, id)
			})
			if len(ids) == len(current) {
				return nil
			}
			return saveSection(app, sess, sec, ids)
		}),
	})

	return idsCmd
}

// printIDs prints one id per line, optionally followed by its display name in
// an aligned column.
func printIDs(w io.Writer, ids []string, names bool) {
	if !names {
		for _, id := range ids {
			fmt.Fprintln(w, id)
		}
		return
	}
	width := 0
	for _, id := range ids {
		width = max(width, len(id))
	}
	for _, id := range ids {
		fmt.Fprintf(w, "%-*s  %s\n", width, id, SubtitleStyle.Render(nss.DisplayName(id)))
	}
}

func saveSection(app *App, sess *session.Session, sec nss.Section, ids []string) error {
	if err := sess.Save(map[nss.Section][]string{sec: ids}); err != nil {
		return err
	}
	saved := len(sess.Snapshot().IDs(sec))
	printSuccess(app.stdout, "%s: %d %s saved", sec.Name, saved, plural(saved, "id", "ids"))
	return nil
}

// normalizeIDs trims whitespace and trailing commas the way the section
// writer does, so comparisons against the snapshot line up.
func normalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimRight(strings.TrimSpace(id), ",")
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

func completeSection(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := make([]string, 0, len(nss.Sections()))
	for _, sec := range nss.Sections() {
		names = append(names, sec.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/nssedit/nssedit/internal/session"
	"github.com/nssedit/nssedit/pkg/nss"

	"github.com/spf13/cobra"
)

type (
	// snapshotView is the --json rendering of a session snapshot.
	snapshotView struct {
		Target   string            `json:"target"`
		Imports  string            `json:"imports_file"`
		Sections sectionsView      `json:"sections"`
		Names    map[string]string `json:"display_names"`
		Modifies []modifyView      `json:"modifies"`
		Remove   []string          `json:"remove"`
		Imported []importView      `json:"imports"`
	}

	sectionsView struct {
		Hide  []string `json:"hide"`
		More  []string `json:"more"`
		Shift []string `json:"shift"`
	}

	modifyView struct {
		Find  string `json:"find"`
		Title string `json:"title"`
		Icon  string `json:"icon,omitempty"`
		Raw   string `json:"raw"`
	}

	importView struct {
		Filename     string `json:"filename"`
		RelativePath string `json:"relative_path"`
	}

	// snapshotOptions narrows and decorates the section id lists.
	snapshotOptions struct {
		filter string
		names  bool
	}
)

func newShowCommand(app *App) *cobra.Command {
	var (
		asJSON bool
		opts   snapshotOptions
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the managed sections, directives and imports",
		Long: `Show everything nssedit manages: the hide, more and shift id lists, the
modify directives, the remove items and the imports of the secondary file.`,
		Args: cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, _ []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeSnapshotJSON(app.stdout, sess, opts)
			}
			printSnapshot(app.stdout, sess, opts)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the snapshot as JSON")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "only show section ids whose id or display name contains this text")
	cmd.Flags().BoolVar(&opts.names, "names", false, "show the display name next to each section id")
	return cmd
}

func newSnapshotView(sess *session.Session, opts snapshotOptions) snapshotView {
	snap := sess.Snapshot()
	view := snapshotView{
		Target:  sess.TargetPath(),
		Imports: sess.ImportsPath(),
		Sections: sectionsView{
			Hide:  nonNil(nss.FilterIDs(snap.HideIDs, opts.filter)),
			More:  nonNil(nss.FilterIDs(snap.MoreIDs, opts.filter)),
			Shift: nonNil(nss.FilterIDs(snap.ShiftIDs, opts.filter)),
		},
		Names:    make(map[string]string),
		Modifies: make([]modifyView, 0, len(snap.Modifies)),
		Remove:   nonNil(snap.RemoveItems),
		Imported: make([]importView, 0, len(snap.Imports)),
	}
	for _, ids := range [][]string{view.Sections.Hide, view.Sections.More, view.Sections.Shift} {
		for _, id := range ids {
			view.Names[id] = nss.DisplayName(id)
		}
	}
	for _, m := range snap.Modifies {
		view.Modifies = append(view.Modifies, modifyView{
			Find:  m.Find,
			Title: m.Title,
			Icon:  m.Icon,
			Raw:   m.Raw,
		})
	}
	for _, imp := range snap.Imports {
		view.Imported = append(view.Imported, importView(imp))
	}
	return view
}

func writeSnapshotJSON(w io.Writer, sess *session.Session, opts snapshotOptions) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newSnapshotView(sess, opts)); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

func printSnapshot(w io.Writer, sess *session.Session, opts snapshotOptions) {
	snap := sess.Snapshot()

	fmt.Fprintf(w, "%s  %s\n", CmdStyle.Render("Target:"), SubtitleStyle.Render(sess.TargetPath()))
	fmt.Fprintf(w, "%s %s\n", CmdStyle.Render("Imports:"), SubtitleStyle.Render(sess.ImportsPath()))

	for _, sec := range nss.Sections() {
		ids := nss.FilterIDs(snap.IDs(sec), opts.filter)
		if opts.names {
			labeled := make([]string, 0, len(ids))
			for _, id := range ids {
				labeled = append(labeled, id+"  "+SubtitleStyle.Render(nss.DisplayName(id)))
			}
			ids = labeled
		}
		printList(w, sec.Name, ids)
	}

	modifies := make([]string, 0, len(snap.Modifies))
	for i, m := range snap.Modifies {
		modifies = append(modifies, fmt.Sprintf("%d. %s", i+1, strings.TrimSpace(m.Raw)))
	}
	printList(w, "modify", modifies)
	printList(w, "remove", snap.RemoveItems)

	imports := make([]string, 0, len(snap.Imports))
	for _, imp := range snap.Imports {
		imports = append(imports, imp.RelativePath)
	}
	printList(w, "imports", imports)
}

func printList(w io.Writer, title string, items []string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("%s (%d)", title, len(items))))
	if len(items) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none)"))
		return
	}
	for _, item := range items {
		fmt.Fprintf(w, "  %s\n", item)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

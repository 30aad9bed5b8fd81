// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/nssedit/nssedit/internal/watch"

	"github.com/spf13/cobra"
)

func newWatchCommand(app *App) *cobra.Command {
	var ignore []string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-print the snapshot whenever a .nss file changes",
		Long: `Print the snapshot, then watch the project root and print it again each
time a .nss file below it changes. Bursts of changes are coalesced using
watch.debounce. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), app, ignore)
		}),
	}

	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "additional glob patterns to ignore")
	return cmd
}

// runWatch blocks until ctx is cancelled (e.g., Ctrl+C).
func runWatch(ctx context.Context, app *App, ignore []string) error {
	s := settingsFromContext(ctx)
	sess, err := app.openSession(ctx)
	if err != nil {
		return err
	}
	printSnapshot(app.stdout, sess, snapshotOptions{})

	w, err := watch.New(watch.Config{
		Root:     sess.ProjectRoot(),
		Patterns: watch.DefaultPatterns,
		Ignore:   ignore,
		Debounce: s.cfg.Watch.Debounce,
		Logger:   s.logger,
		OnChange: func(_ context.Context, changed []string) error {
			fmt.Fprintln(app.stdout)
			fmt.Fprintln(app.stdout, VerboseStyle.Render("changed: "+strings.Join(changed, ", ")))
			if _, err := sess.Reload(); err != nil {
				// The file may be mid-save; keep watching.
				printWarning(app.stderr, "%s", formatErrorForDisplay(err, s.verbose))
				return nil
			}
			printSnapshot(app.stdout, sess, snapshotOptions{})
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	s.logger.Debug("watching", "root", w.Root(), "debounce", s.cfg.Watch.Debounce)
	fmt.Fprintln(app.stderr, SubtitleStyle.Render("Watching "+w.Root()+" (Ctrl+C to stop)"))
	return w.Run(ctx)
}

// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// DefaultPatterns selects every Nilesoft Shell file under the root.
var DefaultPatterns = []string{"**/*.nss"}

// builtinIgnores are never reported: VCS metadata, the temporary files
// written before an atomic rename, and editor backups.
var builtinIgnores = []string{
	"**/.git/**",
	"**/.*.tmp",
	"**/*.swp",
	"**/*~",
}

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Root is the directory to watch recursively. Defaults to the working directory.
		Root string
		// Patterns are doublestar globs, relative to Root, selecting the files
		// that trigger OnChange. Defaults to DefaultPatterns.
		Patterns []string
		// Ignore adds doublestar globs to the built-in ignores.
		Ignore []string
		// Debounce is the quiet period after the last event. Non-positive
		// values select 500ms.
		Debounce time.Duration
		// OnChange receives the sorted, deduplicated root-relative paths that
		// changed. It is never called concurrently with itself.
		OnChange func(ctx context.Context, changed []string) error
		// Logger defaults to slog.Default().
		Logger *slog.Logger
	}

	// Watcher monitors Root and fires OnChange after bursts of matching events.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		root     string
		patterns []string
		ignores  []string
		debounce time.Duration
		logger   *slog.Logger
		started  atomic.Bool

		mu      sync.Mutex
		pending map[string]struct{}
		timer   *time.Timer
		busy    atomic.Bool
	}
)

// New validates cfg and registers every non-ignored directory under Root.
func New(cfg Config) (*Watcher, error) {
	root := cfg.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		root = wd
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve root: %w", err)
	}

	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	for _, pat := range slices.Concat(patterns, cfg.Ignore) {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("watch: invalid pattern %q: %w", pat, doublestar.ErrBadPattern)
		}
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		root:     absRoot,
		patterns: patterns,
		ignores:  slices.Concat(builtinIgnores, cfg.Ignore),
		debounce: debounce,
		logger:   logger.With("component", "watch"),
		pending:  make(map[string]struct{}),
	}
	if err := w.addTree(absRoot); err != nil {
		fsw.Close() //nolint:errcheck // init already failed
		return nil, err
	}
	return w, nil
}

// Root returns the absolute directory being watched.
func (w *Watcher) Root() string { return w.root }

// Run processes events until ctx is done. It returns nil on cancellation and
// an error when fsnotify reports an unrecoverable condition.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer w.shutdown()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			w.handle(ctx, evt)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "error", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, evt fsnotify.Event) {
	rel, err := filepath.Rel(w.root, evt.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	if w.ignored(rel) {
		return
	}
	if evt.Has(fsnotify.Create) {
		if info, statErr := os.Stat(evt.Name); statErr == nil && info.IsDir() {
			if addErr := w.addTree(evt.Name); addErr != nil {
				w.logger.Warn("cannot watch new directory", "path", evt.Name, "error", addErr)
			}
			return
		}
	}
	if !matchAny(w.patterns, rel) {
		return
	}

	w.logger.Debug("change", "path", rel, "op", evt.Op.String())
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[rel] = struct{}{}
	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, func() { w.fire(ctx) })
	} else {
		w.timer.Reset(w.debounce)
	}
}

// fire delivers the pending set. While a callback is still running the
// delivery is postponed by one debounce period instead of dropped.
func (w *Watcher) fire(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if !w.busy.CompareAndSwap(false, true) {
		w.mu.Lock()
		w.timer.Reset(w.debounce)
		w.mu.Unlock()
		return
	}
	defer w.busy.Store(false)

	w.mu.Lock()
	changed := slices.Sorted(maps.Keys(w.pending))
	clear(w.pending)
	w.mu.Unlock()

	if len(changed) == 0 || w.cfg.OnChange == nil {
		return
	}
	if err := w.cfg.OnChange(ctx, changed); err != nil {
		w.logger.Error("change handler failed", "error", err)
	}
}

func (w *Watcher) shutdown() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	if err := w.fsw.Close(); err != nil {
		w.logger.Warn("close fsnotify", "error", err)
	}
}

// addTree registers dir and its non-ignored subdirectories. Unreadable
// directories are skipped with a warning.
func (w *Watcher) addTree(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			w.logger.Warn("skipping unreadable path", "path", path, "error", walkErr)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			return nil //nolint:nilerr // outside root
		}
		rel = filepath.ToSlash(rel)
		if rel != "." && (w.ignored(rel) || w.ignored(rel+"/")) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk %s: %w", dir, err)
	}
	return nil
}

func (w *Watcher) ignored(rel string) bool {
	return matchAny(w.ignores, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}

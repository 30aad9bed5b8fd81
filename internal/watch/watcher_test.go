// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type recorder struct {
	mu    sync.Mutex
	calls [][]string
	ch    chan struct{}
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan struct{}, 16)}
}

func (r *recorder) onChange(_ context.Context, changed []string) error {
	r.mu.Lock()
	r.calls = append(r.calls, changed)
	r.mu.Unlock()
	r.ch <- struct{}{}
	return nil
}

func (r *recorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.ch:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
}

func (r *recorder) snapshot() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

func startWatcher(t *testing.T, cfg Config) {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = quietLogger
	}
	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-errCh; err != nil {
			t.Errorf("Run() error = %v", err)
		}
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatcher_CoalescesNssChanges(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "imports"), 0o755); err != nil {
		t.Fatal(err)
	}
	rec := newRecorder()
	startWatcher(t, Config{Root: root, Debounce: 150 * time.Millisecond, OnChange: rec.onChange})

	writeFile(t, filepath.Join(root, "shell.nss"), "a")
	time.Sleep(10 * time.Millisecond)
	writeFile(t, filepath.Join(root, "imports", "modify.nss"), "b")
	time.Sleep(10 * time.Millisecond)
	writeFile(t, filepath.Join(root, "notes.txt"), "ignored")

	rec.wait(t)
	time.Sleep(300 * time.Millisecond)

	calls := rec.snapshot()
	if len(calls) != 1 {
		t.Fatalf("got %d callbacks, want 1: %v", len(calls), calls)
	}
	if !slices.Equal(calls[0], []string{"imports/modify.nss", "shell.nss"}) {
		t.Errorf("changed = %v", calls[0])
	}
}

func TestWatcher_IgnoresTempFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	rec := newRecorder()
	startWatcher(t, Config{Root: root, Debounce: 50 * time.Millisecond, OnChange: rec.onChange})

	writeFile(t, filepath.Join(root, ".shell.nss.123.tmp"), "tmp")
	writeFile(t, filepath.Join(root, "theme.nss"), "x")

	rec.wait(t)
	calls := rec.snapshot()
	if len(calls) == 0 || slices.Contains(calls[0], ".shell.nss.123.tmp") {
		t.Errorf("temp file reported: %v", calls)
	}
}

func TestWatcher_UserIgnore(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	rec := newRecorder()
	startWatcher(t, Config{
		Root:     root,
		Ignore:   []string{"backup/**"},
		Debounce: 50 * time.Millisecond,
		OnChange: rec.onChange,
	})

	if err := os.MkdirAll(filepath.Join(root, "backup"), 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	writeFile(t, filepath.Join(root, "backup", "old.nss"), "x")
	writeFile(t, filepath.Join(root, "live.nss"), "y")

	rec.wait(t)
	for _, call := range rec.snapshot() {
		if slices.Contains(call, "backup/old.nss") {
			t.Errorf("ignored path reported: %v", call)
		}
	}
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	rec := newRecorder()
	startWatcher(t, Config{Root: root, Debounce: 50 * time.Millisecond, OnChange: rec.onChange})

	sub := filepath.Join(root, "imports")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(sub, "extra.nss"), "x")

	rec.wait(t)
	var all []string
	for _, call := range rec.snapshot() {
		all = append(all, call...)
	}
	if !slices.Contains(all, "imports/extra.nss") {
		t.Errorf("new directory not watched: %v", all)
	}
}

func TestWatcher_RunTwice(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Root: t.TempDir(), Logger: quietLogger})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	time.Sleep(20 * time.Millisecond)

	if err := w.Run(ctx); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() error = %v, want ErrAlreadyRunning", err)
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() error = %v", err)
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{Root: t.TempDir(), Patterns: []string{"[unclosed"}}); err == nil {
		t.Error("New() accepted an invalid pattern")
	}
	if _, err := New(Config{Root: t.TempDir(), Ignore: []string{"{a,b"}}); err == nil {
		t.Error("New() accepted an invalid ignore pattern")
	}
}

func TestMatchAny(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rel  string
		want bool
	}{
		{"shell.nss", true},
		{"imports/modify.nss", true},
		{"imports/deep/theme.nss", true},
		{"shell.nss.bak", false},
		{"readme.md", false},
	}
	for _, tt := range tests {
		if got := matchAny(DefaultPatterns, tt.rel); got != tt.want {
			t.Errorf("matchAny(%q) = %v, want %v", tt.rel, got, tt.want)
		}
	}
}

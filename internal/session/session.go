// SPDX-License-Identifier: MPL-2.0

package session

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/nssedit/nssedit/pkg/nss"

	"github.com/spf13/afero"
)

const (
	// DefaultTarget is the managed file, relative to the project root.
	DefaultTarget = "imports/modify.nss"
	// DefaultImports is the file holding import lines, relative to the project root.
	DefaultImports = "shell.nss"

	nssExt = ".nss"
)

type (
	// Options configures Open. Zero values fall back to defaults.
	Options struct {
		// ProjectRoot is the Nilesoft Shell directory. Relative file paths and
		// import paths are resolved against it. Defaults to ".".
		ProjectRoot string
		// Target is the managed .nss file. Defaults to DefaultTarget.
		Target string
		// Imports is the file whose import lines are reconciled. Defaults to DefaultImports.
		Imports string
		// Strategy is the default DeleteModify matching strategy.
		// Defaults to nss.MatchSubstring.
		Strategy nss.MatchStrategy
		// Fs is the filesystem to operate on. Defaults to the OS filesystem.
		Fs afero.Fs
		// Logger receives debug and warning records. Defaults to slog.Default().
		Logger *slog.Logger
	}

	// Snapshot is everything the editor shows for an open session.
	Snapshot struct {
		HideIDs     []string
		MoreIDs     []string
		ShiftIDs    []string
		Modifies    []nss.ModifyDirective
		RemoveItems []string
		Imports     []nss.ImportDirective
	}

	// Session is an open editing session. It is not safe for concurrent use.
	Session struct {
		fs       afero.Fs
		logger   *slog.Logger
		root     string
		target   string
		imports  string
		strategy nss.MatchStrategy
		snapshot Snapshot
	}
)

// IDs returns the snapshot's list for section s.
func (s Snapshot) IDs(sec nss.Section) []string {
	switch sec.Name {
	case nss.Hide.Name:
		return s.HideIDs
	case nss.More.Name:
		return s.MoreIDs
	case nss.Shift.Name:
		return s.ShiftIDs
	default:
		return nil
	}
}

// Open resolves the session's files and reads the initial snapshot.
// A missing target file is reported as *nss.MissingFileError.
func Open(opts Options) (*Session, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Strategy == "" {
		opts.Strategy = nss.MatchSubstring
	}
	if !opts.Strategy.IsValid() {
		return nil, fmt.Errorf("unknown match strategy %q", opts.Strategy)
	}
	if opts.ProjectRoot == "" {
		opts.ProjectRoot = "."
	}
	root, err := filepath.Abs(opts.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	s := &Session{
		fs:       opts.Fs,
		logger:   opts.Logger,
		root:     root,
		target:   resolve(root, opts.Target, DefaultTarget),
		imports:  resolve(root, opts.Imports, DefaultImports),
		strategy: opts.Strategy,
	}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func resolve(root, path, fallback string) string {
	if path == "" {
		path = fallback
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, filepath.FromSlash(path))
}

// ProjectRoot returns the absolute project root.
func (s *Session) ProjectRoot() string { return s.root }

// TargetPath returns the managed .nss file path.
func (s *Session) TargetPath() string { return s.target }

// ImportsPath returns the path of the file holding import lines.
func (s *Session) ImportsPath() string { return s.imports }

// Strategy returns the default DeleteModify matching strategy.
func (s *Session) Strategy() nss.MatchStrategy { return s.strategy }

// Snapshot returns the last snapshot read.
func (s *Session) Snapshot() Snapshot { return s.snapshot }

// Reload re-reads both files and replaces the snapshot. A missing imports
// file yields an empty import list.
func (s *Session) Reload() (Snapshot, error) {
	content, err := readFile(s.fs, s.target)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		HideIDs:     nss.ExtractIDs(content, nss.Hide),
		MoreIDs:     nss.ExtractIDs(content, nss.More),
		ShiftIDs:    nss.ExtractIDs(content, nss.Shift),
		Modifies:    nss.ParseModifyDirectives(content),
		RemoveItems: nss.ExtractRemoveItems(content),
	}

	importsContent, err := readFile(s.fs, s.imports)
	switch {
	case err == nil:
		snap.Imports = nss.ParseImports(importsContent)
	case errors.Is(err, nss.ErrMissingFile):
		s.logger.Warn("imports file not found", "path", s.imports)
	default:
		return Snapshot{}, err
	}

	s.snapshot = snap
	return snap, nil
}

// Save rewrites the managed sections named in lists. Sections absent from
// lists are left alone. If any provided list is empty the whole write is
// rejected with *nss.EmptyListError and the file is not touched.
func (s *Session) Save(lists map[nss.Section][]string) error {
	return s.mutate(s.target, "save sections", func(content string) (string, error) {
		for _, sec := range nss.Sections() {
			ids, ok := lists[sec]
			if !ok {
				continue
			}
			if !strings.Contains(content, sec.Start) {
				s.logger.Warn("managed section not found", "section", sec.Name, "path", s.target)
			}
			var err error
			if content, err = nss.RewriteSection(content, sec, ids); err != nil {
				return "", err
			}
			s.logger.Debug("rewrote managed section", "section", sec.Name, "ids", len(ids))
		}
		return content, nil
	})
}

// AppendModify appends a modify directive to the managed file.
func (s *Session) AppendModify(f nss.ModifyFields) error {
	if err := validateModify(f); err != nil {
		return err
	}
	return s.mutate(s.target, "append modify", func(content string) (string, error) {
		return nss.AppendModify(content, f), nil
	})
}

// PreviewDeleteModify reports how many lines DeleteModify would remove.
// An empty strategy selects the session default.
func (s *Session) PreviewDeleteModify(f nss.ModifyFields, strategy nss.MatchStrategy) (nss.Outcome, error) {
	if err := validateModify(f); err != nil {
		return nss.Outcome{}, err
	}
	content, err := readFile(s.fs, s.target)
	if err != nil {
		return nss.Outcome{}, err
	}
	return nss.CountModifyMatches(content, f, s.strategyOr(strategy)), nil
}

// DeleteModify removes the lines matching f. An empty strategy selects the
// session default.
func (s *Session) DeleteModify(f nss.ModifyFields, strategy nss.MatchStrategy) (nss.Outcome, error) {
	if err := validateModify(f); err != nil {
		return nss.Outcome{}, err
	}
	strategy = s.strategyOr(strategy)

	var outcome nss.Outcome
	err := s.mutate(s.target, "delete modify", func(content string) (string, error) {
		var out string
		out, outcome = nss.DeleteModify(content, f, strategy)
		return out, nil
	})
	if err == nil && outcome.Kind() == nss.OutcomeMultiple {
		s.logger.Warn("modify delete matched several lines", "affected", outcome.Affected, "strategy", strategy)
	}
	return outcome, err
}

// ReplaceModify replaces the line equal to rawLine with f. A stale rawLine
// is not an error; it yields nss.OutcomeNone.
func (s *Session) ReplaceModify(rawLine string, f nss.ModifyFields) (nss.Outcome, error) {
	if err := validateModify(f); err != nil {
		return nss.Outcome{}, err
	}
	var outcome nss.Outcome
	err := s.mutate(s.target, "replace modify", func(content string) (string, error) {
		var out string
		out, outcome = nss.ReplaceModify(content, rawLine, f)
		return out, nil
	})
	if err == nil && outcome.Kind() == nss.OutcomeNone {
		s.logger.Warn("modify line not found", "line", rawLine)
	}
	return outcome, err
}

// AddRemoveItem adds item to the remove directive. Adding an item already
// present is nss.OutcomeNone.
func (s *Session) AddRemoveItem(item string) (nss.Outcome, error) {
	item = strings.TrimSpace(item)
	if err := validateRemoveItem(item); err != nil {
		return nss.Outcome{}, err
	}
	var outcome nss.Outcome
	err := s.mutate(s.target, "add remove item", func(content string) (string, error) {
		items := nss.ExtractRemoveItems(content)
		if slices.Contains(items, item) {
			return content, nil
		}
		outcome = nss.Outcome{Affected: 1}
		out, _ := nss.UpdateRemove(content, append(items, item))
		return out, nil
	})
	return outcome, err
}

// DeleteRemoveItem drops item from the remove directive; the directive line
// disappears with its last item. An absent item is nss.OutcomeNone.
func (s *Session) DeleteRemoveItem(item string) (nss.Outcome, error) {
	var outcome nss.Outcome
	err := s.mutate(s.target, "delete remove item", func(content string) (string, error) {
		items := nss.ExtractRemoveItems(content)
		idx := slices.Index(items, item)
		if idx < 0 {
			return content, nil
		}
		outcome = nss.Outcome{Affected: 1}
		out, _ := nss.UpdateRemove(content, slices.Delete(items, idx, idx+1))
		return out, nil
	})
	return outcome, err
}

// SyncImports reconciles the imports file against desired relative paths.
func (s *Session) SyncImports(desired []string) (nss.ReconcileResult, error) {
	var result nss.ReconcileResult
	err := s.mutate(s.imports, "sync imports", func(content string) (string, error) {
		var out string
		out, result = nss.ReconcileImports(content, desired)
		return out, nil
	})
	if err == nil && result.Changed() {
		s.logger.Debug("reconciled imports", "added", result.Added, "removed", result.Removed)
	}
	return result, err
}

// AddImport imports path, given absolute or relative to the project root.
// The stored form is slash-separated, root-relative and ends in ".nss".
func (s *Session) AddImport(path string) (string, error) {
	rel, err := s.relativeImport(path)
	if err != nil {
		return "", err
	}
	content, err := readFile(s.fs, s.imports)
	if err != nil {
		return "", err
	}
	desired := importPaths(nss.ParseImports(content))
	if slices.Contains(desired, rel) {
		return rel, &AlreadyImportedError{Path: rel}
	}
	if _, err := s.SyncImports(append(desired, rel)); err != nil {
		return "", err
	}
	return rel, nil
}

// DeleteImport drops the import whose relative path equals nameOrPath or,
// failing that, the first import whose file name equals it.
func (s *Session) DeleteImport(nameOrPath string) (nss.Outcome, error) {
	content, err := readFile(s.fs, s.imports)
	if err != nil {
		return nss.Outcome{}, err
	}
	present := nss.ParseImports(content)
	target := filepath.ToSlash(nameOrPath)

	idx := slices.IndexFunc(present, func(d nss.ImportDirective) bool { return d.RelativePath == target })
	if idx < 0 {
		idx = slices.IndexFunc(present, func(d nss.ImportDirective) bool { return d.Filename == nameOrPath })
	}
	if idx < 0 {
		return nss.Outcome{}, nil
	}

	drop := present[idx].RelativePath
	desired := slices.DeleteFunc(importPaths(present), func(p string) bool { return p == drop })
	result, err := s.SyncImports(desired)
	if err != nil {
		return nss.Outcome{}, err
	}
	return nss.Outcome{Affected: len(result.Removed)}, nil
}

func (s *Session) relativeImport(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("import path must not be empty")
	}
	if filepath.IsAbs(path) {
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return "", fmt.Errorf("make %s relative to %s: %w", path, s.root, err)
		}
		path = rel
	}
	path = strings.ReplaceAll(filepath.ToSlash(path), `\`, "/")
	if !strings.HasSuffix(path, nssExt) {
		path += nssExt
	}
	return path, nil
}

func (s *Session) strategyOr(strategy nss.MatchStrategy) nss.MatchStrategy {
	if strategy == "" {
		return s.strategy
	}
	return strategy
}

// mutate performs one read-modify-write pass over path and refreshes the
// snapshot. Unchanged content is not written back.
func (s *Session) mutate(path, op string, fn func(string) (string, error)) error {
	content, err := readFile(s.fs, path)
	if err != nil {
		return err
	}
	updated, err := fn(content)
	if err != nil {
		return err
	}
	if updated != content {
		if err := writeFile(s.fs, path, updated); err != nil {
			return err
		}
		s.logger.Debug("wrote file", "op", op, "path", path, "bytes", len(updated))
	} else {
		s.logger.Debug("no changes", "op", op, "path", path)
	}
	if _, err := s.Reload(); err != nil {
		return fmt.Errorf("reload after %s: %w", op, err)
	}
	return nil
}

func importPaths(directives []nss.ImportDirective) []string {
	seen := make(map[string]struct{}, len(directives))
	out := make([]string, 0, len(directives))
	for _, d := range directives {
		if _, dup := seen[d.RelativePath]; dup {
			continue
		}
		seen[d.RelativePath] = struct{}{}
		out = append(out, d.RelativePath)
	}
	return out
}

func validateModify(f nss.ModifyFields) error {
	if strings.TrimSpace(f.Find) == "" {
		return &IncompleteDirectiveError{Field: "find"}
	}
	if strings.TrimSpace(f.Title) == "" {
		return &IncompleteDirectiveError{Field: "title"}
	}
	return nil
}

func validateRemoveItem(item string) error {
	if item == "" || strings.ContainsAny(item, "|\"\r\n") {
		return &InvalidRemoveItemError{Item: item}
	}
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package nss

import (
	"path"
	"regexp"
	"slices"
	"strings"
)

// importPattern matches a whole (trimmed) import line and captures its path.
var importPattern = regexp.MustCompile(`^import\s+'(.*\.nss)'$`)

type (
	// ImportDirective is an import '<path>' line of the secondary file.
	// RelativePath is the reconciliation identity.
	ImportDirective struct {
		Filename     string
		RelativePath string
	}

	// ReconcileResult lists the paths ReconcileImports appended and dropped.
	ReconcileResult struct {
		Added   []string
		Removed []string
	}
)

// Changed reports whether reconciliation modified anything.
func (r ReconcileResult) Changed() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0
}

// FormatImport renders an import line without a terminator.
func FormatImport(relPath string) string {
	return "import '" + relPath + "'"
}

// ParseImports returns the import directives of content in file order.
func ParseImports(content string) []ImportDirective {
	var out []ImportDirective
	for line := range strings.SplitSeq(content, "\n") {
		p, ok := importPath(line)
		if !ok {
			continue
		}
		out = append(out, ImportDirective{Filename: path.Base(p), RelativePath: p})
	}
	return out
}

func importPath(line string) (string, bool) {
	m := importPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ReconcileImports makes the set of imported paths in content equal desired.
//
// Lines importing a path that is both present and desired are kept as they
// are, in place. Lines importing a path that is not desired are deleted.
// Desired paths that are missing are appended in lexicographic order after a
// blank separator line, which is only added when the last line is not
// already blank.
func ReconcileImports(content string, desired []string) (string, ReconcileResult) {
	lines := splitLines(content)

	present := make(map[string]struct{})
	for _, line := range lines {
		if p, ok := importPath(line); ok {
			present[p] = struct{}{}
		}
	}
	want := make(map[string]struct{}, len(desired))
	for _, p := range desired {
		want[p] = struct{}{}
	}

	var result ReconcileResult
	for p := range present {
		if _, ok := want[p]; !ok {
			result.Removed = append(result.Removed, p)
		}
	}
	for p := range want {
		if _, ok := present[p]; !ok {
			result.Added = append(result.Added, p)
		}
	}
	slices.Sort(result.Removed)
	slices.Sort(result.Added)
	if !result.Changed() {
		return content, result
	}

	out := make([]string, 0, len(lines)+len(result.Added)+1)
	for _, line := range lines {
		if p, ok := importPath(line); ok {
			if _, keep := want[p]; !keep {
				continue
			}
		}
		out = append(out, line)
	}

	if len(result.Added) > 0 {
		if n := len(out); n > 0 {
			if !strings.HasSuffix(out[n-1], "\n") {
				out[n-1] += "\n"
			}
			if strings.TrimSpace(out[n-1]) != "" {
				out = append(out, "\n")
			}
		}
		for _, p := range result.Added {
			out = append(out, FormatImport(p)+"\n")
		}
	}
	return strings.Join(out, ""), result
}

// SPDX-License-Identifier: MPL-2.0

package nss

import (
	"fmt"
	"strings"
)

// idPrefix marks the lines a managed section owns.
const idPrefix = "id"

var (
	// Hide lists items removed from the context menu.
	Hide = Section{
		Name:  "hide",
		Start: "// hide\nmodify(mode=mode.multiple\nwhere=this.id(",
		End:   ") vis=vis.remove)",
	}
	// More lists items moved into the "more options" submenu.
	More = Section{
		Name:  "more",
		Start: "// more\nmodify(mode=mode.multiple\nwhere=this.id(",
		End:   ") menu=title.options)",
	}
	// Shift lists items shown only while the shift key is held.
	Shift = Section{
		Name:  "shift",
		Start: "// shift\nmodify(mode=single\nwhere=this.id(",
		End:   ") vis=key.shift())",
	}
)

// Section is a managed region identified by a literal start/end marker pair.
// Markers are matched as plain substrings, never as grammar.
type Section struct {
	Name  string
	Start string
	End   string
}

// UnknownSectionError is returned by SectionByName for unrecognized names.
type UnknownSectionError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownSectionError) Error() string {
	return fmt.Sprintf("unknown section %q (expected one of: hide, more, shift)", e.Name)
}

// Sections returns the managed sections in file order.
func Sections() []Section {
	return []Section{Hide, More, Shift}
}

// SectionByName resolves a section by its case-insensitive name.
func SectionByName(name string) (Section, error) {
	for _, s := range Sections() {
		if strings.EqualFold(s.Name, strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return Section{}, &UnknownSectionError{Name: name}
}

// span locates the next [start, end) region at or after from.
// ok is false when no start marker remains or the start marker has no
// following end marker.
func (s Section) span(content string, from int) (start, end int, ok bool) {
	if from > len(content) {
		return 0, 0, false
	}
	rel := strings.Index(content[from:], s.Start)
	if rel < 0 {
		return 0, 0, false
	}
	start = from + rel
	relEnd := strings.Index(content[start:], s.End)
	if relEnd < 0 {
		return 0, 0, false
	}
	return start, start + relEnd, true
}

// ExtractIDs returns the ordered ID entries of every occurrence of the
// section, concatenated. Each entry has at most one trailing comma removed.
//
// An unterminated occurrence (start marker without a later end marker) stops
// the scan and contributes nothing.
func ExtractIDs(content string, s Section) []string {
	ids := []string{}
	from := 0
	for {
		start, end, ok := s.span(content, from)
		if !ok {
			return ids
		}
		for line := range strings.SplitSeq(content[start:end], "\n") {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, idPrefix) {
				ids = append(ids, strings.TrimSuffix(trimmed, ","))
			}
		}
		from = end
	}
}

// FormatIDs normalizes ids and applies the comma rule: every entry except the
// last carries exactly one trailing comma. Blank entries are dropped and
// surrounding whitespace and commas are trimmed before formatting.
func FormatIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimRight(strings.TrimSpace(id), ",")
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		out = append(out, id)
	}
	for i := range len(out) - 1 {
		out[i] += ","
	}
	return out
}

// RewriteSection replaces the ID lines of every occurrence of the section with
// ids. Lines in the span that are not ID lines are kept byte for byte, and
// nothing outside [start marker, end marker) is modified.
//
// The new entries take the position and indentation of the first existing ID
// line. A span with no ID line receives the entries, unindented, on their own
// lines just before the end marker's line.
//
// Every entry must start with "id" and fit on one line, otherwise ExtractIDs
// could not read it back and later rewrites would leave it behind. Such lists
// are rejected with *InvalidIDError before anything is rewritten.
func RewriteSection(content string, s Section, ids []string) (string, error) {
	formatted := FormatIDs(ids)
	if len(formatted) == 0 {
		return content, &EmptyListError{Section: s.Name}
	}
	for _, id := range formatted {
		if !strings.HasPrefix(id, idPrefix) || strings.ContainsAny(id, "\r\n") {
			return content, &InvalidIDError{Section: s.Name, ID: strings.TrimSuffix(id, ",")}
		}
	}

	from := 0
	for {
		start, end, ok := s.span(content, from)
		if !ok {
			return content, nil
		}
		replaced := rewriteSpan(content[start:end], formatted)
		content = content[:start] + replaced + content[end:]
		// Resume after the replacement so markers it may contain are not rescanned.
		from = start + len(replaced)
	}
}

func rewriteSpan(span string, formatted []string) string {
	lines := strings.Split(span, "\n")
	out := make([]string, 0, len(lines)+len(formatted))
	inserted := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, idPrefix) {
			out = append(out, line)
			continue
		}
		if inserted {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		for _, id := range formatted {
			out = append(out, indent+id)
		}
		inserted = true
	}

	if !inserted {
		last := len(out) - 1
		if out[last] == "" {
			// Span ends with a newline: keep the end marker at the start of its line.
			out = append(out[:last], formatted...)
			out = append(out, "")
		} else {
			out = append(out, formatted...)
		}
	}
	return strings.Join(out, "\n")
}

// SPDX-License-Identifier: MPL-2.0

package nss

import "strings"

const (
	// MatchSubstring deletes every line containing the find, title and
	// (when set) icon values as plain substrings. A directive whose values are
	// substrings of another directive's values is deleted along with it.
	MatchSubstring MatchStrategy = "substring"
	// MatchExactFields deletes only modify directives whose parsed fields equal
	// the given fields exactly, icon included.
	MatchExactFields MatchStrategy = "exact"
)

// MatchStrategy selects how DeleteModify identifies lines.
type MatchStrategy string

// String returns the strategy name.
func (m MatchStrategy) String() string { return string(m) }

// IsValid reports whether m is a known strategy.
func (m MatchStrategy) IsValid() bool {
	return m == MatchSubstring || m == MatchExactFields
}

// AppendModify appends the formatted directive to the end of content,
// preceded by a newline.
func AppendModify(content string, f ModifyFields) string {
	if content == "" {
		return FormatModify(f)
	}
	return content + "\n" + FormatModify(f)
}

// DeleteModify removes every line matched by strategy and reports how many
// lines were removed. Line terminators of surviving lines are untouched.
func DeleteModify(content string, f ModifyFields, strategy MatchStrategy) (string, Outcome) {
	match := lineMatcher(f, strategy)
	lines := splitLines(content)

	var sb strings.Builder
	sb.Grow(len(content))
	removed := 0
	for _, line := range lines {
		if match(line) {
			removed++
			continue
		}
		sb.WriteString(line)
	}
	if removed == 0 {
		return content, Outcome{}
	}
	return sb.String(), Outcome{Affected: removed}
}

// CountModifyMatches reports how many lines DeleteModify would remove.
func CountModifyMatches(content string, f ModifyFields, strategy MatchStrategy) Outcome {
	match := lineMatcher(f, strategy)
	n := 0
	for _, line := range splitLines(content) {
		if match(line) {
			n++
		}
	}
	return Outcome{Affected: n}
}

func lineMatcher(f ModifyFields, strategy MatchStrategy) func(string) bool {
	find := strings.TrimSpace(f.Find)
	title := strings.TrimSpace(f.Title)
	icon := strings.TrimSpace(f.Icon)

	if strategy == MatchExactFields {
		return func(line string) bool {
			parsed, ok := parseModifyLine(strings.TrimSuffix(line, "\n"))
			return ok && parsed.Find == find && parsed.Title == title && parsed.Icon == icon
		}
	}
	return func(line string) bool {
		return strings.Contains(line, find) &&
			strings.Contains(line, title) &&
			(icon == "" || strings.Contains(line, icon))
	}
}

// ReplaceModify replaces every line equal to rawLine (compared without its
// line terminator) with the formatted directive. Each replaced line keeps its
// own terminator, so CRLF files stay CRLF. A stale rawLine matches
// nothing and leaves content unchanged with an OutcomeNone result. Identical
// duplicate lines are all replaced and reported as OutcomeMultiple.
func ReplaceModify(content, rawLine string, f ModifyFields) (string, Outcome) {
	lines := splitLines(content)
	formatted := FormatModify(f)
	rawLine = strings.TrimSuffix(rawLine, "\r")

	var sb strings.Builder
	sb.Grow(len(content))
	replaced := 0
	for _, line := range lines {
		body, term := cutTerminator(line)
		if body == rawLine {
			sb.WriteString(formatted)
			sb.WriteString(term)
			replaced++
			continue
		}
		sb.WriteString(line)
	}
	if replaced == 0 {
		return content, Outcome{}
	}
	return sb.String(), Outcome{Affected: replaced}
}

// UpdateRemove rewrites the remove directive to hold items. Every existing
// remove line is replaced (or dropped when items is empty); when none exists
// and items is non-empty, the line is appended.
func UpdateRemove(content string, items []string) (string, Outcome) {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines)+1)
	touched := 0
	for _, line := range lines {
		if !isRemoveLine(line) {
			out = append(out, line)
			continue
		}
		touched++
		if len(items) > 0 {
			out = append(out, FormatRemove(items))
		}
	}

	if touched == 0 {
		if len(items) == 0 {
			return content, Outcome{}
		}
		if content == "" {
			return FormatRemove(items), Outcome{Affected: 1}
		}
		if last := len(out) - 1; out[last] == "" {
			// Keep the file's trailing newline after the appended line.
			out = append(out[:last], FormatRemove(items), "")
		} else {
			out = append(out, FormatRemove(items))
		}
		touched = 1
	}
	return strings.Join(out, "\n"), Outcome{Affected: touched}
}

// splitLines splits content into lines that keep their "\n" terminator.
// The final line has no terminator when content does not end with one.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// cutTerminator splits line into its body and its "\n" or "\r\n" terminator.
// A lone trailing "\r" on an unterminated last line counts as terminator too.
func cutTerminator(line string) (body, term string) {
	if body, ok := strings.CutSuffix(line, "\r\n"); ok {
		return body, "\r\n"
	}
	if body, ok := strings.CutSuffix(line, "\n"); ok {
		return body, "\n"
	}
	if body, ok := strings.CutSuffix(line, "\r"); ok {
		return body, "\r"
	}
	return line, ""
}

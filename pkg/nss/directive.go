// SPDX-License-Identifier: MPL-2.0

package nss

import (
	"strings"
)

const (
	modifyPrefix = "modify(find="
	removePrefix = "remove(find="
)

type (
	// ModifyFields is the editable part of a modify directive.
	ModifyFields struct {
		// Find is the menu item title to match.
		Find string
		// Title is the replacement title.
		Title string
		// Icon is an optional icon path; empty omits the icon clause.
		Icon string
	}

	// ModifyDirective is a parsed modify(find=.. title=..) line. Raw is the
	// line exactly as it appears in the file and is the identity used by
	// ReplaceModify.
	ModifyDirective struct {
		ModifyFields
		Raw string
	}
)

// ParseModifyDirectives returns every modify directive in content, in file
// order. Quoted literals are taken positionally: the first is Find, the second
// Title and the optional third Icon. Lines with fewer than two quoted literals
// are skipped.
func ParseModifyDirectives(content string) []ModifyDirective {
	var out []ModifyDirective
	for line := range strings.SplitSeq(content, "\n") {
		fields, ok := parseModifyLine(line)
		if !ok {
			continue
		}
		out = append(out, ModifyDirective{ModifyFields: fields, Raw: line})
	}
	return out
}

func parseModifyLine(line string) (ModifyFields, bool) {
	stripped := strings.TrimSpace(line)
	if !strings.HasPrefix(stripped, modifyPrefix) {
		return ModifyFields{}, false
	}
	parts := strings.Split(stripped, "'")
	if len(parts) <= 3 {
		return ModifyFields{}, false
	}
	fields := ModifyFields{Find: parts[1], Title: parts[3]}
	if len(parts) > 5 {
		fields.Icon = parts[5]
	}
	return fields, true
}

// FormatModify renders a modify directive line without a line terminator.
// Surrounding whitespace in each field is trimmed.
func FormatModify(f ModifyFields) string {
	var sb strings.Builder
	sb.WriteString("modify(find='")
	sb.WriteString(strings.TrimSpace(f.Find))
	sb.WriteString("' title='")
	sb.WriteString(strings.TrimSpace(f.Title))
	sb.WriteString("'")
	if icon := strings.TrimSpace(f.Icon); icon != "" {
		sb.WriteString(" icon='")
		sb.WriteString(icon)
		sb.WriteString("'")
	}
	sb.WriteString(")")
	return sb.String()
}

// ExtractRemoveItems returns the items of the first remove(find="...") line.
// Items are the text between the first and last double quote, split on '|'.
// It returns nil when no remove line exists or the quoted text is empty.
func ExtractRemoveItems(content string) []string {
	line, ok := findRemoveLine(content)
	if !ok {
		return nil
	}
	first := strings.Index(line, `"`)
	last := strings.LastIndex(line, `"`)
	if first < 0 || last <= first {
		return nil
	}
	inner := line[first+1 : last]
	if inner == "" {
		return nil
	}
	return strings.Split(inner, "|")
}

func findRemoveLine(content string) (string, bool) {
	for line := range strings.SplitSeq(content, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, removePrefix) {
			return stripped, true
		}
	}
	return "", false
}

// FormatRemove renders the remove directive for items.
func FormatRemove(items []string) string {
	return `remove(find="` + strings.Join(items, "|") + `")`
}

func isRemoveLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), removePrefix)
}

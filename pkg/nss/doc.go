// SPDX-License-Identifier: MPL-2.0

// Package nss reads and rewrites Nilesoft Shell configuration text (.nss files)
// at the line level.
//
// The package never parses the configuration language. It owns three kinds of
// content and leaves every other byte alone:
//
//   - managed sections: regions delimited by literal start/end markers whose
//     "id"-prefixed lines form an ordered ID list (see ExtractIDs and
//     RewriteSection)
//   - single-line directives: modify(find='..' title='..' icon='..') entries
//     and the singleton remove(find="a|b") entry
//   - import lines in a secondary file, reconciled against a desired set
//     (see ReconcileImports)
//
// All functions are pure transformations over the full file content. Callers
// perform the read and the write; internal/session wires both ends together.
package nss

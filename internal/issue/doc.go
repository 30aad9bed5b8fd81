// SPDX-License-Identifier: MPL-2.0

// Package issue turns failures into guidance for the person at the terminal.
//
// ActionableError carries the failed operation, the file involved and
// suggestions; the Issue catalog holds longer Markdown explanations that are
// rendered with glamour when a command fails for a well-known reason.
package issue

// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for nssedit.
//
// This package implements the Cobra command hierarchy for the nssedit CLI:
// the root command with its global file flags, subcommands that read and
// edit the managed sections, modify and remove directives and imports of a
// Nilesoft Shell configuration, the watch loop and configuration management.
package cmd

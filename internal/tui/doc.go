// SPDX-License-Identifier: MPL-2.0

// Package tui wraps charmbracelet/huh prompts for nssedit commands.
package tui

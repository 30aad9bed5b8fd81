// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Theme represents the visual theme for prompts.
type Theme string

const (
	// ThemeDefault uses the base huh theme.
	ThemeDefault Theme = "default"
	// ThemeCharm suits dark terminals.
	ThemeCharm Theme = "charm"
	// ThemeBase16 suits light terminals.
	ThemeBase16 Theme = "base16"
)

// ErrNotInteractive is returned by prompts when stdin is not a terminal.
var ErrNotInteractive = errors.New("stdin is not a terminal")

// Config holds common configuration for prompts.
type Config struct {
	Theme Theme
	// Accessible replaces the form with plain line prompts for screen readers.
	Accessible bool
	Input      io.Reader
	Output     io.Writer
	// Interactive reports whether a prompt may be shown at all.
	Interactive bool
}

// DefaultConfig prompts on stderr so stdout stays clean for piping, and
// enables accessible mode when ACCESSIBLE is set.
func DefaultConfig() Config {
	return Config{
		Theme:       ThemeDefault,
		Accessible:  os.Getenv("ACCESSIBLE") != "",
		Input:       os.Stdin,
		Output:      os.Stderr,
		Interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
}

// ThemeForScheme maps a ui.color_scheme value to a prompt theme.
func ThemeForScheme(scheme string) Theme {
	switch scheme {
	case "dark":
		return ThemeCharm
	case "light":
		return ThemeBase16
	default:
		return ThemeDefault
	}
}

func huhTheme(t Theme) *huh.Theme {
	switch t {
	case ThemeCharm:
		return huh.ThemeCharm()
	case ThemeBase16:
		return huh.ThemeBase16()
	default:
		return huh.ThemeBase()
	}
}

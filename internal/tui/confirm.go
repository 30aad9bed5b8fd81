// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// ConfirmOptions configures Confirm.
type ConfirmOptions struct {
	Title       string
	Description string
	// Affirmative defaults to "Yes".
	Affirmative string
	// Negative defaults to "No".
	Negative string
	// Default is preselected.
	Default bool
	Config  Config
}

// Confirm asks a yes/no question. Aborting the prompt (Ctrl+C, Esc) counts
// as "no". Without a terminal it returns ErrNotInteractive.
func Confirm(ctx context.Context, opts ConfirmOptions) (bool, error) {
	if !opts.Config.Interactive {
		return false, ErrNotInteractive
	}
	if opts.Affirmative == "" {
		opts.Affirmative = "Yes"
	}
	if opts.Negative == "" {
		opts.Negative = "No"
	}

	result := opts.Default
	field := huh.NewConfirm().
		Title(opts.Title).
		Affirmative(opts.Affirmative).
		Negative(opts.Negative).
		Value(&result)
	if opts.Description != "" {
		field = field.Description(opts.Description)
	}

	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(huhTheme(opts.Config.Theme)).
		WithAccessible(opts.Config.Accessible).
		WithShowHelp(false)
	if opts.Config.Input != nil {
		form = form.WithInput(opts.Config.Input)
	}
	if opts.Config.Output != nil {
		form = form.WithOutput(opts.Config.Output)
	}

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("confirm prompt: %w", err)
	}
	return result, nil
}

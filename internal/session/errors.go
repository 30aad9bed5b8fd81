// SPDX-License-Identifier: MPL-2.0

package session

import (
	"errors"
	"fmt"
)

var (
	// ErrIncompleteDirective is returned when a modify directive lacks its find or title value.
	ErrIncompleteDirective = errors.New("incomplete modify directive")
	// ErrInvalidRemoveItem is returned for remove items that cannot be serialized.
	ErrInvalidRemoveItem = errors.New("invalid remove item")
	// ErrAlreadyImported is returned when adding an import that is already present.
	ErrAlreadyImported = errors.New("already imported")
)

type (
	// IncompleteDirectiveError names the missing field of a modify directive.
	IncompleteDirectiveError struct {
		Field string
	}

	// InvalidRemoveItemError is returned for empty items or items containing
	// a pipe, a double quote, or a line break.
	InvalidRemoveItemError struct {
		Item string
	}

	// AlreadyImportedError is returned by AddImport for duplicate paths.
	AlreadyImportedError struct {
		Path string
	}
)

func (e *IncompleteDirectiveError) Error() string {
	return fmt.Sprintf("modify directive requires a non-empty %s value", e.Field)
}

func (e *IncompleteDirectiveError) Unwrap() error { return ErrIncompleteDirective }

func (e *InvalidRemoveItemError) Error() string {
	if e.Item == "" {
		return "remove item must not be empty"
	}
	return fmt.Sprintf("remove item %q must not contain '|', '\"' or line breaks", e.Item)
}

func (e *InvalidRemoveItemError) Unwrap() error { return ErrInvalidRemoveItem }

func (e *AlreadyImportedError) Error() string {
	return fmt.Sprintf("%s is already imported", e.Path)
}

func (e *AlreadyImportedError) Unwrap() error { return ErrAlreadyImported }

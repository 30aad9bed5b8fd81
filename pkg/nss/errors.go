// SPDX-License-Identifier: MPL-2.0

package nss

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyList is returned when a rewrite would leave a managed section
	// without any ID entry.
	ErrEmptyList = errors.New("empty id list")
	// ErrInvalidID is returned when a list entry could not be read back as
	// an ID line of its section.
	ErrInvalidID = errors.New("invalid id entry")
	// ErrMissingFile is returned when a configuration file does not exist.
	ErrMissingFile = errors.New("configuration file not found")
	// ErrWriteFailure is returned when persisting rewritten content fails.
	ErrWriteFailure = errors.New("write failure")
)

type (
	// EmptyListError is returned by RewriteSection when the new list is empty
	// after normalization. It wraps ErrEmptyList for errors.Is() compatibility.
	EmptyListError struct {
		Section string
	}

	// InvalidIDError is returned by RewriteSection for an entry that does not
	// start with "id" or spans several lines. It wraps ErrInvalidID.
	InvalidIDError struct {
		Section string
		ID      string
	}

	// MissingFileError is returned when a file the editor needs is absent.
	// It wraps ErrMissingFile for errors.Is() compatibility.
	MissingFileError struct {
		Path string
	}

	// WriteFailureError carries the I/O cause of a failed persist. The file
	// state after a WriteFailureError is not guaranteed.
	WriteFailureError struct {
		Path  string
		Cause error
	}
)

// Error implements the error interface.
func (e *EmptyListError) Error() string {
	return fmt.Sprintf("section %q must contain at least one id", e.Section)
}

// Unwrap returns ErrEmptyList so callers can use errors.Is for classification.
func (e *EmptyListError) Unwrap() error { return ErrEmptyList }

// Error implements the error interface.
func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("section %q: %q is not an id (entries start with %q)", e.Section, e.ID, idPrefix)
}

// Unwrap returns ErrInvalidID so callers can use errors.Is for classification.
func (e *InvalidIDError) Unwrap() error { return ErrInvalidID }

// Error implements the error interface.
func (e *MissingFileError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// Unwrap returns ErrMissingFile so callers can use errors.Is for classification.
func (e *MissingFileError) Unwrap() error { return ErrMissingFile }

// Error implements the error interface.
func (e *WriteFailureError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("failed to write %s", e.Path)
	}
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Cause)
}

// Unwrap returns both the sentinel and the underlying cause.
func (e *WriteFailureError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrWriteFailure}
	}
	return []error{ErrWriteFailure, e.Cause}
}

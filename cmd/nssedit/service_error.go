// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nssedit/nssedit/internal/config"
	"github.com/nssedit/nssedit/internal/issue"
	"github.com/nssedit/nssedit/internal/session"
	"github.com/nssedit/nssedit/pkg/nss"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer. When the CLI layer receives a ServiceError, it renders the
// styled error message (if present) and the catalog entry for IssueID.
// Always create via newServiceError to enforce the Err-must-be-non-nil invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
// All construction sites must use this instead of struct literals.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// renderServiceError renders a ServiceError in the CLI layer.
// It prints any styled message first, then the optional issue help section
// using the glamour style at stylePath.
func renderServiceError(stderr io.Writer, svcErr *ServiceError, stylePath string) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render(stylePath)
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
		} else {
			fmt.Fprint(stderr, rendered)
		}
	}
}

// classifyError attaches the catalog entry matching err. Errors that are
// already a ServiceError or an ExitError pass through unchanged, as do errors
// without a catalog entry.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return err
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	var (
		unknownSection *nss.UnknownSectionError
		invalidValue   *config.InvalidValueError
		invalidConfig  *config.InvalidConfigError
	)
	switch {
	case errors.Is(err, nss.ErrMissingFile):
		return newServiceError(err, issue.TargetNotFoundId, "")
	case errors.Is(err, nss.ErrEmptyList):
		return newServiceError(err, issue.EmptySectionId, "")
	case errors.Is(err, nss.ErrInvalidID):
		return newServiceError(err, issue.InvalidEntryId, "")
	case errors.Is(err, nss.ErrWriteFailure):
		return newServiceError(err, issue.WriteFailedId, "")
	case errors.Is(err, session.ErrAlreadyImported):
		return newServiceError(err, issue.AlreadyImportedId, "")
	case errors.Is(err, session.ErrIncompleteDirective):
		return newServiceError(err, issue.IncompleteDirectiveId, "")
	case errors.Is(err, session.ErrInvalidRemoveItem):
		return newServiceError(err, issue.InvalidRemoveItemId, "")
	case errors.As(err, &unknownSection):
		return newServiceError(err, issue.UnknownSectionId, "")
	case errors.As(err, &invalidValue), errors.As(err, &invalidConfig):
		return newServiceError(err, issue.ConfigLoadFailedId, "")
	default:
		return err
	}
}

// SPDX-License-Identifier: MPL-2.0

package nss

const (
	// OutcomeNone means the operation matched nothing and left the content unchanged.
	OutcomeNone OutcomeKind = iota
	// OutcomeSingle means exactly one line was affected.
	OutcomeSingle
	// OutcomeMultiple means more than one line was affected. For delete and
	// replace operations this usually signals an ambiguous match.
	OutcomeMultiple
)

type (
	// OutcomeKind classifies how many lines a directive edit touched.
	OutcomeKind int

	// Outcome reports the effect of a directive edit. Edits that match nothing
	// or match more than intended are not errors; they are reported here so
	// callers can decide what to surface.
	Outcome struct {
		Affected int
	}
)

// Kind classifies the outcome.
func (o Outcome) Kind() OutcomeKind {
	switch {
	case o.Affected <= 0:
		return OutcomeNone
	case o.Affected == 1:
		return OutcomeSingle
	default:
		return OutcomeMultiple
	}
}

// String returns a short label for the kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNone:
		return "zero affected"
	case OutcomeSingle:
		return "one affected"
	case OutcomeMultiple:
		return "multiple affected"
	default:
		return "unknown"
	}
}

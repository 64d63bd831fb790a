// Package skyerr defines the error kinds shared by the chart, dasha and
// ephemeris packages. Every failure surfaced by the core wraps exactly one
// of the sentinel errors below so callers can branch with errors.Is.
package skyerr

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per error kind.
var (
	// ErrInvalidInput indicates a malformed instant or out-of-range coordinate.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMissingPosition indicates the position provider omitted a required value.
	ErrMissingPosition = errors.New("missing position")
	// ErrNoContainingPeriod indicates no dasha period contains the lookup instant.
	ErrNoContainingPeriod = errors.New("no containing period")
	// ErrDataIntegrity indicates a generated period list violates its invariants.
	ErrDataIntegrity = errors.New("data integrity violation")
)

// Kind classifies an Error for programmatic handling.
type Kind string

const (
	KindInvalidInput       Kind = "invalid_input"
	KindMissingPosition    Kind = "missing_position"
	KindNoContainingPeriod Kind = "no_containing_period"
	KindDataIntegrity      Kind = "data_integrity"
)

// sentinel maps each kind to the error it wraps.
var sentinel = map[Kind]error{
	KindInvalidInput:       ErrInvalidInput,
	KindMissingPosition:    ErrMissingPosition,
	KindNoContainingPeriod: ErrNoContainingPeriod,
	KindDataIntegrity:      ErrDataIntegrity,
}

// Error records a core failure with the operation and the offending input.
type Error struct {
	Kind  Kind
	Op    string // Operation that failed, e.g. "chart.Build".
	Input string // Offending input rendered for humans.
	Err   error
}

// Error returns "op: input: cause".
func (e *Error) Error() string {
	if e.Input != "" {
		return e.Op + ": " + e.Input + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an Error of the given kind. The detail, when non-empty, is
// appended to the sentinel message; the sentinel stays reachable through
// errors.Is.
func New(kind Kind, op, input, detail string) *Error {
	err := sentinel[kind]
	if err == nil {
		err = fmt.Errorf("unknown error kind %q", kind)
	}
	if detail != "" {
		err = fmt.Errorf("%w: %s", err, detail)
	}
	return &Error{Kind: kind, Op: op, Input: input, Err: err}
}

// Invalid is shorthand for New(KindInvalidInput, ...).
func Invalid(op, input, detail string) *Error {
	return New(KindInvalidInput, op, input, detail)
}

// Missing is shorthand for New(KindMissingPosition, ...).
func Missing(op, input, detail string) *Error {
	return New(KindMissingPosition, op, input, detail)
}

// KindOf returns the kind of the first *Error in err's chain, or "" when
// err carries none.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

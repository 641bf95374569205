package schedule

import (
	"database/sql"
	"errors"
	"fmt"
)

// Kind classifies an error for the tool layer. Every public operation in
// this package returns either a report or an *Error; the tool handlers turn
// the kind into a structured error result instead of letting anything
// escape to the MCP client.
type Kind string

const (
	// KindValidation marks malformed input: bad timestamps, missing tokens.
	KindValidation Kind = "validation"

	// KindNotFound marks a resource token that resolved to zero matches.
	KindNotFound Kind = "not_found"

	// KindDataAccess marks an unreachable store or a failed query.
	KindDataAccess Kind = "data_access"

	// KindUnexpected is the catch-all for everything else.
	KindUnexpected Kind = "unexpected"
)

// Error is the error type returned by the scheduling services.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// Op is the operation that failed (e.g. "resolve", "countConflicts").
	Op string

	// Message is the human-readable message carried into error reports.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schedule %s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("schedule %s: %s", e.Op, e.Message)
}

// Unwrap implements the errors.Unwrap interface.
func (e *Error) Unwrap() error {
	return e.Err
}

// newValidation builds a validation error with a user-facing message.
func newValidation(op, message string) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: message}
}

// newNotFound builds a not-found error with a user-facing message.
func newNotFound(op, message string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Message: message}
}

// dataAccess wraps a store failure.
func dataAccess(op string, err error) *Error {
	return &Error{Kind: KindDataAccess, Op: op, Message: "errore di accesso ai dati", Err: err}
}

// KindOf returns the kind of err, or KindUnexpected when err is not a
// schedule error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnexpected
}

// MessageOf returns the user-facing message for err. Non-schedule errors
// fall back to their Error() string.
func MessageOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}

// IsNotFound reports whether err is a not-found schedule error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// isNoRows reports whether err is sql.ErrNoRows, which is an expected
// outcome for single-row lookups, not a data-access failure.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

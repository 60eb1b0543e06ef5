// Package advisorerr defines stable error codes for all failure modes.
package advisorerr

import (
	"errors"
	"fmt"
)

// Code is a stable error code.
type Code string

const (
	// ExtractionSkipped marks a per-file failure; analysis continues.
	ExtractionSkipped Code = "EXTRACTION_SKIPPED"
	// InvalidProposal marks a proposal missing required fields.
	InvalidProposal Code = "INVALID_PROPOSAL"
	// BudgetUnsatisfiable marks a document node that cannot be shrunk
	// below its word budget even after full truncation.
	BudgetUnsatisfiable Code = "BUDGET_UNSATISFIABLE"
	// IOFailure marks an unreadable snapshot or unwritable output
	// directory; it aborts the whole run.
	IOFailure Code = "IO_FAILURE"
)

// Error carries a stable code alongside a message and optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

// New creates an Error with no cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an Error around an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// CodeOf returns the code carried by err, or "" if err carries none.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// Package domainerrors defines the coded errors every operation surfaces to its
// caller. Codes classify the failure reason; transports map them to status codes
// without inspecting message text. No operation lets an error unwind past its
// boundary un-coded.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies the failure class of a domain error.
type Code string

const (
	// Application lifecycle failures.
	CodeEligibilityDenied          Code = "eligibility_denied"
	CodeDuplicateActiveApplication Code = "duplicate_active_application"
	CodeUnitsExhausted             Code = "units_exhausted"
	CodeInvalidStateTransition     Code = "invalid_state_transition"
	CodeSlotExhausted              Code = "slot_exhausted"

	// Access and lookup failures.
	CodeAuthorizationDenied Code = "authorization_denied"
	CodeUnauthorized        Code = "unauthorized"
	CodeNotFound            Code = "not_found"

	// Transport and infrastructure failures.
	CodeBadRequest   Code = "bad_request"
	CodeInvalidInput Code = "invalid_input"
	CodeConflict     Code = "conflict"
	CodeInternal     Code = "internal_error"
)

// Error is a coded domain error. Message is safe to show to the caller except
// for CodeInternal, where transports suppress it.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error with a caller-facing message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, keeping the cause
// reachable through errors.Is/As.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias of HasCode kept for call sites that read better with it.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// that were never classified.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

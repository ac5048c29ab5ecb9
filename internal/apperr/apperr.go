// Package apperr defines the error kinds returned by services and how they map onto HTTP.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"clinical-records-server/internal/validation"
)

// Kind classifies an application error.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal"
)

// Error is the error value threaded from services to handlers.
type Error struct {
	Kind    Kind
	Message string
	Fields  validation.Errors
	cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if len(e.Fields) > 0 {
		msg = e.Fields.Error()
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Status returns the HTTP status for the error kind. Conflicts are reported as 400.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Validation wraps per-field failures.
func Validation(fields validation.Errors) *Error {
	return &Error{Kind: KindValidation, Message: "invalid input", Fields: fields}
}

// NotFound reports an unknown record.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

// Unauthorized reports a missing or invalid credential.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Conflict reports a rule that the current state of other records forbids.
// A non-empty field attaches the message to that key instead of "detail".
func Conflict(field, message string) *Error {
	e := &Error{Kind: KindConflict, Message: message}
	if field != "" {
		e.Fields = validation.Errors{field: {message}}
	}
	return e
}

// Internal wraps an unexpected failure. The cause is logged, never shown.
func Internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Message: op, cause: err}
}

// From returns err as *Error, classifying anything unknown as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("unexpected error", err)
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// Package apperror defines the application error carried from services to the
// HTTP error handler. Every error knows the status code it should be answered with.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an application error with a client-facing message and an HTTP status.
type Error struct {
	Status  int
	Message string
	Err     error // underlying cause, logged but never sent to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with the given status and message.
func New(status int, format string, args ...any) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a new Error.
func Wrap(err error, status int, format string, args ...any) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...), Err: err}
}

func BadRequest(format string, args ...any) *Error {
	return New(http.StatusBadRequest, format, args...)
}

func Unauthenticated(format string, args ...any) *Error {
	return New(http.StatusUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(http.StatusForbidden, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, format, args...)
}

// Internal hides the cause behind a generic message.
func Internal(err error, format string, args ...any) *Error {
	return Wrap(err, http.StatusInternalServerError, format, args...)
}

// StatusOf returns the status of the first *Error in err's chain, or 500.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

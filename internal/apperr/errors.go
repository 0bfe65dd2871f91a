package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a failure for the HTTP boundary.
type Code string

const (
	CodeInvalidInput Code = "invalid_input"
	CodeConflict     Code = "conflict"
	CodeUnauthorized Code = "unauthorized"
	CodeNotFound     Code = "not_found"
	CodeInternal     Code = "internal"
)

// Error carries a classification, a client-safe message and the underlying
// cause. The cause is logged server side and never rendered to the client.
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

// InvalidInput reports a missing or malformed request field.
func InvalidInput(message string) *Error {
	return &Error{Code: CodeInvalidInput, Message: message}
}

// Conflict reports a duplicate unique field.
func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// Unauthorized reports bad credentials or a missing/invalid/reused token.
func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

// NotFound reports that no matching entity exists.
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// Internal reports an unexpected failure, wrapping its cause.
func Internal(message string, err error) *Error {
	return &Error{Code: CodeInternal, Message: message, Err: err}
}

// From classifies an arbitrary error. Anything that is not already an *Error
// is treated as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("something went wrong", err)
}

// HTTPStatus maps a classification to its response status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

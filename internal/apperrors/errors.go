package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable machine-readable error codes surfaced to API clients.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeBadRequest   = "BAD_REQUEST"
	CodeConflict     = "CONFLICT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeInternal     = "INTERNAL"
)

// Error is a typed application error carrying an HTTP status and a
// stable code alongside the human-readable message.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// NotFound reports a missing resource. The identifier is optional.
func NotFound(resource, identifier string) *Error {
	message := fmt.Sprintf("%s not found", resource)
	if identifier != "" {
		message = fmt.Sprintf("%s with identifier '%s' not found", resource, identifier)
	}
	return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Message: message}
}

// BadRequest reports an invalid request that passed shape validation
// but violates a domain rule (dates, quantities, departed offerings).
func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeBadRequest, Message: message}
}

// Conflict reports a state conflict such as insufficient capacity or
// an already-cancelled booking.
func Conflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Code: CodeConflict, Message: message}
}

// Unauthorized reports a missing or invalid principal.
func Unauthorized(message string) *Error {
	if message == "" {
		message = "Unauthorized"
	}
	return &Error{Status: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

// Internal wraps an unexpected failure. The underlying error is logged
// by the caller, never surfaced to clients.
func Internal(message string) *Error {
	if message == "" {
		message = "Internal server error"
	}
	return &Error{Status: http.StatusInternalServerError, Code: CodeInternal, Message: message}
}

// As unwraps err into an *Error when possible.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is an application error with the given code.
func IsCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

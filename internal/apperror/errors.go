// Package apperror provides domain-specific error types for Bookly.
// These errors carry an HTTP status code, a stable machine-readable
// error code, and a user-safe message. The Echo error handler maps them
// to the standard `{message, detail, error_code}` response envelope.
//
// NEVER return raw database or infrastructure errors to the client. Always
// wrap them in an apperror type or return a generic internal error.
package apperror

import (
	"fmt"
	"net/http"
)

// Stable error codes exposed in the `error_code` field of error responses.
// Frontends branch on these; keep them append-only.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeBadRequest   = "BAD_REQUEST"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_SERVER_ERROR"
)

// AppError is the base error type for all domain errors. It carries an
// HTTP status code, a machine-readable error code, and a human-readable
// message safe to show to the client.
type AppError struct {
	// Code is the HTTP status code (e.g., 404, 422, 500).
	Code int `json:"-"`

	// ErrorCode is the stable machine-readable classifier
	// (e.g., "BOOK_NOT_FOUND").
	ErrorCode string `json:"error_code"`

	// Message is a short human-readable description safe for the client.
	Message string `json:"message"`

	// Detail is additional client-safe context (e.g., which field failed).
	Detail string `json:"detail"`

	// Internal holds the underlying error for logging. Never exposed to client.
	Internal error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.ErrorCode, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Internal
}

// WithCode replaces the machine-readable error code and returns the error.
// Used for domain-specific codes like "BOOK_NOT_FOUND" on top of the
// generic constructors.
func (e *AppError) WithCode(errorCode string) *AppError {
	e.ErrorCode = errorCode
	return e
}

// WithDetail sets the client-safe detail string and returns the error.
func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

// --- Constructors for common error types ---

// New creates an error with an arbitrary HTTP status. Prefer the typed
// constructors below; this exists for the few places where the status
// is chosen at runtime.
func New(status int, message string) *AppError {
	return &AppError{
		Code:      status,
		ErrorCode: http.StatusText(status),
		Message:   message,
	}
}

// NewValidation creates a 422 Unprocessable Entity error for malformed or
// invalid input rejected at the boundary.
func NewValidation(message string) *AppError {
	return &AppError{
		Code:      http.StatusUnprocessableEntity,
		ErrorCode: CodeValidation,
		Message:   message,
	}
}

// NewBadRequest creates a 400 Bad Request error.
func NewBadRequest(message string) *AppError {
	return &AppError{
		Code:      http.StatusBadRequest,
		ErrorCode: CodeBadRequest,
		Message:   message,
	}
}

// NewNotFound creates a 404 Not Found error.
func NewNotFound(message string) *AppError {
	return &AppError{
		Code:      http.StatusNotFound,
		ErrorCode: CodeNotFound,
		Message:   message,
	}
}

// NewUnauthorized creates a 401 Unauthorized error.
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:      http.StatusUnauthorized,
		ErrorCode: CodeUnauthorized,
		Message:   message,
	}
}

// NewForbidden creates a 403 Forbidden error.
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:      http.StatusForbidden,
		ErrorCode: CodeForbidden,
		Message:   message,
	}
}

// NewConflict creates a 409 Conflict error.
func NewConflict(message string) *AppError {
	return &AppError{
		Code:      http.StatusConflict,
		ErrorCode: CodeConflict,
		Message:   message,
	}
}

// NewInternal creates a 500 Internal Server Error. The real error is stored
// in Internal for logging but the client only sees a generic message.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:      http.StatusInternalServerError,
		ErrorCode: CodeInternal,
		Message:   "An unexpected error occurred. Please try again.",
		Internal:  err,
	}
}

// SafeMessage returns the client-safe error message from an error. If the
// error is an AppError, returns its Message field (which is safe to expose).
// For any other error type, returns a generic message to prevent leaking
// internal details like table names, query structure, or stack traces.
func SafeMessage(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Message
	}
	return "an unexpected error occurred"
}

// SafeCode returns the HTTP status code from an AppError, or 500 for
// any other error type.
func SafeCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

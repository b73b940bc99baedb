// Package errors provides structured error types for the mapforge application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidTiles, "invalid tile entry: %q", entry)
//	if errors.Is(err, errors.ErrCodeInvalidTiles) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeEncodeFailed, origErr, "encode png")
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors - all map to HTTP 400.
	ErrCodeInvalidSize  Code = "INVALID_SIZE"
	ErrCodeInvalidMode  Code = "INVALID_MODE"
	ErrCodeInvalidTiles Code = "INVALID_TILES"
	ErrCodeInvalidRing  Code = "INVALID_RING"
	ErrCodeEmptyBatches Code = "EMPTY_BATCHES"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeEncodeFailed Code = "ENCODE_FAILED"
	ErrCodeCache        Code = "CACHE_ERROR"
	ErrCodeArchive      Code = "ARCHIVE_ERROR"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsInput reports whether err is a caller input error (HTTP 400 class).
func IsInput(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidSize, ErrCodeInvalidMode, ErrCodeInvalidTiles,
		ErrCodeInvalidRing, ErrCodeEmptyBatches:
		return true
	}
	return false
}

// HTTPStatus maps an error to the HTTP status the transport should return.
func HTTPStatus(err error) int {
	if IsInput(err) {
		return http.StatusBadRequest
	}
	if GetCode(err) == ErrCodeNotFound {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

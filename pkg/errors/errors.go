// Package errors provides structured error types for the econdag application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI, API, and core
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Core graph mutations fail with one of the graph codes (EMPTY_NAME,
// UNKNOWN_INPUT, CYCLE, ...); the codec fails with UNSUPPORTED_VERSION or
// MALFORMED; outer surfaces (CLI, HTTP, stores) use the remaining codes.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeCycle, "input %d closes a cycle", id)
//	if errors.Is(err, errors.ErrCodeCycle) {
//	    // Handle cycle rejection
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Product validation errors
	ErrCodeEmptyName      Code = "EMPTY_NAME"
	ErrCodeBadInputID     Code = "BAD_INPUT_ID"
	ErrCodeBadInputAmount Code = "BAD_INPUT_AMOUNT"
	ErrCodeInvalidProduct Code = "INVALID_PRODUCT"

	// Graph mutation errors
	ErrCodeUnknownNode   Code = "UNKNOWN_NODE"
	ErrCodeUnknownInput  Code = "UNKNOWN_INPUT"
	ErrCodeSelfLoop      Code = "SELF_LOOP"
	ErrCodeCycle         Code = "CYCLE"
	ErrCodeHasDependents Code = "HAS_DEPENDENTS"

	// Document codec errors
	ErrCodeUnsupportedVersion Code = "UNSUPPORTED_VERSION"
	ErrCodeMalformed          Code = "MALFORMED"

	// Generator errors
	ErrCodeInvalidOptions Code = "INVALID_OPTIONS"

	// Outer surface errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeNetwork  Code = "NETWORK_ERROR"
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

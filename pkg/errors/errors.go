// Package errors provides structured error types for treeprint.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//
// # Error Codes
//
// The two codes raised by the tree builder are the ones callers most often
// branch on:
//   - MALFORMED_INPUT: the records cannot form a tree (missing or duplicate
//     root, unknown parent, partner or child reference)
//   - INVARIANT_VIOLATION: the records reference each other but break a
//     structural rule (a partnership lists a child of someone else)
//
// The remaining codes follow the INVALID_* / NOT_FOUND / INTERNAL_* naming.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedInput, "unknown parent %d", id)
//	if errors.Is(err, errors.ErrCodeMalformedInput) {
//	    // Reject the upload
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Tree construction errors
	ErrCodeMalformedInput     Code = "MALFORMED_INPUT"
	ErrCodeInvariantViolation Code = "INVARIANT_VIOLATION"

	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle   Code = "INVALID_STYLE"
	ErrCodeInvalidVizType Code = "INVALID_VIZ_TYPE"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

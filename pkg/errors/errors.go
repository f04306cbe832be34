// Package errors provides structured error types for graphloom.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The ingestion core classifies failures into four kinds:
//   - MALFORMED_INPUT: the payload is not a recognizable table or object shape
//   - MISSING_ENDPOINT: an edge has an empty source or target (recovered locally)
//   - DUPLICATE_IDENTIFIER: two nodes or two edges resolve to the same id
//   - UNRESOLVED_REFERENCE: an edge endpoint was never realized as a node
//
// The hosting layers add INVALID_INPUT, NOT_FOUND and INTERNAL_ERROR.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedInput, "payload is a %T", v)
//	if errors.Is(err, errors.ErrCodeMalformedInput) {
//	    // Reject the upload
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeDuplicateIdentifier, origErr, "node %q", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Ingestion errors
	ErrCodeMalformedInput      Code = "MALFORMED_INPUT"
	ErrCodeMissingEndpoint     Code = "MISSING_ENDPOINT"
	ErrCodeDuplicateIdentifier Code = "DUPLICATE_IDENTIFIER"
	ErrCodeUnresolvedReference Code = "UNRESOLVED_REFERENCE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle  Code = "INVALID_STYLE"
	ErrCodeInvalidID     Code = "INVALID_ID"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

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
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// IsIngestError reports whether err was classified by the ingestion core,
// meaning the payload itself was rejected rather than the service failing.
func IsIngestError(err error) bool {
	switch GetCode(err) {
	case ErrCodeMalformedInput, ErrCodeMissingEndpoint, ErrCodeDuplicateIdentifier, ErrCodeUnresolvedReference:
		return true
	}
	return false
}

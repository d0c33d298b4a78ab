// Package errors provides the structured error type used for fatal
// extraction failures.
//
// Every fatal condition carries a machine-readable [Code] so the CLI can
// report it consistently and tests can assert on the cause without matching
// message text. Non-fatal problems are not errors; they are collected as
// warnings in a netlist.Report.
//
// # Error Codes
//
//   - INVALID_*: configuration and input validation failures
//   - FILE_NOT_FOUND, MALFORMED_LAYER: layer file problems
//   - PLANE_NODE_COUNT, SHORT_CIRCUIT: connectivity failures
//   - OUTPUT_FAILED, INTERNAL_ERROR: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeShortCircuit, "via %d joins power and ground", i)
//	if errors.Is(err, errors.ErrCodeShortCircuit) {
//	    // no output is written
//	}
//
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Layer file errors
	ErrCodeFileNotFound   Code = "FILE_NOT_FOUND"
	ErrCodeMalformedLayer Code = "MALFORMED_LAYER"

	// Connectivity errors
	ErrCodePlaneNodeCount Code = "PLANE_NODE_COUNT"
	ErrCodeShortCircuit   Code = "SHORT_CIRCUIT"

	// Output and internal errors
	ErrCodeOutput   Code = "OUTPUT_FAILED"
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

// UserMessage returns the message of the outermost *Error without the code
// prefix. For other errors it returns the error string as-is.
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

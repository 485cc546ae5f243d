// Package errors provides structured error types for tiletex.
//
// Every validation failure carries a machine-readable [Code] plus a message
// naming the offending range, gap boundary or parameter, so callers can fix
// their input. All of them are detected before any grid is computed.
//
// # Error Codes
//
//   - INVALID_RANGE: a step range has low > high, a bound outside [0,255] or an empty tile name
//   - COVERAGE_GAP: the step ranges leave part of [0,255] uncovered
//   - RANGE_OVERLAP: two step ranges intersect
//   - DIMENSION_MISMATCH: the intensity field is empty or ragged
//   - INVALID_PARAMETER: blending strength (or another scalar) out of range
//
// # Usage
//
//	err := errors.New(errors.ErrCodeRangeOverlap, "%s overlaps %s", a, b)
//	if errors.Is(err, errors.ErrCodeRangeOverlap) {
//	    // Handle overlap
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidImage, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Step table errors
	ErrCodeInvalidRange  Code = "INVALID_RANGE"
	ErrCodeCoverageGap   Code = "COVERAGE_GAP"
	ErrCodeRangeOverlap  Code = "RANGE_OVERLAP"
	ErrCodeInvalidStep   Code = "INVALID_STEP"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Input errors
	ErrCodeDimensionMismatch Code = "DIMENSION_MISMATCH"
	ErrCodeInvalidParameter  Code = "INVALID_PARAMETER"
	ErrCodeInvalidImage      Code = "INVALID_IMAGE"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeFileNotFound      Code = "FILE_NOT_FOUND"

	// Internal errors
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

// IsValidation reports whether err is one of the input validation failures
// that are detected before grid computation.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidRange, ErrCodeCoverageGap, ErrCodeRangeOverlap, ErrCodeInvalidStep,
		ErrCodeInvalidFormat, ErrCodeDimensionMismatch, ErrCodeInvalidParameter, ErrCodeInvalidConfig:
		return true
	}
	return false
}

package errors

import (
	"errors"
	"fmt"
)

// AppError represents a structured application error with a stable code
type AppError struct {
	Code    string
	Message string
	Details string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches two AppErrors by code so predefined errors work as targets
func (e *AppError) Is(target error) bool {
	var t *AppError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// New creates a new AppError with the given code and message
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Predefined error types for common scenarios
var (
	// ErrFormat covers malformed subscription rows and unparseable usage reports
	ErrFormat = New("FORMAT_ERROR", "Malformed input")

	// ErrMissingFile covers unreachable input or output paths
	ErrMissingFile = New("MISSING_FILE", "Required file not found")

	// ErrConsistency covers violated pipeline invariants; these indicate a bug
	ErrConsistency = New("CONSISTENCY_ERROR", "Internal consistency check failed")
)

// Helper functions for specific error types

// FormatError creates a format error for a specific file
func FormatError(file string, err error) *AppError {
	return &AppError{
		Code:    "FORMAT_ERROR",
		Message: "Malformed input",
		Details: file,
		Err:     err,
	}
}

// RowFormatError creates a format error for a specific row of a delimited file
func RowFormatError(file string, row int, err error) *AppError {
	return &AppError{
		Code:    "FORMAT_ERROR",
		Message: "Malformed input",
		Details: fmt.Sprintf("%s: row %d", file, row),
		Err:     err,
	}
}

// MissingFileError creates a missing file error with the path surfaced
func MissingFileError(path string, err error) *AppError {
	return &AppError{
		Code:    "MISSING_FILE",
		Message: "Required file not found",
		Details: path,
		Err:     err,
	}
}

// ConsistencyError creates a consistency error with details of the violated check
func ConsistencyError(check string) *AppError {
	return &AppError{
		Code:    "CONSISTENCY_ERROR",
		Message: "Internal consistency check failed",
		Details: check,
	}
}

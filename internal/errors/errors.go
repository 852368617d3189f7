// Package errors provides typed domain errors for boundary mapping.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInput indicates an input validation error
	TypeInput Type = "INPUT_ERROR"

	// TypeNotFound indicates a missing catalog or recipe row
	TypeNotFound Type = "NOT_FOUND"

	// TypeConversion indicates a unit conversion error
	TypeConversion Type = "CONVERSION_ERROR"

	// TypeCosting indicates a recipe costing error
	TypeCosting Type = "COSTING_ERROR"

	// TypeStorage indicates a persistence error
	TypeStorage Type = "STORAGE_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error is a domain error with a category and optional cause.
type Error struct {
	Type    Type   `json:"type"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{Type: errType, Message: message}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{Type: errType, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps a cause with a category and message
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{Type: errType, Message: message, Cause: cause}
}

// TypeOf returns the category of err, walking the wrap chain. Errors
// outside this package report TypeInternal.
func TypeOf(err error) Type {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return TypeInternal
}

// IsType reports whether err carries the given category.
func IsType(err error, t Type) bool {
	return TypeOf(err) == t
}

// Input creates an input validation error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// NotFound creates a not found error
func NotFound(resourceType string, id int64) *Error {
	return Newf(TypeNotFound, "%s not found: %d", resourceType, id)
}

// Storage wraps a persistence failure
func Storage(message string, cause error) *Error {
	return Wrap(TypeStorage, message, cause)
}

// Internal wraps an internal failure
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}

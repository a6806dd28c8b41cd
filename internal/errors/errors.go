// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrNotFound indicates a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrCacheExpired indicates cached data has exceeded TTL.
	ErrCacheExpired = errors.New("cache expired")

	// ErrInvalidInput indicates user provided invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout indicates an operation timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrUnparseable indicates a remote document yielded no usable
	// sections at all. Partial parse failures never produce this error,
	// they degrade into warnings on the returned document.
	ErrUnparseable = errors.New("unparseable document")
)

// ValidationError represents input validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// UnrecognizedArgumentsError reports user-supplied tokens that the query
// normalizer could not interpret. The offending tokens are named so the
// chat reply can echo them back to the user.
type UnrecognizedArgumentsError struct {
	Tokens []string
}

func (e *UnrecognizedArgumentsError) Error() string {
	return fmt.Sprintf("unrecognized arguments: %s", strings.Join(e.Tokens, " "))
}

func (e *UnrecognizedArgumentsError) Unwrap() error {
	return ErrInvalidInput
}

// FetchError represents upstream fetch failures with context.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error (url=%s, status=%d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error (url=%s): %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new fetch error.
func NewFetchError(url string, statusCode int, err error) *FetchError {
	return &FetchError{
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

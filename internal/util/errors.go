package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common error types for tempbench
var (
	// ErrInvalidConfig indicates a configuration error
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrLocationNotFound indicates a location is not in the catalog
	ErrLocationNotFound = errors.New("location not found")

	// ErrFetchFailed indicates the data source could not deliver a series
	ErrFetchFailed = errors.New("fetch failed")

	// ErrTimeout indicates an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCancelled indicates an operation was cancelled
	ErrCancelled = errors.New("operation cancelled")

	// ErrNoSuccessfulTrials indicates every trial in a set failed
	ErrNoSuccessfulTrials = errors.New("no successful trials")
)

// LocationError wraps an error with the location it happened for
type LocationError struct {
	Location string
	Err      error
}

// Error implements the error interface
func (e *LocationError) Error() string {
	return fmt.Sprintf("location %q: %v", e.Location, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *LocationError) Unwrap() error {
	return e.Err
}

// WrapLocationError wraps an error with location context
func WrapLocationError(location string, err error) error {
	if err == nil {
		return nil
	}
	return &LocationError{
		Location: location,
		Err:      err,
	}
}

// MultiError aggregates multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:", len(m.Errors)))
	for i, err := range m.Errors {
		if i < 10 {
			sb.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
		} else if i == 10 {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more errors", len(m.Errors)-10))
			break
		}
	}
	return sb.String()
}

// Unwrap returns the errors for errors.Is/As compatibility
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// NewMultiError creates a new MultiError from a slice of errors
// It filters out nil errors
func NewMultiError(errors []error) *MultiError {
	m := &MultiError{
		Errors: make([]error, 0, len(errors)),
	}
	for _, err := range errors {
		if err != nil {
			m.Errors = append(m.Errors, err)
		}
	}
	return m
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if v.Value != nil {
		return fmt.Sprintf("validation failed for field %q (value: %v): %s", v.Field, v.Value, v.Message)
	}
	return fmt.Sprintf("validation failed for field %q: %s", v.Field, v.Message)
}

// Unwrap ties every validation failure to ErrInvalidConfig
func (v *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCancelled checks if an error is a cancellation error
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrLocationNotFound)
}

// IsFetchError checks if an error came from the data source
func IsFetchError(err error) bool {
	return errors.Is(err, ErrFetchFailed)
}

// FriendlyError converts technical errors to user-friendly messages
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case IsTimeout(err):
		return "Operation timed out. Increase --drain-timeout or --http-timeout and try again."
	case IsCancelled(err):
		return "Operation was cancelled."
	case IsNotFound(err):
		return "Location not found. Run 'tempbench locations' to list the catalog."
	case IsFetchError(err):
		return "Failed to fetch weather data. Check network connectivity and --base-url."
	case errors.Is(err, ErrInvalidConfig):
		return "Invalid configuration: " + err.Error()
	case errors.Is(err, ErrNoSuccessfulTrials):
		return "Every trial failed; no timing could be recorded."
	default:
		return err.Error()
	}
}

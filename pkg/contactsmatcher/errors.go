package contactsmatcher

import (
	"errors"
	"fmt"
)

// Common sentinel errors for the library.
var (
	// ErrInvalidInput indicates a record field that cannot be normalized.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates that the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyList indicates that a master or source list contains no records.
	ErrEmptyList = errors.New("empty record list")
)

// InputError represents a record field that failed validation.
type InputError struct {
	// List is the list the record came from, when known
	List string
	// Row is the 1-based row index of the record, when known
	Row int
	// Field is the record field that was rejected
	Field string
	// Reason describes what was wrong with the value
	Reason string
}

// Error implements the error interface.
func (e *InputError) Error() string {
	msg := fmt.Sprintf("invalid input for '%s': %s", e.Field, e.Reason)
	if e.List != "" {
		msg += fmt.Sprintf(" (list '%s', row %d)", e.List, e.Row)
	}
	return msg
}

// Unwrap returns the underlying sentinel error.
func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// ConfigError represents a configuration error.
type ConfigError struct {
	// Field is the configuration field with the error
	Field string
	// Details provides additional context
	Details string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid configuration for '%s': %s", e.Field, e.Details)
	}
	return fmt.Sprintf("invalid configuration: %s", e.Details)
}

// Unwrap returns the underlying sentinel error.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// EmptyListError represents a master or source list with no records.
type EmptyListError struct {
	// List identifies the empty list: "master" or a source list ID
	List string
}

// Error implements the error interface.
func (e *EmptyListError) Error() string {
	return fmt.Sprintf("list '%s' contains no records", e.List)
}

// Unwrap returns the underlying sentinel error.
func (e *EmptyListError) Unwrap() error {
	return ErrEmptyList
}

// Package errors provides a lightweight structured error type (DeskwrapError)
// for category-based classification across the CLI, scaffolder and build hook.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a deskwrap error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Project scaffolding and detection errors
	CategoryScaffold ErrorCategory = "scaffold"
	CategoryDetect   ErrorCategory = "detect"
	CategoryTemplate ErrorCategory = "template"

	// Build and post-processing errors
	CategoryBuild      ErrorCategory = "build"
	CategoryTransform  ErrorCategory = "transform"
	CategoryVerify     ErrorCategory = "verify"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Runtime and infrastructure errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryWatch    ErrorCategory = "watch"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// DeskwrapError is a structured error with category, retryability, and context
type DeskwrapError struct {
	Category  ErrorCategory `json:"category"`
	Severity  ErrorSeverity `json:"severity"`
	Message   string        `json:"message"`
	Cause     error         `json:"cause,omitempty"`
	Retryable bool          `json:"retryable"`
	Context   ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for DeskwrapError
type ContextFields map[string]any

// Error implements the error interface
func (e *DeskwrapError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *DeskwrapError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *DeskwrapError) WithContext(key string, value any) *DeskwrapError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new DeskwrapError
func New(category ErrorCategory, severity ErrorSeverity, message string) *DeskwrapError {
	return &DeskwrapError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Retryable: false,
	}
}

// Wrap creates a new DeskwrapError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *DeskwrapError {
	return &DeskwrapError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: false,
	}
}

// Retryable creates a new retryable DeskwrapError
func Retryable(category ErrorCategory, severity ErrorSeverity, message string) *DeskwrapError {
	return &DeskwrapError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Retryable: true,
	}
}

// WrapRetryable creates a new retryable DeskwrapError that wraps an existing error
func WrapRetryable(err error, category ErrorCategory, severity ErrorSeverity, message string) *DeskwrapError {
	return &DeskwrapError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: true,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if de, ok := err.(*DeskwrapError); ok {
		return de.Category == category
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if de, ok := err.(*DeskwrapError); ok {
		return de.Retryable
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a DeskwrapError
func GetCategory(err error) ErrorCategory {
	if de, ok := err.(*DeskwrapError); ok {
		return de.Category
	}
	return CategoryInternal
}

// ValidationError creates a new validation error for bad user input
func ValidationError(message string) *DeskwrapError {
	return &DeskwrapError{
		Category:  CategoryValidation,
		Severity:  SeverityWarning,
		Message:   message,
		Retryable: false,
	}
}

// WrapError wraps an existing error with a new DeskwrapError at error severity
func WrapError(err error, category ErrorCategory, message string) *DeskwrapError {
	return &DeskwrapError{
		Category: category,
		Severity: SeverityError,
		Message:  message,
		Cause:    err,
	}
}

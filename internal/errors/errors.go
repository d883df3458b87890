// Package errors provides a lightweight structured error type (BankError)
// for category-based classification in the CLI and the build pipeline.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a practicebank error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig   ErrorCategory = "config"
	CategoryMetadata ErrorCategory = "metadata"
	CategoryProblem  ErrorCategory = "problem"

	// Build and rendering errors
	CategoryParse      ErrorCategory = "parse"
	CategoryTemplate   ErrorCategory = "template"
	CategoryFileSystem ErrorCategory = "filesystem"

	// External system and infrastructure errors
	CategoryGit      ErrorCategory = "git"
	CategoryInternal ErrorCategory = "internal"
)

// BankError is a structured error with category and context
type BankError struct {
	Category ErrorCategory `json:"category"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for BankError
type ContextFields map[string]any

// Error implements the error interface
func (e *BankError) Error() string {
	msg := e.Message
	if path, ok := e.Context["path"]; ok {
		msg = fmt.Sprintf("%s: %v", msg, path)
	} else if id, ok := e.Context["problem"]; ok {
		msg = fmt.Sprintf("%s: problem %v", msg, id)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Category, msg)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *BankError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *BankError) WithContext(key string, value any) *BankError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new BankError
func New(category ErrorCategory, message string) *BankError {
	return &BankError{
		Category: category,
		Message:  message,
	}
}

// Wrap creates a new BankError that wraps an existing error
func Wrap(err error, category ErrorCategory, message string) *BankError {
	return &BankError{
		Category: category,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if be, ok := err.(*BankError); ok {
		return be.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a BankError
func GetCategory(err error) ErrorCategory {
	if be, ok := err.(*BankError); ok {
		return be.Category
	}
	return CategoryInternal
}

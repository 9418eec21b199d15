// Copyright (C) 2026 The conftree Authors. All Rights Reserved.

// Package errors defines the categorized errors reported to users of the
// command-line tool.
package errors

import (
	"errors"
	"fmt"

	"github.com/confman/conftree"
	"github.com/confman/conftree/tree"
)

// Standard application errors
var (
	ErrEmptyInput    = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON   = errors.New("invalid JSON format")
	ErrExtraInput    = errors.New("extra data after the document")
	ErrFileNotFound  = errors.New("file not found")
	ErrNotContainer  = errors.New("document root must be an object or array")
	ErrNoSuchPath    = errors.New("path does not match any node")
	ErrNoDocument    = errors.New("no document is loaded")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrEmptyKey      = errors.New("key must not be empty")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput   ErrorType = "input"
	ErrorTypeParsing ErrorType = "parsing"
	ErrorTypeEdit    ErrorType = "edit"
	ErrorTypePath    ErrorType = "path"
	ErrorTypeOutput  ErrorType = "output"
	ErrorTypeConfig  ErrorType = "config"
	ErrorTypeUnknown ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error { return e.Err }

// Is reports whether target is an *AppError of the same type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.Type == t.Type
}

// NewInputError creates a new error related to reading input
func NewInputError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeInput, Message: message, Err: err}
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeParsing, Message: message, Err: err}
}

// NewEditError creates a new error related to an edit of the tree
func NewEditError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeEdit, Message: message, Err: err}
}

// NewPathError creates a new error related to resolving a path
func NewPathError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypePath, Message: message, Err: err}
}

// NewOutputError creates a new error related to writing output
func NewOutputError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeOutput, Message: message, Err: err}
}

// NewConfigError creates a new error related to configuration
func NewConfigError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeConfig, Message: message, Err: err}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			var serr *conftree.SyntaxError
			if errors.As(appErr.Err, &serr) {
				return fmt.Sprintf("JSON parsing error: %s at line %d, column %d",
					serr.Message, serr.Location.Line, serr.Location.Column+1)
			}
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypeEdit:
			var terr *tree.TypeMismatchError
			if errors.As(appErr.Err, &terr) {
				return fmt.Sprintf("Edit rejected: %q is not a valid %s value", terr.Text, terr.Expected)
			}
			var cerr *tree.CollisionError
			if errors.As(appErr.Err, &cerr) {
				return fmt.Sprintf("Edit rejected: key %q is already in use", cerr.Key)
			}
			return fmt.Sprintf("Edit error: %s", appErr.Message)
		case ErrorTypePath:
			return fmt.Sprintf("Path error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide a JSON document."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrNotContainer) {
		return "Error: The document root must be a JSON object or array."
	}
	if errors.Is(err, ErrNoDocument) {
		return "Error: No document is loaded."
	}
	if errors.Is(err, tree.ErrTypeMismatch) {
		return "Error: The value does not match the type of the entry."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}

// Package errors defines the application error taxonomy shared by every
// service. Each error carries a kind that the HTTP layer maps directly to a
// status code and a stable machine-readable code for the response envelope.
package errors

import (
	"fmt"
)

// ErrorType defines different categories of errors
type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "VALIDATION"
	ErrorTypeUnauthenticated ErrorType = "UNAUTHENTICATED"
	ErrorTypeForbidden       ErrorType = "FORBIDDEN"
	ErrorTypeNotFound        ErrorType = "NOT_FOUND"
	ErrorTypeInternal        ErrorType = "INTERNAL"
)

// AppError is the custom error type for the application
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work
func (e *AppError) Unwrap() error {
	return e.Err
}

// Code returns the stable machine-matchable token surfaced in the error
// envelope. Internal detail never leaks through here.
func (e *AppError) Code() string {
	switch e.Type {
	case ErrorTypeValidation:
		return "VALIDATION_ERROR"
	case ErrorTypeUnauthenticated:
		return "UNAUTHORIZED"
	case ErrorTypeForbidden:
		return "FORBIDDEN"
	case ErrorTypeNotFound:
		return "NOT_FOUND"
	default:
		return "INTERNAL_ERROR"
	}
}

// NewValidation creates a validation error
func NewValidation(message string) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewUnauthenticated creates an error for a missing or undecodable credential
func NewUnauthenticated(message string) error {
	return &AppError{
		Type:    ErrorTypeUnauthenticated,
		Message: message,
	}
}

// NewForbidden creates an error for an authenticated but unprivileged caller
func NewForbidden(message string) error {
	return &AppError{
		Type:    ErrorTypeForbidden,
		Message: message,
	}
}

// NewNotFound creates a not found error
func NewNotFound(message string) error {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewInternal creates an internal error
func NewInternal(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already an AppError, preserve the type
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Type:    appErr.Type,
			Message: fmt.Sprintf("%s: %s", message, appErr.Message),
			Err:     appErr.Err,
		}
	}

	// Otherwise, create an internal error
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == ErrorTypeValidation
}

// IsUnauthenticated checks if an error is an authentication error
func IsUnauthenticated(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == ErrorTypeUnauthenticated
}

// IsForbidden checks if an error is an authorization error
func IsForbidden(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == ErrorTypeForbidden
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == ErrorTypeNotFound
}

// IsInternal checks if an error is an internal error
func IsInternal(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == ErrorTypeInternal
}

package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	// Fatal to construction or to a run
	ErrorTypeConfig           ErrorType = "config"
	ErrorTypeInvalidDirectory ErrorType = "invalid_directory"
	ErrorTypeNoCandidates     ErrorType = "no_candidates"

	// Recovered at the item boundary
	ErrorTypeItemLoad       ErrorType = "item_load"
	ErrorTypeItemProcessing ErrorType = "item_processing"

	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeSystem     ErrorType = "system"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypePermission ErrorType = "permission"
	ErrorTypeNotFound   ErrorType = "not_found"
)

// Sentinels for errors.Is; matching is by ErrorType only.
var (
	ErrConfig           = &AppError{Type: ErrorTypeConfig}
	ErrInvalidDirectory = &AppError{Type: ErrorTypeInvalidDirectory}
	ErrNoCandidates     = &AppError{Type: ErrorTypeNoCandidates}
	ErrItemLoad         = &AppError{Type: ErrorTypeItemLoad}
	ErrItemProcessing   = &AppError{Type: ErrorTypeItemProcessing}
)

// AppError represents an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type
	}
	return false
}

// WithContext adds context information to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new application error
func NewError(errorType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewConfigError creates an error for unusable configuration or output paths
func NewConfigError(message string, cause error) *AppError {
	return NewError(ErrorTypeConfig, message, cause)
}

// NewInvalidDirectoryError creates an error for a missing or non-directory input
func NewInvalidDirectoryError(message string, cause error) *AppError {
	return NewError(ErrorTypeInvalidDirectory, message, cause)
}

// NewNoCandidatesError creates an error for a scan or load stage with nothing usable
func NewNoCandidatesError(message string, cause error) *AppError {
	return NewError(ErrorTypeNoCandidates, message, cause)
}

// NewItemLoadError creates a recovered error for a single unloadable candidate
func NewItemLoadError(message string, cause error) *AppError {
	return NewError(ErrorTypeItemLoad, message, cause)
}

// NewItemProcessingError creates a recovered error for a single failed transform
func NewItemProcessingError(message string, cause error) *AppError {
	return NewError(ErrorTypeItemProcessing, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *AppError {
	return NewError(ErrorTypeValidation, message, cause)
}

// NewIOError creates an I/O error
func NewIOError(message string, cause error) *AppError {
	return NewError(ErrorTypeIO, message, cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string, cause error) *AppError {
	return NewError(ErrorTypeNotFound, message, cause)
}

// WrapError wraps an existing error with additional context
func WrapError(err error, errorType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}

	// If it's already an AppError, preserve the original type unless explicitly overridden
	var appErr *AppError
	if errors.As(err, &appErr) && errorType == "" {
		return &AppError{
			Type:    appErr.Type,
			Message: message + ": " + appErr.Message,
			Cause:   appErr.Cause,
			Context: appErr.Context,
		}
	}

	if errorType == "" {
		errorType = classifyError(err)
	}

	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

// classifyError automatically classifies an error based on its content
func classifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeSystem
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		return ErrorTypeTimeout
	case strings.Contains(errStr, "permission denied") || strings.Contains(errStr, "access denied"):
		return ErrorTypePermission
	case strings.Contains(errStr, "no such file") || strings.Contains(errStr, "not found"):
		return ErrorTypeNotFound
	case strings.Contains(errStr, "invalid") || strings.Contains(errStr, "bad"):
		return ErrorTypeValidation
	default:
		return ErrorTypeSystem
	}
}

// GetErrorType extracts the error type from an error
func GetErrorType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return classifyError(err)
}

// IsFatal reports whether an error aborts a run instead of being counted
func IsFatal(err error) bool {
	switch GetErrorType(err) {
	case ErrorTypeItemLoad, ErrorTypeItemProcessing:
		return false
	default:
		return err != nil
	}
}

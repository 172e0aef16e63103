package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a class of failure independently of its message
type ErrorCode string

// Error codes for registry cleanup failures
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Storage directory and registry file errors
	ErrDirectoryNotFound ErrorCode = "DIRECTORY_NOT_FOUND"
	ErrMissingConfigFile ErrorCode = "MISSING_CONFIG_FILE"
	ErrFileNotFound      ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess        ErrorCode = "FILE_ACCESS"
	ErrFileWrite         ErrorCode = "FILE_WRITE"
	ErrBackup            ErrorCode = "BACKUP"

	// Document errors
	ErrMalformedJSON ErrorCode = "MALFORMED_JSON"
	ErrSchema        ErrorCode = "SCHEMA"
)

// CleanupError is a structured error carrying a stable code
type CleanupError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *CleanupError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CleanupError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a CleanupError with the same code
func (e *CleanupError) Is(target error) bool {
	var targetErr *CleanupError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a CleanupError with the given code and message
func New(code ErrorCode, message string) *CleanupError {
	return &CleanupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a CleanupError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *CleanupError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps err with a code and message. Wrap(nil, ...) returns nil.
func Wrap(err error, code ErrorCode, message string) *CleanupError {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf wraps err with a code and formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *CleanupError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error
func (e *CleanupError) WithDetail(key string, value interface{}) *CleanupError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error chain contains a CleanupError with code
func IsErrorCode(err error, code ErrorCode) bool {
	var cleanupErr *CleanupError
	if errors.As(err, &cleanupErr) {
		return cleanupErr.Code == code
	}
	return false
}

// GetErrorCode returns the code of err, or ErrUnknown if it is not a CleanupError
func GetErrorCode(err error) ErrorCode {
	var cleanupErr *CleanupError
	if errors.As(err, &cleanupErr) {
		return cleanupErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details of err, or nil if it is not a CleanupError
func GetErrorDetails(err error) map[string]interface{} {
	var cleanupErr *CleanupError
	if errors.As(err, &cleanupErr) {
		return cleanupErr.Details
	}
	return nil
}

package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"
	ErrNoInput       ErrorCode = "NO_INPUT"

	// Remote errors
	ErrTransport ErrorCode = "TRANSPORT"
	ErrSync      ErrorCode = "SYNC"

	// Run errors
	ErrProvisionFailed ErrorCode = "PROVISION_FAILED"

	// Batch errors
	ErrBatchFlushed ErrorCode = "BATCH_FLUSHED"
)

// PiPlayerError represents a structured error with code and details
type PiPlayerError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *PiPlayerError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PiPlayerError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *PiPlayerError) Is(target error) bool {
	var targetErr *PiPlayerError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new PiPlayerError with the given code and message
func New(code ErrorCode, message string) *PiPlayerError {
	return &PiPlayerError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new PiPlayerError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *PiPlayerError {
	return &PiPlayerError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a PiPlayerError
func Wrap(err error, code ErrorCode, message string) *PiPlayerError {
	if err == nil {
		return nil
	}
	return &PiPlayerError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *PiPlayerError {
	if err == nil {
		return nil
	}
	return &PiPlayerError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *PiPlayerError) WithDetail(key string, value interface{}) *PiPlayerError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var ppErr *PiPlayerError
	if errors.As(err, &ppErr) {
		return ppErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a PiPlayerError
func GetErrorCode(err error) ErrorCode {
	var ppErr *PiPlayerError
	if errors.As(err, &ppErr) {
		return ppErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a PiPlayerError
func GetErrorDetails(err error) map[string]interface{} {
	var ppErr *PiPlayerError
	if errors.As(err, &ppErr) {
		return ppErr.Details
	}
	return nil
}

package errors

import (
	"errors"
	"fmt"
)

// Domain-specific error types
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicateEntry indicates a unique constraint violation
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrMessageNotFound indicates the message was not found or is not owned
	// by the requested vendor/folder
	ErrMessageNotFound = errors.New("message not found")

	// ErrPartNotFound indicates the message part was not found
	ErrPartNotFound = errors.New("message part not found")

	// ErrVendorNotFound indicates the vendor was not found
	ErrVendorNotFound = errors.New("vendor not found")

	// ErrFolderNotFound indicates the folder was not found
	ErrFolderNotFound = errors.New("folder not found")

	// ErrContentNotAvailable indicates the part exists but has no stored bytes
	ErrContentNotAvailable = errors.New("content not available")

	// ErrResolution indicates a generated id could not be read back after create
	ErrResolution = errors.New("id resolution failed")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal server error")
)

// Error codes for API responses
const (
	CodeNotFound            = "NOT_FOUND"
	CodeDuplicateEntry      = "CONFLICT"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeContentNotAvailable = "CONTENT_NOT_AVAILABLE"
	CodeResolutionFailed    = "RESOLUTION_FAILED"
	CodeInternalError       = "INTERNAL_ERROR"
)

// AppError represents an application error with context
type AppError struct {
	Err     error
	Message string
	Code    string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(err error, message string, code string) *AppError {
	return &AppError{
		Err:     err,
		Message: message,
		Code:    code,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrMessageNotFound) ||
		errors.Is(err, ErrPartNotFound) ||
		errors.Is(err, ErrVendorNotFound) ||
		errors.Is(err, ErrFolderNotFound)
}

// IsDuplicateEntry checks if the error is a duplicate entry error
func IsDuplicateEntry(err error) bool {
	return errors.Is(err, ErrDuplicateEntry)
}

// IsInvalidInput checks if the error is an invalid input error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsContentNotAvailable checks if the error reports a part without stored bytes
func IsContentNotAvailable(err error) bool {
	return errors.Is(err, ErrContentNotAvailable)
}

// GetErrorCode returns the appropriate error code for an error
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != "" {
		return appErr.Code
	}
	switch {
	case IsContentNotAvailable(err):
		return CodeContentNotAvailable
	case IsNotFound(err):
		return CodeNotFound
	case IsDuplicateEntry(err):
		return CodeDuplicateEntry
	case IsInvalidInput(err):
		return CodeInvalidInput
	case errors.Is(err, ErrResolution):
		return CodeResolutionFailed
	default:
		return CodeInternalError
	}
}

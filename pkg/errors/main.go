package errors

import (
	"errors"
	"fmt"
	"strings"
)

const (
	ErrorTypeDatabaseError       = "DATABASE_ERROR"
	ErrorTypeNotFound            = "NOT_FOUND"
	ErrorTypeInvalidRequest      = "INVALID_REQUEST"
	ErrorTypeConflict            = "CONFLICT"
	ErrorTypeUnavailable         = "SERVICE_UNAVAILABLE"
	ErrorTypeInternalServerError = "INTERNAL_SERVER_ERROR"
	ErrorTypeTooManyRequests     = "TOO_MANY_REQUESTS"
	ErrorTypeRequestTimeout      = "REQUEST_TIMEOUT"
	ErrorTypeUnknown             = "UNKNOWN_ERROR"
)

// AppError is an error with a stable type and a message that is safe to
// show to visitors. Err keeps the underlying cause for logs.
type AppError struct {
	Type    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(errType, message string, err error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

func NewNotFoundError(message string, err error) *AppError {
	return NewAppError(ErrorTypeNotFound, message, err)
}

func NewInvalidRequestError(message string, err error) *AppError {
	return NewAppError(ErrorTypeInvalidRequest, message, err)
}

func NewDatabaseError(message string, err error) *AppError {
	return NewAppError(ErrorTypeDatabaseError, message, err)
}

func NewConflictError(message string, err error) *AppError {
	return NewAppError(ErrorTypeConflict, message, err)
}

// NewUnavailableError marks a downstream that could not be reached, such
// as a webhook whose circuit is open.
func NewUnavailableError(message string, err error) *AppError {
	return NewAppError(ErrorTypeUnavailable, message, err)
}

func NewInternalServerError(message string, err error) *AppError {
	return NewAppError(ErrorTypeInternalServerError, message, err)
}

// GetErrorType returns the type of the outermost AppError in err's chain.
func GetErrorType(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}

	return ErrorTypeUnknown
}

func HasType(err error, errType string) bool {
	return err != nil && GetErrorType(err) == errType
}

// MetricLabel is the error type in the lower-case form used for metric
// labels. A nil error is "success".
func MetricLabel(err error) string {
	if err == nil {
		return "success"
	}
	return strings.ToLower(GetErrorType(err))
}

var duplicateKeyMarkers = []string{
	"duplicate key",
	"unique constraint",
	"sqlstate 23505",
}

// IsDuplicateKeyError recognises unique violations from Postgres and SQLite
// when the driver did not translate them into a typed error.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if HasType(err, ErrorTypeConflict) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range duplicateKeyMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

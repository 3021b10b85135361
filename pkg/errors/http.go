package errors

import (
	"errors"
	"net/http"
)

var statusByType = map[string]int{
	ErrorTypeNotFound:            http.StatusNotFound,
	ErrorTypeInvalidRequest:      http.StatusBadRequest,
	ErrorTypeConflict:            http.StatusConflict,
	ErrorTypeTooManyRequests:     http.StatusTooManyRequests,
	ErrorTypeRequestTimeout:      http.StatusRequestTimeout,
	ErrorTypeUnavailable:         http.StatusServiceUnavailable,
	ErrorTypeDatabaseError:       http.StatusInternalServerError,
	ErrorTypeInternalServerError: http.StatusInternalServerError,
}

func HTTPStatusCode(err error) int {
	if status, ok := statusByType[GetErrorType(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

const genericMessage = "Something went wrong. Please try again."

// GetHumanReadableMessage never exposes the wrapped cause, only the
// message an AppError was built with.
func GetHumanReadableMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return genericMessage
}

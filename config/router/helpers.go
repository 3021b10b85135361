package router

import (
	"net/http"

	"github.com/akeren/levelup-fit/internal/log"
)

// GetLogger returns the request-scoped logger injected by the router.
func GetLogger(ctx *RequestContext) *log.Logger {
	return log.GetLoggerInstanceFromContext(ctx.Request.Context(), nil)
}

func OKResult(data any, message string) *ServiceResult {
	return newResult(http.StatusOK, message, data)
}

// AcceptedResult reports work that continues after the response is sent.
func AcceptedResult(data any, message string) *ServiceResult {
	return newResult(http.StatusAccepted, message, data)
}

func TooManyRequestsResult(data RateLimitResponse) *ServiceResult {
	return newResult(http.StatusTooManyRequests, "Too Many Requests", data)
}

func BadRequestResult(message string, payload any) *ServiceResult {
	return newResult(http.StatusBadRequest, message, payload)
}

func NotFoundResult(message string) *ServiceResult {
	return newResult(http.StatusNotFound, message, nil)
}

func InternalServerErrorResult(message string) *ServiceResult {
	return newResult(http.StatusInternalServerError, message, nil)
}

func ErrorResult(statusCode int, message string, data any) *ServiceResult {
	return newResult(statusCode, message, data)
}

func newResult(statusCode int, message string, data any) *ServiceResult {
	return &ServiceResult{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
	}
}

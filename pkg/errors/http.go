package errors

import (
	"errors"
	"net/http"
)

var statusByType = map[string]int{
	ErrorTypeNotFound:        http.StatusNotFound,
	ErrorTypeInvalidRequest:  http.StatusBadRequest,
	ErrorTypeConflict:        http.StatusConflict,
	ErrorTypeUnprocessable:   http.StatusUnprocessableEntity,
	ErrorTypeTooManyRequests: http.StatusTooManyRequests,
}

// HTTPStatusCode falls back to 500 for database failures and foreign errors.
func HTTPStatusCode(err error) int {
	if status, ok := statusByType[GetErrorType(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// GetHumanReadableMessage never exposes the text of wrapped driver errors.
func GetHumanReadableMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Type != ErrorTypeDatabaseError {
		return appErr.Message
	}

	return "An unexpected error occurred"
}

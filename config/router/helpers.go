package router

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/akeren/jobtracker-api/internal/log"
	"github.com/akeren/jobtracker-api/pkg/constants"
	apperrors "github.com/akeren/jobtracker-api/pkg/errors"
	"github.com/google/uuid"
)

func GetLogger(ctx *RequestContext) *log.Logger {
	if logger := ctx.Request.Context().Value(log.LoggerKeyForContext); logger != nil {
		if l, ok := logger.(*log.Logger); ok {
			return l
		}
	}

	baseLogger := log.NewLoggerWithJSONOutput()
	return baseLogger.WithCorrelationID(ctx.Request.Context())
}

// UnknownClientIP stands in for callers whose address cannot be resolved.
const UnknownClientIP = "unknown"

// ClientIP honours TRUSTED_PROXIES and falls back to UnknownClientIP.
func ClientIP(ctx *RequestContext) string {
	if ip := strings.TrimSpace(ctx.ClientIP()); ip != "" {
		return ip
	}
	return UnknownClientIP
}

func OKResult(data any, message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusOK,
		Data:       data,
		Message:    message,
	}
}

func CreatedResult(data any, message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusCreated,
		Data:       data,
		Message:    message,
	}
}

func RateLimitedResult(data RateLimitResponse) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusTooManyRequests,
		Data:       data,
		Message:    "Too Many Requests",
	}
}

func BadRequestResult(message string, payload any) *ServiceResult {
	return ErrorResult(http.StatusBadRequest, message, payload)
}

func UnauthorizedResult(message string) *ServiceResult {
	return ErrorResult(http.StatusUnauthorized, message, nil)
}

func NotFoundResult(message string) *ServiceResult {
	return ErrorResult(http.StatusNotFound, message, nil)
}

func InternalServerErrorResult(message string) *ServiceResult {
	return ErrorResult(http.StatusInternalServerError, message, nil)
}

func ErrorResult(statusCode int, message string, data any) *ServiceResult {
	return &ServiceResult{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Error:      message,
	}
}

// AppErrorResult maps an AppError onto its status and client-safe message.
func AppErrorResult(err error) *ServiceResult {
	return ErrorResult(apperrors.HTTPStatusCode(err), apperrors.GetHumanReadableMessage(err), nil)
}

// BindJSON binds and validates the body, returning a 400 result on failure.
func BindJSON(ctx *RequestContext, req any) *ServiceResult {
	if err := ctx.ShouldBindJSON(req); err != nil {
		GetLogger(ctx).Warn("Failed to bind request", "path", ctx.FullPath(), "error", err)

		if details := apperrors.FormatValidationErrors(err, req); len(details) > 0 {
			return BadRequestResult("Invalid request payload", details)
		}
		return BadRequestResult("Invalid request body", nil)
	}
	return nil
}

func ParseIDParam(ctx *RequestContext, paramName string) (uint, *ServiceResult) {
	idParam := ctx.Param(paramName)
	id, err := strconv.ParseUint(idParam, 10, 32)

	if err != nil || id == 0 {
		GetLogger(ctx).Warn("Invalid ID parameter", "param", paramName, "value", idParam)
		return 0, BadRequestResult("Invalid ID parameter", nil)
	}

	return uint(id), nil
}

func ParseUUIDParam(ctx *RequestContext, paramName string) (string, *ServiceResult) {
	idParam := ctx.Param(paramName)

	id, err := uuid.Parse(idParam)
	if err != nil {
		GetLogger(ctx).Warn("Invalid UUID parameter", "param", paramName, "value", idParam)
		return "", BadRequestResult("Invalid ID parameter", nil)
	}

	return id.String(), nil
}

// ParsePageQuery reads ?page= and ?page_size=, clamping to sane bounds.
func ParsePageQuery(ctx *RequestContext) PageRequest {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	size, err := strconv.Atoi(ctx.DefaultQuery("page_size", strconv.Itoa(constants.DefaultPageSize)))
	if err != nil || size < 1 {
		size = constants.DefaultPageSize
	}
	if size > constants.MaxPageSize {
		size = constants.MaxPageSize
	}

	return PageRequest{Page: page, PageSize: size}
}

package httptransport

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ttsgateway/internal/platform/errors"
)

// APIResponse is the uniform envelope for every endpoint.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func RespondSuccess(c *gin.Context, httpStatus int, data any, message string) {
	if message == "" {
		message = "ok"
	}
	c.JSON(httpStatus, APIResponse{
		Success: true,
		Message: message,
		Code:    httpStatus,
		Data:    data,
	})
}

func RespondError(c *gin.Context, httpStatus int, message string, data any) {
	c.JSON(httpStatus, APIResponse{
		Success: false,
		Message: message,
		Code:    httpStatus,
		Data:    data,
	})
}

// RespondDomainError maps a domain error onto its HTTP status. Rate limits
// carry a Retry-After header.
func RespondDomainError(c *gin.Context, err error) {
	status := statusForCode(errors.CodeOf(err))

	var data any
	var typed *errors.Error
	if stderrors.As(err, &typed) {
		if typed.RetryAfter != 0 {
			c.Header("Retry-After", strconv.FormatUint(uint64(typed.RetryAfter), 10))
		}
		data = gin.H{"error_code": string(typed.Code)}
	}
	RespondError(c, status, err.Error(), data)
}

func statusForCode(code errors.Code) int {
	switch code {
	case errors.CodeUnauthorized:
		return http.StatusUnauthorized
	case errors.CodeAccessDenied:
		return http.StatusForbidden
	case errors.CodeRateLimited:
		return http.StatusTooManyRequests
	case errors.CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	case errors.CodeInvalidText, errors.CodeInvalidSsml,
		errors.CodeTextTooLong, errors.CodeInvalidConfiguration:
		return http.StatusBadRequest
	case errors.CodeVoiceNotFound, errors.CodeSessionNotFound:
		return http.StatusNotFound
	case errors.CodeUnsupportedOperation:
		return http.StatusNotImplemented
	case errors.CodeNetworkError, errors.CodeSynthesisFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

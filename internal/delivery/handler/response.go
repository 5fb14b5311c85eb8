package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sqlpractice-service/internal/domain"
)

// Response represents a standard API response format
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Code    int         `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

const internalErrorMessage = "Internal server error"

func sendJSONResponse(c echo.Context, data interface{}, statusCode int) error {
	return c.JSON(statusCode, Response{
		Status: "success",
		Data:   data,
		Code:   statusCode,
	})
}

func sendJSONError(c echo.Context, errMsg string, statusCode int) error {
	return c.JSON(statusCode, Response{
		Status:  "error",
		Message: errMsg,
		Code:    statusCode,
	})
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrWrongPassword):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrAccountDisabled):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrLLMNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrLLMUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewHTTPErrorHandler renders every error returned by a handler or
// middleware as an error envelope. Internal failures are logged and
// their details withheld from the client.
func NewHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg, ok := he.Message.(string)
			if !ok {
				msg = http.StatusText(he.Code)
			}
			_ = sendJSONError(c, msg, he.Code)
			return
		}

		status := StatusFor(err)
		if status == http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.Error(err))
		}
		_ = sendJSONError(c, domain.Message(err, internalErrorMessage), status)
	}
}

package http

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "storefront/pkg/errors"
	"storefront/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	msgInternalServerError = "Internal server error"
	requestIDUnknown       = "unknown"
)

var statusByKind = map[error]int{
	apperrors.ErrInvalidInput:    http.StatusBadRequest,
	apperrors.ErrUnauthenticated: http.StatusUnauthorized,
	apperrors.ErrForbidden:       http.StatusForbidden,
	apperrors.ErrNotFound:        http.StatusNotFound,
	apperrors.ErrConflict:        http.StatusConflict,
	apperrors.ErrInternal:        http.StatusInternalServerError,
}

// CustomHTTPErrorHandler handles all errors returned by handlers and middleware.
// Application errors are mapped through apperrors.Kind, client errors keep
// their message and internal errors are logged but never exposed.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, message := publicError(err)

	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = requestIDUnknown
	}

	if code >= http.StatusInternalServerError {
		c.Logger().Errorj(map[string]interface{}{
			"event":      "internal_server_error",
			"request_id": requestID,
			"status":     code,
			"error":      logger.SanitizeLogMessage(err.Error()),
		})
		message = msgInternalServerError
	} else {
		c.Logger().Warnj(map[string]interface{}{
			"event":      "client_error",
			"request_id": requestID,
			"status":     code,
			"error":      logger.SanitizeLogMessage(err.Error()),
		})
	}

	if err := c.JSON(code, map[string]interface{}{
		"error":      message,
		"request_id": requestID,
	}); err != nil {
		c.Logger().Error(err)
	}
}

func publicError(err error) (int, string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, fmt.Sprintf("%v", httpErr.Message)
	}

	code := statusByKind[apperrors.Kind(err)]

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return code, appErr.Message
	}
	return code, http.StatusText(code)
}

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"pricetracker/internal/delivery/api/response"
	deliverycontext "pricetracker/internal/delivery/context"
	domainerrors "pricetracker/internal/domain/errors"
	"pricetracker/internal/errors"
)

// ErrorMiddleware handles errors in the HTTP pipeline
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)

	if appErr, ok := domainerrors.AsAppError(err); ok {
		switch appErr.Kind() {
		case domainerrors.KindInternal, domainerrors.KindUpstream:
			logger.Error("Request failed",
				slog.String("kind", appErr.Kind().String()),
				slog.String("code", appErr.ErrorCode()),
				slog.String("details", appErr.Details()),
				slog.Any("error", err),
				slog.String("path", c.Request().URL.Path),
			)
		case domainerrors.KindValidation, domainerrors.KindConflict, domainerrors.KindAuthentication:
			logger.Debug("Request rejected",
				slog.String("kind", appErr.Kind().String()),
				slog.String("code", appErr.ErrorCode()),
			)
		}

		_ = response.Error(c, appErr.HTTPCode(), appErr.Message(), appErr.Fields())

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
		if httpErr.Code >= http.StatusInternalServerError {
			logger.Error("HTTP error", slog.Any("error", err))
		}

		_ = response.Error(c, httpErr.Code, message, nil)

		return
	}

	logger.Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	_ = response.InternalServerError(c)
}

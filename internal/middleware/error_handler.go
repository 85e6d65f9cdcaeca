package middleware

import (
	"net/http"

	"fraudBench/pkg/logger"

	jsonres "fraudBench/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler builds the echo HTTPErrorHandler. Unexpected errors are logged
// with full detail but reach production clients as a generic failure; in
// development the real message is returned to ease debugging.
func ErrorHandler(environment string) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if httpErr, ok := err.(*echo.HTTPError); ok {
			message, ok := httpErr.Message.(string)
			if !ok {
				message = http.StatusText(httpErr.Code)
			}
			_ = c.JSON(httpErr.Code, jsonres.Error("HTTP_ERROR", message, nil))
			return
		}

		logger.Error("Unhandled request error", "path", c.Path(), "error", err)

		message := "Internal server error"
		if environment != "production" {
			message = err.Error()
		}

		_ = c.JSON(http.StatusInternalServerError, jsonres.Error("INTERNAL_ERROR", message, nil))
	}
}

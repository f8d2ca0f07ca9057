package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Index lists the API entry points.
func Index(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Welcome to the API!",
		"endpoints": map[string]string{
			"auth": "/api/v1/auth",
		},
	})
}

// HealthCheck reports liveness.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

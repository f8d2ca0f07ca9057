package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"pricetracker/internal/infra/metrics"
)

// Metrics records request count and latency by route template.
func Metrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		path := c.Path()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTPRequest(
			c.Request().Method,
			path,
			strconv.Itoa(c.Response().Status),
			time.Since(start).Seconds(),
		)

		return nil
	}
}

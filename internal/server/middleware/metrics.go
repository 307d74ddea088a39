package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records request counts and latency by route template.
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		reg := c.(*AppContext).App.Metrics
		if reg == nil {
			return next(c)
		}

		reg.HTTPRequestsInFlight.Inc()
		defer reg.HTTPRequestsInFlight.Dec()

		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		path := c.Path()
		if path == "" {
			path = "unmatched"
		}
		reg.RecordHTTPRequest(
			c.Request().Method,
			path,
			strconv.Itoa(c.Response().Status),
			time.Since(start),
		)
		return nil
	}
}

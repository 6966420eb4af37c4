package echoapi

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/the-user01/Study-Platform-Server/services/metrics"
)

// metricsMiddleware records every request by route pattern, after the error handler has set the status.
func metricsMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			if err := next(ctx); err != nil {
				ctx.Error(err)
			}
			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(ctx.Request().Method, route, ctx.Response().Status, time.Since(start))
			return nil
		}
	}
}

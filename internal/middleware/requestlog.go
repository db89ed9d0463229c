package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/logger"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/metrics"
)

// RequestID assigns a UUID to every request that does not carry an
// X-Request-Id header and echoes it on the response.
func RequestID() echo.MiddlewareFunc {
	return echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	})
}

// RequestLog seeds the request context with the request id, lets the
// error handler render any failure, then logs one line per request and
// records it in m. It must run inside RequestID.
func RequestLog(log *logger.Logger, m *metrics.HTTPMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			c.SetRequest(req.WithContext(log.WithRequestID(req.Context(), rid)))

			if err := next(c); err != nil {
				c.Error(err)
			}

			elapsed := time.Since(start)
			status := c.Response().Status
			m.Observe(req.Method, c.Path(), status, elapsed)

			ctx := log.WithFields(c.Request().Context(), map[string]any{
				"method":      req.Method,
				"route":       c.Path(),
				"path":        req.URL.Path,
				"status":      status,
				"duration_ms": elapsed.Milliseconds(),
				"remote_ip":   c.RealIP(),
			})
			if status >= 500 {
				log.Warn(ctx, "request.complete")
			} else {
				log.Info(ctx, "request.complete")
			}
			return nil
		}
	}
}

package api

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roadready/roadready/internal/logger"
)

const (
	teacherHeader = "X-Teacher-ID"
	teacherKey    = "teacher_id"
)

// HTTPRecorder receives one observation per served request.
type HTTPRecorder interface {
	ObserveHTTPRequest(route, method string, code int, d time.Duration)
}

// observe records metrics and a debug log line for every request. Errors
// are handed to the error handler here so the final status is known.
func observe(rec HTTPRecorder, log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}
			elapsed := time.Since(start)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := c.Response().Status
			rec.ObserveHTTPRequest(route, c.Request().Method, status, elapsed)
			log.Debug(c.Request().Context(), "request",
				logger.String("method", c.Request().Method),
				logger.String("route", route),
				logger.Int("status", status),
				logger.Any("latency", elapsed))
			return nil
		}
	}
}

// teacher resolves the teacher for the request: the X-Teacher-ID header
// when present, the configured default otherwise.
func teacher(defaultID string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := strings.TrimSpace(c.Request().Header.Get(teacherHeader))
			if id == "" {
				id = defaultID
			}
			c.Set(teacherKey, id)
			return next(c)
		}
	}
}

func teacherID(c echo.Context) string {
	id, _ := c.Get(teacherKey).(string)
	return id
}

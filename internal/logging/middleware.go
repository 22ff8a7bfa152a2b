package logging

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wichananm65/course-recommender/internal/metrics"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

const loggerLocal = "logger"

// Middleware assigns a request ID, stores a request-scoped logger in the
// fiber context and logs every completed request.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)

		l := Logger().With().Str("request_id", id).Logger()
		c.Locals(loggerLocal, l)

		err := c.Next()
		if err != nil {
			// let the app error handler pick the status before we read it
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		elapsed := time.Since(start)
		route := c.Route().Path
		metrics.ObserveHTTP(c.Method(), route, status, elapsed)

		l.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", elapsed).
			Msg("request completed")
		return nil
	}
}

// FromCtx returns the request-scoped logger, or the global logger when the
// middleware did not run.
func FromCtx(c *fiber.Ctx) zerolog.Logger {
	if l, ok := c.Locals(loggerLocal).(zerolog.Logger); ok {
		return l
	}
	return Logger()
}

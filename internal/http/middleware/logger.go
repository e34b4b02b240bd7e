package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorLocalKey holds an internal error description that handlers hide from the client.
const ErrorLocalKey = "internal_error"

// Logger is a middleware that writes one structured entry per HTTP request.
// Fields:
// - request_id (taken from context locals set by RequestID middleware)
// - method
// - path
// - status
// - latency (in milliseconds, as float)
// - error, when a handler recorded an internal failure
func Logger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		if err != nil {
			// Let the app's ErrorHandler write the response now so the status below is final.
			if hErr := c.App().ErrorHandler(c, err); hErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.String("request_id", rid),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Float64("latency", float64(time.Since(start).Microseconds())/1000),
		}
		if internal, ok := c.Locals(ErrorLocalKey).(string); ok {
			fields = append(fields, zap.String("error", internal))
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			log.Error("http_request", fields...)
		case status >= fiber.StatusBadRequest:
			log.Warn("http_request", fields...)
		default:
			log.Info("http_request", fields...)
		}
		return nil
	}
}

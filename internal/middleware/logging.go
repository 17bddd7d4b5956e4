package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// finish hands a handler error to the app's error handler so the final
// status is known to middleware that runs after the chain.
func finish(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}
	return c.App().ErrorHandler(c, err)
}

// RequestLogger logs one line per request.
func RequestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if err := finish(c, chainErr); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		}
		if id, ok := c.Locals("requestid").(string); ok {
			fields = append(fields, zap.String("request_id", id))
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			log.Error("Request failed", append(fields, zap.Error(chainErr))...)
		case status >= fiber.StatusBadRequest:
			log.Info("Request rejected", append(fields, zap.Error(chainErr))...)
		default:
			log.Info("Request handled", fields...)
		}
		return nil
	}
}

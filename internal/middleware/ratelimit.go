package middleware

import (
	"devcamper/internal/apperror"
	"devcamper/internal/metrics"
	"devcamper/internal/ratelimit"

	"github.com/gofiber/fiber/v2"
)

// RateLimit rejects clients that exceed their request budget with 429.
func RateLimit(l *ratelimit.Limiter, m *metrics.MetricsManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !l.Allow(c.IP()) {
			if m != nil {
				m.RateLimited.Inc()
			}
			return apperror.New(fiber.StatusTooManyRequests, "Too many requests, please try again later")
		}
		return c.Next()
	}
}

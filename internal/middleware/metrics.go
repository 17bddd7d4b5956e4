package middleware

import (
	"strconv"
	"time"

	"devcamper/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request counts and latency per route.
func Metrics(m *metrics.MetricsManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := finish(c, c.Next()); err != nil {
			return err
		}
		route := c.Route().Path
		m.RequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(c.Response().StatusCode())).Inc()
		m.RequestLatency.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return nil
	}
}

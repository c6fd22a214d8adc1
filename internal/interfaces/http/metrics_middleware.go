package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/master-console/pkg/metrics"
)

// MetricsMiddleware cuenta peticiones y mide duración por método y ruta.
// Usa c.Route().Path (la plantilla, ej. /master/tenants/:tenantId) para no
// explotar la cardinalidad de labels con ids concretos.
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		method := c.Method()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		return err
	}
}

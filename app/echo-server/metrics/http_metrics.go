package metrics

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystem = "ram_enterprise"

// Middleware records request counts and latencies for the API routes. The
// metrics and health endpoints are skipped.
func Middleware(registerer prometheus.Registerer) echo.MiddlewareFunc {
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  subsystem,
		Registerer: registerer,
		Skipper:    skipInternal,
	})
}

// Handler exposes the default registry.
func Handler() echo.HandlerFunc {
	return echoprometheus.NewHandler()
}

func skipInternal(c echo.Context) bool {
	path := c.Path()
	return path == "/metrics" || path == "/health" || strings.HasPrefix(c.Request().URL.Path, "/metrics")
}

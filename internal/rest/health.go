package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/it-is-Aman/ram-enterprise/pkg/logger"
	jsonres "github.com/it-is-Aman/ram-enterprise/pkg/response"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

// Pinger is anything the health check can probe, such as the database.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	version string
}

func NewHealthHandler(db Pinger, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		version: version,
	}
}

type healthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version"`
	Time     string `json:"time"`
}

func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := healthStatus{
		Status:   "ok",
		Database: "up",
		Version:  h.version,
		Time:     time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.db.PingContext(ctx); err != nil {
		logger.Error("Health check failed", err)
		status.Status = "degraded"
		status.Database = "down"
		return c.JSON(http.StatusServiceUnavailable, jsonres.Error("SERVICE_UNAVAILABLE", "database unreachable", status))
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(status))
}

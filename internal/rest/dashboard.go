package rest

import (
	"context"
	"time"

	"github.com/it-is-Aman/ram-enterprise/domain"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
)

type DashboardService interface {
	GetStats(ctx context.Context) (domain.DashboardStats, error)
	GetSalesReport(ctx context.Context, months int) ([]domain.SalesMonth, error)
}

type DashboardHandler struct {
	dashboardService DashboardService
	timeout          time.Duration
}

func NewDashboardHandler(dashboardService DashboardService, timeout time.Duration) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		timeout:          handlerTimeout(timeout),
	}
}

func (h *DashboardHandler) GetStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	stats, err := h.dashboardService.GetStats(ctx)
	if err != nil {
		return respondError(c, "load dashboard stats", err)
	}

	return respondOK(c, stats, "")
}

func (h *DashboardHandler) GetSalesReport(c echo.Context) error {
	months := 0
	if raw := c.QueryParam("months"); raw != "" {
		v, err := cast.ToIntE(raw)
		if err != nil || v < 1 {
			return badRequest(c, "months must be a positive number")
		}
		months = v
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	report, err := h.dashboardService.GetSalesReport(ctx, months)
	if err != nil {
		return respondError(c, "load sales report", err)
	}

	return respondOK(c, report, "")
}

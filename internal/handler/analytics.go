package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deskatlas/seat-allocation/internal/service"
)

// AnalyticsHandler exposes the seat utilization reports.
type AnalyticsHandler struct {
	Analytics *service.AnalyticsService
}

func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	if analytics == nil {
		panic("nil service passed to NewAnalyticsHandler")
	}
	return &AnalyticsHandler{Analytics: analytics}
}

// SeatUtilization handles GET /v1/analytics/seat-utilization.
func (h *AnalyticsHandler) SeatUtilization(c echo.Context) error {
	orgID, err := getOrgID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	report, err := h.Analytics.SeatUtilization(c.Request().Context(), orgID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

// FloorUtilization handles GET /v1/analytics/floor-utilization, one row
// per floor of the organization.
func (h *AnalyticsHandler) FloorUtilization(c echo.Context) error {
	orgID, err := getOrgID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	rows, err := h.Analytics.FloorUtilizations(c.Request().Context(), orgID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"floors": rows})
}

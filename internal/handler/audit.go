package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/deskatlas/seat-allocation/internal/service"
)

// AuditHandler serves audit history queries and the ad-hoc floor CSV
// download.
type AuditHandler struct {
	Audit *service.AuditService
}

func NewAuditHandler(audit *service.AuditService) *AuditHandler {
	if audit == nil {
		panic("nil service passed to NewAuditHandler")
	}
	return &AuditHandler{Audit: audit}
}

// SeatHistory handles GET /v1/seats/:id/audit.
func (h *AuditHandler) SeatHistory(c echo.Context) error {
	orgID, err := getOrgID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	seatID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	entries, err := h.Audit.ListBySeat(c.Request().Context(), seatID, orgID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": entries})
}

// FloorHistory handles GET /v1/floors/:id/audit with page, page_size, from
// and to query parameters.
func (h *AuditHandler) FloorHistory(c echo.Context) error {
	orgID, err := getOrgID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	floorID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	from, to, err := timeRangeQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid time filter; use RFC3339"})
	}
	result, err := h.Audit.ListByFloor(c.Request().Context(), floorID, orgID, page, pageSize, from, to)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// FloorCsv handles GET /v1/floors/:id/audit/export.  The CSV is rendered
// inline and the request counts against the allocation export cooldown.
func (h *AuditHandler) FloorCsv(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orgID, err := getOrgID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	floorID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	from, to, err := timeRangeQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid time filter; use RFC3339"})
	}
	csv, err := h.Audit.ExportFloorCsv(c.Request().Context(), actorID, floorID, orgID, from, to)
	if err != nil {
		return serviceError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+csv.Filename+`"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(csv.Content))
}

package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deskatlas/seat-allocation/internal/service"
)

// ExportHandler serves the organization-wide audit export pipeline: upload,
// signed download URL, and history.  Cooldown violations on these routes are
// 403s rather than the 409 the floor CSV uses.
type ExportHandler struct {
	Exports *service.ExportService
}

func NewExportHandler(exports *service.ExportService) *ExportHandler {
	if exports == nil {
		panic("nil service passed to NewExportHandler")
	}
	return &ExportHandler{Exports: exports}
}

func exportError(c echo.Context, err error) error {
	var cd *service.CooldownError
	if errors.As(err, &cd) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": cd.Error()})
	}
	return serviceError(c, err)
}

// Export handles POST /v1/exports/audit.  The full (optionally bounded)
// audit trail is uploaded to the blob store and the export is recorded.
func (h *ExportHandler) Export(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orgID, err := getOrgID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	from, to, err := timeRangeQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid time filter; use RFC3339"})
	}
	rec, err := h.Exports.ExportSeatAudit(c.Request().Context(), actorID, orgID, from, to)
	if err != nil {
		return exportError(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

// DownloadURL handles GET /v1/exports/audit/download-url, returning a
// short-lived signed URL for the latest export.
func (h *ExportHandler) DownloadURL(c echo.Context) error {
	orgID, err := getOrgID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	url, err := h.Exports.GetDownloadURL(c.Request().Context(), orgID)
	if err != nil {
		return exportError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"url": url})
}

// History handles GET /v1/exports.
func (h *ExportHandler) History(c echo.Context) error {
	orgID, err := getOrgID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	entries, err := h.Exports.History(c.Request().Context(), orgID)
	if err != nil {
		return exportError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"exports": entries})
}

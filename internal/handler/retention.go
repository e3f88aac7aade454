package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deskatlas/seat-allocation/internal/service"
)

// RetentionHandler exposes the manual retention trigger.  The scheduled runs
// go through the same service, so manual and scheduled runs share the
// single-flight guard.
type RetentionHandler struct {
	Retention *service.RetentionService
}

func NewRetentionHandler(retention *service.RetentionService) *RetentionHandler {
	if retention == nil {
		panic("nil service passed to NewRetentionHandler")
	}
	return &RetentionHandler{Retention: retention}
}

// Run handles POST /v1/admin/retention/run.  With ?dry_run=true it reports
// the candidate count without archiving or deleting.
func (h *RetentionHandler) Run(c echo.Context) error {
	dryRun := c.QueryParam("dry_run") == "true" || c.QueryParam("dry_run") == "1"
	result, err := h.Retention.Run(c.Request().Context(), dryRun)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

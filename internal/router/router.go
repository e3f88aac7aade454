package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/deskatlas/seat-allocation/internal/handler"
	"github.com/deskatlas/seat-allocation/internal/middleware"
	"github.com/deskatlas/seat-allocation/internal/model"
)

// Handlers bundles every handler the router wires up.
type Handlers struct {
	Assignments *handler.AssignmentHandler
	Allocations *handler.AllocationHandler
	Audit       *handler.AuditHandler
	Exports     *handler.ExportHandler
	Retention   *handler.RetentionHandler
	Seats       *handler.SeatHandler
	Analytics   *handler.AnalyticsHandler
}

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI registers the authenticated API under /v1.  Everyone in the
// organization can see their own seat and browse floor state; everything
// that changes seats, reads audit history or runs exports is admin-only,
// except for claiming and vacating one's own seat.  The exportLimiter sits
// in front of the CSV and retention routes because those do real work per
// request.
func RegisterAPI(e *echo.Echo, h Handlers, jwtSecret string, exportLimiter echo.MiddlewareFunc) {
	api := e.Group("/v1")
	api.Use(middleware.JWTAuth(jwtSecret))
	api.Use(middleware.RequireRole(model.RoleAdmin, model.RoleEmployee))

	// Self-service: any authenticated member.
	api.GET("/me/seat", h.Assignments.MySeat)
	api.DELETE("/me/seat", h.Assignments.UnassignSelf)
	api.POST("/seats/:id/claim", h.Assignments.ClaimSeat)
	api.GET("/seats/:id/occupant", h.Assignments.Occupant)
	api.GET("/floors/:id/seats", h.Seats.ListFloorSeats)

	// Administrative surface.
	admin := api.Group("")
	admin.Use(middleware.RequireRole(model.RoleAdmin))

	admin.POST("/floors/:id/seats", h.Seats.CreateSeat)
	admin.POST("/seats/:id/assign", h.Assignments.AssignSeat)
	admin.POST("/seats/:id/reassign", h.Assignments.ReassignSeat)
	admin.DELETE("/seats/:id/assignment", h.Assignments.UnassignBySeat)
	admin.PUT("/seats/:id/lock", h.Assignments.ToggleLock)

	admin.POST("/floors/:id/auto-assign", h.Allocations.AutoAssignSequential)
	admin.POST("/allocations/bulk", h.Allocations.AutoAssignBulk)

	admin.GET("/seats/:id/audit", h.Audit.SeatHistory)
	admin.GET("/floors/:id/audit", h.Audit.FloorHistory)

	admin.GET("/analytics/seat-utilization", h.Analytics.SeatUtilization)
	admin.GET("/analytics/floor-utilization", h.Analytics.FloorUtilization)

	// Expensive routes behind the token bucket.
	exports := admin.Group("", exportLimiter)
	exports.GET("/floors/:id/audit/export", h.Audit.FloorCsv)
	exports.POST("/exports/audit", h.Exports.Export)
	exports.GET("/exports/audit/download-url", h.Exports.DownloadURL)
	exports.GET("/exports", h.Exports.History)
	exports.POST("/admin/retention/run", h.Retention.Run)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deskatlas/seat-allocation/internal/service"
)

// AllocationHandler exposes the auto-allocation strategies.
type AllocationHandler struct {
	Allocations *service.AllocationService
}

func NewAllocationHandler(allocations *service.AllocationService) *AllocationHandler {
	if allocations == nil {
		panic("nil service passed to NewAllocationHandler")
	}
	return &AllocationHandler{Allocations: allocations}
}

// AutoAssignSequential handles POST /v1/floors/:id/auto-assign.  Free seats
// of the floor are paired with unseated users in deterministic order.
func (h *AllocationHandler) AutoAssignSequential(c echo.Context) error {
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
	result, err := h.Allocations.AutoAssignSequential(c.Request().Context(), actorID, floorID, orgID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// AutoAssignBulk handles POST /v1/allocations/bulk with an explicit seat
// candidate list.  Unusable candidates are dropped, not failed.
func (h *AllocationHandler) AutoAssignBulk(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orgID, err := getOrgID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		SeatIDs []uint64 `json:"seat_ids" validate:"required,min=1"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	result, err := h.Allocations.AutoAssignBulk(c.Request().Context(), actorID, body.SeatIDs, orgID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

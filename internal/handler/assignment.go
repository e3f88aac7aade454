package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deskatlas/seat-allocation/internal/service"
)

// AssignmentHandler exposes the assignment engine over HTTP.
type AssignmentHandler struct {
	Assignments *service.AssignmentService
}

func NewAssignmentHandler(assignments *service.AssignmentService) *AssignmentHandler {
	if assignments == nil {
		panic("nil service passed to NewAssignmentHandler")
	}
	return &AssignmentHandler{Assignments: assignments}
}

// AssignSeat handles POST /v1/seats/:id/assign.  Admins assign any user to
// the seat; the target user's prior seat, if any, is vacated implicitly.
func (h *AssignmentHandler) AssignSeat(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orgID, err := getOrgID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	seatID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		UserID uint64 `json:"user_id" validate:"required"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	a, err := h.Assignments.AssignSeat(c.Request().Context(), actorID, body.UserID, seatID, orgID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

// ClaimSeat handles POST /v1/seats/:id/claim.  Employees take a free seat
// for themselves; the engine applies the same checks as an admin assign.
func (h *AssignmentHandler) ClaimSeat(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orgID, err := getOrgID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	seatID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	a, err := h.Assignments.AssignSeat(c.Request().Context(), actorID, actorID, seatID, orgID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

// ReassignSeat handles POST /v1/seats/:id/reassign.  The path names the
// destination seat; the body names the user being moved and whether a lock
// on the destination may be overridden.
func (h *AssignmentHandler) ReassignSeat(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orgID, err := getOrgID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	destID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		UserID uint64 `json:"user_id" validate:"required"`
		Force  bool   `json:"force"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	a, err := h.Assignments.ReassignSeat(c.Request().Context(), actorID, body.UserID, destID, orgID, body.Force)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// UnassignSelf handles DELETE /v1/me/seat.  Idempotent: succeeds with 204
// whether or not the caller held a seat.
func (h *AssignmentHandler) UnassignSelf(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orgID, err := getOrgID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Assignments.UnassignSelf(c.Request().Context(), actorID, actorID, orgID); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UnassignBySeat handles DELETE /v1/seats/:id/assignment, the admin path
// for vacating a specific seat.
func (h *AssignmentHandler) UnassignBySeat(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orgID, err := getOrgID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	seatID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Assignments.UnassignBySeat(c.Request().Context(), actorID, seatID, orgID); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleLock handles PUT /v1/seats/:id/lock with body {"locked": bool}.
func (h *AssignmentHandler) ToggleLock(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orgID, err := getOrgID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	seatID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Locked *bool `json:"locked" validate:"required"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	seat, err := h.Assignments.ToggleLock(c.Request().Context(), actorID, seatID, orgID, *body.Locked)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, seat)
}

// MySeat handles GET /v1/me/seat.  Returns the caller's active seat with
// floor context, or {"seat": null} when unseated.
func (h *AssignmentHandler) MySeat(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	detail, err := h.Assignments.GetActiveSeatForUser(c.Request().Context(), actorID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"seat": detail})
}

// Occupant handles GET /v1/seats/:id/occupant.  Returns the active occupant
// or {"occupant": null} for a free seat.
func (h *AssignmentHandler) Occupant(c echo.Context) error {
	orgID, err := getOrgID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	seatID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	detail, err := h.Assignments.GetActiveOccupant(c.Request().Context(), seatID, orgID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"occupant": detail})
}

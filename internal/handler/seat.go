package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deskatlas/seat-allocation/internal/service"
)

// SeatHandler manages the seat inventory of floors.
type SeatHandler struct {
	Seats *service.SeatService
}

func NewSeatHandler(seats *service.SeatService) *SeatHandler {
	if seats == nil {
		panic("nil service passed to NewSeatHandler")
	}
	return &SeatHandler{Seats: seats}
}

// CreateSeat handles POST /v1/floors/:id/seats and adds a seat to the floor
// plan at the given coordinates.
func (h *SeatHandler) CreateSeat(c echo.Context) error {
	orgID, err := getOrgID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	floorID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		SeatCode string  `json:"seat_code" validate:"required,max=32"`
		X        float64 `json:"x"`
		Y        float64 `json:"y"`
		Locked   bool    `json:"locked"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	seat, err := h.Seats.CreateSeat(c.Request().Context(), floorID, orgID, body.SeatCode, body.X, body.Y, body.Locked)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, seat)
}

// ListFloorSeats handles GET /v1/floors/:id/seats, returning every seat
// with its current occupant for the floor map.
func (h *SeatHandler) ListFloorSeats(c echo.Context) error {
	orgID, err := getOrgID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	floorID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	seats, err := h.Seats.ListFloorSeats(c.Request().Context(), floorID, orgID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"seats": seats})
}

package service

import (
	"context"

	"github.com/deskatlas/seat-allocation/internal/model"
	"github.com/deskatlas/seat-allocation/internal/repository"
)

// SeatService manages the seat inventory of floors: creating seats on a
// floor plan and listing a floor's seats with live occupancy.
type SeatService struct {
	seats  *repository.SeatRepo
	floors *repository.FloorRepo
}

func NewSeatService(seats *repository.SeatRepo, floors *repository.FloorRepo) *SeatService {
	return &SeatService{seats: seats, floors: floors}
}

// CreateSeat adds a seat to a floor of the caller's organization.  The seat
// code must be unique on the floor; a duplicate surfaces as ErrConflict.
func (s *SeatService) CreateSeat(ctx context.Context, floorID, orgID uint64, seatCode string, x, y float64, locked bool) (*model.Seat, error) {
	if _, err := s.floors.GetByIDForOrg(ctx, floorID, orgID); err != nil {
		return nil, err
	}
	seat := &model.Seat{FloorID: floorID, SeatCode: seatCode, X: x, Y: y, IsLocked: locked}
	if err := s.seats.Create(ctx, seat); err != nil {
		return nil, err
	}
	return seat, nil
}

// ListFloorSeats returns every seat of a floor with its current occupant.
func (s *SeatService) ListFloorSeats(ctx context.Context, floorID, orgID uint64) ([]repository.SeatOccupancy, error) {
	if _, err := s.floors.GetByIDForOrg(ctx, floorID, orgID); err != nil {
		return nil, err
	}
	return s.seats.ListByFloorWithOccupancy(ctx, floorID)
}

package service

import (
	"context"
	"database/sql"

	"github.com/deskatlas/seat-allocation/internal/repository"
)

// AllocationResult summarizes one auto-allocation run.
type AllocationResult struct {
	AssignedCount int `json:"assignedCount"`
	TotalSeats    int `json:"totalSeats"`
	TotalUsers    int `json:"totalUsers"`
}

// AllocationService pairs unseated users with free seats in bulk.  Both
// strategies run inside a single transaction: either every pairing commits
// or none does, and the row locks taken while listing candidates keep a
// concurrent manual assignment from stealing a seat mid-run.
type AllocationService struct {
	db          *sql.DB
	seats       *repository.SeatRepo
	floors      *repository.FloorRepo
	users       *repository.UserRepo
	assignments *AssignmentService
}

func NewAllocationService(db *sql.DB, seats *repository.SeatRepo, floors *repository.FloorRepo, users *repository.UserRepo, assignments *AssignmentService) *AllocationService {
	return &AllocationService{db: db, seats: seats, floors: floors, users: users, assignments: assignments}
}

// AutoAssignSequential walks the floor's free, unlocked seats in spatial
// order (top to bottom, then left to right) and hands them out to unseated
// active users in account creation order.  The run stops when either list
// is exhausted.
func (s *AllocationService) AutoAssignSequential(ctx context.Context, actorID, floorID, orgID uint64) (*AllocationResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := s.floors.GetByIDForOrg(ctx, floorID, orgID); err != nil {
		return nil, err
	}
	seats, err := s.seats.ListFreeUnlockedByFloorTx(ctx, tx, floorID)
	if err != nil {
		return nil, err
	}
	users, err := s.users.ListUnseatedByOrgTx(ctx, tx, orgID)
	if err != nil {
		return nil, err
	}

	result := &AllocationResult{TotalSeats: len(seats), TotalUsers: len(users)}
	for i := 0; i < len(seats) && i < len(users); i++ {
		if _, _, err := s.assignments.assignSeatTx(ctx, tx, actorID, users[i].ID, seats[i].ID, orgID); err != nil {
			return nil, err
		}
		result.AssignedCount++
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return result, nil
}

// AutoAssignBulk assigns an admin-chosen set of seats to unseated users in
// membership order.  Seats that are locked, occupied or outside the
// organization are silently dropped from the candidate list rather than
// failing the run; the caller sees the shrinkage in TotalSeats.
func (s *AllocationService) AutoAssignBulk(ctx context.Context, actorID uint64, seatIDs []uint64, orgID uint64) (*AllocationResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	seats, err := s.seats.ListFreeUnlockedByIDsTx(ctx, tx, seatIDs, orgID)
	if err != nil {
		return nil, err
	}
	users, err := s.users.ListUnseatedByMembershipTx(ctx, tx, orgID)
	if err != nil {
		return nil, err
	}

	result := &AllocationResult{TotalSeats: len(seats), TotalUsers: len(users)}
	for i := 0; i < len(seats) && i < len(users); i++ {
		if _, _, err := s.assignments.assignSeatTx(ctx, tx, actorID, users[i].ID, seats[i].ID, orgID); err != nil {
			return nil, err
		}
		result.AssignedCount++
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return result, nil
}

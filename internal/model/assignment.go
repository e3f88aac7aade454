package model

import "time"

// Assignment binds a user to a seat.  At most one active row may exist per
// seat and per user; history is kept by deactivating rows (UnassignedAt set)
// rather than deleting them.
//
// Fields:
//
//	ID           – primary key identifier.
//	SeatID       – seat being occupied.
//	UserID       – occupant.
//	IsActive     – whether this is the current binding.
//	AssignedAt   – when the binding was created.
//	UnassignedAt – when the binding was terminated (nil while active).
type Assignment struct {
	ID           uint64     // seat_assignments.id
	SeatID       uint64     // seat_assignments.seat_id
	UserID       uint64     // seat_assignments.user_id
	IsActive     bool       // seat_assignments.is_active
	AssignedAt   time.Time  // seat_assignments.assigned_at
	UnassignedAt *time.Time // seat_assignments.unassigned_at (nullable)
}

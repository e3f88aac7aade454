package model

import "time"

// Seat describes a physical seat on a floor.  Seats are uniquely identified
// by their floor and seat code.  X and Y are fractional coordinates (0..1)
// relative to the floor plan.  A locked seat cannot be assigned without an
// explicit admin override.
//
// Fields:
//
//	ID        – primary key identifier.
//	FloorID   – floor to which this seat belongs.
//	SeatCode  – code unique per floor (e.g. "S-12").
//	X, Y      – fractional position on the floor plan.
//	IsLocked  – whether assignment is blocked.
//	CreatedAt – creation timestamp.
//	UpdatedAt – last update timestamp.
type Seat struct {
	ID        uint64    // seats.id
	FloorID   uint64    // seats.floor_id
	SeatCode  string    // seats.seat_code
	X         float64   // seats.x
	Y         float64   // seats.y
	IsLocked  bool      // seats.is_locked
	CreatedAt time.Time // seats.created_at
	UpdatedAt time.Time // seats.updated_at
}

// Package service implements the seat allocation engine: transactional
// assignment operations, bulk auto-allocation, audit queries and the
// export/retention pipeline.  Handlers translate the sentinel errors
// defined here into HTTP status codes.
package service

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrSeatLocked is returned when assigning to a locked seat.  Locked seats
// require an unlock (or, for moves, an explicit force override) first.
var ErrSeatLocked = errors.New("seat is locked")

// ErrSeatOccupied is returned when the target seat already has an active
// occupant.  Under concurrent assignment attempts on one seat, exactly one
// caller wins and all others receive this error.
var ErrSeatOccupied = errors.New("seat already occupied")

// ErrNoActiveAssignment is returned by reassignment when the target user
// holds no seat, so there is nothing to move.
var ErrNoActiveAssignment = errors.New("user has no active seat")

// ErrSeatNotOccupied is returned by the admin unassign-by-seat path when
// the seat has no active occupant.
var ErrSeatNotOccupied = errors.New("seat is not occupied")

// ErrForceRequired is returned when the reassignment destination is locked
// and the caller did not set force.  It is the designed escape hatch: the
// caller may retry with force after explicit confirmation.
var ErrForceRequired = errors.New("seat is locked; retry with force to override")

// ErrRetentionBusy is returned when a retention run is requested while a
// previous run is still in flight.
var ErrRetentionBusy = errors.New("retention run already in progress")

// ErrNoExport is returned when a download URL is requested before any
// export has been recorded for the organization.
var ErrNoExport = errors.New("no export available")

// ErrBucketNotConfigured is returned when an upload is required but no
// blob store bucket is configured.
var ErrBucketNotConfigured = errors.New("export bucket not configured")

// CooldownError reports that the minimum interval between two exports of
// the same type has not elapsed.  Remaining is rounded up to whole seconds
// in the message so it is directly displayable.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	secs := int(math.Ceil(e.Remaining.Seconds()))
	return fmt.Sprintf("export cooldown active; try again in %d seconds", secs)
}

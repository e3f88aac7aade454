package model

import "time"

// AuditAction enumerates the kinds of seat state transitions recorded in the
// audit log.
type AuditAction string

const (
	ActionAssign   AuditAction = "ASSIGN"
	ActionUnassign AuditAction = "UNASSIGN"
	ActionMove     AuditAction = "MOVE"
	ActionLock     AuditAction = "LOCK"
	ActionUnlock   AuditAction = "UNLOCK"
)

// AuditEntry is one immutable row of the seat audit log.  SeatCode is
// denormalized at write time so the history stays meaningful even if the
// seat is later renamed or removed.  Which optional fields are populated
// depends on the action kind; use the New*Entry constructors below instead
// of filling the struct by hand so that illegal combinations (e.g. a LOCK
// entry with a from-seat) cannot be produced.
//
// Field usage per action:
//
//	ASSIGN/UNASSIGN – UserID set; seat movement and lock fields empty.
//	MOVE            – UserID, FromSeatID, ToSeatID set; Forced marks a
//	                  locked-seat override.
//	LOCK/UNLOCK     – IsLockedBefore/IsLockedAfter set; no subject user.
type AuditEntry struct {
	ID             uint64      // seat_audit_log.id
	SeatID         uint64      // seat_audit_log.seat_id
	SeatCode       string      // seat_audit_log.seat_code
	UserID         *uint64     // seat_audit_log.user_id (nil for lock events)
	ActorID        uint64      // seat_audit_log.actor_id
	Action         AuditAction // seat_audit_log.action
	FromSeatID     *uint64     // seat_audit_log.from_seat_id (MOVE only)
	ToSeatID       *uint64     // seat_audit_log.to_seat_id (MOVE only)
	IsLockedBefore *bool       // seat_audit_log.is_locked_before (LOCK/UNLOCK only)
	IsLockedAfter  *bool       // seat_audit_log.is_locked_after (LOCK/UNLOCK only)
	Forced         bool        // seat_audit_log.forced (MOVE with locked-seat override)
	CreatedAt      time.Time   // seat_audit_log.created_at

	// ActorName is joined in by list queries for display and CSV export;
	// it is not a column of seat_audit_log.
	ActorName string
}

// NewAssignEntry records that actor assigned seat to user.
func NewAssignEntry(seatID uint64, seatCode string, userID, actorID uint64) AuditEntry {
	uid := userID
	return AuditEntry{
		SeatID:   seatID,
		SeatCode: seatCode,
		UserID:   &uid,
		ActorID:  actorID,
		Action:   ActionAssign,
	}
}

// NewUnassignEntry records that actor vacated seat for user.
func NewUnassignEntry(seatID uint64, seatCode string, userID, actorID uint64) AuditEntry {
	uid := userID
	return AuditEntry{
		SeatID:   seatID,
		SeatCode: seatCode,
		UserID:   &uid,
		ActorID:  actorID,
		Action:   ActionUnassign,
	}
}

// NewMoveEntry records that actor moved user from one seat to another.  The
// entry is written against the destination seat.  forced marks that a locked
// destination was overridden.
func NewMoveEntry(toSeatID uint64, toSeatCode string, userID, actorID, fromSeatID uint64, forced bool) AuditEntry {
	uid := userID
	from := fromSeatID
	to := toSeatID
	return AuditEntry{
		SeatID:     toSeatID,
		SeatCode:   toSeatCode,
		UserID:     &uid,
		ActorID:    actorID,
		Action:     ActionMove,
		FromSeatID: &from,
		ToSeatID:   &to,
		Forced:     forced,
	}
}

// NewLockEntry records a lock flag transition on a seat.  There is no
// subject user; the seat itself is the subject.
func NewLockEntry(seatID uint64, seatCode string, actorID uint64, before, after bool) AuditEntry {
	action := ActionLock
	if !after {
		action = ActionUnlock
	}
	b, a := before, after
	return AuditEntry{
		SeatID:         seatID,
		SeatCode:       seatCode,
		ActorID:        actorID,
		Action:         action,
		IsLockedBefore: &b,
		IsLockedAfter:  &a,
	}
}

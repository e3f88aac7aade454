// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// SeatEvent is published whenever an assignment-changing operation commits.
// It contains enough information for downstream consumers to log, notify,
// or feed workplace analytics without querying the primary database.
// Action mirrors the audit action that was recorded (ASSIGN, UNASSIGN,
// MOVE, LOCK, UNLOCK).
type SeatEvent struct {
	Action         string  `json:"action"`
	SeatID         uint64  `json:"seat_id"`
	SeatCode       string  `json:"seat_code"`
	UserID         *uint64 `json:"user_id,omitempty"`
	ActorID        uint64  `json:"actor_id"`
	OrganizationID uint64  `json:"organization_id"`
	FromSeatID     *uint64 `json:"from_seat_id,omitempty"`
	OccurredAt     string  `json:"occurred_at"`
}

package service

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/deskatlas/seat-allocation/internal/model"
	"github.com/deskatlas/seat-allocation/internal/queue"
	"github.com/deskatlas/seat-allocation/internal/repository"
)

// PublishFunc delivers a seat event to the message broker.  Publishing is
// best effort and happens strictly after commit; a nil function disables it.
type PublishFunc func(ctx context.Context, event queue.SeatEvent) error

// AssignmentService enforces the two occupancy invariants (at most one
// active seat per user, at most one active occupant per seat) across
// all assignment-changing operations.  Every operation runs inside a single
// transaction covering its reads, writes and the audit append, with row
// locks (SELECT ... FOR UPDATE) taken on the seat and on any matching
// active assignment before the occupancy decision, so two concurrent calls
// targeting the same seat serialize and exactly one of them succeeds.
//
// Within a transaction the order is fixed: existence and occupancy checks
// first, then deactivate-old, then create-new.  No reader outside the
// transaction can ever observe two active assignments for one user or seat.
type AssignmentService struct {
	db          *sql.DB
	seats       *repository.SeatRepo
	assignments *repository.AssignmentRepo
	audit       *repository.AuditLogRepo
	publish     PublishFunc
}

// NewAssignmentService constructs the engine.  publish may be nil.
func NewAssignmentService(db *sql.DB, seats *repository.SeatRepo, assignments *repository.AssignmentRepo, audit *repository.AuditLogRepo, publish PublishFunc) *AssignmentService {
	if db == nil || seats == nil || assignments == nil || audit == nil {
		panic("nil dependency passed to NewAssignmentService")
	}
	return &AssignmentService{db: db, seats: seats, assignments: assignments, audit: audit, publish: publish}
}

// emit publishes a seat event after a successful commit.  Failures are
// logged and swallowed: the state change is already durable.
func (s *AssignmentService) emit(ctx context.Context, orgID uint64, e model.AuditEntry) {
	if s.publish == nil {
		return
	}
	ev := queue.SeatEvent{
		Action:         string(e.Action),
		SeatID:         e.SeatID,
		SeatCode:       e.SeatCode,
		UserID:         e.UserID,
		ActorID:        e.ActorID,
		OrganizationID: orgID,
		FromSeatID:     e.FromSeatID,
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.publish(ctx, ev); err != nil {
		log.Printf("assignment: publish %s event for seat %d failed: %v", ev.Action, ev.SeatID, err)
	}
}

// assignSeatTx performs one assignment inside an existing transaction.  It
// is shared between AssignSeat and the auto-allocation loops so that every
// pairing goes through exactly the same invariant checks.  The returned
// audit entry has already been appended within the transaction.
func (s *AssignmentService) assignSeatTx(ctx context.Context, tx *sql.Tx, actorID, userID, seatID, orgID uint64) (*model.Assignment, model.AuditEntry, error) {
	seat, err := s.seats.GetByIDForOrgForUpdateTx(ctx, tx, seatID, orgID)
	if err != nil {
		return nil, model.AuditEntry{}, err
	}
	if seat.IsLocked {
		return nil, model.AuditEntry{}, ErrSeatLocked
	}
	occupied, err := s.assignments.GetActiveBySeatTx(ctx, tx, seatID)
	if err != nil {
		return nil, model.AuditEntry{}, err
	}
	if occupied != nil {
		return nil, model.AuditEntry{}, ErrSeatOccupied
	}

	now := time.Now().UTC()

	// A user holds at most one seat: assigning implicitly vacates the old
	// one.  Deactivate before creating so no two active rows coexist.
	prior, err := s.assignments.GetActiveByUserTx(ctx, tx, userID)
	if err != nil {
		return nil, model.AuditEntry{}, err
	}
	if prior != nil {
		if err := s.assignments.DeactivateTx(ctx, tx, prior.ID, now); err != nil {
			return nil, model.AuditEntry{}, err
		}
	}

	assignment := &model.Assignment{SeatID: seatID, UserID: userID, AssignedAt: now}
	if err := s.assignments.CreateTx(ctx, tx, assignment); err != nil {
		return nil, model.AuditEntry{}, err
	}

	entry := model.NewAssignEntry(seat.ID, seat.SeatCode, userID, actorID)
	if err := s.audit.AppendTx(ctx, tx, &entry); err != nil {
		return nil, model.AuditEntry{}, err
	}
	return assignment, entry, nil
}

// AssignSeat gives the target user the seat.  It fails when the seat does
// not exist in the organization, is locked, or already has an occupant.
// If the user already holds a different seat, that prior assignment is
// deactivated in the same transaction.
func (s *AssignmentService) AssignSeat(ctx context.Context, actorID, userID, seatID, orgID uint64) (*model.Assignment, error) {
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

	assignment, entry, err := s.assignSeatTx(ctx, tx, actorID, userID, seatID, orgID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	s.emit(ctx, orgID, entry)
	return assignment, nil
}

// ReassignSeat moves the target user from their current seat to the
// destination.  A locked destination is refused unless force is set; the
// override is recorded on the MOVE audit entry.  Both the deactivation of
// the source assignment and the creation of the destination assignment
// happen in one transaction, audited as a single MOVE.
func (s *AssignmentService) ReassignSeat(ctx context.Context, actorID, userID, destSeatID, orgID uint64, force bool) (*model.Assignment, error) {
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

	active, err := s.assignments.GetActiveByUserTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, ErrNoActiveAssignment
	}

	dest, err := s.seats.GetByIDForOrgForUpdateTx(ctx, tx, destSeatID, orgID)
	if err != nil {
		return nil, err
	}
	if dest.IsLocked && !force {
		return nil, ErrForceRequired
	}
	occupied, err := s.assignments.GetActiveBySeatTx(ctx, tx, destSeatID)
	if err != nil {
		return nil, err
	}
	if occupied != nil {
		return nil, ErrSeatOccupied
	}

	now := time.Now().UTC()
	if err := s.assignments.DeactivateTx(ctx, tx, active.ID, now); err != nil {
		return nil, err
	}
	assignment := &model.Assignment{SeatID: destSeatID, UserID: userID, AssignedAt: now}
	if err := s.assignments.CreateTx(ctx, tx, assignment); err != nil {
		return nil, err
	}

	forced := dest.IsLocked && force
	entry := model.NewMoveEntry(dest.ID, dest.SeatCode, userID, actorID, active.SeatID, forced)
	if err := s.audit.AppendTx(ctx, tx, &entry); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	s.emit(ctx, orgID, entry)
	return assignment, nil
}

// UnassignSelf vacates the user's own seat.  It is idempotent: when the
// user holds no seat it returns success without touching the database or
// the audit log.
func (s *AssignmentService) UnassignSelf(ctx context.Context, actorID, userID, orgID uint64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	active, err := s.assignments.GetActiveByUserTx(ctx, tx, userID)
	if err != nil {
		return err
	}
	if active == nil {
		// Nothing to do; commit the empty transaction.
		if err := tx.Commit(); err != nil {
			return err
		}
		committed = true
		return nil
	}

	seat, err := s.seats.GetByIDForUpdateTx(ctx, tx, active.SeatID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if err := s.assignments.DeactivateTx(ctx, tx, active.ID, now); err != nil {
		return err
	}
	entry := model.NewUnassignEntry(seat.ID, seat.SeatCode, userID, actorID)
	if err := s.audit.AppendTx(ctx, tx, &entry); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	s.emit(ctx, orgID, entry)
	return nil
}

// UnassignBySeat is the admin path: it vacates whoever occupies the seat.
// Unlike UnassignSelf it is an error to call it on a free seat, since the
// admin explicitly targeted an occupant that is not there.
func (s *AssignmentService) UnassignBySeat(ctx context.Context, actorID, seatID, orgID uint64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	seat, err := s.seats.GetByIDForOrgForUpdateTx(ctx, tx, seatID, orgID)
	if err != nil {
		return err
	}
	active, err := s.assignments.GetActiveBySeatTx(ctx, tx, seatID)
	if err != nil {
		return err
	}
	if active == nil {
		return ErrSeatNotOccupied
	}

	now := time.Now().UTC()
	if err := s.assignments.DeactivateTx(ctx, tx, active.ID, now); err != nil {
		return err
	}
	entry := model.NewUnassignEntry(seat.ID, seat.SeatCode, active.UserID, actorID)
	if err := s.audit.AppendTx(ctx, tx, &entry); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	s.emit(ctx, orgID, entry)
	return nil
}

// ToggleLock sets the seat's lock flag.  Requesting the current state is a
// no-op that returns the seat unchanged and appends no audit entry;
// otherwise the transition is recorded as LOCK or UNLOCK with before/after
// flags.
func (s *AssignmentService) ToggleLock(ctx context.Context, actorID, seatID, orgID uint64, locked bool) (*model.Seat, error) {
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

	seat, err := s.seats.GetByIDForOrgForUpdateTx(ctx, tx, seatID, orgID)
	if err != nil {
		return nil, err
	}
	if seat.IsLocked == locked {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		committed = true
		return seat, nil
	}

	if err := s.seats.UpdateLockTx(ctx, tx, seatID, locked); err != nil {
		return nil, err
	}
	entry := model.NewLockEntry(seat.ID, seat.SeatCode, actorID, seat.IsLocked, locked)
	if err := s.audit.AppendTx(ctx, tx, &entry); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	seat.IsLocked = locked
	s.emit(ctx, orgID, entry)
	return seat, nil
}

// GetActiveSeatForUser returns the user's current seat with floor context,
// or nil when the user holds no seat.
func (s *AssignmentService) GetActiveSeatForUser(ctx context.Context, userID uint64) (*repository.ActiveSeatDetail, error) {
	return s.assignments.GetActiveByUser(ctx, userID)
}

// GetActiveOccupant returns who currently occupies the seat, or nil when it
// is free.  The seat must belong to the caller's organization.
func (s *AssignmentService) GetActiveOccupant(ctx context.Context, seatID, orgID uint64) (*repository.OccupantDetail, error) {
	if _, err := s.seats.GetByIDForOrg(ctx, seatID, orgID); err != nil {
		return nil, err
	}
	return s.assignments.GetActiveBySeat(ctx, seatID)
}

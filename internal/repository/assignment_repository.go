package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/deskatlas/seat-allocation/internal/model"
)

// AssignmentRepo provides data access to the seat_assignments table.
// Assignments are append-mostly: rows flip to inactive on unassign or move
// and are never deleted.  All mutating methods operate inside a caller
// supplied transaction so the assignment engine can keep its invariant
// checks and writes atomic.
type AssignmentRepo struct {
	db *sql.DB
}

// NewAssignmentRepo returns a new AssignmentRepo bound to the given database.
func NewAssignmentRepo(db *sql.DB) *AssignmentRepo { return &AssignmentRepo{db: db} }

// DB exposes the underlying handle so services can open transactions.
func (r *AssignmentRepo) DB() *sql.DB { return r.db }

const assignmentColumns = `id, seat_id, user_id, is_active, assigned_at, unassigned_at`

func scanAssignment(row interface{ Scan(...any) error }, a *model.Assignment) error {
	var unassigned sql.NullTime
	if err := row.Scan(&a.ID, &a.SeatID, &a.UserID, &a.IsActive, &a.AssignedAt, &unassigned); err != nil {
		return err
	}
	if unassigned.Valid {
		t := unassigned.Time
		a.UnassignedAt = &t
	}
	return nil
}

// GetActiveBySeatTx returns the active assignment for a seat, locking the
// row for the remainder of the transaction.  Returns (nil, nil) when the
// seat is free.
func (r *AssignmentRepo) GetActiveBySeatTx(ctx context.Context, tx *sql.Tx, seatID uint64) (*model.Assignment, error) {
	const q = `SELECT ` + assignmentColumns + ` FROM seat_assignments
	           WHERE seat_id = ? AND is_active = 1 FOR UPDATE`
	var a model.Assignment
	if err := scanAssignment(tx.QueryRowContext(ctx, q, seatID), &a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// GetActiveByUserTx returns the active assignment of a user, locking the
// row for the remainder of the transaction.  Returns (nil, nil) when the
// user holds no seat.
func (r *AssignmentRepo) GetActiveByUserTx(ctx context.Context, tx *sql.Tx, userID uint64) (*model.Assignment, error) {
	const q = `SELECT ` + assignmentColumns + ` FROM seat_assignments
	           WHERE user_id = ? AND is_active = 1 FOR UPDATE`
	var a model.Assignment
	if err := scanAssignment(tx.QueryRowContext(ctx, q, userID), &a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// CreateTx inserts a new active assignment within the transaction and
// populates the generated ID on the provided record.
func (r *AssignmentRepo) CreateTx(ctx context.Context, tx *sql.Tx, a *model.Assignment) error {
	const q = `INSERT INTO seat_assignments (seat_id, user_id, is_active, assigned_at)
	           VALUES (?, ?, 1, ?)`
	res, err := tx.ExecContext(ctx, q, a.SeatID, a.UserID, a.AssignedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	a.IsActive = true
	return nil
}

// DeactivateTx terminates an assignment by id, stamping unassigned_at.
// Deactivation of the old row always precedes creation of a new one so that
// no reader inside the transaction can observe two active rows.
func (r *AssignmentRepo) DeactivateTx(ctx context.Context, tx *sql.Tx, id uint64, at time.Time) error {
	const q = `UPDATE seat_assignments SET is_active = 0, unassigned_at = ?
	           WHERE id = ? AND is_active = 1`
	res, err := tx.ExecContext(ctx, q, at, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ActiveSeatDetail is the read model for "where does this user sit".  It
// carries the seat and enough floor context to render a floor map marker.
type ActiveSeatDetail struct {
	AssignmentID uint64    `json:"assignment_id"`
	AssignedAt   time.Time `json:"assigned_at"`
	SeatID       uint64    `json:"seat_id"`
	SeatCode     string    `json:"seat_code"`
	X            float64   `json:"x"`
	Y            float64   `json:"y"`
	FloorID      uint64    `json:"floor_id"`
	FloorName    string    `json:"floor_name"`
}

// GetActiveByUser returns the active seat of a user with floor context, or
// (nil, nil) when the user holds no seat.
func (r *AssignmentRepo) GetActiveByUser(ctx context.Context, userID uint64) (*ActiveSeatDetail, error) {
	const q = `SELECT a.id, a.assigned_at, s.id, s.seat_code, s.x, s.y, f.id, f.name
	           FROM seat_assignments a
	           JOIN seats s ON s.id = a.seat_id
	           JOIN floors f ON f.id = s.floor_id
	           WHERE a.user_id = ? AND a.is_active = 1`
	var d ActiveSeatDetail
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&d.AssignmentID, &d.AssignedAt, &d.SeatID, &d.SeatCode, &d.X, &d.Y, &d.FloorID, &d.FloorName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// OccupantDetail is the read model for "who sits on this seat".
type OccupantDetail struct {
	AssignmentID uint64    `json:"assignment_id"`
	AssignedAt   time.Time `json:"assigned_at"`
	UserID       uint64    `json:"user_id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
}

// GetActiveBySeat returns the active occupant of a seat with user identity,
// or (nil, nil) when the seat is free.
func (r *AssignmentRepo) GetActiveBySeat(ctx context.Context, seatID uint64) (*OccupantDetail, error) {
	const q = `SELECT a.id, a.assigned_at, u.id, u.email, u.full_name
	           FROM seat_assignments a
	           JOIN users u ON u.id = a.user_id
	           WHERE a.seat_id = ? AND a.is_active = 1`
	var d OccupantDetail
	err := r.db.QueryRowContext(ctx, q, seatID).Scan(
		&d.AssignmentID, &d.AssignedAt, &d.UserID, &d.Email, &d.FullName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

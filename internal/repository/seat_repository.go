package repository // repository defines data access for seats

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel comparisons
	"strings"      // strings builds IN (...) placeholder lists
	"time"

	"github.com/deskatlas/seat-allocation/internal/model"
)

const seatColumns = `id, floor_id, seat_code, x, y, is_locked, created_at, updated_at`

// SeatRepo provides methods to work with seats in the database.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// DB exposes the underlying handle so services can open transactions.
func (r *SeatRepo) DB() *sql.DB { return r.db }

func scanSeat(row interface{ Scan(...any) error }, s *model.Seat) error {
	return row.Scan(&s.ID, &s.FloorID, &s.SeatCode, &s.X, &s.Y, &s.IsLocked, &s.CreatedAt, &s.UpdatedAt)
}

// Create inserts a single seat record.  On success the seat's ID is
// populated.  Seat codes must be unique per floor; a duplicate surfaces as
// ErrConflict via the unique key.
func (r *SeatRepo) Create(ctx context.Context, s *model.Seat) error {
	const q = `INSERT INTO seats (floor_id, seat_code, x, y, is_locked)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.FloorID, s.SeatCode, s.X, s.Y, s.IsLocked)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID retrieves a seat by its id (no tenancy check).
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats WHERE id = ?`
	var s model.Seat
	if err := scanSeat(r.db.QueryRowContext(ctx, q, id), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetByIDForOrg retrieves a seat while enforcing that it belongs to the
// given organization via the floor -> building chain.
func (r *SeatRepo) GetByIDForOrg(ctx context.Context, id, orgID uint64) (*model.Seat, error) {
	const q = `SELECT s.id, s.floor_id, s.seat_code, s.x, s.y, s.is_locked, s.created_at, s.updated_at
	           FROM seats s
	           JOIN floors f ON f.id = s.floor_id
	           JOIN buildings b ON b.id = f.building_id
	           WHERE s.id = ? AND b.organization_id = ?`
	var s model.Seat
	if err := scanSeat(r.db.QueryRowContext(ctx, q, id, orgID), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetByIDForUpdateTx retrieves a seat by id inside a transaction, taking a
// row lock so concurrent assignment attempts on the same seat serialize.
func (r *SeatRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats WHERE id = ? FOR UPDATE`
	var s model.Seat
	if err := scanSeat(tx.QueryRowContext(ctx, q, id), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetByIDForOrgForUpdateTx combines the tenancy check with the row lock:
// the seat must belong to the organization, and its row stays locked for the
// remainder of the transaction.  This is the lookup every mutating engine
// operation starts from.
func (r *SeatRepo) GetByIDForOrgForUpdateTx(ctx context.Context, tx *sql.Tx, id, orgID uint64) (*model.Seat, error) {
	const q = `SELECT s.id, s.floor_id, s.seat_code, s.x, s.y, s.is_locked, s.created_at, s.updated_at
	           FROM seats s
	           JOIN floors f ON f.id = s.floor_id
	           JOIN buildings b ON b.id = f.building_id
	           WHERE s.id = ? AND b.organization_id = ?
	           FOR UPDATE`
	var s model.Seat
	if err := scanSeat(tx.QueryRowContext(ctx, q, id, orgID), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// UpdateLockTx sets the is_locked flag within the provided transaction.
func (r *SeatRepo) UpdateLockTx(ctx context.Context, tx *sql.Tx, id uint64, locked bool) error {
	const q = `UPDATE seats SET is_locked = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, locked, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSeatNotFound
	}
	return nil
}

// ListByFloor retrieves all seats of a floor ordered by seat code.
func (r *SeatRepo) ListByFloor(ctx context.Context, floorID uint64) ([]model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats WHERE floor_id = ? ORDER BY seat_code`
	rows, err := r.db.QueryContext(ctx, q, floorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSeats(rows)
}

// ListFreeUnlockedByFloorTx returns the unlocked seats of a floor that have
// no active assignment, in floor plan reading order (y ascending, then x
// ascending).  Rows are locked for the remainder of the transaction so the
// allocation loop cannot race with single assignments.
func (r *SeatRepo) ListFreeUnlockedByFloorTx(ctx context.Context, tx *sql.Tx, floorID uint64) ([]model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats s
	           WHERE s.floor_id = ? AND s.is_locked = 0
	             AND NOT EXISTS (
	               SELECT 1 FROM seat_assignments a WHERE a.seat_id = s.id AND a.is_active = 1
	             )
	           ORDER BY s.y ASC, s.x ASC
	           FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, floorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSeats(rows)
}

// ListFreeUnlockedByIDsTx filters an explicit candidate set down to seats of
// the organization that are unlocked and currently free, ordered by seat
// code.  Used by the bulk auto-allocation path.  Passing an empty slice
// returns an empty slice.
func (r *SeatRepo) ListFreeUnlockedByIDsTx(ctx context.Context, tx *sql.Tx, ids []uint64, orgID uint64) ([]model.Seat, error) {
	if len(ids) == 0 {
		return []model.Seat{}, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, len(ids)+1)
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}
	args = append(args, orgID)
	query := `SELECT s.id, s.floor_id, s.seat_code, s.x, s.y, s.is_locked, s.created_at, s.updated_at
	          FROM seats s
	          JOIN floors f ON f.id = s.floor_id
	          JOIN buildings b ON b.id = f.building_id
	          WHERE s.id IN (` + strings.Join(placeholders, ",") + `)
	            AND b.organization_id = ? AND s.is_locked = 0
	            AND NOT EXISTS (
	              SELECT 1 FROM seat_assignments a WHERE a.seat_id = s.id AND a.is_active = 1
	            )
	          ORDER BY s.seat_code ASC
	          FOR UPDATE`
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSeats(rows)
}

// SeatOccupancy pairs a seat with its current occupant, if any.
type SeatOccupancy struct {
	Seat       model.Seat `json:"seat"`
	UserID     *uint64    `json:"userId,omitempty"`
	FullName   *string    `json:"fullName,omitempty"`
	Email      *string    `json:"email,omitempty"`
	AssignedAt *time.Time `json:"assignedAt,omitempty"`
}

// ListByFloorWithOccupancy returns every seat of a floor together with the
// active occupant's identity where one exists, ordered by seat code.  One
// query serves the whole floor map.
func (r *SeatRepo) ListByFloorWithOccupancy(ctx context.Context, floorID uint64) ([]SeatOccupancy, error) {
	const q = `SELECT s.id, s.floor_id, s.seat_code, s.x, s.y, s.is_locked, s.created_at, s.updated_at,
	                  u.id, u.full_name, u.email, a.assigned_at
	           FROM seats s
	           LEFT JOIN seat_assignments a ON a.seat_id = s.id AND a.is_active = 1
	           LEFT JOIN users u ON u.id = a.user_id
	           WHERE s.floor_id = ?
	           ORDER BY s.seat_code ASC`
	rows, err := r.db.QueryContext(ctx, q, floorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]SeatOccupancy, 0)
	for rows.Next() {
		var (
			o          SeatOccupancy
			userID     sql.NullInt64
			fullName   sql.NullString
			email      sql.NullString
			assignedAt sql.NullTime
		)
		if err := rows.Scan(
			&o.Seat.ID, &o.Seat.FloorID, &o.Seat.SeatCode, &o.Seat.X, &o.Seat.Y,
			&o.Seat.IsLocked, &o.Seat.CreatedAt, &o.Seat.UpdatedAt,
			&userID, &fullName, &email, &assignedAt,
		); err != nil {
			return nil, err
		}
		if userID.Valid {
			v := uint64(userID.Int64)
			o.UserID = &v
		}
		if fullName.Valid {
			v := fullName.String
			o.FullName = &v
		}
		if email.Valid {
			v := email.String
			o.Email = &v
		}
		if assignedAt.Valid {
			v := assignedAt.Time.UTC()
			o.AssignedAt = &v
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func collectSeats(rows *sql.Rows) ([]model.Seat, error) {
	result := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := scanSeat(rows, &s); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

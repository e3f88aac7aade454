package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/deskatlas/seat-allocation/internal/model"
)

// AuditLogRepo provides data access to the append-only seat_audit_log table.
// AppendTx is a pure insert with no invariant checks beyond schema validity;
// the assignment engine calling it is the sole guardian of correctness.
// Rows are immutable once written.  Only DeleteOlderThan removes them, and
// the retention pipeline calls it strictly after a successful export.
type AuditLogRepo struct {
	db *sql.DB
}

// NewAuditLogRepo returns a new AuditLogRepo bound to the given database.
func NewAuditLogRepo(db *sql.DB) *AuditLogRepo { return &AuditLogRepo{db: db} }

// AppendTx inserts an audit entry within the transaction of the state change
// that produced it, so neither can be observed without the other.
func (r *AuditLogRepo) AppendTx(ctx context.Context, tx *sql.Tx, e *model.AuditEntry) error {
	const q = `INSERT INTO seat_audit_log
	           (seat_id, seat_code, user_id, actor_id, action, from_seat_id, to_seat_id,
	            is_locked_before, is_locked_after, forced)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		e.SeatID, e.SeatCode, e.UserID, e.ActorID, string(e.Action),
		e.FromSeatID, e.ToSeatID, e.IsLockedBefore, e.IsLockedAfter, e.Forced,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

const auditSelect = `SELECT l.id, l.seat_id, l.seat_code, l.user_id, l.actor_id, l.action,
	       l.from_seat_id, l.to_seat_id, l.is_locked_before, l.is_locked_after,
	       l.forced, l.created_at, u.full_name
	FROM seat_audit_log l
	JOIN users u ON u.id = l.actor_id`

func scanAuditEntry(rows *sql.Rows, e *model.AuditEntry) error {
	var (
		userID         sql.NullInt64
		fromSeat       sql.NullInt64
		toSeat         sql.NullInt64
		lockedBefore   sql.NullBool
		lockedAfter    sql.NullBool
		action         string
	)
	if err := rows.Scan(
		&e.ID, &e.SeatID, &e.SeatCode, &userID, &e.ActorID, &action,
		&fromSeat, &toSeat, &lockedBefore, &lockedAfter,
		&e.Forced, &e.CreatedAt, &e.ActorName,
	); err != nil {
		return err
	}
	e.Action = model.AuditAction(action)
	if userID.Valid {
		v := uint64(userID.Int64)
		e.UserID = &v
	}
	if fromSeat.Valid {
		v := uint64(fromSeat.Int64)
		e.FromSeatID = &v
	}
	if toSeat.Valid {
		v := uint64(toSeat.Int64)
		e.ToSeatID = &v
	}
	if lockedBefore.Valid {
		v := lockedBefore.Bool
		e.IsLockedBefore = &v
	}
	if lockedAfter.Valid {
		v := lockedAfter.Bool
		e.IsLockedAfter = &v
	}
	return nil
}

func collectAuditEntries(rows *sql.Rows) ([]model.AuditEntry, error) {
	result := make([]model.AuditEntry, 0)
	for rows.Next() {
		var e model.AuditEntry
		if err := scanAuditEntry(rows, &e); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListBySeat returns all audit entries for a seat, newest first, scoped to
// the organization via the seat -> floor -> building chain.
func (r *AuditLogRepo) ListBySeat(ctx context.Context, seatID, orgID uint64) ([]model.AuditEntry, error) {
	const q = auditSelect + `
	JOIN seats s ON s.id = l.seat_id
	JOIN floors f ON f.id = s.floor_id
	JOIN buildings b ON b.id = f.building_id
	WHERE l.seat_id = ? AND b.organization_id = ?
	ORDER BY l.created_at DESC, l.id DESC`
	rows, err := r.db.QueryContext(ctx, q, seatID, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAuditEntries(rows)
}

// timeFilter appends optional created_at bounds to a WHERE clause.
func timeFilter(query string, args []interface{}, from, to *time.Time) (string, []interface{}) {
	if from != nil {
		query += ` AND l.created_at >= ?`
		args = append(args, from.UTC())
	}
	if to != nil {
		query += ` AND l.created_at <= ?`
		args = append(args, to.UTC())
	}
	return query, args
}

// ListByFloor returns one page of audit entries for a floor, newest first,
// optionally bounded in time, along with the total row count for the filter.
func (r *AuditLogRepo) ListByFloor(ctx context.Context, floorID, orgID uint64, limit, offset int, from, to *time.Time) ([]model.AuditEntry, int, error) {
	base := ` FROM seat_audit_log l
	JOIN seats s ON s.id = l.seat_id
	JOIN floors f ON f.id = s.floor_id
	JOIN buildings b ON b.id = f.building_id
	WHERE s.floor_id = ? AND b.organization_id = ?`
	args := []interface{}{floorID, orgID}
	base, args = timeFilter(base, args, from, to)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+base, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// The page query repeats the joins instead of reusing `base` because it
	// additionally needs the actor's name from users.
	listQ := `SELECT l.id, l.seat_id, l.seat_code, l.user_id, l.actor_id, l.action,
	       l.from_seat_id, l.to_seat_id, l.is_locked_before, l.is_locked_after,
	       l.forced, l.created_at, u.full_name
	FROM seat_audit_log l
	JOIN users u ON u.id = l.actor_id
	JOIN seats s ON s.id = l.seat_id
	JOIN floors f ON f.id = s.floor_id
	JOIN buildings b ON b.id = f.building_id
	WHERE s.floor_id = ? AND b.organization_id = ?`
	listArgs := []interface{}{floorID, orgID}
	listQ, listArgs = timeFilter(listQ, listArgs, from, to)
	listQ += ` ORDER BY l.created_at DESC, l.id DESC LIMIT ? OFFSET ?`
	listArgs = append(listArgs, limit, offset)

	rows, err := r.db.QueryContext(ctx, listQ, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	entries, err := collectAuditEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ListByFloorAll returns every audit entry for a floor matching the optional
// time bounds, oldest first.  Exports use this instead of the paginated
// variant so the CSV covers the whole filter window.
func (r *AuditLogRepo) ListByFloorAll(ctx context.Context, floorID, orgID uint64, from, to *time.Time) ([]model.AuditEntry, error) {
	q := auditSelect + `
	JOIN seats s ON s.id = l.seat_id
	JOIN floors f ON f.id = s.floor_id
	JOIN buildings b ON b.id = f.building_id
	WHERE s.floor_id = ? AND b.organization_id = ?`
	args := []interface{}{floorID, orgID}
	q, args = timeFilter(q, args, from, to)
	q += ` ORDER BY l.created_at ASC, l.id ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAuditEntries(rows)
}

// ListByOrg returns all audit entries of an organization, optionally time
// bounded.  Ordering is ascending by creation so exports read naturally.
func (r *AuditLogRepo) ListByOrg(ctx context.Context, orgID uint64, from, to *time.Time) ([]model.AuditEntry, error) {
	q := auditSelect + `
	JOIN seats s ON s.id = l.seat_id
	JOIN floors f ON f.id = s.floor_id
	JOIN buildings b ON b.id = f.building_id
	WHERE b.organization_id = ?`
	args := []interface{}{orgID}
	q, args = timeFilter(q, args, from, to)
	q += ` ORDER BY l.created_at ASC, l.id ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAuditEntries(rows)
}

// ListOlderThan returns every audit entry created before the cutoff, oldest
// first, across all organizations.  Used by the retention pipeline.
func (r *AuditLogRepo) ListOlderThan(ctx context.Context, cutoff time.Time) ([]model.AuditEntry, error) {
	const q = auditSelect + `
	WHERE l.created_at < ?
	ORDER BY l.created_at ASC, l.id ASC`
	rows, err := r.db.QueryContext(ctx, q, cutoff.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAuditEntries(rows)
}

// DeleteOlderThan purges audit entries created before the cutoff and returns
// the number of rows removed.  Callers must only invoke this after the same
// row set has been durably exported.
func (r *AuditLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `DELETE FROM seat_audit_log WHERE created_at < ?`
	res, err := r.db.ExecContext(ctx, q, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

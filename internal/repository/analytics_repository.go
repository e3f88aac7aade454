package repository

import (
	"context"
	"database/sql"
)

// FloorUsage is one row of the per-floor utilization report.
type FloorUsage struct {
	FloorID       uint64 `json:"floor_id"`
	FloorName     string `json:"floor_name"`
	TotalSeats    int    `json:"total_seats"`
	OccupiedSeats int    `json:"occupied_seats"`
}

// AnalyticsRepo answers aggregate questions about seats and active
// assignments.  All queries are tenancy-scoped through the
// seat -> floor -> building -> organization chain.
type AnalyticsRepo struct {
	db *sql.DB
}

// NewAnalyticsRepo returns a new AnalyticsRepo bound to the given database.
func NewAnalyticsRepo(db *sql.DB) *AnalyticsRepo { return &AnalyticsRepo{db: db} }

// CountSeatsByOrg counts every seat of the organization, locked or not.
func (r *AnalyticsRepo) CountSeatsByOrg(ctx context.Context, orgID uint64) (int, error) {
	const q = `SELECT COUNT(*)
	           FROM seats s
	           JOIN floors f ON f.id = s.floor_id
	           JOIN buildings b ON b.id = f.building_id
	           WHERE b.organization_id = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, orgID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CountOccupiedSeatsByOrg counts seats of the organization holding an
// active assignment.  At most one active assignment exists per seat, so
// counting assignments counts seats.
func (r *AnalyticsRepo) CountOccupiedSeatsByOrg(ctx context.Context, orgID uint64) (int, error) {
	const q = `SELECT COUNT(*)
	           FROM seat_assignments a
	           JOIN seats s ON s.id = a.seat_id
	           JOIN floors f ON f.id = s.floor_id
	           JOIN buildings b ON b.id = f.building_id
	           WHERE a.is_active = 1 AND b.organization_id = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, orgID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ListFloorUsage returns seat and occupancy totals for every floor of the
// organization, including floors with no seats yet.
func (r *AnalyticsRepo) ListFloorUsage(ctx context.Context, orgID uint64) ([]FloorUsage, error) {
	const q = `SELECT f.id, f.name,
	                  COUNT(s.id) AS total_seats,
	                  COUNT(a.id) AS occupied_seats
	           FROM floors f
	           JOIN buildings b ON b.id = f.building_id
	           LEFT JOIN seats s ON s.floor_id = f.id
	           LEFT JOIN seat_assignments a ON a.seat_id = s.id AND a.is_active = 1
	           WHERE b.organization_id = ?
	           GROUP BY f.id, f.name
	           ORDER BY f.id ASC`
	rows, err := r.db.QueryContext(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FloorUsage
	for rows.Next() {
		var u FloorUsage
		if err := rows.Scan(&u.FloorID, &u.FloorName, &u.TotalSeats, &u.OccupiedSeats); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

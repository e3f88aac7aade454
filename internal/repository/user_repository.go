package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/deskatlas/seat-allocation/internal/model"
)

// ErrUserNotFound is returned when a user lookup yields no rows.
var ErrUserNotFound = errors.New("user not found")

// UserRepo provides read access to users and organization memberships.
// Account management lives upstream; the allocation engine only needs to
// enumerate candidates and resolve identities.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// GetByID retrieves a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	const q = `SELECT id, email, full_name, password_hash, is_active, created_at
	           FROM users WHERE id = ?`
	var u model.User
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// IsMemberWithRole reports whether the user belongs to the organization,
// and if so with which role.
func (r *UserRepo) IsMemberWithRole(ctx context.Context, userID, orgID uint64) (string, bool, error) {
	const q = `SELECT role FROM organization_members
	           WHERE user_id = ? AND organization_id = ?`
	var role string
	err := r.db.QueryRowContext(ctx, q, userID, orgID).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return role, true, nil
}

const unseatedFilter = ` AND u.is_active = 1
	             AND NOT EXISTS (
	               SELECT 1 FROM seat_assignments a WHERE a.user_id = u.id AND a.is_active = 1
	             )`

// ListUnseatedByOrgTx returns active members of an organization that hold no
// active seat anywhere, ordered by account creation time ascending
// (earliest-registered first).  Used by sequential auto-allocation.
func (r *UserRepo) ListUnseatedByOrgTx(ctx context.Context, tx *sql.Tx, orgID uint64) ([]model.User, error) {
	const q = `SELECT u.id, u.email, u.full_name, u.password_hash, u.is_active, u.created_at
	           FROM users u
	           JOIN organization_members m ON m.user_id = u.id
	           WHERE m.organization_id = ?` + unseatedFilter + `
	           ORDER BY u.created_at ASC, u.id ASC`
	rows, err := tx.QueryContext(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// ListUnseatedByMembershipTx is like ListUnseatedByOrgTx but orders by
// membership creation time ascending.  Used by bulk auto-allocation, whose
// candidate order follows when a member joined the organization rather than
// when the account was registered.
func (r *UserRepo) ListUnseatedByMembershipTx(ctx context.Context, tx *sql.Tx, orgID uint64) ([]model.User, error) {
	const q = `SELECT u.id, u.email, u.full_name, u.password_hash, u.is_active, u.created_at
	           FROM users u
	           JOIN organization_members m ON m.user_id = u.id
	           WHERE m.organization_id = ?` + unseatedFilter + `
	           ORDER BY m.created_at ASC, m.id ASC`
	rows, err := tx.QueryContext(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows *sql.Rows) ([]model.User, error) {
	result := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

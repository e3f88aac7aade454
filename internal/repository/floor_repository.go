package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/deskatlas/seat-allocation/internal/model"
)

// FloorRepo provides read access to floors.  Floor lifecycle management
// (create/update/delete) belongs to the facilities system upstream; this
// service only needs tenancy-checked lookups.
type FloorRepo struct {
	db *sql.DB
}

// NewFloorRepo returns a new FloorRepo bound to the given database.
func NewFloorRepo(db *sql.DB) *FloorRepo { return &FloorRepo{db: db} }

// GetByIDForOrg retrieves a floor while enforcing that its building belongs
// to the given organization.  Returns ErrFloorNotFound when the floor does
// not exist or belongs to another tenant; callers must not learn which.
func (r *FloorRepo) GetByIDForOrg(ctx context.Context, id, orgID uint64) (*model.Floor, error) {
	const q = `SELECT f.id, f.building_id, f.name, f.width, f.height, f.image_url
	           FROM floors f
	           JOIN buildings b ON b.id = f.building_id
	           WHERE f.id = ? AND b.organization_id = ?`
	var f model.Floor
	var imageURL sql.NullString
	err := r.db.QueryRowContext(ctx, q, id, orgID).Scan(
		&f.ID, &f.BuildingID, &f.Name, &f.Width, &f.Height, &imageURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFloorNotFound
		}
		return nil, err
	}
	if imageURL.Valid {
		u := imageURL.String
		f.ImageURL = &u
	}
	return &f, nil
}

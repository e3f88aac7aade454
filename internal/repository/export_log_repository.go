package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/deskatlas/seat-allocation/internal/model"
)

// ExportLogRepo provides data access to the export_log table.  The latest
// row per (organization, type) drives the export cooldown and the download
// URL; rows are created once per successful export and never updated.
type ExportLogRepo struct {
	db *sql.DB
}

// NewExportLogRepo returns a new ExportLogRepo bound to the given database.
func NewExportLogRepo(db *sql.DB) *ExportLogRepo { return &ExportLogRepo{db: db} }

// Create inserts an export record and populates its generated ID.
func (r *ExportLogRepo) Create(ctx context.Context, e *model.ExportLog) error {
	const q = `INSERT INTO export_log (export_type, exported_at, storage_key, organization_id, exported_by)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		string(e.ExportType), e.ExportedAt, e.StorageKey, e.OrganizationID, e.ExportedBy)
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

// GetLatest returns the most recent export of the given type for an
// organization, or (nil, nil) when none exists yet.
func (r *ExportLogRepo) GetLatest(ctx context.Context, orgID uint64, t model.ExportType) (*model.ExportLog, error) {
	const q = `SELECT id, export_type, exported_at, storage_key, organization_id, exported_by
	           FROM export_log
	           WHERE organization_id = ? AND export_type = ?
	           ORDER BY exported_at DESC, id DESC
	           LIMIT 1`
	var e model.ExportLog
	var typ string
	err := r.db.QueryRowContext(ctx, q, orgID, string(t)).Scan(
		&e.ID, &typ, &e.ExportedAt, &e.StorageKey, &e.OrganizationID, &e.ExportedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	e.ExportType = model.ExportType(typ)
	return &e, nil
}

// ListByOrg returns the export history of an organization, newest first,
// with the exporter's identity joined in for display.
func (r *ExportLogRepo) ListByOrg(ctx context.Context, orgID uint64) ([]model.ExportLog, error) {
	const q = `SELECT e.id, e.export_type, e.exported_at, e.storage_key, e.organization_id, e.exported_by,
	                  u.full_name, u.email
	           FROM export_log e
	           JOIN users u ON u.id = e.exported_by
	           WHERE e.organization_id = ?
	           ORDER BY e.exported_at DESC, e.id DESC`
	rows, err := r.db.QueryContext(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.ExportLog, 0)
	for rows.Next() {
		var e model.ExportLog
		var typ string
		if err := rows.Scan(&e.ID, &typ, &e.ExportedAt, &e.StorageKey, &e.OrganizationID,
			&e.ExportedBy, &e.ExporterName, &e.ExporterEmail); err != nil {
			return nil, err
		}
		e.ExportType = model.ExportType(typ)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

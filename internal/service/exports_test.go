package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	"gocloud.dev/blob/memblob"

	"github.com/deskatlas/seat-allocation/internal/repository"
	"github.com/deskatlas/seat-allocation/internal/storage"
)

func newExportService(t *testing.T, bucket *blob.Bucket) (*ExportService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	var store *storage.Store
	if bucket != nil {
		store = storage.NewWithBucket(bucket)
	}
	svc := NewExportService(
		repository.NewAuditLogRepo(db),
		repository.NewExportLogRepo(db),
		store,
		10*time.Minute)
	return svc, mock
}

func exportLogRows(exportedAt time.Time, key string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "export_type", "exported_at", "storage_key", "organization_id", "exported_by"}).
		AddRow(1, "SEAT_AUDIT", exportedAt, key, testOrgID, testActorID)
}

func noExportLogRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "export_type", "exported_at", "storage_key", "organization_id", "exported_by"})
}

func auditListRows() *sqlmock.Rows {
	cols := []string{"id", "seat_id", "seat_code", "user_id", "actor_id", "action",
		"from_seat_id", "to_seat_id", "is_locked_before", "is_locked_after",
		"forced", "created_at", "full_name"}
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(cols).
		AddRow(1, 5, "S-5", 42, testActorID, "ASSIGN", nil, nil, nil, nil, false, at, "Demo Admin").
		AddRow(2, 5, "S-5", 42, testActorID, "UNASSIGN", nil, nil, nil, nil, false, at.Add(time.Hour), "Demo Admin")
}

func emptyAuditListRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "seat_id", "seat_code", "user_id", "actor_id", "action",
		"from_seat_id", "to_seat_id", "is_locked_before", "is_locked_after",
		"forced", "created_at", "full_name"})
}

func TestExportSeatAuditUploadsThenRecords(t *testing.T) {
	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })
	svc, mock := newExportService(t, bucket)

	mock.ExpectQuery(`FROM export_log`).WithArgs(testOrgID, "SEAT_AUDIT").WillReturnRows(noExportLogRows())
	mock.ExpectQuery(`FROM seat_audit_log l`).WillReturnRows(auditListRows())
	mock.ExpectExec(`INSERT INTO export_log`).WillReturnResult(sqlmock.NewResult(3, 1))

	rec, err := svc.ExportSeatAudit(context.Background(), testActorID, testOrgID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), rec.ID)
	assert.True(t, strings.HasPrefix(rec.StorageKey, "seat-audit/1/"))

	// The recorded key must point at a real object holding the CSV.
	data, err := bucket.ReadAll(context.Background(), rec.StorageKey)
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, `"Action","Seat Code","Actor","From Seat","To Seat","Timestamp"`)
	assert.Contains(t, body, `"ASSIGN","S-5","Demo Admin"`)
	assert.Contains(t, body, `"UNASSIGN"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportSeatAuditCooldown(t *testing.T) {
	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })
	svc, mock := newExportService(t, bucket)

	// An export two minutes ago with a ten minute cooldown blocks the call
	// before anything is read or uploaded.
	recent := time.Now().UTC().Add(-2 * time.Minute)
	mock.ExpectQuery(`FROM export_log`).WithArgs(testOrgID, "SEAT_AUDIT").WillReturnRows(exportLogRows(recent, "seat-audit/1/old.csv"))

	_, err := svc.ExportSeatAudit(context.Background(), testActorID, testOrgID, nil, nil)
	var cd *CooldownError
	require.ErrorAs(t, err, &cd)
	assert.Greater(t, cd.Remaining, 7*time.Minute)
	assert.Contains(t, cd.Error(), "export cooldown active")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportSeatAuditWithoutBucket(t *testing.T) {
	svc, _ := newExportService(t, nil)
	_, err := svc.ExportSeatAudit(context.Background(), testActorID, testOrgID, nil, nil)
	assert.ErrorIs(t, err, ErrBucketNotConfigured)
}

func TestGetDownloadURLWithoutExport(t *testing.T) {
	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })
	svc, mock := newExportService(t, bucket)

	mock.ExpectQuery(`FROM export_log`).WithArgs(testOrgID, "SEAT_AUDIT").WillReturnRows(noExportLogRows())

	_, err := svc.GetDownloadURL(context.Background(), testOrgID)
	assert.ErrorIs(t, err, ErrNoExport)
	assert.NoError(t, mock.ExpectationsWereMet())
}

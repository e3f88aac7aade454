package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskatlas/seat-allocation/internal/repository"
)

func newAuditService(t *testing.T) (*AuditService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	svc := NewAuditService(
		repository.NewAuditLogRepo(db),
		repository.NewSeatRepo(db),
		repository.NewFloorRepo(db),
		repository.NewExportLogRepo(db),
		10*time.Minute)
	return svc, mock
}

func TestListByFloorPaginationEnvelope(t *testing.T) {
	svc, mock := newAuditService(t)

	mock.ExpectQuery(`WHERE f\.id = \? AND b\.organization_id = \?`).WithArgs(4, testOrgID).WillReturnRows(floorRows(4))
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(101))
	mock.ExpectQuery(`LIMIT \? OFFSET \?`).WillReturnRows(auditListRows())

	page, err := svc.ListByFloor(context.Background(), 4, testOrgID, 2, 50, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 101, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 50, page.PageSize)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Entries, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByFloorClampsPageParams(t *testing.T) {
	svc, mock := newAuditService(t)

	mock.ExpectQuery(`WHERE f\.id = \? AND b\.organization_id = \?`).WithArgs(4, testOrgID).WillReturnRows(floorRows(4))
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`LIMIT \? OFFSET \?`).WillReturnRows(emptyAuditListRows())

	page, err := svc.ListByFloor(context.Background(), 4, testOrgID, 0, -5, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 50, page.PageSize)
	assert.Zero(t, page.TotalPages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportFloorCsvRecordsExportAndRendersRows(t *testing.T) {
	svc, mock := newAuditService(t)

	mock.ExpectQuery(`WHERE f\.id = \? AND b\.organization_id = \?`).WithArgs(4, testOrgID).WillReturnRows(floorRows(4))
	mock.ExpectQuery(`FROM export_log`).WithArgs(testOrgID, "SEAT_ALLOCATION").WillReturnRows(noExportLogRows())
	mock.ExpectQuery(`WHERE s\.floor_id = \? AND b\.organization_id = \?`).WillReturnRows(auditListRows())
	mock.ExpectExec(`INSERT INTO export_log`).WillReturnResult(sqlmock.NewResult(5, 1))

	csv, err := svc.ExportFloorCsv(context.Background(), testActorID, 4, testOrgID, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, csv.Filename, "floor-4-audit-")
	assert.Contains(t, csv.Content, `"Action","Seat Code","Actor","From Seat","To Seat","Timestamp"`)
	assert.Contains(t, csv.Content, `"ASSIGN","S-5","Demo Admin"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportFloorCsvCooldown(t *testing.T) {
	svc, mock := newAuditService(t)

	recent := time.Now().UTC().Add(-time.Minute)
	mock.ExpectQuery(`WHERE f\.id = \? AND b\.organization_id = \?`).WithArgs(4, testOrgID).WillReturnRows(floorRows(4))
	mock.ExpectQuery(`FROM export_log`).WithArgs(testOrgID, "SEAT_ALLOCATION").
		WillReturnRows(sqlmock.NewRows([]string{"id", "export_type", "exported_at", "storage_key", "organization_id", "exported_by"}).
			AddRow(9, "SEAT_ALLOCATION", recent, "inline/earlier.csv", testOrgID, testActorID))

	_, err := svc.ExportFloorCsv(context.Background(), testActorID, 4, testOrgID, nil, nil)
	var cd *CooldownError
	require.ErrorAs(t, err, &cd)
	assert.Greater(t, cd.Remaining, 8*time.Minute)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBySeatChecksTenancyFirst(t *testing.T) {
	svc, mock := newAuditService(t)

	mock.ExpectQuery(`WHERE s\.id = \? AND b\.organization_id = \?`).WithArgs(5, testOrgID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "floor_id", "seat_code", "x", "y", "is_locked", "created_at", "updated_at"}))

	_, err := svc.ListBySeat(context.Background(), 5, testOrgID)
	assert.ErrorIs(t, err, repository.ErrSeatNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskatlas/seat-allocation/internal/repository"
)

func newAnalyticsService(t *testing.T) (*AnalyticsService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewAnalyticsService(repository.NewAnalyticsRepo(db)), mock
}

func countRows(n int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func TestSeatUtilizationRoundsPercent(t *testing.T) {
	svc, mock := newAnalyticsService(t)

	mock.ExpectQuery(`FROM seats s`).WithArgs(testOrgID).WillReturnRows(countRows(3))
	mock.ExpectQuery(`FROM seat_assignments a`).WithArgs(testOrgID).WillReturnRows(countRows(2))

	report, err := svc.SeatUtilization(context.Background(), testOrgID)
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalSeats)
	assert.Equal(t, 2, report.OccupiedSeats)
	assert.Equal(t, 1, report.AvailableSeats)
	assert.Equal(t, 67, report.UtilizationPercent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatUtilizationEmptyOrg(t *testing.T) {
	svc, mock := newAnalyticsService(t)

	mock.ExpectQuery(`FROM seats s`).WithArgs(testOrgID).WillReturnRows(countRows(0))
	mock.ExpectQuery(`FROM seat_assignments a`).WithArgs(testOrgID).WillReturnRows(countRows(0))

	report, err := svc.SeatUtilization(context.Background(), testOrgID)
	require.NoError(t, err)
	assert.Zero(t, report.TotalSeats)
	assert.Zero(t, report.UtilizationPercent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFloorUtilizationsIncludeEmptyFloors(t *testing.T) {
	svc, mock := newAnalyticsService(t)

	rows := sqlmock.NewRows([]string{"id", "name", "total_seats", "occupied_seats"}).
		AddRow(1, "First Floor", 15, 6).
		AddRow(2, "Second Floor", 0, 0)
	mock.ExpectQuery(`GROUP BY f\.id, f\.name`).WithArgs(testOrgID).WillReturnRows(rows)

	floors, err := svc.FloorUtilizations(context.Background(), testOrgID)
	require.NoError(t, err)
	require.Len(t, floors, 2)
	assert.Equal(t, "First Floor", floors[0].FloorName)
	assert.Equal(t, 40, floors[0].UtilizationPercent)
	assert.Equal(t, uint64(2), floors[1].FloorID)
	assert.Zero(t, floors[1].TotalSeats)
	assert.Zero(t, floors[1].UtilizationPercent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

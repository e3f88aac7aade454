package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskatlas/seat-allocation/internal/repository"
)

func newAllocationService(t *testing.T) (*AllocationService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	seats := repository.NewSeatRepo(db)
	assignments := NewAssignmentService(db, seats,
		repository.NewAssignmentRepo(db),
		repository.NewAuditLogRepo(db),
		nil)
	svc := NewAllocationService(db, seats,
		repository.NewFloorRepo(db),
		repository.NewUserRepo(db),
		assignments)
	return svc, mock
}

func floorRows(id uint64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "building_id", "name", "width", "height", "image_url"}).
		AddRow(id, 2, "First Floor", 1000, 600, nil)
}

func userRows(ids ...uint64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "email", "full_name", "password_hash", "is_active", "created_at"})
	for _, id := range ids {
		rows.AddRow(id, fmt.Sprintf("user%d@demo.com", id), fmt.Sprintf("User %d", id), "x", true, time.Now().UTC())
	}
	return rows
}

func freeSeatRows(ids ...uint64) *sqlmock.Rows {
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "floor_id", "seat_code", "x", "y", "is_locked", "created_at", "updated_at"})
	for i, id := range ids {
		rows.AddRow(id, 4, fmt.Sprintf("S-%d", id), float64(i), 0.0, false, now, now)
	}
	return rows
}

// expectPairing registers the statement sequence assignSeatTx issues for one
// seat/user pair.
func expectPairing(mock sqlmock.Sqlmock, seatID, userID uint64) {
	mock.ExpectQuery(qSeatForOrgUpdate).WithArgs(seatID, testOrgID).WillReturnRows(seatRows(seatID, fmt.Sprintf("S-%d", seatID), false))
	mock.ExpectQuery(qActiveBySeat).WithArgs(seatID).WillReturnRows(noAssignmentRows())
	mock.ExpectQuery(qActiveByUser).WithArgs(userID).WillReturnRows(noAssignmentRows())
	mock.ExpectExec(qInsertAssignment).WillReturnResult(sqlmock.NewResult(int64(seatID*100), 1))
	mock.ExpectExec(qInsertAudit).WillReturnResult(sqlmock.NewResult(int64(seatID*1000), 1))
}

func TestAutoAssignSequentialPairsUntilSeatsRunOut(t *testing.T) {
	svc, mock := newAllocationService(t)

	// Three free seats, five unseated users: the first three users get
	// seated and the run reports both totals.
	mock.ExpectBegin()
	mock.ExpectQuery(`WHERE f\.id = \? AND b\.organization_id = \?`).WithArgs(4, testOrgID).WillReturnRows(floorRows(4))
	mock.ExpectQuery(`ORDER BY s\.y ASC, s\.x ASC`).WithArgs(4).WillReturnRows(freeSeatRows(21, 22, 23))
	mock.ExpectQuery(`ORDER BY u\.created_at ASC`).WithArgs(testOrgID).WillReturnRows(userRows(51, 52, 53, 54, 55))
	expectPairing(mock, 21, 51)
	expectPairing(mock, 22, 52)
	expectPairing(mock, 23, 53)
	mock.ExpectCommit()

	result, err := svc.AutoAssignSequential(context.Background(), testActorID, 4, testOrgID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.AssignedCount)
	assert.Equal(t, 3, result.TotalSeats)
	assert.Equal(t, 5, result.TotalUsers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAutoAssignSequentialUnknownFloor(t *testing.T) {
	svc, mock := newAllocationService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`WHERE f\.id = \? AND b\.organization_id = \?`).WithArgs(4, testOrgID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "building_id", "name", "width", "height", "image_url"}))
	mock.ExpectRollback()

	_, err := svc.AutoAssignSequential(context.Background(), testActorID, 4, testOrgID)
	assert.ErrorIs(t, err, repository.ErrFloorNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAutoAssignBulkDropsUnusableCandidates(t *testing.T) {
	svc, mock := newAllocationService(t)

	// Four candidate seats were requested but only two survive the
	// locked/occupied/tenancy filter; two users get seats.
	mock.ExpectBegin()
	mock.ExpectQuery(`ORDER BY s\.seat_code ASC`).WillReturnRows(freeSeatRows(31, 32))
	mock.ExpectQuery(`ORDER BY m\.created_at ASC`).WithArgs(testOrgID).WillReturnRows(userRows(61, 62, 63))
	expectPairing(mock, 31, 61)
	expectPairing(mock, 32, 62)
	mock.ExpectCommit()

	result, err := svc.AutoAssignBulk(context.Background(), testActorID, []uint64{31, 32, 33, 34}, testOrgID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.AssignedCount)
	assert.Equal(t, 2, result.TotalSeats)
	assert.Equal(t, 3, result.TotalUsers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAutoAssignBulkEmptyCandidateList(t *testing.T) {
	svc, mock := newAllocationService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`ORDER BY m\.created_at ASC`).WithArgs(testOrgID).WillReturnRows(userRows(61))
	mock.ExpectCommit()

	result, err := svc.AutoAssignBulk(context.Background(), testActorID, nil, testOrgID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.AssignedCount)
	assert.Equal(t, 0, result.TotalSeats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

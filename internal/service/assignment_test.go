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

const (
	testOrgID   = uint64(1)
	testActorID = uint64(10)
)

// newAssignmentService wires the engine against a sqlmock database.  The
// regexp matcher lets expectations target queries by their distinguishing
// fragments rather than full statements.
func newAssignmentService(t *testing.T) (*AssignmentService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	svc := NewAssignmentService(db,
		repository.NewSeatRepo(db),
		repository.NewAssignmentRepo(db),
		repository.NewAuditLogRepo(db),
		nil)
	return svc, mock
}

func seatRows(id uint64, code string, locked bool) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "floor_id", "seat_code", "x", "y", "is_locked", "created_at", "updated_at"}).
		AddRow(id, 3, code, 0.1, 0.2, locked, now, now)
}

func noAssignmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "seat_id", "user_id", "is_active", "assigned_at", "unassigned_at"})
}

func activeAssignmentRows(id, seatID, userID uint64) *sqlmock.Rows {
	return noAssignmentRows().AddRow(id, seatID, userID, true, time.Now().UTC().Add(-time.Hour), nil)
}

// Query fragments that uniquely identify each statement of the engine's
// transaction.
const (
	qSeatForOrgUpdate = `WHERE s\.id = \? AND b\.organization_id = \?`
	qActiveBySeat     = `WHERE seat_id = \? AND is_active = 1`
	qActiveByUser     = `WHERE user_id = \? AND is_active = 1`
	qInsertAssignment = `INSERT INTO seat_assignments`
	qInsertAudit      = `INSERT INTO seat_audit_log`
	qDeactivate       = `UPDATE seat_assignments SET is_active = 0`
	qUpdateLock       = `UPDATE seats SET is_locked`
)

func TestAssignSeatSuccess(t *testing.T) {
	svc, mock := newAssignmentService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(qSeatForOrgUpdate).WithArgs(5, testOrgID).WillReturnRows(seatRows(5, "S-5", false))
	mock.ExpectQuery(qActiveBySeat).WithArgs(5).WillReturnRows(noAssignmentRows())
	mock.ExpectQuery(qActiveByUser).WithArgs(42).WillReturnRows(noAssignmentRows())
	mock.ExpectExec(qInsertAssignment).WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(qInsertAudit).WillReturnResult(sqlmock.NewResult(100, 1))
	mock.ExpectCommit()

	a, err := svc.AssignSeat(context.Background(), testActorID, 42, 5, testOrgID)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), a.ID)
	assert.Equal(t, uint64(5), a.SeatID)
	assert.Equal(t, uint64(42), a.UserID)
	assert.True(t, a.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignSeatVacatesPriorSeat(t *testing.T) {
	svc, mock := newAssignmentService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(qSeatForOrgUpdate).WithArgs(5, testOrgID).WillReturnRows(seatRows(5, "S-5", false))
	mock.ExpectQuery(qActiveBySeat).WithArgs(5).WillReturnRows(noAssignmentRows())
	// The user already sits on seat 2; that assignment must be deactivated
	// before the new row is created.
	mock.ExpectQuery(qActiveByUser).WithArgs(42).WillReturnRows(activeAssignmentRows(6, 2, 42))
	mock.ExpectExec(qDeactivate).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(qInsertAssignment).WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectExec(qInsertAudit).WillReturnResult(sqlmock.NewResult(101, 1))
	mock.ExpectCommit()

	a, err := svc.AssignSeat(context.Background(), testActorID, 42, 5, testOrgID)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), a.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignSeatLocked(t *testing.T) {
	svc, mock := newAssignmentService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(qSeatForOrgUpdate).WithArgs(5, testOrgID).WillReturnRows(seatRows(5, "S-5", true))
	mock.ExpectRollback()

	_, err := svc.AssignSeat(context.Background(), testActorID, 42, 5, testOrgID)
	assert.ErrorIs(t, err, ErrSeatLocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignSeatOccupied(t *testing.T) {
	svc, mock := newAssignmentService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(qSeatForOrgUpdate).WithArgs(5, testOrgID).WillReturnRows(seatRows(5, "S-5", false))
	mock.ExpectQuery(qActiveBySeat).WithArgs(5).WillReturnRows(activeAssignmentRows(6, 5, 99))
	mock.ExpectRollback()

	_, err := svc.AssignSeat(context.Background(), testActorID, 42, 5, testOrgID)
	assert.ErrorIs(t, err, ErrSeatOccupied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignSeatUnknownSeat(t *testing.T) {
	svc, mock := newAssignmentService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(qSeatForOrgUpdate).WithArgs(5, testOrgID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "floor_id", "seat_code", "x", "y", "is_locked", "created_at", "updated_at"}))
	mock.ExpectRollback()

	_, err := svc.AssignSeat(context.Background(), testActorID, 42, 5, testOrgID)
	assert.ErrorIs(t, err, repository.ErrSeatNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReassignSeatRequiresForceOnLockedDestination(t *testing.T) {
	svc, mock := newAssignmentService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(qActiveByUser).WithArgs(42).WillReturnRows(activeAssignmentRows(6, 2, 42))
	mock.ExpectQuery(qSeatForOrgUpdate).WithArgs(9, testOrgID).WillReturnRows(seatRows(9, "S-9", true))
	mock.ExpectRollback()

	_, err := svc.ReassignSeat(context.Background(), testActorID, 42, 9, testOrgID, false)
	assert.ErrorIs(t, err, ErrForceRequired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReassignSeatForcedOntoLockedDestination(t *testing.T) {
	svc, mock := newAssignmentService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(qActiveByUser).WithArgs(42).WillReturnRows(activeAssignmentRows(6, 2, 42))
	mock.ExpectQuery(qSeatForOrgUpdate).WithArgs(9, testOrgID).WillReturnRows(seatRows(9, "S-9", true))
	mock.ExpectQuery(qActiveBySeat).WithArgs(9).WillReturnRows(noAssignmentRows())
	mock.ExpectExec(qDeactivate).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(qInsertAssignment).WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec(qInsertAudit).WillReturnResult(sqlmock.NewResult(102, 1))
	mock.ExpectCommit()

	a, err := svc.ReassignSeat(context.Background(), testActorID, 42, 9, testOrgID, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), a.SeatID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReassignSeatWithoutActiveAssignment(t *testing.T) {
	svc, mock := newAssignmentService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(qActiveByUser).WithArgs(42).WillReturnRows(noAssignmentRows())
	mock.ExpectRollback()

	_, err := svc.ReassignSeat(context.Background(), testActorID, 42, 9, testOrgID, false)
	assert.ErrorIs(t, err, ErrNoActiveAssignment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnassignSelfIdempotentWhenUnseated(t *testing.T) {
	svc, mock := newAssignmentService(t)

	// No seat held: the call succeeds without touching assignments or the
	// audit log.
	mock.ExpectBegin()
	mock.ExpectQuery(qActiveByUser).WithArgs(testActorID).WillReturnRows(noAssignmentRows())
	mock.ExpectCommit()

	err := svc.UnassignSelf(context.Background(), testActorID, testActorID, testOrgID)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnassignSelfVacatesSeat(t *testing.T) {
	svc, mock := newAssignmentService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(qActiveByUser).WithArgs(testActorID).WillReturnRows(activeAssignmentRows(6, 5, testActorID))
	mock.ExpectQuery(`FROM seats WHERE id = \? FOR UPDATE`).WithArgs(5).WillReturnRows(seatRows(5, "S-5", false))
	mock.ExpectExec(qDeactivate).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(qInsertAudit).WillReturnResult(sqlmock.NewResult(103, 1))
	mock.ExpectCommit()

	err := svc.UnassignSelf(context.Background(), testActorID, testActorID, testOrgID)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnassignBySeatNotOccupied(t *testing.T) {
	svc, mock := newAssignmentService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(qSeatForOrgUpdate).WithArgs(5, testOrgID).WillReturnRows(seatRows(5, "S-5", false))
	mock.ExpectQuery(qActiveBySeat).WithArgs(5).WillReturnRows(noAssignmentRows())
	mock.ExpectRollback()

	err := svc.UnassignBySeat(context.Background(), testActorID, 5, testOrgID)
	assert.ErrorIs(t, err, ErrSeatNotOccupied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLockNoopKeepsAuditSilent(t *testing.T) {
	svc, mock := newAssignmentService(t)

	// Locking an already locked seat commits without writing anything.
	mock.ExpectBegin()
	mock.ExpectQuery(qSeatForOrgUpdate).WithArgs(5, testOrgID).WillReturnRows(seatRows(5, "S-5", true))
	mock.ExpectCommit()

	seat, err := svc.ToggleLock(context.Background(), testActorID, 5, testOrgID, true)
	require.NoError(t, err)
	assert.True(t, seat.IsLocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLockTransition(t *testing.T) {
	svc, mock := newAssignmentService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(qSeatForOrgUpdate).WithArgs(5, testOrgID).WillReturnRows(seatRows(5, "S-5", false))
	mock.ExpectExec(qUpdateLock).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(qInsertAudit).WillReturnResult(sqlmock.NewResult(104, 1))
	mock.ExpectCommit()

	seat, err := svc.ToggleLock(context.Background(), testActorID, 5, testOrgID, true)
	require.NoError(t, err)
	assert.True(t, seat.IsLocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

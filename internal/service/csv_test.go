package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/deskatlas/seat-allocation/internal/model"
)

func TestBuildCsvQuotesEveryCell(t *testing.T) {
	out := buildCsv([]string{"A", "B"}, [][]string{
		{"plain", "with,comma"},
		{`has "quotes"`, ""},
	})
	expected := `"A","B"` + "\n" +
		`"plain","with,comma"` + "\n" +
		`"has ""quotes""",""`
	assert.Equal(t, expected, out)
}

func TestBuildCsvHeaderOnly(t *testing.T) {
	out := buildCsv(auditCsvHeader, nil)
	assert.Equal(t, `"Action","Seat Code","Actor","From Seat","To Seat","Timestamp"`, out)
}

func TestAuditCsvRowMoveEntry(t *testing.T) {
	from := uint64(2)
	to := uint64(9)
	user := uint64(42)
	e := model.AuditEntry{
		Action:     model.ActionMove,
		SeatID:     9,
		SeatCode:   "S-9",
		UserID:     &user,
		ActorID:    10,
		ActorName:  "Demo Admin",
		FromSeatID: &from,
		ToSeatID:   &to,
		CreatedAt:  time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
	}
	row := auditCsvRow(e)
	assert.Equal(t, []string{"MOVE", "S-9", "Demo Admin", "2", "9", "2026-03-14T09:26:53Z"}, row)
}

func TestAuditCsvRowOptionalCellsEmpty(t *testing.T) {
	e := model.AuditEntry{
		Action:    model.ActionLock,
		SeatID:    5,
		SeatCode:  "S-5",
		ActorID:   10,
		ActorName: "Demo Admin",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	row := auditCsvRow(e)
	assert.Equal(t, []string{"LOCK", "S-5", "Demo Admin", "", "", "2026-01-02T03:04:05Z"}, row)
}

package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/deskatlas/seat-allocation/internal/model"
)

// auditCsvHeader is the fixed column order shared by every audit CSV this
// service produces (ad-hoc floor exports, bulk exports and retention
// backups), so downstream tooling can parse all three the same way.
var auditCsvHeader = []string{"Action", "Seat Code", "Actor", "From Seat", "To Seat", "Timestamp"}

// buildCsv renders rows as CSV with every cell double-quote escaped and
// quoted.  encoding/csv quotes only when necessary; the exports here quote
// unconditionally so the output is byte-stable regardless of cell content.
func buildCsv(header []string, rows [][]string) string {
	var b strings.Builder
	writeCsvRow(&b, header)
	for _, row := range rows {
		b.WriteByte('\n')
		writeCsvRow(&b, row)
	}
	return b.String()
}

func writeCsvRow(b *strings.Builder, row []string) {
	for i, cell := range row {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
}

// auditCsvRow flattens one audit entry into the shared column order.
// Optional seat references render as empty cells.
func auditCsvRow(e model.AuditEntry) []string {
	from := ""
	if e.FromSeatID != nil {
		from = strconv.FormatUint(*e.FromSeatID, 10)
	}
	to := ""
	if e.ToSeatID != nil {
		to = strconv.FormatUint(*e.ToSeatID, 10)
	}
	return []string{
		string(e.Action),
		e.SeatCode,
		e.ActorName,
		from,
		to,
		e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

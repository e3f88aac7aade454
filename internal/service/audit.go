package service

import (
	"context"
	"fmt"
	"time"

	"github.com/deskatlas/seat-allocation/internal/model"
	"github.com/deskatlas/seat-allocation/internal/repository"
)

// AuditPage is one page of audit history plus the pagination envelope the
// floor history endpoint returns.
type AuditPage struct {
	Entries    []model.AuditEntry `json:"entries"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
}

// FloorCsv is a rendered ad-hoc CSV export of a floor's audit history.
type FloorCsv struct {
	Filename string
	Content  string
}

// AuditService answers audit history queries and produces the ad-hoc floor
// CSV export.  The floor export is throttled by the SEAT_ALLOCATION
// cooldown so repeated clicks cannot hammer the database.
type AuditService struct {
	audit      *repository.AuditLogRepo
	seats      *repository.SeatRepo
	floors     *repository.FloorRepo
	exportLogs *repository.ExportLogRepo
	cooldown   time.Duration
}

func NewAuditService(audit *repository.AuditLogRepo, seats *repository.SeatRepo, floors *repository.FloorRepo, exportLogs *repository.ExportLogRepo, cooldown time.Duration) *AuditService {
	return &AuditService{audit: audit, seats: seats, floors: floors, exportLogs: exportLogs, cooldown: cooldown}
}

// ListBySeat returns the full audit trail of one seat, newest first.
func (s *AuditService) ListBySeat(ctx context.Context, seatID, orgID uint64) ([]model.AuditEntry, error) {
	if _, err := s.seats.GetByIDForOrg(ctx, seatID, orgID); err != nil {
		return nil, err
	}
	return s.audit.ListBySeat(ctx, seatID, orgID)
}

// ListByFloor returns one page of a floor's audit history, newest first,
// optionally bounded in time.  Page numbering starts at 1; out-of-range
// pages return an empty entry list with the true total.
func (s *AuditService) ListByFloor(ctx context.Context, floorID, orgID uint64, page, pageSize int, from, to *time.Time) (*AuditPage, error) {
	if _, err := s.floors.GetByIDForOrg(ctx, floorID, orgID); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	entries, total, err := s.audit.ListByFloor(ctx, floorID, orgID, pageSize, offset, from, to)
	if err != nil {
		return nil, err
	}
	totalPages := (total + pageSize - 1) / pageSize
	return &AuditPage{
		Entries:    entries,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// ExportFloorCsv renders a floor's audit history (optionally time bounded)
// as a CSV document for immediate download and records a SEAT_ALLOCATION
// export so the cooldown applies to the next request.  An export within the
// cooldown window fails with a CooldownError before touching the log.
func (s *AuditService) ExportFloorCsv(ctx context.Context, actorID, floorID, orgID uint64, from, to *time.Time) (*FloorCsv, error) {
	if _, err := s.floors.GetByIDForOrg(ctx, floorID, orgID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	last, err := s.exportLogs.GetLatest(ctx, orgID, model.ExportSeatAllocation)
	if err != nil {
		return nil, err
	}
	if remaining := cooldownRemaining(last, s.cooldown, now); remaining > 0 {
		return nil, &CooldownError{Remaining: remaining}
	}

	entries, err := s.audit.ListByFloorAll(ctx, floorID, orgID, from, to)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, auditCsvRow(e))
	}

	filename := fmt.Sprintf("floor-%d-audit-%d.csv", floorID, now.UnixMilli())
	if err := s.exportLogs.Create(ctx, &model.ExportLog{
		ExportType:     model.ExportSeatAllocation,
		ExportedAt:     now,
		StorageKey:     "inline/" + filename,
		OrganizationID: orgID,
		ExportedBy:     actorID,
	}); err != nil {
		return nil, err
	}

	return &FloorCsv{Filename: filename, Content: buildCsv(auditCsvHeader, rows)}, nil
}

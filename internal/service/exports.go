package service

import (
	"context"
	"fmt"
	"time"

	"github.com/deskatlas/seat-allocation/internal/model"
	"github.com/deskatlas/seat-allocation/internal/repository"
	"github.com/deskatlas/seat-allocation/internal/storage"
)

// downloadURLTTL bounds how long a signed export download link stays valid.
const downloadURLTTL = 5 * time.Minute

// ExportService handles organization-wide audit exports: uploading the full
// (optionally time-bounded) audit trail to the blob store, handing out
// signed download URLs for the latest upload, and listing export history.
type ExportService struct {
	audit      *repository.AuditLogRepo
	exportLogs *repository.ExportLogRepo
	store      *storage.Store
	cooldown   time.Duration
}

// NewExportService constructs the service.  store may be nil when no bucket
// is configured; upload and download operations then fail with
// ErrBucketNotConfigured.
func NewExportService(audit *repository.AuditLogRepo, exportLogs *repository.ExportLogRepo, store *storage.Store, cooldown time.Duration) *ExportService {
	return &ExportService{audit: audit, exportLogs: exportLogs, store: store, cooldown: cooldown}
}

// ExportSeatAudit uploads the organization's audit trail as CSV and records
// the export.  The SEAT_AUDIT cooldown is checked first; a premature call
// fails with a CooldownError and leaves no trace.  The export log row is
// written only after the upload succeeds, so a recorded export always has a
// retrievable object behind it.
func (s *ExportService) ExportSeatAudit(ctx context.Context, actorID, orgID uint64, from, to *time.Time) (*model.ExportLog, error) {
	if s.store == nil {
		return nil, ErrBucketNotConfigured
	}

	now := time.Now().UTC()
	last, err := s.exportLogs.GetLatest(ctx, orgID, model.ExportSeatAudit)
	if err != nil {
		return nil, err
	}
	if remaining := cooldownRemaining(last, s.cooldown, now); remaining > 0 {
		return nil, &CooldownError{Remaining: remaining}
	}

	entries, err := s.audit.ListByOrg(ctx, orgID, from, to)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, auditCsvRow(e))
	}

	key := fmt.Sprintf("seat-audit/%d/%d.csv", orgID, now.UnixMilli())
	if err := s.store.Put(ctx, key, []byte(buildCsv(auditCsvHeader, rows)), "text/csv"); err != nil {
		return nil, err
	}

	rec := &model.ExportLog{
		ExportType:     model.ExportSeatAudit,
		ExportedAt:     now,
		StorageKey:     key,
		OrganizationID: orgID,
		ExportedBy:     actorID,
	}
	if err := s.exportLogs.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// GetDownloadURL returns a signed, short-lived URL for the organization's
// most recent SEAT_AUDIT export.  ErrNoExport is returned when the
// organization has never exported.
func (s *ExportService) GetDownloadURL(ctx context.Context, orgID uint64) (string, error) {
	if s.store == nil {
		return "", ErrBucketNotConfigured
	}
	last, err := s.exportLogs.GetLatest(ctx, orgID, model.ExportSeatAudit)
	if err != nil {
		return "", err
	}
	if last == nil {
		return "", ErrNoExport
	}
	return s.store.SignedGetURL(ctx, last.StorageKey, downloadURLTTL)
}

// History lists the organization's exports of both types, newest first.
func (s *ExportService) History(ctx context.Context, orgID uint64) ([]model.ExportLog, error) {
	return s.exportLogs.ListByOrg(ctx, orgID)
}

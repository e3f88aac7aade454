package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/deskatlas/seat-allocation/internal/repository"
	"github.com/deskatlas/seat-allocation/internal/storage"
)

// RetentionResult reports what one retention run did (or, for a dry run,
// would have done).
type RetentionResult struct {
	DryRun     bool      `json:"dryRun"`
	Cutoff     time.Time `json:"cutoff"`
	Candidates int       `json:"candidates"`
	Deleted    int64     `json:"deleted"`
	StorageKey string    `json:"storageKey,omitempty"`
}

// RetentionService archives and purges audit entries older than the
// retention window.  Entries are uploaded to the blob store as a CSV backup
// and deleted only after the upload succeeds, so a row is never lost: it is
// either still in the table or durably in the bucket.
//
// Runs are single-flight.  The scheduler and the manual admin trigger share
// one service instance, and whichever arrives second while a run is in
// progress fails fast with ErrRetentionBusy.
type RetentionService struct {
	mu            sync.Mutex
	audit         *repository.AuditLogRepo
	store         *storage.Store
	retentionDays int
	prefix        string
}

// NewRetentionService constructs the service.  store may be nil; runs that
// find expired entries then abort with ErrBucketNotConfigured before
// deleting anything.
func NewRetentionService(audit *repository.AuditLogRepo, store *storage.Store, retentionDays int, prefix string) *RetentionService {
	if retentionDays < 1 {
		retentionDays = 90
	}
	if prefix == "" {
		prefix = "audit-exports"
	}
	return &RetentionService{audit: audit, store: store, retentionDays: retentionDays, prefix: prefix}
}

// Run executes one retention pass.  With dryRun set it only counts the
// entries that would be archived and touches neither the bucket nor the
// table.
func (s *RetentionService) Run(ctx context.Context, dryRun bool) (*RetentionResult, error) {
	if !s.mu.TryLock() {
		return nil, ErrRetentionBusy
	}
	defer s.mu.Unlock()

	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, -s.retentionDays)
	result := &RetentionResult{DryRun: dryRun, Cutoff: cutoff}

	entries, err := s.audit.ListOlderThan(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	result.Candidates = len(entries)

	if dryRun || len(entries) == 0 {
		return result, nil
	}
	if s.store == nil {
		return nil, ErrBucketNotConfigured
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, auditCsvRow(e))
	}
	datePart := cutoff.Format("2006-01-02")
	key := fmt.Sprintf("%s/%s/seat-audit-backup-%s.csv", s.prefix, datePart, datePart)
	if err := s.store.Put(ctx, key, []byte(buildCsv(auditCsvHeader, rows)), "text/csv"); err != nil {
		return nil, fmt.Errorf("retention backup upload: %w", err)
	}
	result.StorageKey = key

	deleted, err := s.audit.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		// The backup is already durable; the next run will retry the delete.
		return nil, fmt.Errorf("retention purge: %w", err)
	}
	result.Deleted = deleted

	log.Printf("retention: archived %d entries older than %s to %s and deleted %d rows",
		result.Candidates, datePart, key, deleted)
	return result, nil
}

// StartScheduler runs retention on a fixed interval until ctx is canceled.
// Errors are logged and do not stop the loop.
func (s *RetentionService) StartScheduler(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = 24 * time.Hour
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Run(ctx, false); err != nil && err != ErrRetentionBusy {
				log.Printf("retention: scheduled run failed: %v", err)
			}
		}
	}
}

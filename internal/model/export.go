package model

import "time"

// ExportType distinguishes the kinds of CSV exports an organization can run.
// Cooldowns are enforced per (organization, type) pair.
type ExportType string

const (
	ExportSeatAudit      ExportType = "SEAT_AUDIT"      // full audit history bulk export
	ExportSeatAllocation ExportType = "SEAT_ALLOCATION" // floor-scoped ad-hoc CSV download
)

// ExportLog is the durable record of a completed export.  The latest row per
// (organization, type) is the source of truth for both the cooldown check and
// the download URL; no in-memory "last export" state exists anywhere.
// Rows are immutable and never updated.
type ExportLog struct {
	ID             uint64     // export_log.id
	ExportType     ExportType // export_log.export_type
	ExportedAt     time.Time  // export_log.exported_at
	StorageKey     string     // export_log.storage_key (object key in the blob store)
	OrganizationID uint64     // export_log.organization_id
	ExportedBy     uint64     // export_log.exported_by

	// ExporterName/ExporterEmail are joined in by history queries.
	ExporterName  string
	ExporterEmail string
}

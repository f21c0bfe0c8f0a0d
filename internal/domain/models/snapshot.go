package models

import (
	"time"
)

// SnapshotSchemaVersion is the current snapshot format version.
const SnapshotSchemaVersion = "1.0.0"

// Snapshot is the unit of backup and restore: one owner's full account data
// assembled into a single versioned document. Snapshots are handed to the
// user as files and are not persisted by the system (only a metrics-level
// audit entry is kept for system-initiated builds).
type Snapshot struct {
	SchemaVersion    string           `json:"schema_version"`
	CreatedAt        time.Time        `json:"created_at"`
	OwnerID          string           `json:"owner_id"`
	Profile          *Profile         `json:"profile"`
	Books            []Book           `json:"books"`
	ChapterSummaries []ChapterSummary `json:"chapter_summaries"`
	UsageEvents      []UsageEvent     `json:"usage_events"`
	Metadata         SnapshotMetadata `json:"metadata"`
}

// SnapshotMetadata is the derived block computed at build time.
// BackupSizeMB is descriptive only and never used for limit enforcement.
type SnapshotMetadata struct {
	TotalBooks    int     `json:"total_books"`
	TotalChapters int     `json:"total_chapters"`
	TotalWords    int     `json:"total_words"`
	BackupSizeMB  float64 `json:"backup_size_mb"`
}

// RestoreReport is the structured partial-result report of a restore.
// Restored counts reflect the input snapshot's record counts for phases that
// succeeded, not store-verified row counts: each phase's bulk upsert either
// fully succeeds or fully fails, and there is no per-row reporting within a
// phase.
type RestoreReport struct {
	Restored RestoredCounts `json:"restored"`
	Errors   []string       `json:"errors"`
	Success  bool           `json:"success"`
	// PartialSuccess is true iff at least one phase succeeded and at least
	// one phase failed.
	PartialSuccess bool `json:"partial_success"`
}

type RestoredCounts struct {
	Profile   bool `json:"profile"`
	Books     int  `json:"books"`
	Summaries int  `json:"summaries"`
}

// BackupAuditEntry records size/metrics of a system-initiated snapshot.
// Content is never stored server-side.
type BackupAuditEntry struct {
	ID            string    `json:"id" db:"id"`
	OwnerID       string    `json:"owner_id" db:"owner_id"`
	TotalBooks    int       `json:"total_books" db:"total_books"`
	TotalChapters int       `json:"total_chapters" db:"total_chapters"`
	TotalWords    int       `json:"total_words" db:"total_words"`
	BackupSizeMB  float64   `json:"backup_size_mb" db:"backup_size_mb"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

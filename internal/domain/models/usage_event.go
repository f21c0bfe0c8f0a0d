package models

import (
	"time"
)

// UsageEvent is an immutable ledger entry of billable or non-billable
// activity. The live system is the sole writer: usage events are included in
// snapshots for completeness and audit but are never written during restore.
type UsageEvent struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	Feature   string    `json:"feature" db:"feature"` // e.g. "chapter_generation", "cover_generation"
	Words     int       `json:"words" db:"words"`
	Tokens    int       `json:"tokens" db:"tokens"`
	Billable  bool      `json:"billable" db:"billable"`
	Reason    string    `json:"reason" db:"reason"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type RecordUsageRequest struct {
	Feature  string `json:"feature"`
	Words    int    `json:"words"`
	Tokens   int    `json:"tokens"`
	Billable bool   `json:"billable"`
	Reason   string `json:"reason,omitempty"`
}

package backup

import (
	"encoding/json"
	"fmt"

	"bookforge/internal/domain"
	"bookforge/internal/domain/models"
)

// requiredSnapshotKeys are the top-level keys every snapshot document must
// carry, regardless of schema version.
var requiredSnapshotKeys = []string{
	"schema_version",
	"created_at",
	"owner_id",
	"profile",
	"books",
	"chapter_summaries",
	"usage_events",
	"metadata",
}

// collectionKeys must be JSON sequences when present.
var collectionKeys = []string{"books", "chapter_summaries", "usage_events"}

// IsValidSnapshot reports whether candidate is structurally a snapshot
// document: a JSON object carrying every required top-level key, with the
// three collection keys holding sequences.
//
// This is a cheap type-narrowing predicate, not a full parse. Field-level
// types inside each record are deliberately not checked: a snapshot from a
// slightly older schema version should still be restorable as far as
// possible, with individual upserts failing downstream rather than the whole
// validation. Owner verification belongs to the restore engine, which knows
// the authenticated caller's identity.
func IsValidSnapshot(candidate interface{}) bool {
	doc, ok := candidate.(map[string]interface{})
	if !ok {
		return false
	}

	for _, key := range requiredSnapshotKeys {
		if _, ok := doc[key]; !ok {
			return false
		}
	}

	for _, key := range collectionKeys {
		if _, ok := doc[key].([]interface{}); !ok {
			return false
		}
	}

	return true
}

// DecodeSnapshot validates raw JSON structurally and then decodes it into a
// typed snapshot. Decoding is permissive: unknown fields are ignored and
// missing optional fields are zero-valued.
func DecodeSnapshot(data []byte) (*models.Snapshot, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSnapshotFormat, err)
	}

	if !IsValidSnapshot(doc) {
		return nil, domain.ErrInvalidSnapshotFormat
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSnapshotFormat, err)
	}

	return &snapshot, nil
}

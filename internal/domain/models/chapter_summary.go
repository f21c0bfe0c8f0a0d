package models

// ChapterSummary is a per-chapter synopsis kept for continuity context during
// generation and for backup completeness. The conflict key for upserts is the
// composite (book_id, chapter_number), not a surrogate id: at most one
// summary may exist per chapter per owner.
type ChapterSummary struct {
	BookID        string  `json:"book_id" db:"book_id"`
	ChapterNumber int     `json:"chapter_number" db:"chapter_number"`
	Summary       string  `json:"summary" db:"summary"`
	OwnerID       string  `json:"owner_id" db:"owner_id"`
	ContentHash   *string `json:"content_hash" db:"content_hash"` // Cache invalidation elsewhere; not required here
}

type PutChapterSummaryRequest struct {
	ChapterNumber int     `json:"chapter_number"`
	Summary       string  `json:"summary"`
	ContentHash   *string `json:"content_hash,omitempty"`
}

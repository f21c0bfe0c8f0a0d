package config

const (
	// MaxBookTitleLength is the maximum length for book titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (titles should be short and descriptive).
	MaxBookTitleLength = 255

	// MaxGenreLength bounds genre and subgenre labels.
	MaxGenreLength = 100

	// MaxDescriptionLength bounds the back-cover style description.
	MaxDescriptionLength = 2000

	// MaxSummaryLength bounds a single chapter summary. Summaries are
	// continuity context for generation, not chapter text.
	MaxSummaryLength = 10000

	// MaxUsageListLimit caps how many usage events a single list call
	// returns.
	MaxUsageListLimit = 1000

	// DefaultUsageListLimit applies when a caller does not specify a limit.
	DefaultUsageListLimit = 100

	// MaxAuditListLimit caps backup audit log listings.
	MaxAuditListLimit = 100
)

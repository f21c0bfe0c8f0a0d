package models

import (
	"time"
)

// Book represents one generated or in-progress work.
type Book struct {
	ID            string    `json:"id" db:"id"`
	OwnerID       string    `json:"owner_id" db:"owner_id"`
	Title         string    `json:"title" db:"title"`
	Genre         string    `json:"genre" db:"genre"`
	Subgenre      string    `json:"subgenre" db:"subgenre"`
	Description   string    `json:"description" db:"description"`
	Content       string    `json:"content" db:"content"` // Full book text
	WordCount     int       `json:"word_count" db:"word_count"`
	TotalChapters int       `json:"total_chapters" db:"total_chapters"`
	ChaptersRead  int       `json:"chapters_read" db:"chapters_read"`
	CoverURL      *string   `json:"cover_url" db:"cover_url"` // NULL = no cover generated
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

type CreateBookRequest struct {
	Title         string  `json:"title"`
	Genre         string  `json:"genre"`
	Subgenre      string  `json:"subgenre"`
	Description   string  `json:"description"`
	Content       string  `json:"content"`
	WordCount     int     `json:"word_count"`
	TotalChapters int     `json:"total_chapters"`
	CoverURL      *string `json:"cover_url,omitempty"`
}

type UpdateBookRequest struct {
	Title         *string `json:"title,omitempty"`
	Genre         *string `json:"genre,omitempty"`
	Subgenre      *string `json:"subgenre,omitempty"`
	Description   *string `json:"description,omitempty"`
	Content       *string `json:"content,omitempty"`
	WordCount     *int    `json:"word_count,omitempty"`
	TotalChapters *int    `json:"total_chapters,omitempty"`
	ChaptersRead  *int    `json:"chapters_read,omitempty"`
	CoverURL      *string `json:"cover_url,omitempty"`
}

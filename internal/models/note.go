package models

import "time"

// Year levels map to the short codes used in generated session names.
const (
	YearPrimary      = 1
	YearSecondary    = 2
	YearTertiary     = 3
	YearProfessional = 4
)

type Note struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	SubjectID    int64      `json:"subject_id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	YearLevel    int        `json:"year_level"`
	Summary      string     `json:"summary"`
	Tags         []string   `json:"tags"`
	Embedding    []float32  `json:"-"`
	NextReviewAt *time.Time `json:"next_review_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type NoteFilter struct {
	UserID    int64
	SubjectID int64
	Search    string
	OrderBy   string
	OrderDir  string
	Limit     int
	Offset    int
}

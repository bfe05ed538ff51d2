package models

import "time"

// Question difficulties. "all" is only valid as a filter value, never stored.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
	DifficultyAll    = "all"
)

// ValidDifficulty reports whether d is a storable question difficulty.
func ValidDifficulty(d string) bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Question is an immutable template owned by a note. The review subsystem
// never mutates these; sessions snapshot their text at creation time.
type Question struct {
	ID             int64     `json:"id"`
	NoteID         int64     `json:"note_id"`
	Text           string    `json:"question"`
	Hint           string    `json:"hint"`
	Connects       []string  `json:"connects"`
	Difficulty     string    `json:"difficulty"`
	MasteryContext string    `json:"mastery_context"`
	IsDefault      bool      `json:"is_default"`
	CreatedAt      time.Time `json:"created_at"`
}

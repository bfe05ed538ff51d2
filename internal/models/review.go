package models

import "time"

// Session statuses.
const (
	SessionInProgress = "in_progress"
	SessionCompleted  = "completed"
	SessionAbandoned  = "abandoned"
)

type ReviewSession struct {
	ID                 int64      `json:"id"`
	UserID             int64      `json:"user_id"`
	SessionName        string     `json:"session_name"`
	SelectedNotes      []int64    `json:"selected_notes"`
	SelectedDifficulty string     `json:"selected_difficulty"`
	TotalQuestions     int        `json:"total_questions"`
	SessionStatus      string     `json:"session_status"`
	StartedAt          time.Time  `json:"started_at"`
	CompletedAt        *time.Time `json:"completed_at"`
	DurationSeconds    *int       `json:"duration_seconds"`
	QuestionsAnswered  int        `json:"questions_answered"`
	QuestionsRated     int        `json:"questions_rated"`
	EasyRatings        int        `json:"easy_ratings"`
	MediumRatings      int        `json:"medium_ratings"`
	HardRatings        int        `json:"hard_ratings"`
}

// ReviewAnswer is one question-slot within a session. Rows are created in
// bulk as empty placeholders at session start so answer capture is always an
// update against a stable row, never an insert-or-update.
type ReviewAnswer struct {
	ID                 int64     `json:"id"`
	SessionID          int64     `json:"session_id"`
	QuestionIndex      int       `json:"question_index"`
	UserID             int64     `json:"user_id"`
	NoteID             int64     `json:"note_id"`
	NoteTitle          string    `json:"note_title"`
	QuestionText       string    `json:"question_text"`
	Hint               string    `json:"hint"`
	Connects           []string  `json:"connects"`
	MasteryContext     string    `json:"mastery_context"`
	OriginalDifficulty string    `json:"original_difficulty"`
	AnswerText         string    `json:"answer_text"`
	DifficultyRating   *string   `json:"difficulty_rating"`
	AIResponseText     *string   `json:"ai_response_text"`
	IsCorrect          *bool     `json:"is_correct"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// SessionStats are the running per-rating counters kept by the active review
// engine and written onto the session row at completion.
type SessionStats struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// SessionResult carries the aggregates written when a session completes.
type SessionResult struct {
	CompletedAt       time.Time
	DurationSeconds   int
	QuestionsAnswered int
	QuestionsRated    int
	Stats             SessionStats
}

type SessionFilter struct {
	UserID   int64
	Status   string
	OrderBy  string
	OrderDir string
	Limit    int
	Offset   int
}

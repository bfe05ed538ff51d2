package review

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/studymind/studymind/internal/ai"
	apperrors "github.com/studymind/studymind/internal/errors"
	"github.com/studymind/studymind/internal/logger"
	"github.com/studymind/studymind/internal/models"
	"github.com/studymind/studymind/internal/repository"
)

// Navigation directions.
const (
	Next = 1
	Prev = -1
)

// Slot is the in-memory working state for one question within the active
// session, reconstructed from its ReviewAnswer row.
type Slot struct {
	RowID              int64
	QuestionIndex      int
	NoteID             int64
	NoteTitle          string
	QuestionText       string
	Hint               string
	Connects           []string
	MasteryContext     string
	OriginalDifficulty string

	Text      string // working answer text, may be unsaved
	SavedText string // last persisted (trimmed) answer text
	Saved     bool
	Rating    string // empty until rated
	Feedback  string // empty until AI feedback stored
	IsCorrect *bool
}

// Engine drives the per-question interaction loop of one active session. All
// state is keyed by question index so answer updates are single well-defined
// map operations. Methods are safe for concurrent use; the engine releases
// its lock across AI gateway calls and discards stale results on return.
type Engine struct {
	mu      sync.Mutex
	repo    repository.SessionRepository
	gateway ai.Gateway

	session  models.ReviewSession
	slots    map[int]*Slot
	index    int
	total    int
	stats    models.SessionStats
	reviewed int
}

// NewEngine reconstructs the in-memory working set from persisted answer
// rows. For a fresh session the rows are empty placeholders, so the index
// lands on 0 with zeroed stats; for a resumed session the stats are recounted
// from the persisted ratings and the index is set one past the highest
// answered question, clamped to bounds.
func NewEngine(repo repository.SessionRepository, gateway ai.Gateway, session models.ReviewSession, answers []models.ReviewAnswer) *Engine {
	e := &Engine{
		repo:    repo,
		gateway: gateway,
		session: session,
		slots:   make(map[int]*Slot, len(answers)),
		total:   len(answers),
	}

	highestAnswered := -1
	for _, a := range answers {
		slot := &Slot{
			RowID:              a.ID,
			QuestionIndex:      a.QuestionIndex,
			NoteID:             a.NoteID,
			NoteTitle:          a.NoteTitle,
			QuestionText:       a.QuestionText,
			Hint:               a.Hint,
			Connects:           a.Connects,
			MasteryContext:     a.MasteryContext,
			OriginalDifficulty: a.OriginalDifficulty,
			Text:               a.AnswerText,
			SavedText:          strings.TrimSpace(a.AnswerText),
			Saved:              true,
		}
		if a.DifficultyRating != nil {
			slot.Rating = *a.DifficultyRating
			e.reviewed++
			switch slot.Rating {
			case models.DifficultyEasy:
				e.stats.Easy++
			case models.DifficultyMedium:
				e.stats.Medium++
			case models.DifficultyHard:
				e.stats.Hard++
			}
		}
		if a.AIResponseText != nil {
			slot.Feedback = *a.AIResponseText
		}
		slot.IsCorrect = a.IsCorrect
		e.slots[a.QuestionIndex] = slot

		if strings.TrimSpace(a.AnswerText) != "" && a.QuestionIndex > highestAnswered {
			highestAnswered = a.QuestionIndex
		}
	}

	e.index = clamp(highestAnswered+1, 0, e.total-1)
	return e
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Session returns the session record the engine was built from.
func (e *Engine) Session() models.ReviewSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

func (e *Engine) current() *Slot {
	return e.slots[e.index]
}

// SetAnswerText updates the working answer text for the current question.
// Any edit away from the persisted text invalidates the saved flag.
func (e *Engine) SetAnswerText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	slot := e.current()
	slot.Text = text
	slot.Saved = strings.TrimSpace(text) == slot.SavedText && slot.SavedText != ""
	if strings.TrimSpace(text) == "" && slot.SavedText == "" {
		slot.Saved = true
	}
}

// SaveCurrent persists the current question's trimmed answer text. Duplicate
// saves of identical content are idempotent and produce no second write.
// With force set, even an empty or whitespace answer is flushed so the
// persisted state matches what is on screen.
func (e *Engine) SaveCurrent(ctx context.Context, force bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saveCurrentLocked(ctx, force)
}

func (e *Engine) saveCurrentLocked(ctx context.Context, force bool) error {
	slot := e.current()
	trimmed := strings.TrimSpace(slot.Text)

	if trimmed == "" && !force && slot.Saved {
		return nil
	}
	if slot.Saved && trimmed == slot.SavedText {
		return nil
	}

	if err := e.repo.UpdateAnswerText(ctx, slot.RowID, trimmed); err != nil {
		// In-memory state is left unchanged; the caller may retry.
		return apperrors.NewInternalError(err)
	}
	slot.SavedText = trimmed
	slot.Saved = true
	return nil
}

// Navigate moves to the adjacent question. A dirty non-empty answer is
// force-saved first; a failed save blocks the navigation. The index is
// clamped so navigation never leaves the question list.
func (e *Engine) Navigate(ctx context.Context, direction int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	slot := e.current()
	if !slot.Saved && strings.TrimSpace(slot.Text) != "" {
		if err := e.saveCurrentLocked(ctx, true); err != nil {
			return err
		}
	}

	e.index = clamp(e.index+direction, 0, e.total-1)
	return nil
}

// Rate records a difficulty rating for the current question. The answer must
// be saved first if unsaved text is present. Re-rating moves the aggregate
// counter from the previous level to the new one; reviewedCount increments
// only on the first rating of a question.
func (e *Engine) Rate(ctx context.Context, level string) error {
	if !models.ValidDifficulty(level) {
		return apperrors.NewValidationError("rating", "must be easy, medium or hard")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	slot := e.current()
	if !slot.Saved && strings.TrimSpace(slot.Text) != "" {
		return apperrors.NewValidationError("answer", "save your answer before rating")
	}
	if slot.Rating == level {
		return nil
	}

	if err := e.repo.UpdateAnswerRating(ctx, slot.RowID, level); err != nil {
		return apperrors.NewInternalError(err)
	}

	if slot.Rating == "" {
		e.reviewed++
	} else {
		e.bumpStats(slot.Rating, -1)
	}
	e.bumpStats(level, 1)
	slot.Rating = level
	return nil
}

func (e *Engine) bumpStats(level string, delta int) {
	switch level {
	case models.DifficultyEasy:
		e.stats.Easy += delta
	case models.DifficultyMedium:
		e.stats.Medium += delta
	case models.DifficultyHard:
		e.stats.Hard += delta
	}
}

// RequestFeedback asks the AI gateway to review the current question's saved
// answer. At most one feedback is stored per question; re-requests are
// rejected. The lock is released across the gateway call and the result is
// discarded if the user has navigated away or feedback arrived in between.
func (e *Engine) RequestFeedback(ctx context.Context) error {
	e.mu.Lock()
	slot := e.current()
	if slot.Feedback != "" {
		e.mu.Unlock()
		return apperrors.NewConflictError("feedback has already been requested for this question")
	}
	if !slot.Saved || slot.SavedText == "" {
		e.mu.Unlock()
		return apperrors.NewValidationError("answer", "save a non-empty answer before requesting feedback")
	}
	index := e.index
	rowID := slot.RowID
	question := slot.QuestionText
	answer := slot.SavedText
	noteID := slot.NoteID
	e.mu.Unlock()

	result, err := e.gateway.ReviewAnswer(ctx, question, answer, noteID)
	if err != nil {
		return apperrors.NewGatewayError(err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Guard against applying a stale gateway result to the wrong slot.
	if e.index != index || e.current().RowID != rowID || e.current().Feedback != "" {
		logger.FromContext(ctx).Debug("discarding stale feedback result: index=%d, current=%d", index, e.index)
		return nil
	}

	if err := e.repo.UpdateAnswerFeedback(ctx, rowID, result.Feedback, result.IsCorrect); err != nil {
		return apperrors.NewInternalError(err)
	}
	current := e.current()
	current.Feedback = result.Feedback
	current.IsCorrect = result.IsCorrect
	return nil
}

// FlushCurrent force-saves the current answer if it is dirty, even when the
// text is empty or whitespace. Called on session finish so the persisted
// rows match the screen before aggregates are computed.
func (e *Engine) FlushCurrent(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	slot := e.current()
	if slot.Saved {
		return nil
	}
	return e.saveCurrentLocked(ctx, true)
}

// Result computes the completion aggregates from the in-memory working set.
func (e *Engine) Result(now time.Time) models.SessionResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	answered := 0
	for _, slot := range e.slots {
		if slot.SavedText != "" {
			answered++
		}
	}
	duration := int(now.Sub(e.session.StartedAt).Seconds())
	if duration < 0 {
		duration = 0
	}
	return models.SessionResult{
		CompletedAt:       now,
		DurationSeconds:   duration,
		QuestionsAnswered: answered,
		QuestionsRated:    e.reviewed,
		Stats:             e.stats,
	}
}

// RatingsByNote groups the recorded ratings by the note each question came
// from, for next-review scheduling at completion time.
func (e *Engine) RatingsByNote() map[int64][]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[int64][]string)
	for _, slot := range e.slots {
		if slot.Rating != "" {
			out[slot.NoteID] = append(out[slot.NoteID], slot.Rating)
		}
	}
	return out
}

// SlotView is the per-question view exposed to the UI layer.
type SlotView struct {
	QuestionIndex      int      `json:"question_index"`
	NoteID             int64    `json:"note_id"`
	NoteTitle          string   `json:"note_title"`
	QuestionText       string   `json:"question_text"`
	Hint               string   `json:"hint"`
	Connects           []string `json:"connects"`
	MasteryContext     string   `json:"mastery_context"`
	OriginalDifficulty string   `json:"original_difficulty"`
	AnswerText         string   `json:"answer_text"`
	IsAnswerSaved      bool     `json:"is_answer_saved"`
	DifficultyRating   string   `json:"difficulty_rating,omitempty"`
	Feedback           string   `json:"feedback,omitempty"`
	IsCorrect          *bool    `json:"is_correct,omitempty"`
}

// View is the active-session view model exposed to the UI layer.
type View struct {
	SessionID         int64               `json:"session_id"`
	SessionName       string              `json:"session_name"`
	Index             int                 `json:"index"`
	Total             int                 `json:"total"`
	Question          SlotView            `json:"question"`
	Stats             models.SessionStats `json:"stats"`
	ReviewedCount     int                 `json:"reviewed_count"`
	FormattedDuration string              `json:"formatted_duration"`
}

// View snapshots the engine state for the UI layer.
func (e *Engine) View(now time.Time) View {
	e.mu.Lock()
	defer e.mu.Unlock()

	slot := e.current()
	return View{
		SessionID:   e.session.ID,
		SessionName: e.session.SessionName,
		Index:       e.index,
		Total:       e.total,
		Question: SlotView{
			QuestionIndex:      slot.QuestionIndex,
			NoteID:             slot.NoteID,
			NoteTitle:          slot.NoteTitle,
			QuestionText:       slot.QuestionText,
			Hint:               slot.Hint,
			Connects:           slot.Connects,
			MasteryContext:     slot.MasteryContext,
			OriginalDifficulty: slot.OriginalDifficulty,
			AnswerText:         slot.Text,
			IsAnswerSaved:      slot.Saved,
			DifficultyRating:   slot.Rating,
			Feedback:           slot.Feedback,
			IsCorrect:          slot.IsCorrect,
		},
		Stats:             e.stats,
		ReviewedCount:     e.reviewed,
		FormattedDuration: FormatDuration(now.Sub(e.session.StartedAt)),
	}
}

// FormatDuration renders an elapsed session duration as mm:ss, or h:mm:ss
// once a session passes the hour mark.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

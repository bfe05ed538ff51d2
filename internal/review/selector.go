package review

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/studymind/studymind/internal/errors"
	"github.com/studymind/studymind/internal/models"
)

// Question type filter values.
const (
	TypeAll       = "all"
	TypeDefault   = "default"
	TypeGenerated = "generated"
)

// Count filter values. "all" keeps every matching question.
const (
	CountFive = "5"
	CountTen  = "10"
	CountAll  = "all"
)

// Setup holds a user's review-setup selections.
type Setup struct {
	NoteIDs      []int64
	Difficulty   string // easy, medium, hard or all
	QuestionType string // all, default or generated
	Count        string // 5, 10 or all
}

// Validate checks the setup selections against the allowed filter values.
func (s Setup) Validate() error {
	if len(s.NoteIDs) == 0 {
		return apperrors.NewValidationError("notes", "select at least one note")
	}
	switch s.Difficulty {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard, models.DifficultyAll:
	default:
		return apperrors.NewValidationError("difficulty", "must be easy, medium, hard or all")
	}
	switch s.QuestionType {
	case TypeAll, TypeDefault, TypeGenerated:
	default:
		return apperrors.NewValidationError("question_type", "must be all, default or generated")
	}
	switch s.Count {
	case CountFive, CountTen, CountAll:
	default:
		return apperrors.NewValidationError("count", "must be 5, 10 or all")
	}
	return nil
}

// limit returns the truncation limit, or 0 for no truncation.
func (s Setup) limit() int {
	if s.Count == CountAll {
		return 0
	}
	n, _ := strconv.Atoi(s.Count)
	return n
}

// FilterQuestions applies the difficulty and question-type filters. It is a
// pure function so the available-question count can be recomputed, without
// side effects, every time the user changes a filter.
func FilterQuestions(questions []models.Question, setup Setup) []models.Question {
	var out []models.Question
	for _, q := range questions {
		if setup.Difficulty != models.DifficultyAll && q.Difficulty != setup.Difficulty {
			continue
		}
		if setup.QuestionType == TypeDefault && !q.IsDefault {
			continue
		}
		if setup.QuestionType == TypeGenerated && q.IsDefault {
			continue
		}
		out = append(out, q)
	}
	return out
}

// Selector turns setup selections into a concrete ordered question list and a
// generated session name.
type Selector struct {
	rng *rand.Rand
	now func() time.Time
}

// Option configures a Selector.
type Option func(*Selector)

// WithRand sets the random source used for shuffling. Tests use a seeded
// source for reproducible order.
func WithRand(rng *rand.Rand) Option {
	return func(s *Selector) {
		s.rng = rng
	}
}

// WithNow sets the clock used for session-name timestamps.
func WithNow(now func() time.Time) Option {
	return func(s *Selector) {
		s.now = now
	}
}

// NewSelector creates a Selector with the given options.
func NewSelector(opts ...Option) *Selector {
	s := &Selector{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build flattens the filtered questions across all selected notes, shuffles
// them, then truncates to the requested count. Shuffle order is not
// reproducible across sessions; a retried session re-derives order from its
// snapshotted answers instead.
func (s *Selector) Build(questions []models.Question, setup Setup) ([]models.Question, error) {
	if err := setup.Validate(); err != nil {
		return nil, err
	}

	filtered := FilterQuestions(questions, setup)
	if len(filtered) == 0 {
		return nil, apperrors.NewValidationError("questions", "no questions match the selected filters")
	}

	shuffled := make([]models.Question, len(filtered))
	copy(shuffled, filtered)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if limit := setup.limit(); limit > 0 && len(shuffled) > limit {
		shuffled = shuffled[:limit]
	}
	return shuffled, nil
}

// SessionName generates a human-readable session name from the first selected
// note's year level, its subject, and the current local time, e.g.
// "SEC Mathematics 31-AUG-2026 09:15 PM".
func (s *Selector) SessionName(notes []models.Note, subject *models.Subject) string {
	subjectName := "General"
	if subject != nil && subject.Name != "" {
		subjectName = subject.Name
	}

	var parts []string
	if len(notes) > 0 {
		if code := yearLevelCode(notes[0].YearLevel); code != "" {
			parts = append(parts, code)
		}
	}
	parts = append(parts, subjectName, formatSessionTime(s.now()))
	return strings.Join(parts, " ")
}

func yearLevelCode(level int) string {
	switch level {
	case models.YearPrimary:
		return "PRI"
	case models.YearSecondary:
		return "SEC"
	case models.YearTertiary:
		return "TER"
	case models.YearProfessional:
		return "PRO"
	default:
		return ""
	}
}

// formatSessionTime renders t as "DD-MON-YYYY hh:mm AM/PM".
func formatSessionTime(t time.Time) string {
	return fmt.Sprintf("%s %s",
		strings.ToUpper(t.Format("02-Jan-2006")),
		t.Format("03:04 PM"))
}

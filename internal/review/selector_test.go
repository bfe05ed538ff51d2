package review_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymind/studymind/internal/models"
	"github.com/studymind/studymind/internal/review"
)

func makeQuestions() []models.Question {
	return []models.Question{
		{ID: 1, NoteID: 10, Text: "q1", Difficulty: models.DifficultyEasy, IsDefault: true},
		{ID: 2, NoteID: 10, Text: "q2", Difficulty: models.DifficultyMedium, IsDefault: true},
		{ID: 3, NoteID: 10, Text: "q3", Difficulty: models.DifficultyHard, IsDefault: false},
		{ID: 4, NoteID: 11, Text: "q4", Difficulty: models.DifficultyEasy, IsDefault: false},
		{ID: 5, NoteID: 11, Text: "q5", Difficulty: models.DifficultyMedium, IsDefault: false},
		{ID: 6, NoteID: 11, Text: "q6", Difficulty: models.DifficultyMedium, IsDefault: true},
	}
}

func validSetup() review.Setup {
	return review.Setup{
		NoteIDs:      []int64{10, 11},
		Difficulty:   models.DifficultyAll,
		QuestionType: review.TypeAll,
		Count:        review.CountAll,
	}
}

func TestSetupValidate(t *testing.T) {
	require.NoError(t, validSetup().Validate())

	noNotes := validSetup()
	noNotes.NoteIDs = nil
	assert.Error(t, noNotes.Validate(), "empty note selection should be rejected")

	badDifficulty := validSetup()
	badDifficulty.Difficulty = "impossible"
	assert.Error(t, badDifficulty.Validate())

	badType := validSetup()
	badType.QuestionType = "bonus"
	assert.Error(t, badType.Validate())

	badCount := validSetup()
	badCount.Count = "7"
	assert.Error(t, badCount.Validate(), "count outside 5/10/all should be rejected")
}

func TestFilterQuestions_Difficulty(t *testing.T) {
	setup := validSetup()
	setup.Difficulty = models.DifficultyMedium

	filtered := review.FilterQuestions(makeQuestions(), setup)

	require.Len(t, filtered, 3)
	for _, q := range filtered {
		assert.Equal(t, models.DifficultyMedium, q.Difficulty)
	}
}

func TestFilterQuestions_QuestionType(t *testing.T) {
	setup := validSetup()
	setup.QuestionType = review.TypeDefault
	defaults := review.FilterQuestions(makeQuestions(), setup)
	require.Len(t, defaults, 3)
	for _, q := range defaults {
		assert.True(t, q.IsDefault)
	}

	setup.QuestionType = review.TypeGenerated
	generated := review.FilterQuestions(makeQuestions(), setup)
	require.Len(t, generated, 3)
	for _, q := range generated {
		assert.False(t, q.IsDefault)
	}
}

func TestFilterQuestions_Combined(t *testing.T) {
	setup := validSetup()
	setup.Difficulty = models.DifficultyMedium
	setup.QuestionType = review.TypeDefault

	filtered := review.FilterQuestions(makeQuestions(), setup)

	require.Len(t, filtered, 2, "both filters should apply together")
	assert.Equal(t, int64(2), filtered[0].ID)
	assert.Equal(t, int64(6), filtered[1].ID)
}

func TestSelectorBuild_ShufflesAndTruncates(t *testing.T) {
	selector := review.NewSelector(review.WithRand(rand.New(rand.NewSource(42))))

	setup := validSetup()
	setup.Count = review.CountFive

	// Build a pool larger than the limit so truncation must happen.
	var pool []models.Question
	for i := int64(1); i <= 12; i++ {
		pool = append(pool, models.Question{ID: i, NoteID: 10, Text: "q", Difficulty: models.DifficultyEasy})
	}

	selected, err := selector.Build(pool, setup)
	require.NoError(t, err)
	assert.Len(t, selected, 5, "selection should be truncated to the requested count")

	seen := map[int64]bool{}
	for _, q := range selected {
		assert.False(t, seen[q.ID], "no question should appear twice")
		seen[q.ID] = true
	}
}

func TestSelectorBuild_AllKeepsEverything(t *testing.T) {
	selector := review.NewSelector(review.WithRand(rand.New(rand.NewSource(1))))

	selected, err := selector.Build(makeQuestions(), validSetup())
	require.NoError(t, err)
	assert.Len(t, selected, 6)
}

func TestSelectorBuild_NoMatches(t *testing.T) {
	selector := review.NewSelector()

	setup := validSetup()
	setup.Difficulty = models.DifficultyHard
	setup.QuestionType = review.TypeDefault

	_, err := selector.Build(makeQuestions(), setup)
	assert.Error(t, err, "empty result after filtering should be an error, not an empty session")
}

func TestSessionName(t *testing.T) {
	fixed := time.Date(2026, time.August, 31, 21, 15, 0, 0, time.UTC)
	selector := review.NewSelector(review.WithNow(func() time.Time { return fixed }))

	notes := []models.Note{{ID: 10, YearLevel: models.YearSecondary}}
	subject := &models.Subject{ID: 1, Name: "Mathematics"}

	name := selector.SessionName(notes, subject)
	assert.Equal(t, "SEC Mathematics 31-AUG-2026 09:15 PM", name)
}

func TestSessionName_Defaults(t *testing.T) {
	fixed := time.Date(2026, time.January, 2, 9, 5, 0, 0, time.UTC)
	selector := review.NewSelector(review.WithNow(func() time.Time { return fixed }))

	name := selector.SessionName([]models.Note{{ID: 10}}, nil)
	assert.Equal(t, "General 02-JAN-2026 09:05 AM", name, "missing subject and year level should fall back cleanly")
}

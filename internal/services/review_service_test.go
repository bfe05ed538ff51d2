package services_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymind/studymind/internal/ai"
	"github.com/studymind/studymind/internal/models"
	"github.com/studymind/studymind/internal/repository"
	"github.com/studymind/studymind/internal/repository/memory"
	"github.com/studymind/studymind/internal/review"
	"github.com/studymind/studymind/internal/services"
)

type fixture struct {
	store   *memory.Store
	service services.ReviewService
	userID  int64
	noteIDs []int64
}

// newFixture seeds one user with two notes and six questions and returns a
// review service over the in-memory store with a deterministic shuffle.
func newFixture(t *testing.T, opts ...services.ReviewServiceOption) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	user, err := store.Users().Upsert(ctx, "alice")
	require.NoError(t, err)
	subject, err := store.Subjects().Upsert(ctx, "Biology")
	require.NoError(t, err)

	var noteIDs []int64
	for _, title := range []string{"Cell Structure", "Photosynthesis"} {
		id, err := store.Notes().Insert(ctx, models.Note{
			UserID:    user.ID,
			SubjectID: subject.ID,
			Title:     title,
			Content:   "content for " + title,
			YearLevel: models.YearSecondary,
		})
		require.NoError(t, err)
		noteIDs = append(noteIDs, id)
	}

	var questions []models.Question
	difficulties := []string{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard}
	for i := 0; i < 6; i++ {
		questions = append(questions, models.Question{
			NoteID:     noteIDs[i%2],
			Text:       "question",
			Difficulty: difficulties[i%3],
			IsDefault:  i < 3,
		})
	}
	_, err = store.Questions().InsertBatch(ctx, questions)
	require.NoError(t, err)

	opts = append([]services.ReviewServiceOption{
		services.WithSelector(review.NewSelector(review.WithRand(rand.New(rand.NewSource(1))))),
	}, opts...)

	service := services.NewReviewService(
		store.Sessions(), store.Notes(), store.Questions(), store.Subjects(),
		ai.NewStaticGateway(), opts...,
	)
	return &fixture{store: store, service: service, userID: user.ID, noteIDs: noteIDs}
}

func allSetup(f *fixture) review.Setup {
	return review.Setup{
		NoteIDs:      f.noteIDs,
		Difficulty:   models.DifficultyAll,
		QuestionType: review.TypeAll,
		Count:        review.CountAll,
	}
}

func TestAvailableQuestions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	count, err := f.service.AvailableQuestions(ctx, f.userID, allSetup(f))
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	hard := allSetup(f)
	hard.Difficulty = models.DifficultyHard
	count, err = f.service.AvailableQuestions(ctx, f.userID, hard)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStartSession_CreatesPlaceholderRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.service.StartSession(ctx, f.userID, allSetup(f))
	require.NoError(t, err)
	assert.Equal(t, 6, view.Total)
	assert.Equal(t, 0, view.Index)
	assert.Contains(t, view.SessionName, "SEC Biology")

	rows, err := f.store.Sessions().AnswersForSession(ctx, view.SessionID)
	require.NoError(t, err)
	require.Len(t, rows, 6, "every selected question gets a placeholder row up front")
	for i, row := range rows {
		assert.Equal(t, i, row.QuestionIndex)
		assert.Empty(t, row.AnswerText)
		assert.Nil(t, row.DifficultyRating)
		assert.NotEmpty(t, row.QuestionText, "question content is snapshotted onto the row")
		assert.NotEmpty(t, row.NoteTitle)
	}

	session, err := f.store.Sessions().InProgressSession(ctx, f.userID)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, 6, session.TotalQuestions)
}

func TestStartSession_ConflictWithInProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.StartSession(ctx, f.userID, allSetup(f))
	require.NoError(t, err)

	_, err = f.service.StartSession(ctx, f.userID, allSetup(f))
	assert.Error(t, err, "second session for the same user must be rejected")
}

func TestStartSession_NoMatchingQuestions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// The second note's only hard question is generated, so hard+default
	// filters down to nothing.
	setup := allSetup(f)
	setup.NoteIDs = f.noteIDs[1:]
	setup.Difficulty = models.DifficultyHard
	setup.QuestionType = review.TypeDefault

	_, err := f.service.StartSession(ctx, f.userID, setup)
	require.Error(t, err)

	session, err := f.store.Sessions().InProgressSession(ctx, f.userID)
	require.NoError(t, err)
	assert.Nil(t, session, "no session row should exist after a failed start")
}

func TestResumeSession_SurvivesRestart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.service.StartSession(ctx, f.userID, allSetup(f))
	require.NoError(t, err)

	_, err = f.service.SetAnswerText(ctx, f.userID, "membrane")
	require.NoError(t, err)
	_, err = f.service.SaveAnswer(ctx, f.userID, false)
	require.NoError(t, err)
	_, err = f.service.Navigate(ctx, f.userID, "next")
	require.NoError(t, err)

	// A fresh service over the same store simulates a process restart.
	restarted := services.NewReviewService(
		f.store.Sessions(), f.store.Notes(), f.store.Questions(), f.store.Subjects(),
		ai.NewStaticGateway(),
	)

	resumed, err := restarted.ResumeSession(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, view.SessionID, resumed.SessionID)
	assert.Equal(t, 1, resumed.Index, "resume lands one past the highest answered question")
}

func TestResumeSession_NothingToResume(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.ResumeSession(context.Background(), f.userID)
	assert.Error(t, err)
}

func TestDiscardInProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.StartSession(ctx, f.userID, allSetup(f))
	require.NoError(t, err)

	require.NoError(t, f.service.DiscardInProgress(ctx, f.userID))

	session, err := f.store.Sessions().InProgressSession(ctx, f.userID)
	require.NoError(t, err)
	assert.Nil(t, session)

	// Discarding freed the slot, so a new session can start.
	_, err = f.service.StartSession(ctx, f.userID, allSetup(f))
	assert.NoError(t, err)
}

func TestFinishSession_Aggregates(t *testing.T) {
	start := time.Date(2026, time.August, 31, 10, 0, 0, 0, time.UTC)
	clock := start
	f := newFixture(t, services.WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	_, err := f.service.StartSession(ctx, f.userID, allSetup(f))
	require.NoError(t, err)

	ratings := []string{models.DifficultyEasy, models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard}
	for _, rating := range ratings {
		_, err = f.service.SetAnswerText(ctx, f.userID, "answer")
		require.NoError(t, err)
		_, err = f.service.SaveAnswer(ctx, f.userID, false)
		require.NoError(t, err)
		_, err = f.service.RateAnswer(ctx, f.userID, rating)
		require.NoError(t, err)
		_, err = f.service.Navigate(ctx, f.userID, "next")
		require.NoError(t, err)
	}

	clock = start.Add(4 * time.Minute)
	summary, err := f.service.FinishSession(ctx, f.userID)
	require.NoError(t, err)

	assert.True(t, summary.Persisted)
	assert.Equal(t, models.SessionCompleted, summary.Session.SessionStatus)
	assert.Equal(t, 4, summary.Session.QuestionsAnswered)
	assert.Equal(t, 4, summary.Session.QuestionsRated)
	assert.Equal(t, 2, summary.Session.EasyRatings)
	assert.Equal(t, 1, summary.Session.MediumRatings)
	assert.Equal(t, 1, summary.Session.HardRatings)
	require.NotNil(t, summary.Session.DurationSeconds)
	assert.Equal(t, 240, *summary.Session.DurationSeconds)

	// The engine slot is released; active operations now fail.
	_, err = f.service.ActiveView(ctx, f.userID)
	assert.Error(t, err)

	stored, err := f.store.Sessions().GetSession(ctx, summary.Session.ID, f.userID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.SessionCompleted, stored.SessionStatus)
}

func TestFinishSession_StampsNextReview(t *testing.T) {
	start := time.Date(2026, time.August, 31, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, services.WithClock(func() time.Time { return start }))
	ctx := context.Background()

	_, err := f.service.StartSession(ctx, f.userID, allSetup(f))
	require.NoError(t, err)

	// Rate everything hard so every touched note lands on the short interval.
	for i := 0; i < 6; i++ {
		_, err = f.service.SetAnswerText(ctx, f.userID, "answer")
		require.NoError(t, err)
		_, err = f.service.SaveAnswer(ctx, f.userID, false)
		require.NoError(t, err)
		_, err = f.service.RateAnswer(ctx, f.userID, models.DifficultyHard)
		require.NoError(t, err)
		_, err = f.service.Navigate(ctx, f.userID, "next")
		require.NoError(t, err)
	}

	_, err = f.service.FinishSession(ctx, f.userID)
	require.NoError(t, err)

	for _, noteID := range f.noteIDs {
		note, err := f.store.Notes().Get(ctx, noteID, f.userID)
		require.NoError(t, err)
		require.NotNil(t, note.NextReviewAt, "completion should schedule the next review")
		assert.Equal(t, start.Add(24*time.Hour), *note.NextReviewAt)
	}
}

// failingSessions wraps a real repository and fails the completion write.
type failingSessions struct {
	repository.SessionRepository
}

func (f *failingSessions) CompleteSession(context.Context, int64, models.SessionResult) error {
	return errors.New("write failed")
}

func TestFinishSession_CompletionFailureStillTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	broken := services.NewReviewService(
		&failingSessions{SessionRepository: f.store.Sessions()},
		f.store.Notes(), f.store.Questions(), f.store.Subjects(),
		ai.NewStaticGateway(),
		services.WithSelector(review.NewSelector(review.WithRand(rand.New(rand.NewSource(1))))),
	)

	_, err := broken.StartSession(ctx, f.userID, allSetup(f))
	require.NoError(t, err)

	summary, err := broken.FinishSession(ctx, f.userID)
	require.NoError(t, err, "a failed completion write still finishes the session for the user")
	assert.False(t, summary.Persisted)
	assert.Equal(t, models.SessionCompleted, summary.Session.SessionStatus)

	// The server-side record is left in progress; the divergence is known.
	stored, err := f.store.Sessions().InProgressSession(ctx, f.userID)
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestRetrySession_ReplaysSnapshottedQuestions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.StartSession(ctx, f.userID, allSetup(f))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = f.service.SetAnswerText(ctx, f.userID, "old answer")
		require.NoError(t, err)
		_, err = f.service.SaveAnswer(ctx, f.userID, false)
		require.NoError(t, err)
		_, err = f.service.Navigate(ctx, f.userID, "next")
		require.NoError(t, err)
	}
	_, err = f.service.FinishSession(ctx, f.userID)
	require.NoError(t, err)

	originalRows, err := f.store.Sessions().AnswersForSession(ctx, first.SessionID)
	require.NoError(t, err)

	retried, err := f.service.RetrySession(ctx, f.userID, first.SessionID)
	require.NoError(t, err)
	assert.NotEqual(t, first.SessionID, retried.SessionID)
	assert.Equal(t, first.Total, retried.Total)
	assert.Equal(t, 0, retried.Index, "retry starts from the first question")

	retriedRows, err := f.store.Sessions().AnswersForSession(ctx, retried.SessionID)
	require.NoError(t, err)
	require.Len(t, retriedRows, len(originalRows))
	for i := range retriedRows {
		assert.Equal(t, originalRows[i].QuestionText, retriedRows[i].QuestionText, "question order and content come from the snapshot")
		assert.Empty(t, retriedRows[i].AnswerText, "retried answers start blank")
		assert.Nil(t, retriedRows[i].DifficultyRating)
	}
}

func TestRetrySession_RejectsInProgressOriginal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.StartSession(ctx, f.userID, allSetup(f))
	require.NoError(t, err)

	_, err = f.service.RetrySession(ctx, f.userID, first.SessionID)
	assert.Error(t, err, "retrying while a session is active must be rejected")
}

func TestNavigate_InvalidDirection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.StartSession(ctx, f.userID, allSetup(f))
	require.NoError(t, err)

	_, err = f.service.Navigate(ctx, f.userID, "sideways")
	assert.Error(t, err)
}

func TestActiveOperations_RequireActiveSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.ActiveView(ctx, f.userID)
	assert.Error(t, err)
	_, err = f.service.SaveAnswer(ctx, f.userID, false)
	assert.Error(t, err)
	_, err = f.service.RateAnswer(ctx, f.userID, models.DifficultyEasy)
	assert.Error(t, err)
	_, err = f.service.FinishSession(ctx, f.userID)
	assert.Error(t, err)
}

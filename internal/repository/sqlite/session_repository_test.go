package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/studymind/studymind/internal/models"
	"github.com/studymind/studymind/internal/repository"
	"github.com/studymind/studymind/internal/repository/sqlite"
	"github.com/studymind/studymind/internal/testutil"
)

type SessionRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.SessionRepository
}

func (s *SessionRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewSessionRepository(s.db)
}

func (s *SessionRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *SessionRepositorySuite) setupUser() int64 {
	ctx := context.Background()
	_, err := s.db.ExecContext(ctx, `INSERT INTO users (username) VALUES (?)`, "testuser")
	s.Require().NoError(err)

	var userID int64
	err = s.db.QueryRowContext(ctx, `SELECT id FROM users WHERE username = ?`, "testuser").Scan(&userID)
	s.Require().NoError(err)
	return userID
}

func (s *SessionRepositorySuite) newSession(userID int64, total int) models.ReviewSession {
	return models.ReviewSession{
		UserID:             userID,
		SessionName:        "SEC Biology 31-AUG-2026 09:15 PM",
		SelectedNotes:      []int64{1, 2},
		SelectedDifficulty: models.DifficultyAll,
		TotalQuestions:     total,
		SessionStatus:      models.SessionInProgress,
		StartedAt:          time.Now().UTC().Truncate(time.Second),
	}
}

func (s *SessionRepositorySuite) placeholders(sessionID, userID int64, total int) []models.ReviewAnswer {
	answers := make([]models.ReviewAnswer, 0, total)
	for i := 0; i < total; i++ {
		answers = append(answers, models.ReviewAnswer{
			SessionID:          sessionID,
			QuestionIndex:      i,
			UserID:             userID,
			NoteID:             1,
			NoteTitle:          "Cell Structure",
			QuestionText:       "what does the mitochondria do?",
			Hint:               "think energy",
			Connects:           []string{"ATP", "respiration"},
			OriginalDifficulty: models.DifficultyMedium,
		})
	}
	return answers
}

func (s *SessionRepositorySuite) TestInsertAndGetSession() {
	ctx := context.Background()
	userID := s.setupUser()

	id, err := s.repo.InsertSession(ctx, s.newSession(userID, 5))
	s.Require().NoError(err)
	s.Assert().Greater(id, int64(0))

	got, err := s.repo.GetSession(ctx, id, userID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("SEC Biology 31-AUG-2026 09:15 PM", got.SessionName)
	s.Assert().Equal([]int64{1, 2}, got.SelectedNotes)
	s.Assert().Equal(5, got.TotalQuestions)
	s.Assert().Equal(models.SessionInProgress, got.SessionStatus)
	s.Assert().Nil(got.CompletedAt)

	// Wrong user sees nothing.
	other, err := s.repo.GetSession(ctx, id, userID+1)
	s.Require().NoError(err)
	s.Assert().Nil(other)
}

func (s *SessionRepositorySuite) TestOneInProgressPerUser() {
	ctx := context.Background()
	userID := s.setupUser()

	_, err := s.repo.InsertSession(ctx, s.newSession(userID, 3))
	s.Require().NoError(err)

	// The partial unique index rejects a second in-progress row.
	_, err = s.repo.InsertSession(ctx, s.newSession(userID, 3))
	s.Assert().Error(err)
}

func (s *SessionRepositorySuite) TestInProgressSession() {
	ctx := context.Background()
	userID := s.setupUser()

	found, err := s.repo.InProgressSession(ctx, userID)
	s.Require().NoError(err)
	s.Assert().Nil(found)

	id, err := s.repo.InsertSession(ctx, s.newSession(userID, 3))
	s.Require().NoError(err)

	found, err = s.repo.InProgressSession(ctx, userID)
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Assert().Equal(id, found.ID)

	s.Require().NoError(s.repo.AbandonSession(ctx, id))

	found, err = s.repo.InProgressSession(ctx, userID)
	s.Require().NoError(err)
	s.Assert().Nil(found, "abandoned sessions are not in progress")
}

func (s *SessionRepositorySuite) TestInsertAnswersAndReadBack() {
	ctx := context.Background()
	userID := s.setupUser()

	id, err := s.repo.InsertSession(ctx, s.newSession(userID, 4))
	s.Require().NoError(err)

	ids, err := s.repo.InsertAnswers(ctx, s.placeholders(id, userID, 4))
	s.Require().NoError(err)
	s.Assert().Len(ids, 4)

	rows, err := s.repo.AnswersForSession(ctx, id)
	s.Require().NoError(err)
	s.Require().Len(rows, 4)
	for i, row := range rows {
		s.Assert().Equal(i, row.QuestionIndex, "answers come back ordered by question index")
		s.Assert().Empty(row.AnswerText)
		s.Assert().Nil(row.DifficultyRating)
		s.Assert().Equal([]string{"ATP", "respiration"}, row.Connects)
	}
}

func (s *SessionRepositorySuite) TestDuplicateQuestionIndexRejected() {
	ctx := context.Background()
	userID := s.setupUser()

	id, err := s.repo.InsertSession(ctx, s.newSession(userID, 2))
	s.Require().NoError(err)

	answers := s.placeholders(id, userID, 2)
	answers[1].QuestionIndex = 0
	_, err = s.repo.InsertAnswers(ctx, answers)
	s.Assert().Error(err, "two rows for the same question index must be rejected")
}

func (s *SessionRepositorySuite) TestAnswerUpdates() {
	ctx := context.Background()
	userID := s.setupUser()

	id, err := s.repo.InsertSession(ctx, s.newSession(userID, 2))
	s.Require().NoError(err)
	ids, err := s.repo.InsertAnswers(ctx, s.placeholders(id, userID, 2))
	s.Require().NoError(err)

	s.Require().NoError(s.repo.UpdateAnswerText(ctx, ids[0], "it makes ATP"))
	s.Require().NoError(s.repo.UpdateAnswerRating(ctx, ids[0], models.DifficultyEasy))
	correct := true
	s.Require().NoError(s.repo.UpdateAnswerFeedback(ctx, ids[0], "Correct, well put.", &correct))

	rows, err := s.repo.AnswersForSession(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal("it makes ATP", rows[0].AnswerText)
	s.Require().NotNil(rows[0].DifficultyRating)
	s.Assert().Equal(models.DifficultyEasy, *rows[0].DifficultyRating)
	s.Require().NotNil(rows[0].AIResponseText)
	s.Assert().Equal("Correct, well put.", *rows[0].AIResponseText)
	s.Require().NotNil(rows[0].IsCorrect)
	s.Assert().True(*rows[0].IsCorrect)

	// The second row is untouched.
	s.Assert().Empty(rows[1].AnswerText)
	s.Assert().Nil(rows[1].DifficultyRating)
}

func (s *SessionRepositorySuite) TestCompleteSession() {
	ctx := context.Background()
	userID := s.setupUser()

	id, err := s.repo.InsertSession(ctx, s.newSession(userID, 5))
	s.Require().NoError(err)

	completedAt := time.Now().UTC().Truncate(time.Second)
	err = s.repo.CompleteSession(ctx, id, models.SessionResult{
		CompletedAt:       completedAt,
		DurationSeconds:   300,
		QuestionsAnswered: 4,
		QuestionsRated:    4,
		Stats:             models.SessionStats{Easy: 2, Medium: 1, Hard: 1},
	})
	s.Require().NoError(err)

	got, err := s.repo.GetSession(ctx, id, userID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal(models.SessionCompleted, got.SessionStatus)
	s.Require().NotNil(got.CompletedAt)
	s.Require().NotNil(got.DurationSeconds)
	s.Assert().Equal(300, *got.DurationSeconds)
	s.Assert().Equal(4, got.QuestionsAnswered)
	s.Assert().Equal(4, got.QuestionsRated)
	s.Assert().Equal(2, got.EasyRatings)
	s.Assert().Equal(1, got.MediumRatings)
	s.Assert().Equal(1, got.HardRatings)
}

func (s *SessionRepositorySuite) TestListSessions() {
	ctx := context.Background()
	userID := s.setupUser()

	first, err := s.repo.InsertSession(ctx, s.newSession(userID, 3))
	s.Require().NoError(err)
	s.Require().NoError(s.repo.CompleteSession(ctx, first, models.SessionResult{
		CompletedAt: time.Now(), DurationSeconds: 60,
	}))

	second := s.newSession(userID, 4)
	second.StartedAt = second.StartedAt.Add(time.Minute)
	_, err = s.repo.InsertSession(ctx, second)
	s.Require().NoError(err)

	all, err := s.repo.ListSessions(ctx, models.SessionFilter{UserID: userID})
	s.Require().NoError(err)
	s.Assert().Len(all, 2)

	completed, err := s.repo.ListSessions(ctx, models.SessionFilter{UserID: userID, Status: models.SessionCompleted})
	s.Require().NoError(err)
	s.Require().Len(completed, 1)
	s.Assert().Equal(first, completed[0].ID)
}

func TestSessionRepositorySuite(t *testing.T) {
	suite.Run(t, new(SessionRepositorySuite))
}

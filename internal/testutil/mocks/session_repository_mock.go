package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/studymind/studymind/internal/models"
)

// MockSessionRepository is a mock implementation of repository.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) InsertSession(ctx context.Context, session models.ReviewSession) (int64, error) {
	args := m.Called(ctx, session)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) GetSession(ctx context.Context, id int64, userID int64) (*models.ReviewSession, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewSession), args.Error(1)
}

func (m *MockSessionRepository) InProgressSession(ctx context.Context, userID int64) (*models.ReviewSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewSession), args.Error(1)
}

func (m *MockSessionRepository) ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.ReviewSession, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewSession), args.Error(1)
}

func (m *MockSessionRepository) CompleteSession(ctx context.Context, id int64, result models.SessionResult) error {
	args := m.Called(ctx, id, result)
	return args.Error(0)
}

func (m *MockSessionRepository) AbandonSession(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionRepository) InsertAnswers(ctx context.Context, answers []models.ReviewAnswer) ([]int64, error) {
	args := m.Called(ctx, answers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockSessionRepository) AnswersForSession(ctx context.Context, sessionID int64) ([]models.ReviewAnswer, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewAnswer), args.Error(1)
}

func (m *MockSessionRepository) UpdateAnswerText(ctx context.Context, answerID int64, text string) error {
	args := m.Called(ctx, answerID, text)
	return args.Error(0)
}

func (m *MockSessionRepository) UpdateAnswerRating(ctx context.Context, answerID int64, rating string) error {
	args := m.Called(ctx, answerID, rating)
	return args.Error(0)
}

func (m *MockSessionRepository) UpdateAnswerFeedback(ctx context.Context, answerID int64, feedback string, isCorrect *bool) error {
	args := m.Called(ctx, answerID, feedback, isCorrect)
	return args.Error(0)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/studymind/studymind/internal/models"
)

// MockQuestionRepository is a mock implementation of repository.QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) InsertBatch(ctx context.Context, questions []models.Question) ([]int64, error) {
	args := m.Called(ctx, questions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockQuestionRepository) QuestionsForNote(ctx context.Context, noteID int64) ([]models.Question, error) {
	args := m.Called(ctx, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockQuestionRepository) QuestionsForNotes(ctx context.Context, noteIDs []int64) ([]models.Question, error) {
	args := m.Called(ctx, noteIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/studymind/studymind/internal/ai"
	"github.com/studymind/studymind/internal/models"
)

// MockGateway is a mock implementation of ai.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) GenerateEmbedding(ctx context.Context, text, title string) ([]float32, error) {
	args := m.Called(ctx, text, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockGateway) AnalyzeContent(ctx context.Context, text, title string) (*ai.Analysis, error) {
	args := m.Called(ctx, text, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ai.Analysis), args.Error(1)
}

func (m *MockGateway) GenerateQuestions(ctx context.Context, note models.Note, opts ai.QuestionOptions) ([]ai.GeneratedQuestion, error) {
	args := m.Called(ctx, note, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ai.GeneratedQuestion), args.Error(1)
}

func (m *MockGateway) ReviewAnswer(ctx context.Context, question, answer string, noteID int64) (*ai.AnswerReview, error) {
	args := m.Called(ctx, question, answer, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ai.AnswerReview), args.Error(1)
}

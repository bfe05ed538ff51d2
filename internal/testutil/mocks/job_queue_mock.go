package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/studymind/studymind/internal/ai"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueQuestionGeneration(noteID, userID int64, opts ai.QuestionOptions, markDefault bool) error {
	args := m.Called(noteID, userID, opts, markDefault)
	return args.Error(0)
}

func (m *MockJobQueue) EnqueueNoteAnalysis(noteID, userID int64) error {
	args := m.Called(noteID, userID)
	return args.Error(0)
}

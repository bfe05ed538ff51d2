package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/studymind/studymind/internal/ai"
	"github.com/studymind/studymind/internal/models"
	"github.com/studymind/studymind/internal/services"
	"github.com/studymind/studymind/internal/testutil/mocks"
)

func TestQuestionsForNote_OwnershipEnforced(t *testing.T) {
	notes := new(mocks.MockNoteRepository)
	questions := new(mocks.MockQuestionRepository)
	svc := services.NewQuestionService(notes, questions, new(mocks.MockJobQueue))

	notes.On("Get", mock.Anything, int64(5), int64(2)).Return(nil, nil)

	_, err := svc.QuestionsForNote(context.Background(), 5, 2)
	assert.Error(t, err, "another user's note should look like it does not exist")
	questions.AssertNotCalled(t, "QuestionsForNote", mock.Anything, mock.Anything)
}

func TestQuestionsForNote(t *testing.T) {
	notes := new(mocks.MockNoteRepository)
	questions := new(mocks.MockQuestionRepository)
	svc := services.NewQuestionService(notes, questions, new(mocks.MockJobQueue))

	notes.On("Get", mock.Anything, int64(5), int64(1)).Return(&models.Note{ID: 5, UserID: 1}, nil)
	questions.On("QuestionsForNote", mock.Anything, int64(5)).Return([]models.Question{
		{ID: 1, NoteID: 5, Text: "q1", Difficulty: models.DifficultyEasy},
		{ID: 2, NoteID: 5, Text: "q2", Difficulty: models.DifficultyHard},
	}, nil)

	got, err := svc.QuestionsForNote(context.Background(), 5, 1)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRequestGeneration(t *testing.T) {
	notes := new(mocks.MockNoteRepository)
	queue := new(mocks.MockJobQueue)
	svc := services.NewQuestionService(notes, new(mocks.MockQuestionRepository), queue)

	notes.On("Get", mock.Anything, int64(5), int64(1)).Return(&models.Note{ID: 5, UserID: 1}, nil)
	queue.On("EnqueueQuestionGeneration", int64(5), int64(1), ai.QuestionOptions{Difficulty: models.DifficultyHard, Count: 3}, false).Return(nil)

	err := svc.RequestGeneration(context.Background(), 5, 1, ai.QuestionOptions{Difficulty: models.DifficultyHard, Count: 3})
	require.NoError(t, err)
	queue.AssertExpectations(t)
}

func TestRequestGeneration_Validation(t *testing.T) {
	svc := services.NewQuestionService(new(mocks.MockNoteRepository), new(mocks.MockQuestionRepository), new(mocks.MockJobQueue))

	err := svc.RequestGeneration(context.Background(), 5, 1, ai.QuestionOptions{Difficulty: "brutal", Count: 3})
	assert.Error(t, err)

	err = svc.RequestGeneration(context.Background(), 5, 1, ai.QuestionOptions{Difficulty: models.DifficultyEasy, Count: 0})
	assert.Error(t, err)

	err = svc.RequestGeneration(context.Background(), 5, 1, ai.QuestionOptions{Difficulty: models.DifficultyEasy, Count: 50})
	assert.Error(t, err)
}

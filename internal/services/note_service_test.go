package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/studymind/studymind/internal/models"
	"github.com/studymind/studymind/internal/services"
	"github.com/studymind/studymind/internal/testutil/mocks"
)

func TestCreateNote_EnqueuesBackgroundWork(t *testing.T) {
	notes := new(mocks.MockNoteRepository)
	subjects := new(mocks.MockSubjectRepository)
	queue := new(mocks.MockJobQueue)
	svc := services.NewNoteService(notes, subjects, queue)

	notes.On("Insert", mock.Anything, mock.MatchedBy(func(n models.Note) bool {
		return n.Title == "Cell Structure" && n.UserID == int64(1)
	})).Return(int64(42), nil)
	queue.On("EnqueueNoteAnalysis", int64(42), int64(1)).Return(nil)
	queue.On("EnqueueQuestionGeneration", int64(42), int64(1), mock.Anything, true).Return(nil)

	note, err := svc.CreateNote(context.Background(), models.Note{
		UserID:  1,
		Title:   "  Cell Structure  ",
		Content: "the cell is the basic unit of life",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), note.ID)
	assert.Equal(t, "Cell Structure", note.Title, "title should be trimmed")

	notes.AssertExpectations(t)
	queue.AssertExpectations(t)
}

func TestCreateNote_QueueFullIsNotFatal(t *testing.T) {
	notes := new(mocks.MockNoteRepository)
	subjects := new(mocks.MockSubjectRepository)
	queue := new(mocks.MockJobQueue)
	svc := services.NewNoteService(notes, subjects, queue)

	notes.On("Insert", mock.Anything, mock.Anything).Return(int64(7), nil)
	queue.On("EnqueueNoteAnalysis", int64(7), int64(1)).Return(assert.AnError)
	queue.On("EnqueueQuestionGeneration", int64(7), int64(1), mock.Anything, true).Return(assert.AnError)

	_, err := svc.CreateNote(context.Background(), models.Note{
		UserID:  1,
		Title:   "Photosynthesis",
		Content: "light reactions",
	})
	assert.NoError(t, err, "a saturated job queue must not fail note creation")
}

func TestCreateNote_Validation(t *testing.T) {
	svc := services.NewNoteService(new(mocks.MockNoteRepository), new(mocks.MockSubjectRepository), new(mocks.MockJobQueue))

	_, err := svc.CreateNote(context.Background(), models.Note{UserID: 1, Content: "body"})
	assert.Error(t, err, "missing title")

	_, err = svc.CreateNote(context.Background(), models.Note{UserID: 1, Title: "t", Content: "   "})
	assert.Error(t, err, "blank content")
}

func TestUpdateNote_ReanalyzesOnContentChange(t *testing.T) {
	notes := new(mocks.MockNoteRepository)
	subjects := new(mocks.MockSubjectRepository)
	queue := new(mocks.MockJobQueue)
	svc := services.NewNoteService(notes, subjects, queue)

	existing := &models.Note{ID: 5, UserID: 1, Title: "Old", Content: "old content"}
	notes.On("Get", mock.Anything, int64(5), int64(1)).Return(existing, nil)
	notes.On("Update", mock.Anything, mock.Anything).Return(nil)
	queue.On("EnqueueNoteAnalysis", int64(5), int64(1)).Return(nil).Once()

	_, err := svc.UpdateNote(context.Background(), models.Note{
		ID: 5, UserID: 1, Title: "New", Content: "new content",
	})
	require.NoError(t, err)
	queue.AssertExpectations(t)
}

func TestUpdateNote_NoReanalysisWhenContentUnchanged(t *testing.T) {
	notes := new(mocks.MockNoteRepository)
	subjects := new(mocks.MockSubjectRepository)
	queue := new(mocks.MockJobQueue)
	svc := services.NewNoteService(notes, subjects, queue)

	existing := &models.Note{ID: 5, UserID: 1, Title: "Old", Content: "same content"}
	notes.On("Get", mock.Anything, int64(5), int64(1)).Return(existing, nil)
	notes.On("Update", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.UpdateNote(context.Background(), models.Note{
		ID: 5, UserID: 1, Title: "New Title", Content: "same content",
	})
	require.NoError(t, err)
	queue.AssertNotCalled(t, "EnqueueNoteAnalysis", mock.Anything, mock.Anything)
}

func TestDeleteNote_NotFound(t *testing.T) {
	notes := new(mocks.MockNoteRepository)
	svc := services.NewNoteService(notes, new(mocks.MockSubjectRepository), new(mocks.MockJobQueue))

	notes.On("Get", mock.Anything, int64(99), int64(1)).Return(nil, nil)

	err := svc.DeleteNote(context.Background(), 99, 1)
	assert.Error(t, err)
	notes.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

package services

import (
	"context"

	"github.com/studymind/studymind/internal/ai"
	apperrors "github.com/studymind/studymind/internal/errors"
	"github.com/studymind/studymind/internal/jobs"
	"github.com/studymind/studymind/internal/logger"
	"github.com/studymind/studymind/internal/models"
	"github.com/studymind/studymind/internal/repository"
)

// QuestionService exposes a note's question templates and lets users request
// more. Generation is asynchronous; callers poll the list until new rows
// appear.
type QuestionService interface {
	QuestionsForNote(ctx context.Context, noteID, userID int64) ([]models.Question, error)
	RequestGeneration(ctx context.Context, noteID, userID int64, opts ai.QuestionOptions) error
}

type questionService struct {
	notes     repository.NoteRepository
	questions repository.QuestionRepository
	queue     jobs.JobQueue
}

// NewQuestionService creates a new QuestionService
func NewQuestionService(notes repository.NoteRepository, questions repository.QuestionRepository, queue jobs.JobQueue) QuestionService {
	return &questionService{
		notes:     notes,
		questions: questions,
		queue:     queue,
	}
}

func (s *questionService) QuestionsForNote(ctx context.Context, noteID, userID int64) ([]models.Question, error) {
	note, err := s.notes.Get(ctx, noteID, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if note == nil {
		return nil, apperrors.NewNotFoundError("note", noteID)
	}

	questions, err := s.questions.QuestionsForNote(ctx, noteID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return questions, nil
}

func (s *questionService) RequestGeneration(ctx context.Context, noteID, userID int64, opts ai.QuestionOptions) error {
	log := logger.FromContext(ctx)

	if opts.Difficulty != "" && !models.ValidDifficulty(opts.Difficulty) && opts.Difficulty != models.DifficultyAll {
		return apperrors.NewValidationError("difficulty", "difficulty must be easy, medium, hard or all")
	}
	if opts.Count <= 0 || opts.Count > 20 {
		return apperrors.NewValidationError("count", "count must be between 1 and 20")
	}

	note, err := s.notes.Get(ctx, noteID, userID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if note == nil {
		return apperrors.NewNotFoundError("note", noteID)
	}

	if err := s.queue.EnqueueQuestionGeneration(noteID, userID, opts, false); err != nil {
		log.Error("failed to enqueue question generation for note %d: %v", noteID, err)
		return apperrors.NewInternalError(err)
	}
	log.Info("question generation queued: note_id=%d, count=%d, difficulty=%s", noteID, opts.Count, opts.Difficulty)
	return nil
}

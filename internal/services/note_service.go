package services

import (
	"context"
	"strings"

	"github.com/studymind/studymind/internal/ai"
	apperrors "github.com/studymind/studymind/internal/errors"
	"github.com/studymind/studymind/internal/jobs"
	"github.com/studymind/studymind/internal/logger"
	"github.com/studymind/studymind/internal/models"
	"github.com/studymind/studymind/internal/repository"
)

// NoteService handles note and subject management. Creating a note kicks off
// background AI work (analysis plus a default question set); the note itself
// is usable immediately.
type NoteService interface {
	GetNote(ctx context.Context, id, userID int64) (*models.Note, error)
	ListNotes(ctx context.Context, filter models.NoteFilter) ([]models.Note, error)
	CreateNote(ctx context.Context, note models.Note) (*models.Note, error)
	UpdateNote(ctx context.Context, note models.Note) (*models.Note, error)
	DeleteNote(ctx context.Context, id, userID int64) error

	ListSubjects(ctx context.Context) ([]models.Subject, error)
	UpsertSubject(ctx context.Context, name string) (*models.Subject, error)
}

type noteService struct {
	notes    repository.NoteRepository
	subjects repository.SubjectRepository
	queue    jobs.JobQueue
}

// NewNoteService creates a new NoteService
func NewNoteService(notes repository.NoteRepository, subjects repository.SubjectRepository, queue jobs.JobQueue) NoteService {
	return &noteService{
		notes:    notes,
		subjects: subjects,
		queue:    queue,
	}
}

func (s *noteService) GetNote(ctx context.Context, id, userID int64) (*models.Note, error) {
	note, err := s.notes.Get(ctx, id, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if note == nil {
		return nil, apperrors.NewNotFoundError("note", id)
	}
	return note, nil
}

func (s *noteService) ListNotes(ctx context.Context, filter models.NoteFilter) ([]models.Note, error) {
	notes, err := s.notes.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return notes, nil
}

func (s *noteService) CreateNote(ctx context.Context, note models.Note) (*models.Note, error) {
	log := logger.FromContext(ctx)

	note.Title = strings.TrimSpace(note.Title)
	if note.Title == "" {
		return nil, apperrors.NewValidationError("title", "title is required")
	}
	if strings.TrimSpace(note.Content) == "" {
		return nil, apperrors.NewValidationError("content", "content is required")
	}

	id, err := s.notes.Insert(ctx, note)
	if err != nil {
		log.Error("failed to insert note: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	note.ID = id

	// Background enrichment. A full queue is not a creation failure.
	if err := s.queue.EnqueueNoteAnalysis(id, note.UserID); err != nil {
		log.Warn("failed to enqueue note analysis for note %d: %v", id, err)
	}
	if err := s.queue.EnqueueQuestionGeneration(id, note.UserID, ai.QuestionOptions{Difficulty: models.DifficultyAll, Count: 5}, true); err != nil {
		log.Warn("failed to enqueue default question generation for note %d: %v", id, err)
	}

	log.Info("note created: id=%d, user_id=%d", id, note.UserID)
	return &note, nil
}

func (s *noteService) UpdateNote(ctx context.Context, note models.Note) (*models.Note, error) {
	log := logger.FromContext(ctx)

	existing, err := s.notes.Get(ctx, note.ID, note.UserID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if existing == nil {
		return nil, apperrors.NewNotFoundError("note", note.ID)
	}

	if err := s.notes.Update(ctx, note); err != nil {
		log.Error("failed to update note %d: %v", note.ID, err)
		return nil, apperrors.NewInternalError(err)
	}

	// Content changed, so the stored summary and embedding are stale.
	if existing.Content != note.Content {
		if err := s.queue.EnqueueNoteAnalysis(note.ID, note.UserID); err != nil {
			log.Warn("failed to enqueue re-analysis for note %d: %v", note.ID, err)
		}
	}

	return s.GetNote(ctx, note.ID, note.UserID)
}

func (s *noteService) DeleteNote(ctx context.Context, id, userID int64) error {
	log := logger.FromContext(ctx)

	note, err := s.notes.Get(ctx, id, userID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if note == nil {
		return apperrors.NewNotFoundError("note", id)
	}
	if err := s.notes.Delete(ctx, id, userID); err != nil {
		log.Error("failed to delete note %d: %v", id, err)
		return apperrors.NewInternalError(err)
	}
	log.Info("note deleted: id=%d, user_id=%d", id, userID)
	return nil
}

func (s *noteService) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return subjects, nil
}

func (s *noteService) UpsertSubject(ctx context.Context, name string) (*models.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "subject name is required")
	}
	subject, err := s.subjects.Upsert(ctx, name)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return subject, nil
}

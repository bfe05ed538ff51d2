package repository

import (
	"context"
	"time"

	"github.com/studymind/studymind/internal/models"
)

// UserRepository handles user data access
type UserRepository interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Upsert(ctx context.Context, username string) (*models.User, error)
}

// SubjectRepository handles subject data access
type SubjectRepository interface {
	Get(ctx context.Context, id int64) (*models.Subject, error)
	List(ctx context.Context) ([]models.Subject, error)
	Upsert(ctx context.Context, name string) (*models.Subject, error)
}

// NoteRepository handles note data access
type NoteRepository interface {
	Get(ctx context.Context, id int64, userID int64) (*models.Note, error)
	List(ctx context.Context, filter models.NoteFilter) ([]models.Note, error)
	Insert(ctx context.Context, note models.Note) (int64, error)
	Update(ctx context.Context, note models.Note) error
	UpdateAnalysis(ctx context.Context, id int64, summary string, tags []string, embedding []float32) error
	UpdateNextReview(ctx context.Context, id int64, due time.Time) error
	Delete(ctx context.Context, id int64, userID int64) error
}

// QuestionRepository handles question-template data access
type QuestionRepository interface {
	InsertBatch(ctx context.Context, questions []models.Question) ([]int64, error)
	QuestionsForNote(ctx context.Context, noteID int64) ([]models.Question, error)
	QuestionsForNotes(ctx context.Context, noteIDs []int64) ([]models.Question, error)
}

// SessionRepository handles review-session and review-answer data access.
// Answer rows are only ever created through InsertAnswers (the bulk
// placeholder insert at session start) and mutated through the Update*
// methods; they are never deleted individually.
type SessionRepository interface {
	InsertSession(ctx context.Context, session models.ReviewSession) (int64, error)
	GetSession(ctx context.Context, id int64, userID int64) (*models.ReviewSession, error)
	InProgressSession(ctx context.Context, userID int64) (*models.ReviewSession, error)
	ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.ReviewSession, error)
	CompleteSession(ctx context.Context, id int64, result models.SessionResult) error
	AbandonSession(ctx context.Context, id int64) error

	InsertAnswers(ctx context.Context, answers []models.ReviewAnswer) ([]int64, error)
	AnswersForSession(ctx context.Context, sessionID int64) ([]models.ReviewAnswer, error)
	UpdateAnswerText(ctx context.Context, answerID int64, text string) error
	UpdateAnswerRating(ctx context.Context, answerID int64, rating string) error
	UpdateAnswerFeedback(ctx context.Context, answerID int64, feedback string, isCorrect *bool) error
}

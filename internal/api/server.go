package api

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/studymind/studymind/internal/services"
	"github.com/studymind/studymind/internal/worker"
)

// Server holds the HTTP layer's dependencies. Handlers are thin: decode,
// validate, delegate to a service, encode.
type Server struct {
	Users     services.UserService
	Notes     services.NoteService
	Questions services.QuestionService
	Reviews   services.ReviewService
	AIPool    *worker.Pool

	// Ping checks database connectivity for the readiness probe. Nil when
	// running against the in-memory store.
	Ping func(context.Context) error

	validate *validator.Validate
}

// NewServer creates a new API server
func NewServer(
	users services.UserService,
	notes services.NoteService,
	questions services.QuestionService,
	reviews services.ReviewService,
	aiPool *worker.Pool,
) *Server {
	return &Server{
		Users:     users,
		Notes:     notes,
		Questions: questions,
		Reviews:   reviews,
		AIPool:    aiPool,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/ready", s.handleReady)

		r.Get("/users", s.handleListUsers)
		r.Post("/users", s.handleCreateUser)
		r.Post("/users/{id}/select", s.handleSelectUser)

		// Everything below needs a selected user.
		r.Group(func(r chi.Router) {
			r.Use(s.userMiddleware)

			r.Get("/subjects", s.handleListSubjects)
			r.Post("/subjects", s.handleCreateSubject)

			r.Get("/notes", s.handleListNotes)
			r.Post("/notes", s.handleCreateNote)
			r.Get("/notes/{id}", s.handleGetNote)
			r.Put("/notes/{id}", s.handleUpdateNote)
			r.Delete("/notes/{id}", s.handleDeleteNote)

			r.Get("/notes/{id}/questions", s.handleNoteQuestions)
			r.Post("/notes/{id}/questions/generate", s.handleGenerateQuestions)

			r.Post("/review/preview", s.handleReviewPreview)
			r.Post("/review/start", s.handleStartReview)
			r.Get("/review/in-progress", s.handleInProgress)
			r.Post("/review/resume", s.handleResumeReview)
			r.Post("/review/discard", s.handleDiscardReview)
			r.Post("/review/sessions/{id}/retry", s.handleRetryReview)

			r.Get("/review/active", s.handleActiveView)
			r.Post("/review/active/answer", s.handleSetAnswer)
			r.Post("/review/active/save", s.handleSaveAnswer)
			r.Post("/review/active/navigate", s.handleNavigate)
			r.Post("/review/active/rate", s.handleRate)
			r.Post("/review/active/feedback", s.handleRequestFeedback)
			r.Post("/review/active/finish", s.handleFinishReview)

			r.Get("/review/sessions", s.handleListSessions)
			r.Get("/review/sessions/{id}", s.handleSessionDetail)
		})
	})

	return r
}

package api

import (
	"net/http"

	"github.com/studymind/studymind/internal/ai"
	"github.com/studymind/studymind/internal/models"
)

func (s *Server) handleNoteQuestions(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	noteID, err := urlParamInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	questions, err := s.Questions.QuestionsForNote(r.Context(), noteID, user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": questions})
}

func (s *Server) handleGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	noteID, err := urlParamInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req generateQuestionsRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = models.DifficultyAll
	}

	opts := ai.QuestionOptions{Difficulty: req.Difficulty, Count: req.Count}
	if err := s.Questions.RequestGeneration(r.Context(), noteID, user.ID, opts); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"queued": true})
}

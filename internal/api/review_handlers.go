package api

import (
	"net/http"

	"github.com/studymind/studymind/internal/models"
	"github.com/studymind/studymind/internal/review"
)

func setupFromRequest(req reviewSetupRequest) review.Setup {
	return review.Setup{
		NoteIDs:      req.NoteIDs,
		Difficulty:   req.Difficulty,
		QuestionType: req.QuestionType,
		Count:        req.Count,
	}
}

func (s *Server) handleReviewPreview(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req reviewSetupRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	count, err := s.Reviews.AvailableQuestions(r.Context(), user.ID, setupFromRequest(req))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"available_questions": count})
}

func (s *Server) handleStartReview(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req reviewSetupRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.Reviews.StartSession(r.Context(), user.ID, setupFromRequest(req))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleInProgress(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	session, err := s.Reviews.InProgress(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"session": session})
}

func (s *Server) handleResumeReview(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	view, err := s.Reviews.ResumeSession(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDiscardReview(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	if err := s.Reviews.DiscardInProgress(r.Context(), user.ID); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRetryReview(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	sessionID, err := urlParamInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.Reviews.RetrySession(r.Context(), user.ID, sessionID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleActiveView(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	view, err := s.Reviews.ActiveView(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSetAnswer(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req answerTextRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.Reviews.SetAnswerText(r.Context(), user.ID, req.Text)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSaveAnswer(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req saveAnswerRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.Reviews.SaveAnswer(r.Context(), user.ID, req.Force)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req navigateRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.Reviews.Navigate(r.Context(), user.ID, req.Direction)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req rateRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.Reviews.RateAnswer(r.Context(), user.ID, req.Rating)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRequestFeedback(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	view, err := s.Reviews.RequestFeedback(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleFinishReview(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	summary, err := s.Reviews.FinishSession(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	filter := models.SessionFilter{
		UserID:   user.ID,
		Status:   r.URL.Query().Get("status"),
		OrderBy:  r.URL.Query().Get("order_by"),
		OrderDir: r.URL.Query().Get("order_dir"),
		Limit:    queryInt(r, "limit"),
		Offset:   queryInt(r, "offset"),
	}

	sessions, err := s.Reviews.ListSessions(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (s *Server) handleSessionDetail(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	sessionID, err := urlParamInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	session, answers, err := s.Reviews.SessionDetail(r.Context(), user.ID, sessionID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session": session,
		"answers": answers,
	})
}

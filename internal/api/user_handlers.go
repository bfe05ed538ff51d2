package api

import (
	"net/http"

	"github.com/studymind/studymind/internal/logger"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.Users.ListUsers(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.Users.UpsertUser(r.Context(), req.Username)
	if err != nil {
		handleError(w, r, err)
		return
	}

	setUserCookie(w, user.ID)
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleSelectUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	id, err := urlParamInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.Users.GetUser(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("user selected: id=%d", user.ID)
	setUserCookie(w, user.ID)
	writeJSON(w, http.StatusOK, user)
}

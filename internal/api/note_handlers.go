package api

import (
	"net/http"

	"github.com/studymind/studymind/internal/models"
)

func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := s.Notes.ListSubjects(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"subjects": subjects})
}

func (s *Server) handleCreateSubject(w http.ResponseWriter, r *http.Request) {
	var req createSubjectRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	subject, err := s.Notes.UpsertSubject(r.Context(), req.Name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, subject)
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	filter := models.NoteFilter{
		UserID:    user.ID,
		SubjectID: queryInt64(r, "subject_id"),
		Search:    r.URL.Query().Get("search"),
		OrderBy:   r.URL.Query().Get("order_by"),
		OrderDir:  r.URL.Query().Get("order_dir"),
		Limit:     queryInt(r, "limit"),
		Offset:    queryInt(r, "offset"),
	}

	notes, err := s.Notes.ListNotes(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	id, err := urlParamInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	note, err := s.Notes.GetNote(r.Context(), id, user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req noteRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	note, err := s.Notes.CreateNote(r.Context(), models.Note{
		UserID:    user.ID,
		SubjectID: req.SubjectID,
		Title:     req.Title,
		Content:   req.Content,
		YearLevel: req.YearLevel,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	id, err := urlParamInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req noteRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	note, err := s.Notes.UpdateNote(r.Context(), models.Note{
		ID:        id,
		UserID:    user.ID,
		SubjectID: req.SubjectID,
		Title:     req.Title,
		Content:   req.Content,
		YearLevel: req.YearLevel,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	id, err := urlParamInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Notes.DeleteNote(r.Context(), id, user.ID); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package api

import (
	"net/http"

	"github.com/studymind/studymind/internal/logger"
)

// handleHealth is the liveness probe - always returns 200 OK while the
// process is up.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// handleReady checks the dependencies that requests actually need: the
// database connection and the AI worker pool backlog.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if s.Ping != nil {
		if err := s.Ping(r.Context()); err != nil {
			log.Warn("readiness check failed - database: %v", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "database unavailable"})
			return
		}
	}

	body := map[string]any{"status": "ready"}
	if s.AIPool != nil {
		body["ai_queue_size"] = s.AIPool.QueueSize()
	}
	writeJSON(w, http.StatusOK, body)
}

package http

import (
	"log/slog"
	"net/http"
	"time"
)

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "analytics.html", nil)
}

func (s *Server) handleAPIMonthly(w http.ResponseWriter, r *http.Request) {
	username := currentUser(r)
	series, err := s.reports.MonthlySeries(username)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to build monthly series", "username", username, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal"})
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleAPICategories(w http.ResponseWriter, r *http.Request) {
	username := currentUser(r)
	breakdown, err := s.reports.CategoryBreakdown(username)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to build category breakdown", "username", username, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal"})
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

// handleHealth performs a basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).String(),
	})
}

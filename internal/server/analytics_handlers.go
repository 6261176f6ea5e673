package server

import (
	"log"
	"net/http"
	"strconv"
	"strings"
)

func (s *Server) handleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "analytics_requires_database")
		return
	}

	sums, err := s.DB.ModeSummaries()
	if err != nil {
		log.Printf("[Analytics] summary error: %v\n", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeJSON(w, http.StatusOK, sums)
}

func (s *Server) handleAnalyticsRecent(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "analytics_requires_database")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	recs, err := s.DB.RecentSessions(limit)
	if err != nil {
		log.Printf("[Analytics] recent sessions error: %v\n", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleAnalyticsSession(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "analytics_requires_database")
		return
	}

	// /analytics/session/{id}
	parts := strings.Split(r.URL.Path, "/")
	if len(parts) < 4 || parts[3] == "" {
		writeError(w, http.StatusBadRequest, "session_id_required")
		return
	}
	sessionID := parts[3]

	correct, wrong, err := s.DB.SessionAccuracy(sessionID)
	if err != nil {
		log.Printf("[Analytics] session accuracy error: %v\n", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":   sessionID,
		"correct_taps": correct,
		"wrong_taps":   wrong,
	})
}

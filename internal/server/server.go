package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"vex-tracker/internal/constants"
	"vex-tracker/internal/repository"
	"vex-tracker/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server exposes the tracked competition data as a read-only JSON API.
type Server struct {
	tracker *service.Tracker
	logger  zerolog.Logger
}

func NewServer(tracker *service.Tracker, logger zerolog.Logger) *Server {
	return &Server{tracker: tracker, logger: logger}
}

// Routes registers all handlers on a fresh mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/events", s.handleEvents)
	mux.HandleFunc("GET /api/events/{sku}", s.handleEvent)
	mux.HandleFunc("GET /api/events/{sku}/teams", s.handleEventTeams)
	mux.HandleFunc("GET /api/events/{sku}/changes", s.handleEventChanges)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.tracker.TrackedEvents(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	evt, err := s.tracker.EventBySKU(r.Context(), r.PathValue("sku"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, evt)
}

func (s *Server) handleEventTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.tracker.TeamsForEvent(r.Context(), r.PathValue("sku"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, teams)
}

func (s *Server) handleEventChanges(w http.ResponseWriter, r *http.Request) {
	limit := constants.ChangeLogDefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	changes, err := s.tracker.ChangesForEvent(r.Context(), r.PathValue("sku"), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, changes)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrNoRows) {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

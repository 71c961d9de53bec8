package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-engine/internal/settings"
	"github.com/robalobadob/wordle/apps/go-engine/internal/stats"
)

// mountProfile registers the statistics and settings endpoints.
// Both are keyed by the request owner (user ID or anonymous cookie).
func (s *Server) mountProfile(r chi.Router) {
	r.Get("/stats/me", s.handleGetStats)
	r.Post("/stats/reset", s.handleResetStats)
	r.Get("/settings", s.handleGetSettings)
	r.Put("/settings", s.handlePutSettings)
	r.Post("/settings/reset", s.handleResetSettings)
}

// statsRes adds the derived win percentage to the stored counters.
type statsRes struct {
	stats.Statistics
	WinPercentage int `json:"winPercentage"`
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	o := s.owner(w, r)
	st, err := s.db.LoadStats(r.Context(), o.ID())
	if err != nil {
		log.Error().Err(err).Str("owner", o.ID()).Msg("load stats")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	writeJSON(w, http.StatusOK, statsRes{Statistics: st, WinPercentage: st.WinPercentage()})
}

func (s *Server) handleResetStats(w http.ResponseWriter, r *http.Request) {
	o := s.owner(w, r)
	st, err := s.db.UpdateStats(r.Context(), o.ID(), func(st *stats.Statistics) { st.Reset() })
	if err != nil {
		log.Error().Err(err).Str("owner", o.ID()).Msg("reset stats")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	writeJSON(w, http.StatusOK, statsRes{Statistics: st})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	o := s.owner(w, r)
	st, err := s.db.LoadSettings(r.Context(), o.ID())
	if err != nil {
		log.Error().Err(err).Str("owner", o.ID()).Msg("load settings")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handlePutSettings overlays the request body on the stored settings, so
// clients may send only the keys they change. Hard mode applies from the next game.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	o := s.owner(w, r)
	st, err := s.db.LoadSettings(r.Context(), o.ID())
	if err != nil {
		log.Error().Err(err).Str("owner", o.ID()).Msg("load settings")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}
	if err := s.db.SaveSettings(r.Context(), o.ID(), st); err != nil {
		log.Error().Err(err).Str("owner", o.ID()).Msg("save settings")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleResetSettings(w http.ResponseWriter, r *http.Request) {
	o := s.owner(w, r)
	st := settings.Defaults()
	if err := s.db.SaveSettings(r.Context(), o.ID(), st); err != nil {
		log.Error().Err(err).Str("owner", o.ID()).Msg("reset settings")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

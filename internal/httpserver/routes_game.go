// internal/httpserver/routes_game.go
//
// Free-play game endpoints:
//   - POST /game/new     → start a random game, hard mode from settings
//   - POST /game/guess   → submit a guess; returns marks, state and keyboard knowledge
//   - POST /game/strict  → toggle hard mode on a live game
//   - GET  /game/{id}    → board snapshot for re-rendering
//
// Live sessions sit in the Sessions registry; the DB keeps the history rows
// and the owner's statistics. Both are written after the registry call
// returns, so a slow database never holds the registry lock.
// The date-seeded word is only playable through /daily.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-engine/internal/game"
	"github.com/robalobadob/wordle/apps/go-engine/internal/stats"
	"github.com/robalobadob/wordle/apps/go-engine/internal/store"
	"github.com/robalobadob/wordle/apps/go-engine/internal/words"
)

func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Post("/guess", s.handleGuess)
		r.Post("/strict", s.handleStrict)
		r.Get("/{id}", s.handleGetGame)
	})
}

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Mode   string `json:"mode"`   // "random" (the only mode; empty means random)
	Strict *bool  `json:"strict"` // default: the owner's strictMode setting
}
type newGameRes struct {
	GameID string `json:"gameId"`
	Mode   string `json:"mode"`
	Strict bool   `json:"strict"`
}

// handleNewGame creates a live session and a history row for the owner.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json", "")
			return
		}
	}
	if req.Mode != "" && req.Mode != "random" {
		writeError(w, http.StatusBadRequest, "bad_mode", "use /daily for the daily word")
		return
	}
	o := s.owner(w, r)

	strict := false
	if req.Strict != nil {
		strict = *req.Strict
	} else if st, err := s.db.LoadSettings(r.Context(), o.ID()); err == nil {
		strict = st.StrictMode
	} else {
		log.Warn().Err(err).Str("owner", o.ID()).Msg("load settings")
	}

	sess := game.NewSession(s.words, game.WithStrict(strict))
	if err := sess.NewGame(words.Random()); err != nil {
		log.Error().Err(err).Msg("new game")
		writeError(w, http.StatusInternalServerError, "new_game_failed", "")
		return
	}
	if err := s.sessions.Save(r.Context(), o.ID(), sess); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed", "")
		return
	}
	if err := s.db.InsertGame(r.Context(), sess.ID(), o, "random", strict); err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID()).Msg("insert game row")
	}
	s.events.GameStart(sess.ID(), "random", strict)

	writeJSON(w, http.StatusOK, newGameRes{GameID: sess.ID(), Mode: "random", Strict: strict})
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Result    game.Result          `json:"result"`
	State     game.Status          `json:"state"` // "playing" | "won" | "lost"
	Attempt   int                  `json:"attempt"`
	Knowledge map[string]game.Mark `json:"knowledge"`
	Answer    game.Word            `json:"answer,omitempty"` // once finished
	Stats     *stats.Statistics    `json:"stats,omitempty"`  // once finished
}

// handleGuess applies a guess to a live session, then persists progress
// (best effort, non-fatal if it fails). The finishing turn is the only one
// that yields an outcome, so statistics are recorded once per game.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}
	o := s.owner(w, r)

	var (
		res      guessRes
		outcome  stats.Outcome
		finished bool
	)
	err := s.sessions.Update(r.Context(), o.ID(), req.GameID, func(sess *game.Session) error {
		turn, err := sess.Submit(req.Guess)
		if err != nil {
			return err
		}
		outcome, finished = turn.Outcome()
		res = guessRes{
			Result:    turn.Result,
			State:     turn.Status,
			Attempt:   turn.Attempt,
			Knowledge: sess.Knowledge().Letters(),
		}
		if turn.Status.Finished() {
			res.Answer = sess.Answer()
		}
		return nil
	})
	if err != nil {
		writeGameError(w, err)
		return
	}

	if err := s.db.RecordGuess(r.Context(), req.GameID, res.State.String(), string(res.Answer)); err != nil {
		log.Warn().Err(err).Str("gameId", req.GameID).Msg("record guess")
	}
	s.events.Guess(req.GameID, game.Turn{Result: res.Result, Status: res.State, Attempt: res.Attempt})

	if finished {
		if st, err := s.recordOutcome(r.Context(), o.ID(), outcome); err == nil {
			res.Stats = &st
		}
	}
	writeJSON(w, http.StatusOK, res)
}

type strictReq struct {
	GameID string `json:"gameId"`
	Strict bool   `json:"strict"`
}

// handleStrict toggles hard mode on a live game (enabling only before the first guess).
func (s *Server) handleStrict(w http.ResponseWriter, r *http.Request) {
	var req strictReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}
	o := s.owner(w, r)
	err := s.sessions.Update(r.Context(), o.ID(), req.GameID, func(sess *game.Session) error {
		return sess.SetStrict(req.Strict)
	})
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"strict": req.Strict})
}

// handleGetGame returns the board snapshot (answer only once finished).
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	o := s.owner(w, r)
	var st game.State
	err := s.sessions.View(r.Context(), o.ID(), chi.URLParam(r, "id"), func(sess *game.Session) error {
		st = sess.Snapshot()
		return nil
	})
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// writeGameError maps engine and registry errors to HTTP responses.
// The message is safe to show to the player as-is.
func writeGameError(w http.ResponseWriter, err error) {
	var hm *game.HardModeViolation
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "")
	case errors.As(err, &hm):
		writeError(w, http.StatusBadRequest, "hard_mode", hm.Reason)
	case errors.Is(err, game.ErrInvalidLength):
		writeError(w, http.StatusBadRequest, "invalid_length", err.Error())
	case errors.Is(err, game.ErrUnknownWord):
		writeError(w, http.StatusBadRequest, "unknown_word", err.Error())
	case errors.Is(err, game.ErrGameOver):
		writeError(w, http.StatusConflict, "game_over", err.Error())
	case errors.Is(err, game.ErrStrictLocked):
		writeError(w, http.StatusConflict, "strict_locked", err.Error())
	case errors.Is(err, game.ErrNoGame):
		writeError(w, http.StatusConflict, "no_game", err.Error())
	default:
		log.Error().Err(err).Msg("game request")
		writeError(w, http.StatusInternalServerError, "internal", "")
	}
}

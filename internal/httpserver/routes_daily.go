// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's daily game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for a daily game by its ID
//   - GET  /daily/leaderboard → fetch top 20 winners for today (or a given date)
//
// Each owner can play the daily once per date. The daily_results row enforces
// that across restarts; in memory, a finished session stays put until its day
// is over, so a failed insert cannot reopen the puzzle.
// A session keeps the date it was started on: a game begun before UTC
// midnight can be finished after it and counts for its own date.
// Sessions are swept at each day rollover: finished ones from earlier days,
// and unfinished ones older than yesterday. A game from yesterday that ends
// after the rollover is dropped as soon as it finishes.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-engine/internal/daily"
	"github.com/robalobadob/wordle/apps/go-engine/internal/game"
	"github.com/robalobadob/wordle/apps/go-engine/internal/stats"
	"github.com/robalobadob/wordle/apps/go-engine/internal/words"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv   *Server
	store *daily.Store
	now   func() time.Time

	mu       sync.Mutex               // guards the fields below and the games they hold
	sessions map[string]*dailySession // by game ID
	current  map[string]string        // owner|date → game ID
	swept    string                   // date key of the last sweep
}

// dailySession holds the in-memory state of one owner's daily game.
type dailySession struct {
	Owner     string
	Date      string
	WordIndex int
	Start     time.Time
	Game      *game.Session
}

func newDailyServer(s *Server, now func() time.Time) *dailyServer {
	return &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db.SQL),
		now:      now,
		sessions: make(map[string]*dailySession),
		current:  make(map[string]string),
	}
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.daily.handleNew)
		r.Post("/guess", s.daily.handleGuess)
		r.Get("/leaderboard", s.daily.handleLeaderboard)
	})
}

// today returns today's date key.
func (d *dailyServer) today() string { return daily.DateKey(d.now()) }

func ownerDate(owner, date string) string { return owner + "|" + date }

// sweep drops sessions that can no longer be played. Caller holds d.mu.
func (d *dailyServer) sweep(today string) {
	if d.swept == today {
		return
	}
	d.swept = today
	yesterday := daily.PrevKey(today)
	for id, sess := range d.sessions {
		if sess.Date < yesterday || (sess.Date < today && sess.Game.Status().Finished()) {
			delete(d.sessions, id)
			delete(d.current, ownerDate(sess.Owner, sess.Date))
		}
	}
}

// lookup returns owner's session for date, if any. Caller holds d.mu.
func (d *dailyServer) lookup(owner, date string) *dailySession {
	return d.sessions[d.current[ownerDate(owner, date)]]
}

// claim moves the guest's daily sessions and results to the account.
// A session the account already holds for the same date wins.
func (d *dailyServer) claim(ctx context.Context, anonID, userID string) {
	d.mu.Lock()
	for id, sess := range d.sessions {
		if sess.Owner != anonID {
			continue
		}
		delete(d.current, ownerDate(anonID, sess.Date))
		if d.lookup(userID, sess.Date) != nil {
			delete(d.sessions, id)
			continue
		}
		sess.Owner = userID
		d.current[ownerDate(userID, sess.Date)] = id
	}
	d.mu.Unlock()

	if err := d.store.Claim(ctx, anonID, userID); err != nil {
		log.Warn().Err(err).Msg("claim anon daily results")
	}
}

// -----------------------------------------------------------------------------
// /daily/new

// newRes is returned by /daily/new.
type newRes struct {
	GameID string      `json:"gameId,omitempty"`
	Date   string      `json:"date"`
	Played bool        `json:"played"`
	Strict bool        `json:"strict"`
	State  *game.State `json:"board,omitempty"` // present when resuming
}

// handleNew creates or reuses a daily session for the current date.
//   - A session in memory is resumed (Played=true once it is finished).
//   - Else, if the owner already has a DB row for today → Played=true.
//   - Otherwise a new session is created and its GameID returned.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	owner := d.srv.owner(w, r).ID()
	date := d.today()

	d.mu.Lock()
	d.sweep(date)
	res, ok := d.resume(owner, date)
	d.mu.Unlock()
	if ok {
		writeJSON(w, http.StatusOK, res)
		return
	}

	if played, err := d.store.AlreadyPlayed(r.Context(), owner, date); err != nil {
		log.Warn().Err(err).Str("owner", owner).Msg("daily already played")
	} else if played {
		writeJSON(w, http.StatusOK, newRes{Date: date, Played: true})
		return
	}

	strict := false
	if st, err := d.srv.db.LoadSettings(r.Context(), owner); err == nil {
		strict = st.StrictMode
	}
	g := game.NewSession(d.srv.words, game.WithStrict(strict))
	if err := g.NewGame(words.DateSeeded(date)); err != nil {
		log.Error().Err(err).Str("date", date).Msg("daily new game")
		writeError(w, http.StatusInternalServerError, "new_game_failed", "")
		return
	}
	n, _ := d.srv.words.Stats()

	d.mu.Lock()
	// A concurrent request may have started one meanwhile.
	if res, ok := d.resume(owner, date); ok {
		d.mu.Unlock()
		writeJSON(w, http.StatusOK, res)
		return
	}
	d.sessions[g.ID()] = &dailySession{
		Owner:     owner,
		Date:      date,
		WordIndex: daily.WordIndex(date, d.srv.cfg.DailySalt, n),
		Start:     d.now(),
		Game:      g,
	}
	d.current[ownerDate(owner, date)] = g.ID()
	d.mu.Unlock()

	d.srv.events.GameStart(g.ID(), "daily", strict)
	writeJSON(w, http.StatusOK, newRes{GameID: g.ID(), Date: date, Strict: strict})
}

// resume describes owner's existing session for date. Caller holds d.mu.
func (d *dailyServer) resume(owner, date string) (newRes, bool) {
	sess := d.lookup(owner, date)
	if sess == nil {
		return newRes{}, false
	}
	st := sess.Game.Snapshot()
	return newRes{
		GameID: sess.Game.ID(),
		Date:   date,
		Played: st.Status.Finished(),
		Strict: st.Strict,
		State:  &st,
	}, true
}

// -----------------------------------------------------------------------------
// /daily/guess

// dailyGuessReq is the request payload for /daily/guess.
type dailyGuessReq struct {
	GameID string `json:"gameId"`
	Word   string `json:"word"`
}

// dailyGuessRes is the response payload for /daily/guess.
type dailyGuessRes struct {
	Result    game.Result          `json:"result"`
	State     game.Status          `json:"state"`
	Guesses   int                  `json:"guesses"`
	Knowledge map[string]game.Mark `json:"knowledge"`
	Answer    game.Word            `json:"answer,omitempty"`
}

// handleGuess validates and applies a guess to the owner's daily session.
// The finishing guess writes daily_results and the owner's statistics once
// the lock is released.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	owner := d.srv.owner(w, r).ID()

	var p dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}

	d.mu.Lock()
	today := d.today()
	d.sweep(today)
	sess, ok := d.sessions[p.GameID]
	if !ok || sess.Owner != owner {
		d.mu.Unlock()
		writeError(w, http.StatusConflict, "no_session", "start the daily game first")
		return
	}
	turn, err := sess.Game.Submit(p.Word)
	var (
		res     dailyGuessRes
		result  daily.Result
		outcome stats.Outcome
		done    bool
	)
	if err == nil {
		res = dailyGuessRes{
			Result:    turn.Result,
			State:     turn.Status,
			Guesses:   turn.Attempt,
			Knowledge: sess.Game.Knowledge().Letters(),
		}
		if outcome, done = turn.Outcome(); done {
			res.Answer = sess.Game.Answer()
			result = daily.Result{
				UserID:    sess.Owner,
				Date:      sess.Date,
				WordIndex: sess.WordIndex,
				Guesses:   turn.Attempt,
				ElapsedMs: int(d.now().Sub(sess.Start).Milliseconds()),
				Won:       outcome.Won,
			}
			if sess.Date < today {
				// Past this day's sweep; nothing can resume it.
				delete(d.sessions, p.GameID)
				delete(d.current, ownerDate(sess.Owner, sess.Date))
			}
		}
	}
	d.mu.Unlock()

	if err != nil {
		writeGameError(w, err)
		return
	}
	d.srv.events.Guess(p.GameID, turn)
	if done {
		d.saveResult(r.Context(), result)
		_, _ = d.srv.recordOutcome(r.Context(), owner, outcome)
	}
	writeJSON(w, http.StatusOK, res)
}

func (d *dailyServer) saveResult(ctx context.Context, res daily.Result) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := d.store.InsertResult(ctx, res); err != nil {
		log.Error().Err(err).Str("owner", res.UserID).Str("date", res.Date).Msg("insert daily result")
	}
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = d.today()
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}

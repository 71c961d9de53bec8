package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-engine/internal/config"
	"github.com/robalobadob/wordle/apps/go-engine/internal/store"
	"github.com/robalobadob/wordle/apps/go-engine/internal/words"
)

// newTestServer serves a word list whose only answer is CRANE.
func newTestServer(t *testing.T) *httptest.Server {
	ts, _, _ := newTestServerAt(t, nil)
	return ts
}

// newTestServerAt is newTestServer with a daily clock (nil means time.Now).
func newTestServerAt(t *testing.T, clock func() time.Time) (*httptest.Server, *Server, *store.DB) {
	t.Helper()
	db, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	wl := words.New([]string{"CRANE"}, []string{"SLATE", "TRUST", "TIMES", "BRAND", "MIGHT", "FJORD"})
	srv := New(config.Defaults(), Deps{Words: wl, Sessions: store.NewMemory(), DB: db, Clock: clock})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, srv, db
}

// fakeClock is a settable daily clock.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T, ts *httptest.Server) *client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, base: ts.URL, http: &http.Client{Jar: jar}}
}

// do sends body as JSON and decodes the response into out (when non-nil).
func (c *client) do(method, path string, body, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()
	if out != nil {
		require.NoError(c.t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

type errBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type guessBody struct {
	Result    []string          `json:"result"`
	State     string            `json:"state"`
	Attempt   int               `json:"attempt"`
	Knowledge map[string]string `json:"knowledge"`
	Answer    string            `json:"answer"`
	Stats     *struct {
		GamesPlayed       int   `json:"gamesPlayed"`
		GamesWon          int   `json:"gamesWon"`
		GuessDistribution []int `json:"guessDistribution"`
	} `json:"stats"`
}

type boardBody struct {
	ID       string `json:"id"`
	Attempts []struct {
		Word   string   `json:"word"`
		Result []string `json:"result"`
	} `json:"attempts"`
	State  string `json:"state"`
	Strict bool   `json:"strict"`
	Answer string `json:"answer"`
}

func (c *client) newGame(body any) string {
	c.t.Helper()
	var res struct {
		GameID string `json:"gameId"`
		Strict bool   `json:"strict"`
	}
	require.Equal(c.t, http.StatusOK, c.do(http.MethodPost, "/game/new", body, &res))
	require.NotEmpty(c.t, res.GameID)
	return res.GameID
}

func TestHealth(t *testing.T) {
	c := newClient(t, newTestServer(t))
	var res map[string]bool
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", nil, &res))
	assert.True(t, res["ok"])

	var words map[string]int
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/debug/words", nil, &words))
	assert.Equal(t, 1, words["answers"])
	assert.Equal(t, 7, words["allowed"])
}

func TestGameFlow(t *testing.T) {
	c := newClient(t, newTestServer(t))
	id := c.newGame(nil)

	for guess, code := range map[string]string{"CRA": "invalid_length", "ZZZZZ": "unknown_word"} {
		var e errBody
		assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game/guess", map[string]string{"gameId": id, "guess": guess}, &e))
		assert.Equal(t, code, e.Error)
		assert.NotEmpty(t, e.Message)
	}

	var board boardBody
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/game/"+id, nil, &board))
	assert.Empty(t, board.Attempts, "rejected guesses leave the game unchanged")
	assert.Equal(t, "playing", board.State)
	assert.Empty(t, board.Answer)

	var g guessBody
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/guess", map[string]string{"gameId": id, "guess": "slate"}, &g))
	assert.Equal(t, []string{"absent", "absent", "correct", "absent", "correct"}, g.Result)
	assert.Equal(t, "playing", g.State)
	assert.Equal(t, 1, g.Attempt)
	assert.Equal(t, "correct", g.Knowledge["A"])
	assert.Empty(t, g.Answer)
	assert.Nil(t, g.Stats)

	g = guessBody{}
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/guess", map[string]string{"gameId": id, "guess": "CRANE"}, &g))
	assert.Equal(t, "won", g.State)
	assert.Equal(t, "CRANE", g.Answer)
	require.NotNil(t, g.Stats)
	assert.Equal(t, 1, g.Stats.GamesWon)
	assert.Equal(t, []int{0, 1, 0, 0, 0, 0}, g.Stats.GuessDistribution)

	var e errBody
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/game/guess", map[string]string{"gameId": id, "guess": "CRANE"}, &e))
	assert.Equal(t, "game_over", e.Error)

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/game/"+id, nil, &board))
	assert.Equal(t, "CRANE", board.Answer)
	assert.Len(t, board.Attempts, 2)

	var st struct {
		GamesPlayed   int `json:"gamesPlayed"`
		WinPercentage int `json:"winPercentage"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/stats/me", nil, &st))
	assert.Equal(t, 1, st.GamesPlayed)
	assert.Equal(t, 100, st.WinPercentage)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/stats/reset", nil, &st))
	assert.Equal(t, 0, st.GamesPlayed)
}

func TestLossRecordsOnce(t *testing.T) {
	c := newClient(t, newTestServer(t))
	id := c.newGame(nil)
	for _, w := range []string{"SLATE", "TRUST", "TIMES", "BRAND", "MIGHT", "FJORD"} {
		var g guessBody
		require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/guess", map[string]string{"gameId": id, "guess": w}, &g))
	}
	var st struct {
		GamesPlayed   int `json:"gamesPlayed"`
		CurrentStreak int `json:"currentStreak"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/stats/me", nil, &st))
	assert.Equal(t, 1, st.GamesPlayed)
	assert.Equal(t, 0, st.CurrentStreak)
}

func TestGamesAreOwned(t *testing.T) {
	ts := newTestServer(t)
	alice, bob := newClient(t, ts), newClient(t, ts)
	id := alice.newGame(nil)

	var e errBody
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodGet, "/game/"+id, nil, &e))
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodPost, "/game/guess", map[string]string{"gameId": id, "guess": "CRANE"}, &e))
	assert.Equal(t, "not_found", e.Error)
}

func TestStrictMode(t *testing.T) {
	c := newClient(t, newTestServer(t))

	var s map[string]bool
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/settings", nil, &s))
	assert.False(t, s["strictMode"])
	assert.True(t, s["darkTheme"])

	require.Equal(t, http.StatusOK, c.do(http.MethodPut, "/settings", map[string]bool{"strictMode": true}, &s))
	assert.True(t, s["strictMode"])
	assert.True(t, s["darkTheme"], "keys not sent are kept")

	id := c.newGame(nil)
	var board boardBody
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/game/"+id, nil, &board))
	assert.True(t, board.Strict, "new games follow the saved setting")

	var g guessBody
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/guess", map[string]string{"gameId": id, "guess": "SLATE"}, &g))
	var e errBody
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game/guess", map[string]string{"gameId": id, "guess": "TRUST"}, &e))
	assert.Equal(t, "hard_mode", e.Error)
	assert.Equal(t, "3rd letter must be A", e.Message)

	// Enabling hard mode mid-game is refused.
	prev := id
	id = c.newGame(map[string]bool{"strict": false})
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/game/"+prev, nil, &board), "a new game replaces the previous one")
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/guess", map[string]string{"gameId": id, "guess": "SLATE"}, &g))
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/game/strict", map[string]any{"gameId": id, "strict": true}, &e))
	assert.Equal(t, "strict_locked", e.Error)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/settings/reset", nil, &s))
	assert.False(t, s["strictMode"])
}

func TestNewGameRejectsDailyMode(t *testing.T) {
	c := newClient(t, newTestServer(t))
	var e errBody
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game/new", map[string]string{"mode": "daily"}, &e))
	assert.Equal(t, "bad_mode", e.Error)

	var res struct {
		Mode string `json:"mode"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/new", map[string]string{"mode": "random"}, &res))
	assert.Equal(t, "random", res.Mode)
}

func TestDaily(t *testing.T) {
	c := newClient(t, newTestServer(t))

	var start struct {
		GameID string `json:"gameId"`
		Date   string `json:"date"`
		Played bool   `json:"played"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, &start))
	require.NotEmpty(t, start.GameID)
	assert.False(t, start.Played)

	var e errBody
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/daily/guess", map[string]string{"gameId": "other", "word": "CRANE"}, &e))

	var g struct {
		State   string `json:"state"`
		Guesses int    `json:"guesses"`
		Answer  string `json:"answer"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/guess", map[string]string{"gameId": start.GameID, "word": "crane"}, &g))
	assert.Equal(t, "won", g.State)
	assert.Equal(t, 1, g.Guesses)
	assert.Equal(t, "CRANE", g.Answer)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, &start))
	assert.True(t, start.Played)

	var lb struct {
		Date string `json:"date"`
		Top  []struct {
			Guesses int `json:"guesses"`
		} `json:"top"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/daily/leaderboard", nil, &lb))
	assert.Equal(t, start.Date, lb.Date)
	require.Len(t, lb.Top, 1)
	assert.Equal(t, 1, lb.Top[0].Guesses)
}

func TestSignupClaimsGuestHistory(t *testing.T) {
	c := newClient(t, newTestServer(t))
	id := c.newGame(nil)
	var g guessBody
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/guess", map[string]string{"gameId": id, "guess": "SLATE"}, &g))

	var e errBody
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/auth/me", nil, &e))

	var me map[string]any
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/signup", map[string]string{"username": "player1", "password": "hunter2hunter2"}, &me))
	assert.Equal(t, "player1", me["username"])

	// The game in progress carries over to the account.
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/guess", map[string]string{"gameId": id, "guess": "CRANE"}, &g))
	assert.Equal(t, "won", g.State)
	assert.Equal(t, 2, g.Attempt)
	require.NotNil(t, g.Stats)
	assert.Equal(t, 1, g.Stats.GamesWon)

	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/auth/signup", map[string]string{"username": "PLAYER1", "password": "hunter2hunter2"}, &e))
	assert.Equal(t, "username_taken", e.Error)

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/auth/me", nil, &me))
	assert.Equal(t, "player1", me["username"])

	var games []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/games/mine", nil, &games))
	require.Len(t, games, 1)
	assert.Equal(t, id, games[0].ID)
	assert.Equal(t, "won", games[0].Status)

	var st struct {
		GamesWon int `json:"gamesWon"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/stats/me", nil, &st))
	assert.Equal(t, 1, st.GamesWon, "guest statistics follow the account")

	var board boardBody
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/game/"+id, nil, &board))
	assert.Len(t, board.Attempts, 2)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/logout", nil, &me))
	var bad errBody
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/auth/login", map[string]string{"username": "player1", "password": "wrong-password"}, &bad))
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/login", map[string]string{"username": "player1", "password": "hunter2hunter2"}, &me))
}

type dailyStart struct {
	GameID string     `json:"gameId"`
	Date   string     `json:"date"`
	Played bool       `json:"played"`
	Board  *boardBody `json:"board"`
}

type dailyGuess struct {
	State   string `json:"state"`
	Guesses int    `json:"guesses"`
	Answer  string `json:"answer"`
}

func TestDailyFailedResultInsertStillCountsAsPlayed(t *testing.T) {
	ts, _, db := newTestServerAt(t, nil)
	_, err := db.SQL.Exec(`CREATE TRIGGER reject_daily BEFORE INSERT ON daily_results
		BEGIN SELECT RAISE(ABORT, 'disk full'); END`)
	require.NoError(t, err)
	c := newClient(t, ts)

	var start dailyStart
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, &start))
	require.False(t, start.Played)
	var g dailyGuess
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/guess", map[string]string{"gameId": start.GameID, "word": "CRANE"}, &g))
	require.Equal(t, "won", g.State)

	var again dailyStart
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, &again))
	assert.True(t, again.Played)
	assert.Equal(t, start.GameID, again.GameID)
	require.NotNil(t, again.Board)
	assert.Equal(t, "won", again.Board.State)
	assert.Len(t, again.Board.Attempts, 1)

	var e errBody
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/daily/guess", map[string]string{"gameId": start.GameID, "word": "CRANE"}, &e))
	assert.Equal(t, "game_over", e.Error)

	var st struct {
		GamesPlayed int `json:"gamesPlayed"`
		GamesWon    int `json:"gamesWon"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/stats/me", nil, &st))
	assert.Equal(t, 1, st.GamesPlayed)
	assert.Equal(t, 1, st.GamesWon)
}

func TestDailyAcrossMidnight(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)}
	ts, srv, _ := newTestServerAt(t, clock.Now)
	c := newClient(t, ts)

	var start dailyStart
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, &start))
	require.Equal(t, "2024-06-01", start.Date)
	var g dailyGuess
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/guess", map[string]string{"gameId": start.GameID, "word": "SLATE"}, &g))

	clock.Set(time.Date(2024, 6, 2, 0, 1, 0, 0, time.UTC))
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/guess", map[string]string{"gameId": start.GameID, "word": "CRANE"}, &g))
	assert.Equal(t, "won", g.State)
	assert.Equal(t, 2, g.Guesses)

	var lb struct {
		Top []struct {
			Guesses int `json:"guesses"`
		} `json:"top"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/daily/leaderboard?date=2024-06-01", nil, &lb))
	require.Len(t, lb.Top, 1, "the result counts for the day it was started")

	var next dailyStart
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, &next))
	assert.Equal(t, "2024-06-02", next.Date)
	assert.False(t, next.Played)
	assert.NotEqual(t, start.GameID, next.GameID)

	srv.daily.mu.Lock()
	assert.Len(t, srv.daily.sessions, 1, "yesterday's finished game is swept")
	srv.daily.mu.Unlock()

	// Unfinished games survive one rollover, then go.
	clock.Set(time.Date(2024, 6, 4, 9, 0, 0, 0, time.UTC))
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, &next))
	assert.Equal(t, "2024-06-04", next.Date)
	srv.daily.mu.Lock()
	assert.Len(t, srv.daily.sessions, 1)
	srv.daily.mu.Unlock()
}

func TestSignupKeepsDailyGame(t *testing.T) {
	c := newClient(t, newTestServer(t))
	var start dailyStart
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, &start))

	var me map[string]any
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/signup", map[string]string{"username": "player2", "password": "hunter2hunter2"}, &me))

	var g dailyGuess
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/guess", map[string]string{"gameId": start.GameID, "word": "CRANE"}, &g))
	assert.Equal(t, "won", g.State)

	var lb struct {
		Top []struct {
			UserID string `json:"userId"`
		} `json:"top"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/daily/leaderboard", nil, &lb))
	require.Len(t, lb.Top, 1)
	assert.Equal(t, me["id"], lb.Top[0].UserID)
}

func TestSlowStatsWriteDoesNotBlockOtherGames(t *testing.T) {
	ts, _, db := newTestServerAt(t, nil)
	alice, bob := newClient(t, ts), newClient(t, ts)
	aliceGame, bobGame := alice.newGame(nil), bob.newGame(nil)

	// _txlock=immediate: this holds the database write lock until rolled back.
	tx, err := db.SQL.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	done := make(chan guessBody, 1)
	go func() {
		var g guessBody
		alice.do(http.MethodPost, "/game/guess", map[string]string{"gameId": aliceGame, "guess": "CRANE"}, &g)
		done <- g
	}()
	time.Sleep(200 * time.Millisecond)

	start := time.Now()
	var board boardBody
	require.Equal(t, http.StatusOK, bob.do(http.MethodGet, "/game/"+bobGame, nil, &board))
	var st map[string]bool
	require.Equal(t, http.StatusOK, bob.do(http.MethodPost, "/game/strict", map[string]any{"gameId": bobGame, "strict": true}, &st))
	assert.Less(t, time.Since(start), time.Second, "other games are not held up by the database")

	require.NoError(t, tx.Rollback())
	select {
	case res := <-done:
		assert.Equal(t, "won", res.State)
		require.NotNil(t, res.Stats)
		assert.Equal(t, 1, res.Stats.GamesWon)
	case <-time.After(5 * time.Second):
		t.Fatal("finishing guess never returned")
	}
}

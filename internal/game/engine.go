// internal/game/engine.go
//
// Core game engine for a single Wordle session.
// Responsibilities:
//   - Start (and restart) games with a target picked by the word source.
//   - Validate guesses: finished game, length, word list, hard mode.
//   - Score guesses and fold them into per-letter knowledge.
//   - Track state transitions: playing → won/lost.
//   - Report the finished game to a Recorder exactly once.
//
// Notes:
//   - A Session is owned by one caller and is not safe for concurrent use;
//     hosts serialize access per session.
//   - Restarting mid-game forfeits silently: nothing is recorded for it.
package game

import (
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/robalobadob/wordle/apps/go-engine/internal/stats"
	"github.com/robalobadob/wordle/apps/go-engine/internal/words"
)

// Source supplies the accepted guesses and picks targets.
// *words.List is the production implementation.
type Source interface {
	IsValidGuess(word string) bool
	PickTarget(mode words.Mode) (string, error)
}

// Recorder receives the outcome of every naturally finished game.
// *stats.Statistics satisfies it.
type Recorder interface {
	Record(o stats.Outcome)
}

// Session holds the state of one player's current game.
type Session struct {
	id        string
	src       Source
	rec       Recorder
	target    Word
	attempts  []Attempt
	status    Status
	strict    bool
	knowledge Knowledge
}

// Option configures a Session.
type Option func(*Session)

// WithStrict starts the session in hard mode.
func WithStrict(on bool) Option { return func(s *Session) { s.strict = on } }

// WithRecorder sets where finished games are reported.
func WithRecorder(r Recorder) Option { return func(s *Session) { s.rec = r } }

// NewSession constructs an idle session; call NewGame before Submit.
func NewSession(src Source, opts ...Option) *Session {
	s := &Session{src: src, knowledge: Knowledge{}}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Turn is what a successful Submit reports back to the host.
type Turn struct {
	Result  Result `json:"result"`
	Status  Status `json:"state"`
	Attempt int    `json:"attempt"` // 1-based number of the attempt just scored
}

// Outcome reports how the game ended when t is the turn that finished it.
// Only meaningful for turns returned without error.
func (t Turn) Outcome() (stats.Outcome, bool) {
	switch t.Status {
	case StatusWon:
		return stats.Won(t.Attempt), true
	case StatusLost:
		return stats.Lost(), true
	}
	return stats.Outcome{}, false
}

// NewGame discards the current game (if any) and starts a fresh one.
// On error the session is left as it was.
func (s *Session) NewGame(mode words.Mode) error {
	raw, err := s.src.PickTarget(mode)
	if err != nil {
		return fmt.Errorf("pick target: %w", err)
	}
	target := NormalizeWord(raw)
	if len(target) != WordLength || !isAlpha(string(target)) {
		return fmt.Errorf("pick target: invalid word %q", raw)
	}

	s.id = uuid.NewString()
	s.target = target
	s.attempts = make([]Attempt, 0, MaxAttempts)
	s.status = StatusPlaying
	s.knowledge = Knowledge{}
	return nil
}

// Submit validates and scores a guess, mutating the game state.
//
// Validation rules (first failure wins, nothing changes on failure):
//   - A game must have been started and not be finished.
//   - The guess must be exactly WordLength characters after trimming.
//   - The guess must be ASCII letters accepted by the word source.
//   - In hard mode, the guess must honor every revealed hint.
//
// State transitions:
//   - Guess equals the target → won.
//   - Else if MaxAttempts guesses have been made → lost.
func (s *Session) Submit(raw string) (Turn, error) {
	if s.target == "" {
		return Turn{}, ErrNoGame
	}
	if s.status.Finished() {
		return Turn{Status: s.status, Attempt: len(s.attempts)}, ErrGameOver
	}
	guess := NormalizeWord(raw)
	if utf8.RuneCountInString(string(guess)) != WordLength {
		return Turn{Status: s.status, Attempt: len(s.attempts)}, ErrInvalidLength
	}
	if !isAlpha(string(guess)) || !s.src.IsValidGuess(string(guess)) {
		return Turn{Status: s.status, Attempt: len(s.attempts)}, ErrUnknownWord
	}
	if s.strict && len(s.attempts) > 0 {
		if err := CheckStrict(guess, s.attempts); err != nil {
			return Turn{Status: s.status, Attempt: len(s.attempts)}, err
		}
	}

	res := Score(guess, s.target)
	s.knowledge = MergeKnowledge(s.knowledge, guess, res)
	s.attempts = append(s.attempts, Attempt{Word: guess, Result: res})

	switch {
	case guess == s.target:
		s.status = StatusWon
	case len(s.attempts) >= MaxAttempts:
		s.status = StatusLost
	}
	turn := Turn{Result: res, Status: s.status, Attempt: len(s.attempts)}
	if o, ok := turn.Outcome(); ok && s.rec != nil {
		s.rec.Record(o)
	}
	return turn, nil
}

// SetStrict toggles hard mode. Turning it on is only allowed before the
// first guess of the current game; turning it off is always allowed.
func (s *Session) SetStrict(on bool) error {
	if on && !s.strict && len(s.attempts) > 0 && !s.status.Finished() {
		return ErrStrictLocked
	}
	s.strict = on
	return nil
}

// ID returns the identifier of the current game ("" before NewGame).
func (s *Session) ID() string { return s.id }

// Status reports the current game state.
func (s *Session) Status() Status { return s.status }

// Strict reports whether hard mode is on.
func (s *Session) Strict() bool { return s.strict }

// Attempts returns a copy of the accepted guesses in order.
func (s *Session) Attempts() []Attempt {
	out := make([]Attempt, len(s.attempts))
	copy(out, s.attempts)
	return out
}

// Knowledge returns a copy of the per-letter knowledge.
func (s *Session) Knowledge() Knowledge { return s.knowledge.Clone() }

// Answer returns the target word. Hosts decide when to reveal it.
func (s *Session) Answer() Word { return s.target }

// State is a plain, serializable view of a session for renderers.
type State struct {
	ID        string          `json:"id"`
	Attempts  []Attempt       `json:"attempts"`
	Status    Status          `json:"state"`
	Strict    bool            `json:"strict"`
	Knowledge map[string]Mark `json:"knowledge"`
	Answer    Word            `json:"answer,omitempty"` // set only once finished
}

// Snapshot returns the current State.
func (s *Session) Snapshot() State {
	st := State{
		ID:        s.id,
		Attempts:  s.Attempts(),
		Status:    s.status,
		Strict:    s.strict,
		Knowledge: s.knowledge.Letters(),
	}
	if s.status.Finished() {
		st.Answer = s.target
	}
	return st
}

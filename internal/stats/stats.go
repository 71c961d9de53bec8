// internal/stats/stats.go
//
// Running player statistics folded from finished games.
// Responsibilities:
//   - Record wins (with attempts used) and losses.
//   - Maintain current and max win streaks.
//   - Keep the 6-bucket guess distribution (index = attempts used - 1).
//
// Statistics is a plain value: hosts load it, call Record, and persist it.
// The JSON keys match what earlier clients stored, so saved blobs keep loading.

package stats

import (
	"encoding/json"
	"math"
)

// Buckets is the size of the guess distribution (one per possible winning attempt).
const Buckets = 6

// Statistics are the running totals for one player.
type Statistics struct {
	GamesPlayed       int          `json:"gamesPlayed"`
	GamesWon          int          `json:"gamesWon"`
	CurrentStreak     int          `json:"currentStreak"`
	MaxStreak         int          `json:"maxStreak"`
	GuessDistribution [Buckets]int `json:"guessDistribution"`
}

// Outcome is how a finished game ended.
type Outcome struct {
	Won      bool
	Attempts int // attempts used; meaningful only when Won
}

// Won is a win on the given (1-based) attempt.
func Won(attempts int) Outcome { return Outcome{Won: true, Attempts: attempts} }

// Lost is a game that ran out of attempts.
func Lost() Outcome { return Outcome{} }

// Record folds one finished game into s.
// A win outside 1..Buckets still counts as played/won but touches no bucket.
func (s *Statistics) Record(o Outcome) {
	s.GamesPlayed++
	if !o.Won {
		s.CurrentStreak = 0
		return
	}
	s.GamesWon++
	s.CurrentStreak++
	if s.CurrentStreak > s.MaxStreak {
		s.MaxStreak = s.CurrentStreak
	}
	if o.Attempts >= 1 && o.Attempts <= Buckets {
		s.GuessDistribution[o.Attempts-1]++
	}
}

// WinPercentage is gamesWon/gamesPlayed rounded to a whole percent (0 when nothing played).
func (s Statistics) WinPercentage() int {
	if s.GamesPlayed == 0 {
		return 0
	}
	return int(math.Round(float64(s.GamesWon) / float64(s.GamesPlayed) * 100))
}

// Reset clears every counter.
func (s *Statistics) Reset() { *s = Statistics{} }

// Decode parses a stored blob. Missing keys stay zero; an empty blob is a fresh record.
func Decode(b []byte) (Statistics, error) {
	var s Statistics
	if len(b) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return Statistics{}, err
	}
	return s, nil
}

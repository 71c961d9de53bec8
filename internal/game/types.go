// internal/game/types.go
//
// Core type definitions for the Wordle game engine.
// Defines:
//   - Word:      a normalized five-letter guess or target.
//   - Mark:      per-letter result of a guess (correct/present/absent).
//   - Result:    the five marks produced by one scored guess.
//   - Attempt:   a submitted word paired with its result.
//   - Status:    playing → won/lost.
//   - Knowledge: best mark seen so far for each letter.

package game

import (
	"fmt"
	"strings"
)

const (
	// WordLength is the number of letters in every word.
	WordLength = 5
	// MaxAttempts is the number of guesses before the game is lost.
	MaxAttempts = 6
)

// Word is an uppercase A–Z string of WordLength letters.
type Word string

// NormalizeWord trims raw player input and upper-cases its ASCII letters.
// Other runes pass through untouched; it does not validate the result.
func NormalizeWord(raw string) Word {
	return Word(strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r - 'a' + 'A'
		}
		return r
	}, strings.TrimSpace(raw)))
}

// Mark represents the evaluation result for a single letter in a guess.
// The numeric value is the merge priority: Correct > Present > Absent > Unseen.
type Mark uint8

const (
	MarkUnseen  Mark = iota // letter not yet guessed (knowledge only)
	MarkAbsent              // letter does not occur in the target (or all instances are used)
	MarkPresent             // letter occurs elsewhere in the target
	MarkCorrect             // letter is in the correct position
)

func (m Mark) String() string {
	switch m {
	case MarkAbsent:
		return "absent"
	case MarkPresent:
		return "present"
	case MarkCorrect:
		return "correct"
	default:
		return ""
	}
}

// MarshalText encodes the mark as its lowercase name.
func (m Mark) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText accepts the names produced by MarshalText.
func (m *Mark) UnmarshalText(b []byte) error {
	switch string(b) {
	case "":
		*m = MarkUnseen
	case "absent":
		*m = MarkAbsent
	case "present":
		*m = MarkPresent
	case "correct":
		*m = MarkCorrect
	default:
		return fmt.Errorf("game: unknown mark %q", b)
	}
	return nil
}

// Result is the per-position outcome of one guess, index-aligned with the word.
type Result [WordLength]Mark

// Solved reports whether every mark is MarkCorrect.
func (r Result) Solved() bool {
	for _, m := range r {
		if m != MarkCorrect {
			return false
		}
	}
	return true
}

// Attempt is one accepted guess and its score.
type Attempt struct {
	Word   Word   `json:"word"`
	Result Result `json:"result"`
}

// Status is the state of a game session.
type Status uint8

const (
	StatusPlaying Status = iota
	StatusWon
	StatusLost
)

func (s Status) String() string {
	switch s {
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "playing"
	}
}

// Finished reports whether s is terminal.
func (s Status) Finished() bool { return s != StatusPlaying }

// MarshalText encodes the status as "playing", "won" or "lost".
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "playing":
		*s = StatusPlaying
	case "won":
		*s = StatusWon
	case "lost":
		*s = StatusLost
	default:
		return fmt.Errorf("game: unknown state %q", b)
	}
	return nil
}

// Knowledge maps an uppercase letter to the best mark seen for it.
// Letters never guessed are absent from the map (MarkUnseen).
type Knowledge map[byte]Mark

// Get returns the mark for letter, or MarkUnseen.
func (k Knowledge) Get(letter byte) Mark { return k[letter] }

// Clone returns an independent copy of k.
func (k Knowledge) Clone() Knowledge {
	out := make(Knowledge, len(k))
	for l, m := range k {
		out[l] = m
	}
	return out
}

// Letters returns k keyed by one-letter strings, the shape hosts encode as JSON.
func (k Knowledge) Letters() map[string]Mark {
	out := make(map[string]Mark, len(k))
	for l, m := range k {
		out[string(l)] = m
	}
	return out
}

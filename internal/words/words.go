// internal/words/words.go
//
// Provides word list management for the game engine.
//
// Responsibilities:
//   - Load answer and allowed guess lists from files or fall back to the
//     embedded assets.
//   - Maintain sets for quick lookups (answers only, answers∪guesses).
//   - Pick targets at random or deterministically from a calendar date.
//
// Word Lists:
//   - "answers": canonical solutions (exactly 5 uppercase letters).
//   - "allowed": valid guesses (always includes answers).
//
// Load behavior:
//   1. If AnswersFile and AllowedFile are both set,
//      load answers from the first and allowed guesses from the second.
//   2. If only AllowedFile is set,
//      load that file and use it for both answers and allowed guesses.
//   3. If neither is set, use the embedded assets.List lists.
//
// Constraints:
//   • Words must be 5 alphabetic letters; other lines are dropped.
//   • Lists are normalized to uppercase and deduplicated.
//   • A List is immutable after construction and safe for concurrent reads.

package words

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/robalobadob/wordle/apps/go-engine/assets"
	"github.com/robalobadob/wordle/apps/go-engine/internal/daily"
)

const wordLen = 5

var (
	ErrNoAnswers = errors.New("words: answers list is empty")
	ErrBadDate   = daily.ErrBadKey
)

// Options says where to read the lists from and how to seed daily picks.
type Options struct {
	AnswersFile string
	AllowedFile string
	Salt        string // HMAC key for date-seeded picks
}

// List is a loaded pair of word lists.
type List struct {
	answers    []string            // canonical answers, file order
	answersSet map[string]struct{} // answers only
	allowedSet map[string]struct{} // answers ∪ guesses
	salt       string
}

// Load reads the lists described by opts.
// Returns ErrNoAnswers if the answers list ends up empty.
func Load(opts Options) (*List, error) {
	var ansList, allowList []string
	var err error

	switch {
	// Case 1: both lists provided
	case opts.AnswersFile != "" && opts.AllowedFile != "":
		if ansList, err = readWordFile(opts.AnswersFile); err != nil {
			return nil, err
		}
		if allowList, err = readWordFile(opts.AllowedFile); err != nil {
			return nil, err
		}

	// Case 2: only allowed file provided → use for both
	case opts.AllowedFile != "":
		if allowList, err = readWordFile(opts.AllowedFile); err != nil {
			return nil, err
		}
		ansList = allowList

	// Case 3: embedded assets
	default:
		if ansList, err = assets.List(assets.AnswersFile); err != nil {
			return nil, fmt.Errorf("words: embedded answers: %w", err)
		}
		if allowList, err = assets.List(assets.AllowedFile); err != nil {
			return nil, fmt.Errorf("words: embedded allowed: %w", err)
		}
	}

	l := New(ansList, allowList)
	l.salt = opts.Salt
	if len(l.answers) == 0 {
		return nil, ErrNoAnswers
	}
	return l, nil
}

// New builds a List from in-memory words. Invalid entries are dropped and
// every answer is also an allowed guess.
func New(answers, allowed []string) *List {
	l := &List{
		answersSet: make(map[string]struct{}, len(answers)),
		allowedSet: make(map[string]struct{}, len(answers)+len(allowed)),
	}
	for _, w := range answers {
		w, ok := normalize(w)
		if !ok {
			continue
		}
		if _, dup := l.answersSet[w]; !dup {
			l.answersSet[w] = struct{}{}
			l.answers = append(l.answers, w)
		}
		l.allowedSet[w] = struct{}{}
	}
	for _, w := range allowed {
		if w, ok := normalize(w); ok {
			l.allowedSet[w] = struct{}{}
		}
	}
	return l
}

// WithSalt returns a copy of l that seeds daily picks with salt.
func (l *List) WithSalt(salt string) *List {
	cp := *l
	cp.salt = salt
	return &cp
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("words: open %s: %w", path, err)
	}
	defer f.Close()

	out, err := assets.ParseList(f)
	if err != nil {
		return nil, fmt.Errorf("words: read %s: %w", path, err)
	}
	return out, nil
}

// normalize trims and upper-cases w and reports whether it is a 5-letter word.
func normalize(w string) (string, bool) {
	w = strings.ToUpper(strings.TrimSpace(w))
	if len(w) != wordLen {
		return "", false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'A' || w[i] > 'Z' {
			return "", false
		}
	}
	return w, true
}

// IsValidGuess reports whether w is an accepted guess (answers ∪ guesses).
func (l *List) IsValidGuess(w string) bool {
	_, ok := l.allowedSet[strings.ToUpper(w)]
	return ok
}

// IsAnswer reports whether w is an answer word.
func (l *List) IsAnswer(w string) bool {
	_, ok := l.answersSet[strings.ToUpper(w)]
	return ok
}

// Answers returns a copy of the answer list in load order.
func (l *List) Answers() []string {
	return append([]string(nil), l.answers...)
}

// Stats returns counts of loaded words: (answers, allowed).
func (l *List) Stats() (answersCount int, allowedCount int) {
	return len(l.answers), len(l.allowedSet)
}

// Mode selects how PickTarget chooses a word.
type Mode struct {
	Date string // YYYY-MM-DD; empty means random
}

// Random picks uniformly from the answers.
func Random() Mode { return Mode{} }

// DateSeeded picks the same answer for every call with the same date.
func DateSeeded(date string) Mode { return Mode{Date: date} }

// Today is DateSeeded for the current UTC date.
func Today() Mode { return DateSeeded(daily.DateKey(time.Now())) }

// Seeded reports whether m is date-seeded.
func (m Mode) Seeded() bool { return m.Date != "" }

// PickTarget returns an answer according to mode.
func (l *List) PickTarget(mode Mode) (string, error) {
	if len(l.answers) == 0 {
		return "", ErrNoAnswers
	}
	if mode.Seeded() {
		if _, err := daily.ParseKey(mode.Date); err != nil {
			return "", err
		}
		return l.answers[daily.WordIndex(mode.Date, l.salt, len(l.answers))], nil
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(l.answers))))
	if err != nil {
		return "", fmt.Errorf("words: random pick: %w", err)
	}
	return l.answers[n.Int64()], nil
}

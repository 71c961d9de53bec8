// Package assets embeds the default word lists shipped with the engine.
//
// List format: one word per line. Blank lines are skipped and "#" starts a
// comment that runs to the end of the line. Words are returned upper-cased
// and otherwise unvalidated; callers decide what counts as a word.
package assets

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"strings"
)

// Embedded list names.
const (
	AnswersFile = "answers.txt"
	AllowedFile = "allowed.txt"
)

//go:embed answers.txt allowed.txt
var lists embed.FS

// ParseList reads a word list in the format above.
func ParseList(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w, _, _ := strings.Cut(sc.Text(), "#")
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, strings.ToUpper(w))
		}
	}
	return out, sc.Err()
}

// List returns the embedded list called name (AnswersFile or AllowedFile).
func List(name string) ([]string, error) {
	f, err := lists.Open(name)
	if err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}
	defer f.Close()
	return ParseList(f)
}

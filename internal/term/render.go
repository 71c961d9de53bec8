package term

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/wordle/apps/go-engine/internal/game"
	"github.com/robalobadob/wordle/apps/go-engine/internal/stats"
)

var keyboardRows = []string{"QWERTYUIOP", "ASDFGHJKL", "ZXCVBNM"}

// Board renders the guessed rows followed by empty rows up to MaxAttempts.
func (t Theme) Board(attempts []game.Attempt) string {
	rows := make([]string, 0, game.MaxAttempts)
	for _, a := range attempts {
		cells := make([]string, game.WordLength)
		for i := 0; i < game.WordLength; i++ {
			cells[i] = t.tile(a.Word[i], a.Result[i])
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	for len(rows) < game.MaxAttempts {
		cells := make([]string, game.WordLength)
		for i := range cells {
			cells[i] = t.tile('_', game.MarkUnseen)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Keyboard renders the QWERTY layout colored by what is known about each letter.
func (t Theme) Keyboard(k game.Knowledge) string {
	rows := make([]string, len(keyboardRows))
	for i, row := range keyboardRows {
		keys := make([]string, len(row))
		for j := 0; j < len(row); j++ {
			keys[j] = t.key(row[j], k.Get(row[j]))
		}
		rows[i] = strings.Repeat(" ", i) + strings.Join(keys, " ")
	}
	return strings.Join(rows, "\n")
}

// Statistics renders the counters and the guess distribution as bars.
// highlight (1..6) marks the bucket of the game just won; 0 for none.
func Statistics(s stats.Statistics, highlight int) string {
	var b strings.Builder
	b.WriteString(Title.Render("Statistics"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "played %d  win %% %d  streak %d  max %d\n",
		s.GamesPlayed, s.WinPercentage(), s.CurrentStreak, s.MaxStreak)

	maxCount := 1
	for _, n := range s.GuessDistribution {
		if n > maxCount {
			maxCount = n
		}
	}
	const width = 20
	for i, n := range s.GuessDistribution {
		bar := strings.Repeat("#", 1+n*(width-1)/maxCount)
		line := fmt.Sprintf("%d %s %d", i+1, bar, n)
		if i+1 == highlight {
			line = Hot.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

var praise = []string{"Genius!", "Magnificent!", "Impressive!", "Splendid!", "Great!", "Phew!"}

// Verdict is the headline shown when a game ends.
func Verdict(status game.Status, attempts int) string {
	if status != game.StatusWon {
		return "Game Over. Better luck next time!"
	}
	head := "Amazing!"
	if attempts >= 1 && attempts <= len(praise) {
		head = praise[attempts-1]
	}
	plural := "es"
	if attempts == 1 {
		plural = ""
	}
	return fmt.Sprintf("%s You solved it in %d guess%s!", head, attempts, plural)
}

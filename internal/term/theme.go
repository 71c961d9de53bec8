package term

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/wordle/apps/go-engine/internal/game"
)

var (
	green  = lipgloss.Color("#538d4e")
	yellow = lipgloss.Color("#b59f3b")
	orange = lipgloss.Color("#f5793a")
	blue   = lipgloss.Color("#85c0f9")
	gray   = lipgloss.Color("#3a3a3c")
	light  = lipgloss.Color("#818384")
	white  = lipgloss.Color("#ffffff")

	tile = lipgloss.NewStyle().Bold(true).Foreground(white).Padding(0, 1)
	key  = lipgloss.NewStyle().Foreground(white).Padding(0, 1)

	Title = lipgloss.NewStyle().Bold(true).Underline(true)
	Muted = lipgloss.NewStyle().Foreground(light)
	Hot   = lipgloss.NewStyle().Foreground(orange).Bold(true)
)

// Theme maps marks to tile and key styles.
type Theme struct {
	tiles map[game.Mark]lipgloss.Style
	keys  map[game.Mark]lipgloss.Style
}

// NewTheme returns the classic palette, or the orange/blue one when
// highContrast is set.
func NewTheme(highContrast bool) Theme {
	correct, present := green, yellow
	if highContrast {
		correct, present = orange, blue
	}
	return Theme{
		tiles: map[game.Mark]lipgloss.Style{
			game.MarkUnseen:  tile.Foreground(light).Border(lipgloss.NormalBorder(), false, false, true, false).BorderForeground(gray),
			game.MarkAbsent:  tile.Background(gray),
			game.MarkPresent: tile.Background(present),
			game.MarkCorrect: tile.Background(correct),
		},
		keys: map[game.Mark]lipgloss.Style{
			game.MarkUnseen:  key.Background(light),
			game.MarkAbsent:  key.Background(gray).Foreground(light),
			game.MarkPresent: key.Background(present),
			game.MarkCorrect: key.Background(correct),
		},
	}
}

func (t Theme) tile(c byte, m game.Mark) string {
	return t.tiles[m].Render(string(c))
}

func (t Theme) key(c byte, m game.Mark) string {
	return t.keys[m].Render(string(c))
}

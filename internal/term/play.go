// Package term hosts a game in a terminal: one guess per input line, the
// board and keyboard redrawn after every accepted guess.
package term

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-engine/internal/game"
	"github.com/robalobadob/wordle/apps/go-engine/internal/settings"
	"github.com/robalobadob/wordle/apps/go-engine/internal/stats"
	"github.com/robalobadob/wordle/apps/go-engine/internal/words"
)

// Profile is where the terminal host reads statistics and keeps settings.
// *store.DB satisfies it.
type Profile interface {
	LoadStats(ctx context.Context, owner string) (stats.Statistics, error)
	LoadSettings(ctx context.Context, owner string) (settings.Settings, error)
	SaveSettings(ctx context.Context, owner string, s settings.Settings) error
}

// Options configure a Player.
type Options struct {
	Mode    words.Mode
	Profile Profile // nil disables statistics and settings
	Owner   string
	Theme   Theme
}

// Player runs the read-guess-render loop.
type Player struct {
	sess *game.Session
	opts Options
	in   *bufio.Scanner
	out  io.Writer
}

const help = "Type a 5-letter guess. Commands: :hard toggles hard mode, :stats, :new, :quit"

// NewPlayer binds a session to the given input and output.
func NewPlayer(sess *game.Session, in io.Reader, out io.Writer, opts Options) *Player {
	return &Player{sess: sess, opts: opts, in: bufio.NewScanner(in), out: out}
}

// Run starts a game and plays until the input ends, the player quits, or a
// finished daily game. Random games offer a rematch.
func (p *Player) Run(ctx context.Context) error {
	if err := p.sess.NewGame(p.opts.Mode); err != nil {
		return err
	}
	p.println(Muted.Render(help))
	p.draw()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, ok := p.prompt("> ")
		if !ok {
			return p.in.Err()
		}
		switch strings.ToLower(line) {
		case "":
			continue
		case ":q", ":quit":
			return nil
		case ":stats":
			p.showStats(ctx, 0)
			continue
		case ":hard":
			p.toggleStrict(ctx)
			continue
		case ":new":
			if err := p.sess.NewGame(p.opts.Mode); err != nil {
				return err
			}
			p.draw()
			continue
		}

		turn, err := p.sess.Submit(line)
		if err != nil {
			p.println(Hot.Render(message(err)))
			continue
		}
		p.draw()
		if !turn.Status.Finished() {
			continue
		}

		p.println(Verdict(turn.Status, turn.Attempt))
		p.println("The word was " + Title.Render(string(p.sess.Answer())))
		highlight := 0
		if turn.Status == game.StatusWon {
			highlight = turn.Attempt
		}
		p.showStats(ctx, highlight)

		if p.opts.Mode.Seeded() {
			return nil
		}
		again, ok := p.prompt("Play again? [y/N] ")
		if !ok || !strings.HasPrefix(strings.ToLower(again), "y") {
			return p.in.Err()
		}
		if err := p.sess.NewGame(p.opts.Mode); err != nil {
			return err
		}
		p.draw()
	}
}

func (p *Player) prompt(label string) (string, bool) {
	fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		p.println("")
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}

func (p *Player) draw() {
	mode := "normal"
	if p.sess.Strict() {
		mode = "hard"
	}
	p.println("")
	p.println(p.opts.Theme.Board(p.sess.Attempts()))
	p.println("")
	p.println(p.opts.Theme.Keyboard(p.sess.Knowledge()))
	p.println(Muted.Render(fmt.Sprintf("attempt %d/%d, %s mode", len(p.sess.Attempts()), game.MaxAttempts, mode)))
}

// toggleStrict flips hard mode on the live game and remembers the choice.
func (p *Player) toggleStrict(ctx context.Context) {
	on := !p.sess.Strict()
	if err := p.sess.SetStrict(on); err != nil {
		p.println(Hot.Render(message(err)))
		return
	}
	p.println(Muted.Render(fmt.Sprintf("hard mode %s", onOff(on))))
	if p.opts.Profile == nil {
		return
	}
	st, err := p.opts.Profile.LoadSettings(ctx, p.opts.Owner)
	if err != nil {
		log.Warn().Err(err).Msg("load settings")
	}
	st.StrictMode = on
	if err := p.opts.Profile.SaveSettings(ctx, p.opts.Owner, st); err != nil {
		log.Warn().Err(err).Msg("save settings")
	}
}

func (p *Player) showStats(ctx context.Context, highlight int) {
	if p.opts.Profile == nil {
		return
	}
	st, err := p.opts.Profile.LoadStats(ctx, p.opts.Owner)
	if err != nil {
		log.Warn().Err(err).Msg("load stats")
		return
	}
	p.println(Statistics(st, highlight))
}

func (p *Player) println(s string) { fmt.Fprintln(p.out, s) }

// message turns a submission error into what the player sees.
func message(err error) string {
	var hm *game.HardModeViolation
	switch {
	case errors.As(err, &hm):
		return hm.Reason
	case errors.Is(err, game.ErrInvalidLength):
		return "Not enough letters"
	case errors.Is(err, game.ErrUnknownWord):
		return "Not in word list"
	case errors.Is(err, game.ErrStrictLocked):
		return "Hard mode can only be enabled at the start of a round"
	case errors.Is(err, game.ErrGameOver):
		return "Game over"
	default:
		return err.Error()
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

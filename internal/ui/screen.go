// File ui/screen.go
package ui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/rs/zerolog"

	"reversi_go/internal/assets"
	"reversi_go/internal/config"
	"reversi_go/internal/game"
)

const (
	CellPixels  = 72
	BoardMargin = 32
	BoardPixels = CellPixels * game.BoardSize

	WindowWidth  = BoardPixels + 2*BoardMargin
	WindowHeight = WindowWidth + 80

	chipPixels = CellPixels - 10
	hintTime   = 2 * time.Second
)

type actionResult struct {
	id   int
	kind string
	move game.Move
	err  error
}

// flipAnim turns the pieces flipped by one move from `from` to `to`.
type flipAnim struct {
	squares  map[game.Square]bool
	from, to game.Color
	start    time.Time
	dur      time.Duration
}

func (a *flipAnim) covers(x, y int) bool { return a.squares[game.Square{X: x, Y: y}] }

func (a *flipAnim) frame(now time.Time) (game.Color, float64) {
	sx, turned := flipScale(float64(now.Sub(a.start)) / float64(a.dur))
	if turned {
		return a.to, sx
	}
	return a.from, sx
}

func (a *flipAnim) done(now time.Time) bool { return now.Sub(a.start) >= a.dur }

// animDuration maps the 1..10 speed setting to a flip time.
func animDuration(speed int) time.Duration {
	speed = min(max(speed, 1), 10)
	return time.Duration(11-speed) * 40 * time.Millisecond
}

// Screen implements ebiten.Game for one human-versus-engine session.
type Screen struct {
	session      *game.Session
	settings     config.Settings
	settingsPath string
	savePath     string
	log          zerolog.Logger

	chips   map[game.Color]*ebiten.Image
	hintImg *ebiten.Image
	click   *audio.Player
	board   *ebiten.Image // baked background

	shown *game.Game // what is on screen
	anim  *flipAnim
	pace  *pacer

	busy     bool
	actionID int
	cancel   context.CancelFunc
	results  chan actionResult

	hint      game.Move
	hintUntil time.Time
	status    string
}

type Options struct {
	Session      *game.Session
	Settings     config.Settings
	SettingsPath string
	SavePath     string
	Audio        *audio.Context // nil disables sound
	Logger       zerolog.Logger
}

func NewScreen(opts Options) (*Screen, error) {
	s := &Screen{
		session:      opts.Session,
		settings:     opts.Settings,
		settingsPath: opts.SettingsPath,
		savePath:     opts.SavePath,
		log:          opts.Logger,
		results:      make(chan actionResult, 8),
		hint:         game.NoMove,
		pace:         newPacer(),
	}
	if err := s.loadChips(); err != nil {
		return nil, err
	}
	var err error
	if s.hintImg, err = assets.LoadSVG("hint", chipPixels); err != nil {
		return nil, fmt.Errorf("load hint marker: %w", err)
	}
	if opts.Audio != nil {
		if s.click, err = assets.LoadClick(opts.Audio); err != nil {
			return nil, err
		}
	}
	s.board = bakeBoard()
	s.shown = s.session.Snapshot()

	// The computer may have to open.
	s.start("open", func(ctx context.Context) (game.Move, error) {
		return game.NoMove, s.session.ComputerMakeMove(ctx)
	})
	return s, nil
}

func (s *Screen) loadChips() error {
	chips := make(map[game.Color]*ebiten.Image, 2)
	for _, c := range []game.Color{game.First, game.Second} {
		img, err := assets.LoadSVG(assets.ChipName(c, s.settings.Grayscale), chipPixels)
		if err != nil {
			return fmt.Errorf("load %s chip: %w", c, err)
		}
		chips[c] = img
	}
	s.chips = chips
	return nil
}

// start runs f in the background unless another action is pending.
func (s *Screen) start(kind string, f func(ctx context.Context) (game.Move, error)) {
	if s.busy {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.actionID++
	s.busy = true
	s.cancel = cancel
	id := s.actionID
	go func() {
		m, err := f(ctx)
		s.results <- actionResult{id: id, kind: kind, move: m, err: err}
	}()
}

// stopAction cancels the pending action; its result will be ignored.
func (s *Screen) stopAction() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.actionID++
	s.busy = false
}

func (s *Screen) saveSettings() {
	s.settings.HumanColor = s.session.HumanColor()
	if s.settingsPath == "" {
		return
	}
	if err := config.SaveSettings(s.settingsPath, s.settings); err != nil {
		s.log.Warn().Err(err).Str("path", s.settingsPath).Msg("save settings")
	}
}

func (s *Screen) collectResults(now time.Time) {
	for {
		select {
		case r := <-s.results:
			if r.id != s.actionID {
				continue
			}
			s.busy = false
			if s.cancel != nil {
				s.cancel()
				s.cancel = nil
			}
			switch {
			case r.err == nil && r.kind == "hint":
				s.hint = r.move
				s.hintUntil = now.Add(hintTime)
			case r.err == nil:
				if r.kind == "switch" {
					s.saveSettings()
				}
			case errors.Is(r.err, game.ErrSuperseded), errors.Is(r.err, context.Canceled):
			case errors.Is(r.err, game.ErrInterrupted):
				s.status = ""
			default:
				s.status = r.err.Error()
				s.log.Debug().Err(r.err).Str("action", r.kind).Msg("action failed")
			}
		default:
			return
		}
	}
}

// syncShown animates the transition to the session's current position.
func (s *Screen) syncShown(now time.Time) {
	if s.anim != nil && s.anim.done(now) {
		s.anim = nil
	}
	if s.anim != nil {
		return
	}
	cur := s.session.Snapshot()
	if cur.MoveNumber() == s.shown.MoveNumber() && cur.String() == s.shown.String() {
		return
	}
	last := cur.LastMove()
	if s.settings.Animation && cur.MoveNumber() > s.shown.MoveNumber() && !last.IsNone() {
		a := &flipAnim{
			squares: map[game.Square]bool{},
			from:    game.Opponent(last.Color),
			to:      last.Color,
			start:   now,
			dur:     animDuration(s.settings.AnimationSpeed),
		}
		for _, sq := range cur.Turned() {
			a.squares[sq] = true
		}
		s.anim = a
	}
	if s.settings.Sound && s.click != nil && cur.MoveNumber() > s.shown.MoveNumber() {
		s.click.Rewind()
		s.click.Play()
	}
	s.shown = cur
}

func (s *Screen) Update() error {
	now := time.Now()
	s.collectResults(now)
	s.syncShown(now)
	if !s.hint.IsNone() && now.After(s.hintUntil) {
		s.hint = game.NoMove
	}
	s.pace.tick(s.busy || s.anim != nil || !s.hint.IsNone())

	if err := s.handleKeys(); err != nil {
		return err
	}
	s.handleClick()
	return nil
}

func (s *Screen) Draw(screen *ebiten.Image) {
	now := time.Now()
	screen.Fill(color.RGBA{0x18, 0x12, 0x0c, 0xff})
	screen.DrawImage(s.board, nil)
	s.drawPieces(screen, s.shown, now)
	s.drawHint(screen, now)
	s.drawStatus(screen, s.shown)
}

func (s *Screen) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}

// Close stops any background search.
func (s *Screen) Close() {
	s.stopAction()
	s.session.Interrupt()
}

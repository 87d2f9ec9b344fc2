// File ui/input.go
package ui

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"reversi_go/internal/config"
	"reversi_go/internal/game"
)

// squareCenter returns the pixel centre of square (x, y).
func squareCenter(x, y int) (float64, float64) {
	cx := float64(BoardMargin + (x-1)*CellPixels + CellPixels/2)
	cy := float64(BoardMargin + (y-1)*CellPixels + CellPixels/2)
	return cx, cy
}

// pixelToSquare maps a layout pixel to a board square.
func pixelToSquare(px, py int) (game.Square, bool) {
	px -= BoardMargin
	py -= BoardMargin
	if px < 0 || py < 0 || px >= BoardPixels || py >= BoardPixels {
		return game.Square{}, false
	}
	return game.Square{X: px/CellPixels + 1, Y: py/CellPixels + 1}, true
}

var strengthKeys = [...]ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7,
}

// handleKeys returns ebiten.Termination when the player quits.
func (s *Screen) handleKeys() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		s.stopAction()
		s.saveSettings()
		return ebiten.Termination

	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		s.stopAction()
		s.hint = game.NoMove
		s.start("new", func(ctx context.Context) (game.Move, error) {
			return game.NoMove, s.session.NewGame(ctx)
		})

	case inpututil.IsKeyJustPressed(ebiten.KeyU):
		s.stopAction()
		s.hint = game.NoMove
		if err := s.session.Undo(); err != nil {
			s.status = err.Error()
		}

	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		s.start("hint", s.session.Hint)

	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		s.start("switch", func(ctx context.Context) (game.Move, error) {
			return game.NoMove, s.session.SwitchSides(ctx)
		})

	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		s.start("continue", func(ctx context.Context) (game.Move, error) {
			return game.NoMove, s.session.Continue(ctx)
		})

	case inpututil.IsKeyJustPressed(ebiten.KeyI):
		s.session.Interrupt()

	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		s.stopAction()
		if err := config.SaveGame(s.savePath, s.session); err != nil {
			s.status = err.Error()
		} else {
			s.status = "Game saved"
		}

	case inpututil.IsKeyJustPressed(ebiten.KeyF9):
		s.loadGame()

	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		s.settings.Grayscale = !s.settings.Grayscale
		if err := s.loadChips(); err != nil {
			s.status = err.Error()
		}
		s.saveSettings()

	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		s.settings.Animation = !s.settings.Animation
		s.saveSettings()

	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		s.settings.Sound = !s.settings.Sound
		s.saveSettings()
	}

	for i, k := range strengthKeys {
		if inpututil.IsKeyJustPressed(k) {
			s.session.SetStrength(i + 1)
			s.settings.Strength = s.session.Strength()
			s.saveSettings()
		}
	}
	return nil
}

// handleClick plays the human move under the cursor and starts the reply.
func (s *Screen) handleClick() {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	if s.busy || s.anim != nil {
		return
	}
	sq, ok := pixelToSquare(ebiten.CursorPosition())
	if !ok {
		return
	}
	if err := s.session.HumanMove(sq.X, sq.Y); err != nil {
		if errors.Is(err, game.ErrIllegalMove) {
			s.status = "You cannot move there"
		} else {
			s.status = err.Error()
		}
		return
	}
	s.status = ""
	s.hint = game.NoMove
	s.start("reply", func(ctx context.Context) (game.Move, error) {
		return game.NoMove, s.session.ComputerMakeMove(ctx)
	})
}

func (s *Screen) loadGame() {
	s.stopAction()
	sg, err := config.LoadGame(s.savePath)
	if err != nil {
		s.status = err.Error()
		return
	}
	if err := sg.Restore(s.session); err != nil {
		s.status = err.Error()
		return
	}
	s.settings.Strength = s.session.Strength()
	s.settings.HumanColor = s.session.HumanColor()
	s.status = "Game loaded"
	s.start("continue", func(ctx context.Context) (game.Move, error) {
		return game.NoMove, s.session.Resume(ctx)
	})
}

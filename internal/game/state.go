package game

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrGameOver    = errors.New("game is over")
	ErrNoHistory   = errors.New("no move to take back")
)

type turnRecord struct {
	move   Move
	turned []Square
	toMove Color // side to move before the move
}

// Game tracks the position, the side to move, scores and the move history.
// The engine only reads it through Position.
type Game struct {
	grid    Grid
	toMove  Color
	score   [3]int
	history []turnRecord
}

// New returns a game in the standard opening position with First to move.
func New() *Game {
	g := &Game{}
	g.Reset()
	return g
}

// Reset puts the four centre pieces back and clears the history.
func (g *Game) Reset() {
	g.grid = Grid{}
	g.grid[4][4] = Second
	g.grid[5][5] = Second
	g.grid[4][5] = First
	g.grid[5][4] = First
	g.toMove = First
	g.history = g.history[:0]
	g.updateScores()
}

func (g *Game) updateScores() {
	g.score[None] = 0
	g.score[First] = g.grid.Count(First)
	g.score[Second] = g.grid.Count(Second)
}

// Clone deep-copies the game, history included.
func (g *Game) Clone() *Game {
	ng := &Game{grid: g.grid, toMove: g.toMove, score: g.score}
	ng.history = make([]turnRecord, len(g.history))
	for i, r := range g.history {
		ng.history[i] = turnRecord{move: r.move, toMove: r.toMove, turned: append([]Square(nil), r.turned...)}
	}
	return ng
}

func (g *Game) ToMove() Color { return g.toMove }

// ColorAt returns the owner of (x, y); off-board squares are None.
func (g *Game) ColorAt(x, y int) Color {
	if !OnBoard(x, y) {
		return None
	}
	return g.grid[x][y]
}

func (g *Game) Score(c Color) int {
	if c != First && c != Second {
		return 0
	}
	return g.score[c]
}

// Grid returns a copy of the board.
func (g *Game) Grid() Grid { return g.grid }

// MoveNumber is the number of moves made so far.
func (g *Game) MoveNumber() int { return len(g.history) }

// LastMove returns NoMove before the first move.
func (g *Game) LastMove() Move {
	if len(g.history) == 0 {
		return NoMove
	}
	return g.history[len(g.history)-1].move
}

// Moves returns the history in playing order.
func (g *Game) Moves() []Move {
	out := make([]Move, len(g.history))
	for i, r := range g.history {
		out[i] = r.move
	}
	return out
}

// MoveIsLegal reports whether m flips at least one piece. The side to move is
// not checked here.
func (g *Game) MoveIsLegal(m Move) bool {
	return g.grid.HasFlip(m.X, m.Y, m.Color)
}

// MoveIsPossible reports whether c has any legal move.
func (g *Game) MoveIsPossible(c Color) bool {
	for x := 1; x <= BoardSize; x++ {
		for y := 1; y <= BoardSize; y++ {
			if g.grid.HasFlip(x, y, c) {
				return true
			}
		}
	}
	return false
}

// MoveIsAtAllPossible reports whether either side can still move.
func (g *Game) MoveIsAtAllPossible() bool {
	return g.MoveIsPossible(First) || g.MoveIsPossible(Second)
}

// GameOver is true once neither side can move.
func (g *Game) GameOver() bool { return g.toMove == None }

// LegalMoves lists c's legal moves in column-major order.
func (g *Game) LegalMoves(c Color) []Move {
	var out []Move
	for x := 1; x <= BoardSize; x++ {
		for y := 1; y <= BoardSize; y++ {
			if g.grid.HasFlip(x, y, c) {
				out = append(out, Move{X: x, Y: y, Color: c})
			}
		}
	}
	return out
}

// MakeMove plays m for the side to move. When the opponent has no reply the
// same side moves again; when nobody can move ToMove becomes None.
func (g *Game) MakeMove(m Move) error {
	if g.toMove == None {
		return ErrGameOver
	}
	if m.Color != g.toMove {
		return fmt.Errorf("%w: %s to move, got %s", ErrIllegalMove, g.toMove, m)
	}
	turned := g.grid.Flips(m.X, m.Y, m.Color)
	if len(turned) == 0 {
		return fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}

	g.grid[m.X][m.Y] = m.Color
	for _, sq := range turned {
		g.grid[sq.X][sq.Y] = m.Color
	}
	opp := Opponent(m.Color)
	g.score[m.Color] += 1 + len(turned)
	g.score[opp] -= len(turned)
	g.history = append(g.history, turnRecord{move: m, turned: turned, toMove: g.toMove})

	switch {
	case g.MoveIsPossible(opp):
		g.toMove = opp
	case g.MoveIsPossible(m.Color):
		g.toMove = m.Color
	default:
		g.toMove = None
	}
	return nil
}

// TakeBackMove reverts the last move exactly.
func (g *Game) TakeBackMove() error {
	if len(g.history) == 0 {
		return ErrNoHistory
	}
	r := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]

	opp := Opponent(r.move.Color)
	for _, sq := range r.turned {
		g.grid[sq.X][sq.Y] = opp
	}
	g.grid[r.move.X][r.move.Y] = None
	g.score[r.move.Color] -= 1 + len(r.turned)
	g.score[opp] += len(r.turned)
	g.toMove = r.toMove
	return nil
}

// WasTurned reports whether (x, y) was flipped by the last move.
func (g *Game) WasTurned(x, y int) bool {
	if len(g.history) == 0 {
		return false
	}
	for _, sq := range g.history[len(g.history)-1].turned {
		if sq.X == x && sq.Y == y {
			return true
		}
	}
	return false
}

// SquareModified reports whether the last move placed or flipped (x, y).
func (g *Game) SquareModified(x, y int) bool {
	last := g.LastMove()
	if last.X == x && last.Y == y {
		return true
	}
	return g.WasTurned(x, y)
}

// Turned returns the squares flipped by the last move.
func (g *Game) Turned() []Square {
	if len(g.history) == 0 {
		return nil
	}
	return append([]Square(nil), g.history[len(g.history)-1].turned...)
}

// Winner is meaningful once GameOver; None means a draw.
func (g *Game) Winner() Color {
	switch {
	case g.score[First] > g.score[Second]:
		return First
	case g.score[Second] > g.score[First]:
		return Second
	}
	return None
}

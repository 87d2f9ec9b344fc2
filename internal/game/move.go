package game

import (
	"context"
	"fmt"
)

// Move places a piece of Color at column X, row Y (both 1-based).
type Move struct {
	X     int   `json:"x" toml:"x"`
	Y     int   `json:"y" toml:"y"`
	Color Color `json:"color" toml:"color"`
}

// NoMove means "no legal move" or "search aborted"; callers treat both the same.
var NoMove = Move{X: -1, Y: -1, Color: None}

// IsNone reports whether m is the NoMove sentinel.
func (m Move) IsNone() bool {
	return m.X == -1 || m.Color == None
}

func (m Move) String() string {
	if m.IsNone() {
		return "none"
	}
	return fmt.Sprintf("%c%d/%s", 'a'+m.X-1, m.Y, m.Color)
}

// Position is the read-only view a move engine needs from a game.
type Position interface {
	ToMove() Color
	ColorAt(x, y int) Color
	Score(c Color) int
}

// MoveEngine picks moves for the computer side of a Session.
type MoveEngine interface {
	ComputeMoveContext(ctx context.Context, pos Position) Move
	Strength() int
	SetStrength(strength int)
	SetInterrupt(on bool)
}

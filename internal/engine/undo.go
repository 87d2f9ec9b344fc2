// file: internal/engine/undo.go
package engine

import "reversi_go/internal/game"

// squareStack records flipped squares so a node can hand them back.
// One stack serves the whole tree; it only grows when a search goes deeper
// than the initial size allows.
type squareStack struct {
	sq  []game.Square
	top int
}

const initialStackSize = 3000

func newSquareStack() squareStack {
	return squareStack{sq: make([]game.Square, initialStackSize)}
}

func (s *squareStack) push(x, y int) {
	if s.top == len(s.sq) {
		s.sq = append(s.sq, game.Square{})
		s.sq = s.sq[:cap(s.sq)]
	}
	s.sq[s.top] = game.Square{X: x, Y: y}
	s.top++
}

func (s *squareStack) pop() game.Square {
	s.top--
	return s.sq[s.top]
}

func (s *squareStack) reset() { s.top = 0 }

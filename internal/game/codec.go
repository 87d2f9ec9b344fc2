package game

import (
	"errors"
	"fmt"
	"strings"
)

var ErrBadBoard = errors.New("malformed board text")

// ParseBoard reads 8 rows of 8 cells, X for First, O for Second and . for an
// empty square. Whitespace inside a row is ignored and blank lines are skipped.
// The result has no history.
func ParseBoard(s string, toMove Color) (*Game, error) {
	g := &Game{toMove: toMove}
	y := 0
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), "")
		if line == "" {
			continue
		}
		y++
		if y > BoardSize {
			return nil, fmt.Errorf("%w: more than %d rows", ErrBadBoard, BoardSize)
		}
		if len(line) != BoardSize {
			return nil, fmt.Errorf("%w: row %d has %d cells", ErrBadBoard, y, len(line))
		}
		for i := 0; i < BoardSize; i++ {
			var c Color
			switch line[i] {
			case 'X', 'x':
				c = First
			case 'O', 'o':
				c = Second
			case '.', '-':
				c = None
			default:
				return nil, fmt.Errorf("%w: unexpected %q at row %d", ErrBadBoard, line[i], y)
			}
			g.grid[i+1][y] = c
		}
	}
	if y != BoardSize {
		return nil, fmt.Errorf("%w: %d rows", ErrBadBoard, y)
	}
	g.updateScores()
	return g, nil
}

// String renders the board in the format ParseBoard reads.
func (g *Game) String() string {
	var sb strings.Builder
	sb.Grow((BoardSize + 1) * BoardSize)
	for y := 1; y <= BoardSize; y++ {
		for x := 1; x <= BoardSize; x++ {
			switch g.grid[x][y] {
			case First:
				sb.WriteByte('X')
			case Second:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Replay builds a game by playing moves from the opening position.
func Replay(moves []Move) (*Game, error) {
	g := New()
	for i, m := range moves {
		if err := g.MakeMove(m); err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
	}
	return g, nil
}

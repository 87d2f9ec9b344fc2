// File game/board.go
package game

import "fmt"

// Color is the owner of a square, or the side to move.
type Color int8

const (
	None Color = iota
	First
	Second
)

// BoardSize is the number of playable rows and columns.
const BoardSize = 8

// Squares is the number of playable squares.
const Squares = BoardSize * BoardSize

func (c Color) String() string {
	switch c {
	case First:
		return "first"
	case Second:
		return "second"
	}
	return "none"
}

// Opponent maps First<->Second; None stays None.
func Opponent(c Color) Color {
	switch c {
	case First:
		return Second
	case Second:
		return First
	}
	return None
}

// ParseColor accepts the names produced by Color.String plus the classic
// black/white aliases.
func ParseColor(s string) (Color, error) {
	switch s {
	case "first", "black", "x", "X":
		return First, nil
	case "second", "white", "o", "O":
		return Second, nil
	case "none", "":
		return None, nil
	}
	return None, fmt.Errorf("unknown color %q", s)
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Square is a 1-based (column, row) pair.
type Square struct {
	X, Y int
}

// Directions are the 8 scan offsets used for flanking.
var Directions = [8]Square{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Grid is a 10×10 board. Rows/columns 0 and 9 are a border that always stays
// None, so directional scans need no bounds checks.
type Grid [BoardSize + 2][BoardSize + 2]Color

// OnBoard reports whether (x, y) is a playable square.
func OnBoard(x, y int) bool {
	return x >= 1 && x <= BoardSize && y >= 1 && y <= BoardSize
}

// Flips returns the squares c would turn by playing (x, y) on g. An empty
// result means the move is illegal.
func (g *Grid) Flips(x, y int, c Color) []Square {
	if !OnBoard(x, y) || g[x][y] != None || c == None {
		return nil
	}
	opp := Opponent(c)
	var out []Square
	for _, d := range Directions {
		xi, yi := x+d.X, y+d.Y
		for g[xi][yi] == opp {
			xi += d.X
			yi += d.Y
		}
		if g[xi][yi] != c {
			continue
		}
		for xi, yi = xi-d.X, yi-d.Y; xi != x || yi != y; xi, yi = xi-d.X, yi-d.Y {
			out = append(out, Square{xi, yi})
		}
	}
	return out
}

// HasFlip is Flips without allocating.
func (g *Grid) HasFlip(x, y int, c Color) bool {
	if !OnBoard(x, y) || g[x][y] != None || c == None {
		return false
	}
	opp := Opponent(c)
	for _, d := range Directions {
		xi, yi := x+d.X, y+d.Y
		n := 0
		for g[xi][yi] == opp {
			xi += d.X
			yi += d.Y
			n++
		}
		if n > 0 && g[xi][yi] == c {
			return true
		}
	}
	return false
}

// Count returns the number of squares owned by c.
func (g *Grid) Count(c Color) int {
	n := 0
	for x := 1; x <= BoardSize; x++ {
		for y := 1; y <= BoardSize; y++ {
			if g[x][y] == c {
				n++
			}
		}
	}
	return n
}

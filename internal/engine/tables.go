// file: internal/engine/tables.go
package engine

import (
	"sync"

	"reversi_go/internal/game"
)

const side = game.BoardSize + 2

// ---- precomputed square tables ----

type squareTables struct {
	coordBit     [side][side]uint64 // 1 << ((x-1)*8 + (y-1))
	neighborBits [side][side]uint64 // OR of the bits of the 8 neighbours
	bcBoard      [side][side]int    // static board-control weight
}

var (
	tbl     squareTables
	tblOnce sync.Once
)

func ensureTables() {
	tblOnce.Do(func() {
		var bit uint64 = 1
		for x := 1; x <= game.BoardSize; x++ {
			for y := 1; y <= game.BoardSize; y++ {
				tbl.coordBit[x][y] = bit
				bit <<= 1
			}
		}

		for x := 1; x <= game.BoardSize; x++ {
			for y := 1; y <= game.BoardSize; y++ {
				var m uint64
				for _, d := range game.Directions {
					if game.OnBoard(x+d.X, y+d.Y) {
						m |= tbl.coordBit[x+d.X][y+d.Y]
					}
				}
				tbl.neighborBits[x][y] = m
			}
		}

		// Second row/column from an edge costs 1 per dimension, so the
		// X-squares next to the corners end up at -2.
		for x := 1; x <= game.BoardSize; x++ {
			for y := 1; y <= game.BoardSize; y++ {
				v := 0
				if x == 2 || x == 7 {
					v--
				}
				if y == 2 || y == 7 {
					v--
				}
				tbl.bcBoard[x][y] = v
			}
		}
		for _, c := range [4]game.Square{{1, 1}, {8, 1}, {1, 8}, {8, 8}} {
			tbl.bcBoard[c.X][c.Y] = 2
		}
		for _, c := range [8]game.Square{
			{1, 2}, {2, 1}, {1, 7}, {7, 1},
			{8, 2}, {2, 8}, {8, 7}, {7, 8},
		} {
			tbl.bcBoard[c.X][c.Y] = -1
		}
	})
}

// BoardControl returns the positional weight of (x, y); 0 off the board.
func BoardControl(x, y int) int {
	ensureTables()
	if !game.OnBoard(x, y) {
		return 0
	}
	return tbl.bcBoard[x][y]
}

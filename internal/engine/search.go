// file: internal/engine/search.go
package engine

import (
	"context"
	"time"

	"reversi_go/internal/game"
)

// ---- incremental board mutation ----

// apply plays (x, y) for c on the working board and returns the number of
// pieces turned. On 0 the board is left untouched.
func (e *Engine) apply(x, y int, c game.Color) int {
	opp := game.Opponent(c)
	e.board[x][y] = c
	turned := 0
	for _, d := range game.Directions {
		xi, yi := x+d.X, y+d.Y
		for e.board[xi][yi] == opp {
			xi += d.X
			yi += d.Y
		}
		if e.board[xi][yi] != c {
			continue
		}
		for xi, yi = xi-d.X, yi-d.Y; xi != x || yi != y; xi, yi = xi-d.X, yi-d.Y {
			e.board[xi][yi] = c
			bit := tbl.coordBit[xi][yi]
			e.bits[c] |= bit
			e.bits[opp] &^= bit
			w := tbl.bcBoard[xi][yi]
			e.bcScore[c] += w
			e.bcScore[opp] -= w
			e.stack.push(xi, yi)
			turned++
		}
	}
	if turned == 0 {
		e.board[x][y] = game.None
		return 0
	}
	e.bits[c] |= tbl.coordBit[x][y]
	e.bcScore[c] += tbl.bcBoard[x][y]
	e.score[c] += turned + 1
	e.score[opp] -= turned
	return turned
}

// undo reverses an apply that turned n pieces.
func (e *Engine) undo(x, y int, c game.Color, n int) {
	opp := game.Opponent(c)
	for i := 0; i < n; i++ {
		sq := e.stack.pop()
		e.board[sq.X][sq.Y] = opp
		bit := tbl.coordBit[sq.X][sq.Y]
		e.bits[opp] |= bit
		e.bits[c] &^= bit
		w := tbl.bcBoard[sq.X][sq.Y]
		e.bcScore[opp] += w
		e.bcScore[c] -= w
	}
	e.board[x][y] = game.None
	e.bits[c] &^= tbl.coordBit[x][y]
	e.bcScore[c] -= tbl.bcBoard[x][y]
	e.score[c] -= n + 1
	e.score[opp] += n
}

// ---- evaluation ----

func (e *Engine) evaluate(c game.Color) int {
	opp := game.Opponent(c)
	diff := e.score[c] - e.score[opp]
	if e.exhaustive {
		return diff
	}
	return (100-e.coeff)*diff + e.coeff*BCWeight*(e.bcScore[c]-e.bcScore[opp])
}

// finalValue scores a finished game from c's side.
func (e *Engine) finalValue(c game.Color) int {
	diff := e.score[c] - e.score[game.Opponent(c)]
	switch {
	case e.exhaustive:
		return diff
	case diff > 0:
		return SureWin + diff
	case diff < 0:
		return -SureWin + diff
	}
	return 0
}

// ---- recursive search ----

// computeMove2 plays (x, y) for c at ply level and scores the result from c's
// side. Replies worth more than -cutoff to the opponent end the scan early.
func (e *Engine) computeMove2(x, y int, c game.Color, level, cutoff int) int {
	if e.interrupt.Load() {
		return IllegalValue
	}
	e.nodes++
	n := e.apply(x, y, c)
	if n == 0 {
		return IllegalValue
	}
	defer e.undo(x, y, c, n)

	var val int
	if level >= e.depth {
		val = e.evaluate(c)
	} else if best := e.tryAllMoves(game.Opponent(c), level, cutoff); best != -LargeInt {
		val = -best
	} else if e.interrupt.Load() {
		return IllegalValue
	} else if again := e.tryAllMoves(c, level, -LargeInt); again != -LargeInt {
		// opponent passes
		val = again
	} else {
		val = e.finalValue(c)
	}
	if e.interrupt.Load() {
		return IllegalValue
	}
	return val
}

// tryAllMoves returns c's best value one ply below level, or -LargeInt when
// c has no legal move or the search was interrupted.
func (e *Engine) tryAllMoves(c game.Color, level, cutoff int) int {
	if e.yield != nil {
		e.yield()
	}
	oppBits := e.bits[game.Opponent(c)]
	maxval := -LargeInt

scan:
	for x := 1; x <= game.BoardSize; x++ {
		for y := 1; y <= game.BoardSize; y++ {
			if e.board[x][y] != game.None || tbl.neighborBits[x][y]&oppBits == 0 {
				continue
			}
			val := e.computeMove2(x, y, c, level+1, maxval)
			if val != IllegalValue && val > maxval {
				maxval = val
				if maxval > -cutoff {
					break scan
				}
			}
			if e.interrupt.Load() {
				break scan
			}
		}
	}
	if e.interrupt.Load() {
		return -LargeInt
	}
	return maxval
}

// ---- search setup ----

// configure derives depth, exhaustive and coeff from the piece count.
func (e *Engine) configure(total int) {
	d := e.Strength()
	switch {
	case total+d+3 >= game.Squares:
		d = game.Squares - total
	case total+d+4 >= game.Squares:
		d += 2
	case total+d+5 >= game.Squares:
		d++
	}
	e.depth = d
	e.exhaustive = total+d >= game.Squares
	coeff := 100 - (100*(total+d-4))/60
	e.coeff = min(max(coeff, 0), 100)
}

func (e *Engine) setup(pos Position) {
	e.board = game.Grid{}
	e.score = [3]int{}
	e.bcScore = [3]int{}
	e.bits = [3]uint64{}
	for x := 1; x <= game.BoardSize; x++ {
		for y := 1; y <= game.BoardSize; y++ {
			c := pos.ColorAt(x, y)
			if c != game.First && c != game.Second {
				continue
			}
			e.board[x][y] = c
			e.bits[c] |= tbl.coordBit[x][y]
			e.bcScore[c] += tbl.bcBoard[x][y]
		}
	}
	e.score[game.First] = pos.Score(game.First)
	e.score[game.Second] = pos.Score(game.Second)
	e.stack.reset()
	e.nodes = 0
}

type rootResult struct {
	best   game.Move
	value  int
	values []moveValue
}

type moveValue struct {
	x, y, val int
}

// rootSearch scores every candidate at ply 1. A better value replaces the
// current best only with probability strength/7, which is how lower
// strengths miss moves.
func (e *Engine) rootSearch(c game.Color) rootResult {
	oppBits := e.bits[game.Opponent(c)]
	strength := e.Strength()
	res := rootResult{best: game.NoMove, value: -LargeInt}

scan:
	for x := 1; x <= game.BoardSize; x++ {
		for y := 1; y <= game.BoardSize; y++ {
			if e.board[x][y] != game.None || tbl.neighborBits[x][y]&oppBits == 0 {
				continue
			}
			val := e.computeMove2(x, y, c, 1, res.value)
			if val != IllegalValue {
				res.values = append(res.values, moveValue{x, y, val})
				if val > res.value {
					if res.value == -LargeInt || e.rng.Intn(adoptRange) < strength {
						res.value = val
						res.best = game.Move{X: x, Y: y, Color: c}
					}
				}
			}
			if e.interrupt.Load() {
				break scan
			}
		}
	}

	// Pruned moves score below the best, so ties are exact.
	ties := 0
	for _, mv := range res.values {
		if mv.val == res.value {
			ties++
		}
	}
	if ties > 1 {
		r := e.rng.Intn(ties) + 1
		for _, mv := range res.values {
			if mv.val != res.value {
				continue
			}
			r--
			if r <= 0 {
				res.best = game.Move{X: mv.x, Y: mv.y, Color: c}
				break
			}
		}
	}
	return res
}

const adoptRange = 7

var firstMoves = map[game.Color][4]game.Square{
	game.Second: {{3, 5}, {4, 6}, {5, 3}, {6, 4}},
	game.First:  {{3, 4}, {5, 6}, {4, 3}, {6, 5}},
}

// isOpening reports whether pos holds the standard four centre pieces.
func isOpening(pos Position) bool {
	return pos.ColorAt(4, 4) == game.Second && pos.ColorAt(5, 5) == game.Second &&
		pos.ColorAt(4, 5) == game.First && pos.ColorAt(5, 4) == game.First
}

func (e *Engine) computeFirstMove(c game.Color) game.Move {
	sq := firstMoves[c][e.rng.Intn(4)]
	return game.Move{X: sq.X, Y: sq.Y, Color: c}
}

// ---- public entry points ----

// ComputeMove returns the move chosen for pos.ToMove(), or game.NoMove when
// there is no legal move, nobody is to move, or the search was interrupted.
func (e *Engine) ComputeMove(pos Position) game.Move {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.interrupt.Store(false)
	return e.computeMove(pos)
}

// ComputeMoveContext is ComputeMove with ctx cancellation mapped onto the
// interrupt flag.
func (e *Engine) ComputeMoveContext(ctx context.Context, pos Position) game.Move {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.interrupt.Store(false)
	if ctx.Err() != nil {
		return game.NoMove
	}
	stop := context.AfterFunc(ctx, func() { e.interrupt.Store(true) })
	defer stop()
	return e.computeMove(pos)
}

func (e *Engine) computeMove(pos Position) game.Move {
	c := pos.ToMove()
	if c != game.First && c != game.Second {
		return game.NoMove
	}
	total := pos.Score(game.First) + pos.Score(game.Second)
	if total == 4 && isOpening(pos) {
		return e.computeFirstMove(c)
	}

	start := time.Now()
	e.setup(pos)
	e.configure(total)
	res := e.rootSearch(c)

	e.last = SearchStats{
		Depth:      e.depth,
		Exhaustive: e.exhaustive,
		Coeff:      e.coeff,
		Nodes:      e.nodes,
		Value:      res.value,
		Elapsed:    time.Since(start),
	}
	interrupted := e.interrupt.Load()
	e.log.Debug().
		Str("color", c.String()).
		Int("depth", e.depth).
		Bool("exhaustive", e.exhaustive).
		Int("coeff", e.coeff).
		Int64("nodes", e.nodes).
		Int("value", res.value).
		Bool("interrupted", interrupted).
		Dur("elapsed", e.last.Elapsed).
		Msg("search done")

	if interrupted || res.value == -LargeInt {
		return game.NoMove
	}
	return res.best
}

// file: internal/engine/engine.go
package engine

import (
	"encoding/binary"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"lukechampine.com/frand"

	"reversi_go/internal/game"
)

const (
	LargeInt     = 99999
	IllegalValue = 8888888
	BCWeight     = 3
	// SureWin offsets finished games past any heuristic score, keeping the
	// piece difference as a tie-break.
	SureWin = LargeInt - 65

	MinStrength = 1
	MaxStrength = 7
)

// Position is what ComputeMove reads. *game.Game implements it.
type Position = game.Position

// Rand is the random source used for first moves and root tie-breaking.
// *frand.RNG and *math/rand.Rand both satisfy it.
type Rand interface {
	Intn(n int) int
}

// SearchStats describes the most recent ComputeMove call.
type SearchStats struct {
	Depth      int
	Exhaustive bool
	Coeff      int
	Nodes      int64
	Value      int
	Elapsed    time.Duration
}

// Engine is a Reversi move searcher. Searches on one Engine are serialised;
// use one Engine per concurrently played game.
type Engine struct {
	strength  atomic.Int32
	interrupt atomic.Bool

	rng   Rand
	yield func()
	log   zerolog.Logger

	mu sync.Mutex // held for the whole of a search

	// search state, valid while mu is held
	board      game.Grid
	score      [3]int
	bcScore    [3]int
	bits       [3]uint64
	stack      squareStack
	depth      int
	exhaustive bool
	coeff      int
	nodes      int64
	last       SearchStats
}

type Option func(*Engine)

func WithStrength(n int) Option { return func(e *Engine) { e.SetStrength(n) } }

func WithRand(r Rand) Option { return func(e *Engine) { e.rng = r } }

// WithSeed makes the engine's choices reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.rng = SeededRand(seed) }
}

// WithYield installs a callback run before every opponent-move enumeration.
func WithYield(f func()) Option { return func(e *Engine) { e.yield = f } }

func WithLogger(l zerolog.Logger) Option { return func(e *Engine) { e.log = l } }

// SeededRand returns a deterministic frand stream for seed.
func SeededRand(seed uint64) *frand.RNG {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	return frand.NewCustom(key[:], 1024, 12)
}

func New(opts ...Option) *Engine {
	ensureTables()
	e := &Engine{
		rng:   frand.New(),
		log:   zerolog.Nop(),
		stack: newSquareStack(),
	}
	e.strength.Store(MinStrength)
	for _, o := range opts {
		o(e)
	}
	return e
}

// SetStrength clamps n to [MinStrength, MaxStrength]. Safe to call during a
// search; it takes effect on the next one.
func (e *Engine) SetStrength(n int) {
	if n < MinStrength {
		n = MinStrength
	}
	if n > MaxStrength {
		n = MaxStrength
	}
	e.strength.Store(int32(n))
}

func (e *Engine) Strength() int { return int(e.strength.Load()) }

// SetInterrupt asks a running search to stop (true). Every ComputeMove call
// clears the flag when it starts.
func (e *Engine) SetInterrupt(on bool) { e.interrupt.Store(on) }

func (e *Engine) Interrupted() bool { return e.interrupt.Load() }

// LastSearch reports statistics of the last completed call.
func (e *Engine) LastSearch() SearchStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

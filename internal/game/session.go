package game

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrBusy         = errors.New("engine is busy")
	ErrNotYourTurn  = errors.New("not the human's turn")
	ErrInterrupted  = errors.New("computer move interrupted")
	ErrSuperseded   = errors.New("position changed during search")
	ErrNoEngineMove = errors.New("engine found no move")
)

// SessionState is what the session is doing right now.
type SessionState int

const (
	Ready SessionState = iota
	Thinking
	Hinting
)

func (s SessionState) String() string {
	switch s {
	case Thinking:
		return "thinking"
	case Hinting:
		return "hint"
	}
	return "ready"
}

// Result summarises the game for display.
type Result struct {
	Over   bool  `json:"over"`
	Winner Color `json:"winner"`
	First  int   `json:"first"`
	Second int   `json:"second"`
}

// Session couples a Game with an engine playing the side the human does not.
// All methods are safe for concurrent use; searches run with the lock
// released on a clone of the game.
type Session struct {
	mu          sync.Mutex
	game        *Game
	engine      MoveEngine
	human       Color
	state       SessionState
	gen         uint64
	interrupted bool
	cancel      context.CancelFunc // stops the search in flight
}

func NewSession(engine MoveEngine, human Color) *Session {
	if human != Second {
		human = First
	}
	return &Session{game: New(), engine: engine, human: human}
}

// Snapshot returns a copy of the current game.
func (s *Session) Snapshot() *Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Clone()
}

func (s *Session) HumanColor() Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.human
}

func (s *Session) ComputerColor() Color { return Opponent(s.HumanColor()) }

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Strength() int { return s.engine.Strength() }

// SetStrength forwards to the engine, which clamps the value.
func (s *Session) SetStrength(n int) { s.engine.SetStrength(n) }

// HumanMove plays (x, y) for the human without answering it.
func (s *Session) HumanMove(x, y int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Ready {
		return ErrBusy
	}
	if s.game.GameOver() {
		return ErrGameOver
	}
	if s.game.ToMove() != s.human {
		return ErrNotYourTurn
	}
	if err := s.game.MakeMove(Move{X: x, Y: y, Color: s.human}); err != nil {
		return err
	}
	s.interrupted = false
	return nil
}

// FieldClicked plays the human move at (x, y) and lets the computer reply.
func (s *Session) FieldClicked(ctx context.Context, x, y int) error {
	if err := s.HumanMove(x, y); err != nil {
		return err
	}
	return s.ComputerMakeMove(ctx)
}

// ComputerMakeMove lets the engine move for as long as it is the computer's
// turn, which covers the human having to pass.
func (s *Session) ComputerMakeMove(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.game.GameOver() || s.game.ToMove() == s.human {
			s.mu.Unlock()
			return nil
		}
		if s.state != Ready {
			s.mu.Unlock()
			return ErrBusy
		}
		s.state = Thinking
		gen := s.gen
		pos := s.game.Clone()
		searchCtx := s.beginSearch(ctx)
		s.mu.Unlock()

		m := s.engine.ComputeMoveContext(searchCtx, pos)

		s.mu.Lock()
		if gen != s.gen {
			s.mu.Unlock()
			return ErrSuperseded
		}
		stopped := searchCtx.Err() != nil
		s.endSearch()
		s.state = Ready
		if m.IsNone() || stopped {
			// The computer is to move, so it has a legal move: an empty
			// answer means the search was cut short.
			s.interrupted = true
			s.mu.Unlock()
			if err := ctx.Err(); err != nil {
				return errors.Join(ErrInterrupted, err)
			}
			return ErrInterrupted
		}
		err := s.game.MakeMove(m)
		s.mu.Unlock()
		if err != nil {
			return errors.Join(ErrNoEngineMove, err)
		}
	}
}

// Hint asks the engine for the move it would play in the human's place.
func (s *Session) Hint(ctx context.Context) (Move, error) {
	s.mu.Lock()
	if s.state != Ready {
		s.mu.Unlock()
		return NoMove, ErrBusy
	}
	if s.game.GameOver() {
		s.mu.Unlock()
		return NoMove, ErrGameOver
	}
	if s.game.ToMove() != s.human {
		s.mu.Unlock()
		return NoMove, ErrNotYourTurn
	}
	s.state = Hinting
	gen := s.gen
	pos := s.game.Clone()
	searchCtx := s.beginSearch(ctx)
	s.mu.Unlock()

	m := s.engine.ComputeMoveContext(searchCtx, pos)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return NoMove, ErrSuperseded
	}
	stopped := searchCtx.Err() != nil
	s.endSearch()
	s.state = Ready
	if m.IsNone() || stopped {
		return NoMove, ErrInterrupted
	}
	return m, nil
}

// beginSearch derives the context the next engine call runs under. Callers
// hold mu.
func (s *Session) beginSearch(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	return ctx
}

// endSearch releases the search context. Callers hold mu.
func (s *Session) endSearch() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// stopSearch invalidates any search in flight. Callers hold mu.
func (s *Session) stopSearch() {
	s.gen++
	if s.state != Ready {
		s.engine.SetInterrupt(true)
	}
	s.endSearch()
	s.state = Ready
}

// Undo takes back the trailing run of moves by the last mover plus one more,
// which returns the board to the human's previous turn in normal play.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game.MoveNumber() == 0 {
		return ErrNoHistory
	}
	s.stopSearch()
	last := s.game.LastMove().Color
	for s.game.MoveNumber() > 0 && s.game.LastMove().Color == last {
		if err := s.game.TakeBackMove(); err != nil {
			return err
		}
	}
	if s.game.MoveNumber() > 0 {
		if err := s.game.TakeBackMove(); err != nil {
			return err
		}
	}
	s.interrupted = false
	return nil
}

// SwitchSides hands the human's color to the computer and lets it move.
func (s *Session) SwitchSides(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Ready {
		s.mu.Unlock()
		return ErrBusy
	}
	s.human = Opponent(s.human)
	s.interrupted = false
	s.mu.Unlock()
	return s.ComputerMakeMove(ctx)
}

// Interrupt stops a running computer move; Continue resumes it.
func (s *Session) Interrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Thinking {
		s.engine.SetInterrupt(true)
		s.endSearch()
		s.interrupted = true
	}
}

// MarkInterrupted flags a restored game whose computer move was cut short,
// so that Continue resumes it. It does nothing unless the computer is to move.
func (s *Session) MarkInterrupted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game.GameOver() || s.game.ToMove() == s.human {
		return
	}
	s.interrupted = true
}

func (s *Session) Interrupted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interrupted
}

// Continue restarts the computer after an interrupt.
func (s *Session) Continue(ctx context.Context) error {
	s.mu.Lock()
	if !s.interrupted {
		s.mu.Unlock()
		return nil
	}
	s.interrupted = false
	s.mu.Unlock()
	return s.ComputerMakeMove(ctx)
}

// Resume clears any interrupt and lets the computer move if it is its turn.
func (s *Session) Resume(ctx context.Context) error {
	s.mu.Lock()
	s.interrupted = false
	s.mu.Unlock()
	return s.ComputerMakeMove(ctx)
}

// NewGame resets the board and, when the computer plays First, lets it open.
func (s *Session) NewGame(ctx context.Context) error {
	s.mu.Lock()
	s.stopSearch()
	s.game.Reset()
	s.interrupted = false
	s.mu.Unlock()
	return s.ComputerMakeMove(ctx)
}

// Load replaces the game, e.g. from a saved file. No search is started.
func (s *Session) Load(g *Game, human Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopSearch()
	s.game = g.Clone()
	if human != Second {
		human = First
	}
	s.human = human
	s.interrupted = false
}

func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Result{
		Over:   s.game.GameOver(),
		Winner: s.game.Winner(),
		First:  s.game.Score(First),
		Second: s.game.Score(Second),
	}
}

package game

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// firstLegal plays the first legal move in column-major order.
type firstLegal struct {
	strength  int
	interrupt atomic.Bool
	block     chan struct{}
}

func (f *firstLegal) ComputeMoveContext(ctx context.Context, pos Position) Move {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return NoMove
		}
	}
	if f.interrupt.Swap(false) {
		return NoMove
	}
	g := pos.(*Game)
	mvs := g.LegalMoves(g.ToMove())
	if len(mvs) == 0 {
		return NoMove
	}
	return mvs[0]
}

func (f *firstLegal) Strength() int { return f.strength }

func (f *firstLegal) SetStrength(n int) { f.strength = n }

func (f *firstLegal) SetInterrupt(b bool) { f.interrupt.Store(b) }

func TestSessionHumanThenComputer(t *testing.T) {
	s := NewSession(&firstLegal{strength: 1}, First)
	if err := s.FieldClicked(context.Background(), 3, 4); err != nil {
		t.Fatalf("FieldClicked: %v", err)
	}
	g := s.Snapshot()
	if g.MoveNumber() != 2 || g.ToMove() != First {
		t.Fatalf("moves %d, to move %s", g.MoveNumber(), g.ToMove())
	}
	if g.LastMove().Color != Second {
		t.Fatalf("computer did not answer")
	}
}

func TestSessionRejects(t *testing.T) {
	s := NewSession(&firstLegal{}, Second)
	if err := s.HumanMove(3, 4); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("err = %v", err)
	}
	if _, err := s.Hint(context.Background()); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("hint err = %v", err)
	}
	if err := s.NewGame(context.Background()); err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if s.Snapshot().MoveNumber() != 1 {
		t.Fatalf("computer should open as first")
	}
	if err := s.HumanMove(1, 1); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("err = %v", err)
	}
}

func TestSessionComputerMovesWhileHumanPasses(t *testing.T) {
	g, err := ParseBoard(`
		XO......
		........
		........
		........
		........
		........
		........
		......OX
	`, First)
	if err != nil {
		t.Fatal(err)
	}
	s := NewSession(&firstLegal{}, Second)
	s.Load(g, Second)
	if err := s.ComputerMakeMove(context.Background()); err != nil {
		t.Fatalf("ComputerMakeMove: %v", err)
	}
	res := s.Result()
	if !res.Over || res.Winner != First || res.Second != 0 {
		t.Fatalf("result = %+v", res)
	}
	if s.Snapshot().MoveNumber() != 2 {
		t.Fatalf("computer should have moved twice")
	}
}

func TestSessionUndo(t *testing.T) {
	s := NewSession(&firstLegal{}, First)
	ctx := context.Background()
	if err := s.Undo(); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("err = %v", err)
	}
	if err := s.FieldClicked(ctx, 3, 4); err != nil {
		t.Fatal(err)
	}
	first := s.Snapshot().String()
	mvs := s.Snapshot().LegalMoves(First)
	if err := s.FieldClicked(ctx, mvs[0].X, mvs[0].Y); err != nil {
		t.Fatal(err)
	}
	if err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := s.Snapshot().String(); got != first {
		t.Fatalf("undo went to\n%s\nwant\n%s", got, first)
	}
	if s.Snapshot().ToMove() != First {
		t.Fatalf("undo should return the turn to the human")
	}
}

func TestSessionHint(t *testing.T) {
	s := NewSession(&firstLegal{}, First)
	m, err := s.Hint(context.Background())
	if err != nil {
		t.Fatalf("Hint: %v", err)
	}
	if m != (Move{X: 3, Y: 4, Color: First}) {
		t.Fatalf("hint = %v", m)
	}
	if s.Snapshot().MoveNumber() != 0 || s.State() != Ready {
		t.Fatalf("hint changed the game")
	}
}

func TestSessionSwitchSides(t *testing.T) {
	s := NewSession(&firstLegal{}, First)
	if err := s.SwitchSides(context.Background()); err != nil {
		t.Fatalf("SwitchSides: %v", err)
	}
	if s.HumanColor() != Second || s.Snapshot().MoveNumber() != 1 {
		t.Fatalf("human %s, moves %d", s.HumanColor(), s.Snapshot().MoveNumber())
	}
}

func TestSessionInterruptAndContinue(t *testing.T) {
	eng := &firstLegal{block: make(chan struct{})}
	s := NewSession(eng, Second)
	done := make(chan error, 1)
	go func() { done <- s.ComputerMakeMove(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for s.State() != Thinking {
		if time.Now().After(deadline) {
			t.Fatal("engine never started")
		}
		time.Sleep(time.Millisecond)
	}
	s.Interrupt()
	close(eng.block)
	if err := <-done; !errors.Is(err, ErrInterrupted) {
		t.Fatalf("err = %v", err)
	}
	if !s.Interrupted() || s.Snapshot().MoveNumber() != 0 {
		t.Fatalf("interrupt state wrong")
	}

	eng.block = nil
	if err := s.Continue(context.Background()); err != nil {
		t.Fatalf("Continue: %v", err)
	}
	if s.Interrupted() || s.Snapshot().MoveNumber() != 1 {
		t.Fatalf("continue did not move")
	}
}

func TestSessionContextCancel(t *testing.T) {
	eng := &firstLegal{block: make(chan struct{})}
	s := NewSession(eng, Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.ComputerMakeMove(ctx)
	if !errors.Is(err, ErrInterrupted) || !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestSessionNewGameSupersedes(t *testing.T) {
	eng := &firstLegal{block: make(chan struct{})}
	s := NewSession(eng, Second)
	done := make(chan error, 1)
	go func() { done <- s.ComputerMakeMove(context.Background()) }()
	for s.State() != Thinking {
		time.Sleep(time.Millisecond)
	}
	s.Load(New(), First)
	close(eng.block)
	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("err = %v", err)
	}
	if s.Snapshot().MoveNumber() != 0 || s.State() != Ready {
		t.Fatalf("stale result applied")
	}
}

// lateStart clears its own interrupt flag when the search begins, the way a
// real engine does once it holds its lock.
type lateStart struct {
	firstLegal
	entered chan struct{}
	release chan struct{}
}

func (f *lateStart) ComputeMoveContext(ctx context.Context, pos Position) Move {
	close(f.entered)
	<-f.release
	f.interrupt.Store(false)
	if ctx.Err() != nil {
		return NoMove
	}
	return f.firstLegal.ComputeMoveContext(ctx, pos)
}

func TestSessionInterruptBeforeEngineStarts(t *testing.T) {
	eng := &lateStart{entered: make(chan struct{}), release: make(chan struct{})}
	s := NewSession(eng, Second)
	done := make(chan error, 1)
	go func() { done <- s.ComputerMakeMove(context.Background()) }()

	<-eng.entered
	s.Interrupt()
	close(eng.release)
	if err := <-done; !errors.Is(err, ErrInterrupted) {
		t.Fatalf("err = %v", err)
	}
	if s.Snapshot().MoveNumber() != 0 || !s.Interrupted() {
		t.Fatalf("move played after interrupt: %d moves", s.Snapshot().MoveNumber())
	}
}

func TestSessionMarkInterrupted(t *testing.T) {
	s := NewSession(&firstLegal{}, Second)
	s.MarkInterrupted()
	if !s.Interrupted() {
		t.Fatalf("computer to move: flag not set")
	}
	if err := s.Resume(context.Background()); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if s.Interrupted() || s.Snapshot().MoveNumber() != 1 {
		t.Fatalf("resume did not move")
	}
	s.MarkInterrupted()
	if s.Interrupted() {
		t.Fatalf("human to move: flag set")
	}
}

package main

import (
	"context"
	"testing"

	"reversi_go/internal/game"
)

func TestPlayGameDeterministic(t *testing.T) {
	cfg := matchConfig{strengthA: 2, strengthB: 1, openingMoves: 2}
	r1, err := playGame(context.Background(), cfg, 1, 99)
	if err != nil {
		t.Fatalf("playGame: %v", err)
	}
	r2, err := playGame(context.Background(), cfg, 1, 99)
	if err != nil {
		t.Fatalf("playGame: %v", err)
	}
	if len(r1.Moves) != len(r2.Moves) || r1.ScoreA != r2.ScoreA || r1.ScoreB != r2.ScoreB {
		t.Fatalf("same seed, different games: %d/%d vs %d/%d", r1.ScoreA, r1.ScoreB, r2.ScoreA, r2.ScoreB)
	}
	if r1.FirstIsA {
		t.Fatalf("odd games give First to B")
	}
	if _, err := game.Replay(r1.Moves); err != nil {
		t.Fatalf("recorded moves do not replay: %v", err)
	}
}

func TestPlayGameCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := playGame(ctx, matchConfig{strengthA: 1, strengthB: 1}, 0, 1); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestSummarize(t *testing.T) {
	recs := []gameRecord{
		{Winner: "a", ScoreA: 40, ScoreB: 24},
		{Winner: "b", ScoreA: 20, ScoreB: 44},
		{Winner: "draw", ScoreA: 32, ScoreB: 32},
		{Winner: "a", ScoreA: 34, ScoreB: 30},
	}
	s := summarize(matchConfig{strengthA: 3, strengthB: 1}, recs)
	if s.WinsA != 2 || s.WinsB != 1 || s.Draws != 1 || s.Games != 4 {
		t.Fatalf("summary %+v", s)
	}
	if s.AvgDiff != (16-24+0+4)/4.0 {
		t.Fatalf("avg diff %v", s.AvgDiff)
	}
}

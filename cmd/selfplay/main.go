// cmd/selfplay/main.go
// Engine-versus-engine matches between two strengths.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"reversi_go/internal/engine"
	"reversi_go/internal/game"
)

type gameRecord struct {
	Index     int         `json:"index"`
	Seed      uint64      `json:"seed"`
	FirstIsA  bool        `json:"first_is_a"`
	Winner    string      `json:"winner"` // "a", "b" or "draw"
	ScoreA    int         `json:"score_a"`
	ScoreB    int         `json:"score_b"`
	Moves     []game.Move `json:"moves"`
	NodesA    int64       `json:"nodes_a"`
	NodesB    int64       `json:"nodes_b"`
	ElapsedMS int64       `json:"elapsed_ms"`
}

type summary struct {
	StrengthA int          `json:"strength_a"`
	StrengthB int          `json:"strength_b"`
	Games     int          `json:"games"`
	WinsA     int          `json:"wins_a"`
	WinsB     int          `json:"wins_b"`
	Draws     int          `json:"draws"`
	AvgDiff   float64      `json:"avg_disc_diff_a"`
	Records   []gameRecord `json:"records,omitempty"`
}

type matchConfig struct {
	strengthA, strengthB int
	openingMoves         int
}

// playGame plays one game. Engine A takes First on even-indexed games.
func playGame(ctx context.Context, cfg matchConfig, index int, seed uint64) (gameRecord, error) {
	rec := gameRecord{Index: index, Seed: seed, FirstIsA: index%2 == 0}
	rng := engine.SeededRand(seed)
	a := engine.New(engine.WithStrength(cfg.strengthA), engine.WithRand(rng))
	b := engine.New(engine.WithStrength(cfg.strengthB), engine.WithRand(engine.SeededRand(seed^0x9e3779b97f4a7c15)))

	players := map[game.Color]*engine.Engine{game.First: a, game.Second: b}
	if !rec.FirstIsA {
		players[game.First], players[game.Second] = b, a
	}

	start := time.Now()
	g := game.New()
	for i := 0; i < cfg.openingMoves && !g.GameOver(); i++ {
		mvs := g.LegalMoves(g.ToMove())
		if err := g.MakeMove(mvs[rng.Intn(len(mvs))]); err != nil {
			return rec, err
		}
	}
	for !g.GameOver() {
		if err := ctx.Err(); err != nil {
			return rec, err
		}
		eng := players[g.ToMove()]
		m := eng.ComputeMoveContext(ctx, g)
		if m.IsNone() {
			return rec, ctx.Err()
		}
		if err := g.MakeMove(m); err != nil {
			return rec, err
		}
		n := eng.LastSearch().Nodes
		if eng == a {
			rec.NodesA += n
		} else {
			rec.NodesB += n
		}
	}

	colorA, colorB := game.First, game.Second
	if !rec.FirstIsA {
		colorA, colorB = colorB, colorA
	}
	rec.ScoreA, rec.ScoreB = g.Score(colorA), g.Score(colorB)
	switch {
	case rec.ScoreA > rec.ScoreB:
		rec.Winner = "a"
	case rec.ScoreB > rec.ScoreA:
		rec.Winner = "b"
	default:
		rec.Winner = "draw"
	}
	rec.Moves = g.Moves()
	rec.ElapsedMS = time.Since(start).Milliseconds()
	return rec, nil
}

func summarize(cfg matchConfig, recs []gameRecord) summary {
	s := summary{StrengthA: cfg.strengthA, StrengthB: cfg.strengthB, Games: len(recs)}
	diff := 0
	for _, r := range recs {
		switch r.Winner {
		case "a":
			s.WinsA++
		case "b":
			s.WinsB++
		default:
			s.Draws++
		}
		diff += r.ScoreA - r.ScoreB
	}
	if len(recs) > 0 {
		s.AvgDiff = float64(diff) / float64(len(recs))
	}
	return s
}

func main() {
	numGames := flag.Int("n", 20, "number of games")
	strA := flag.Int("a", 3, "strength of engine A (1..7)")
	strB := flag.Int("b", 1, "strength of engine B (1..7)")
	workers := flag.Int("workers", 0, "concurrent games (default CPU/2, at least 1)")
	opening := flag.Int("opening", 2, "random moves played before the engines take over")
	seed := flag.Uint64("seed", 0, "base seed (0 = random)")
	out := flag.String("out", "", "write the summary and game records as JSON to this file")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *workers <= 0 {
		*workers = max(runtime.NumCPU()/2, 1)
	}
	if *seed == 0 {
		*seed = frand.Uint64n(1<<63) + 1
	}
	cfg := matchConfig{strengthA: *strA, strengthB: *strB, openingMoves: *opening}

	log.Info().
		Int("games", *numGames).
		Int("a", cfg.strengthA).
		Int("b", cfg.strengthB).
		Int("workers", *workers).
		Uint64("seed", *seed).
		Msg("selfplay start")

	recs := make([]gameRecord, *numGames)
	var mu sync.Mutex
	done := 0

	grp, ctx := errgroup.WithContext(context.Background())
	grp.SetLimit(*workers)
	for i := 0; i < *numGames; i++ {
		i := i
		grp.Go(func() error {
			rec, err := playGame(ctx, cfg, i, *seed+uint64(i))
			if err != nil {
				return err
			}
			mu.Lock()
			recs[i] = rec
			done++
			n := done
			mu.Unlock()
			log.Debug().Int("game", i).Str("winner", rec.Winner).Int("a", rec.ScoreA).Int("b", rec.ScoreB).Msg("game over")
			if n%10 == 0 {
				log.Info().Int("done", n).Msg("progress")
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		log.Fatal().Err(err).Msg("selfplay failed")
	}

	sum := summarize(cfg, recs)
	log.Info().
		Int("wins_a", sum.WinsA).
		Int("wins_b", sum.WinsB).
		Int("draws", sum.Draws).
		Float64("avg_diff_a", sum.AvgDiff).
		Msg("selfplay done")

	if *out != "" {
		sum.Records = recs
		b, err := json.MarshalIndent(sum, "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("encode summary")
		}
		if err := os.WriteFile(*out, b, 0o644); err != nil {
			log.Fatal().Err(err).Str("path", *out).Msg("write summary")
		}
	}
}

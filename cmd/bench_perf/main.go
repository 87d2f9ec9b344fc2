// cmd/bench_perf/main.go
package main

import (
	"flag"
	"os"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"reversi_go/internal/engine"
	"reversi_go/internal/game"
)

func main() {
	strength := flag.Int("strength", 5, "engine strength 1..7")
	seed := flag.Uint64("seed", 1, "engine seed")
	profile := flag.String("cpuprofile", "cpu.prof", "CPU profile output (empty disables)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *profile != "" {
		f, err := os.Create(*profile)
		if err != nil {
			log.Fatal().Err(err).Msg("create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("start CPU profile")
		}
		defer pprof.StopCPUProfile()
	}

	eng := engine.New(engine.WithStrength(*strength), engine.WithSeed(*seed))
	g := game.New()

	var totalNodes int64
	start := time.Now()
	for !g.GameOver() {
		m := eng.ComputeMove(g)
		if m.IsNone() {
			log.Error().Int("move", g.MoveNumber()+1).Msg("engine returned no move")
			break
		}
		if err := g.MakeMove(m); err != nil {
			log.Error().Err(err).Msg("illegal engine move")
			break
		}
		st := eng.LastSearch()
		totalNodes += st.Nodes
		log.Info().
			Int("move", g.MoveNumber()).
			Str("play", m.String()).
			Int("depth", st.Depth).
			Bool("exhaustive", st.Exhaustive).
			Int64("nodes", st.Nodes).
			Dur("elapsed", st.Elapsed).
			Msg("search")
	}
	elapsed := time.Since(start)

	log.Info().
		Int("first", g.Score(game.First)).
		Int("second", g.Score(game.Second)).
		Int64("nodes", totalNodes).
		Dur("elapsed", elapsed).
		Float64("knps", float64(totalNodes)/elapsed.Seconds()/1000).
		Msg("full game done")
	if *profile != "" {
		log.Info().Str("profile", *profile).Msg("inspect with: go tool pprof -http=:8080 " + *profile)
	}
}

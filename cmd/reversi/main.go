package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"reversi_go/internal/config"
	"reversi_go/internal/engine"
	"reversi_go/internal/game"
	"reversi_go/internal/ui"
)

func defaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "reversi_go")
}

func main() {
	const sampleRate = 44100

	configPath := flag.String("config", filepath.Join(defaultDir(), "settings.toml"), "settings file")
	savePath := flag.String("save", filepath.Join(defaultDir(), "savegame.toml"), "saved game file")
	strength := flag.Int("strength", 0, "engine strength 1..7 (0 = from settings)")
	human := flag.String("human", "", "human color: black|white (empty = from settings)")
	mute := flag.Bool("mute", false, "disable sound")
	verbose := flag.Bool("v", false, "log engine searches")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	settings, err := config.LoadSettings(*configPath)
	if err != nil {
		log.Warn().Err(err).Msg("using default settings")
	}
	if *strength != 0 {
		settings.Strength = *strength
	}
	if *human != "" {
		c, err := game.ParseColor(*human)
		if err != nil {
			log.Fatal().Err(err).Msg("bad -human")
		}
		settings.HumanColor = c
	}
	settings.Normalize()

	eng := engine.New(
		engine.WithStrength(settings.Strength),
		engine.WithLogger(log.Logger.With().Str("component", "engine").Logger()),
	)
	session := game.NewSession(eng, settings.HumanColor)

	var actx *audio.Context
	if !*mute {
		actx = audio.NewContext(sampleRate)
	}

	screen, err := ui.NewScreen(ui.Options{
		Session:      session,
		Settings:     settings,
		SettingsPath: *configPath,
		SavePath:     *savePath,
		Audio:        actx,
		Logger:       log.Logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init screen")
	}
	defer screen.Close()

	ebiten.SetWindowSize(ui.WindowWidth, ui.WindowHeight)
	ebiten.SetWindowTitle("Reversi")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	log.Info().Int("strength", settings.Strength).Str("human", settings.HumanColor.String()).Msg("starting")
	if err := ebiten.RunGame(screen); err != nil {
		log.Fatal().Err(err).Msg("run game")
	}
}

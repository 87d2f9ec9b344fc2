package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"reversi_go/internal/server"
)

func main() {
	// PORT wins over ADDR for hosted platforms.
	port := os.Getenv("PORT")
	var addr string
	if port != "" {
		addr = ":" + port
	} else {
		addr = getEnv("ADDR", ":8080")
	}

	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	log.Logger = logger

	saveDir := os.Getenv("SAVE_DIR")
	if saveDir != "" {
		if err := os.MkdirAll(saveDir, 0o755); err != nil {
			log.Fatal().Err(err).Str("dir", saveDir).Msg("create save dir")
		}
	}

	srv := server.New(server.Config{
		SaveDir: saveDir,
		Logger:  logger,
	})
	if err := srv.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

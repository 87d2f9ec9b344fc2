// Package server exposes the engine over HTTP and websockets: a stateless
// analysis endpoint plus human-versus-engine games kept in memory and,
// optionally, on disk as saved-game files.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"reversi_go/internal/config"
	"reversi_go/internal/engine"
	"reversi_go/internal/game"
)

var ErrUnknownGame = errors.New("unknown game")

type Server struct {
	router  *gin.Engine
	log     zerolog.Logger
	saveDir string

	mu    sync.RWMutex
	games map[string]*game.Session

	connMu      sync.RWMutex
	connections map[string]map[*wsClient]struct{}
}

type Config struct {
	// SaveDir keeps one TOML file per game when set.
	SaveDir string
	Logger  zerolog.Logger
}

func New(cfg Config) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	s := &Server{
		router:      router,
		log:         cfg.Logger,
		saveDir:     cfg.SaveDir,
		games:       make(map[string]*game.Session),
		connections: make(map[string]map[*wsClient]struct{}),
	}
	router.Use(gin.Recovery(), s.logRequests())

	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.POST("/api/analyze", s.handleAnalyze)

	api := router.Group("/api/games")
	api.POST("", s.handleCreate)
	api.GET("/:id", s.handleGet)
	api.POST("/:id/moves", s.handleMove)
	api.POST("/:id/undo", s.handleUndo)
	api.POST("/:id/hint", s.handleHint)
	api.POST("/:id/continue", s.handleContinue)

	router.GET("/ws/games/:id", s.handleWS)
	return s
}

// Handler returns the router, for tests and custom listeners.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Run(addr string) error {
	s.log.Info().Str("addr", addr).Str("save_dir", s.saveDir).Msg("server listening")
	return s.router.Run(addr)
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

func newEngine(strength int, log zerolog.Logger) *engine.Engine {
	return engine.New(engine.WithStrength(strength), engine.WithLogger(log))
}

// newGame registers a fresh session and returns its id.
func (s *Server) newGame(human game.Color, strength int) (string, *game.Session) {
	id := uuid.NewString()
	sess := game.NewSession(newEngine(strength, s.log), human)
	s.mu.Lock()
	s.games[id] = sess
	s.mu.Unlock()
	return id, sess
}

// lookup finds a game in memory, falling back to its saved file.
func (s *Server) lookup(id string) (*game.Session, error) {
	s.mu.RLock()
	sess, ok := s.games[id]
	s.mu.RUnlock()
	if ok {
		return sess, nil
	}
	if s.saveDir == "" {
		return nil, ErrUnknownGame
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUnknownGame
	}
	sg, err := config.LoadGame(s.savePath(id))
	if errors.Is(err, config.ErrNoSavedGame) {
		return nil, ErrUnknownGame
	}
	if err != nil {
		return nil, err
	}
	sess = game.NewSession(newEngine(sg.Strength, s.log), sg.HumanColor)
	if err := sg.Restore(sess); err != nil {
		return nil, fmt.Errorf("restore game %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.games[id]; ok {
		return cur, nil
	}
	s.games[id] = sess
	s.log.Info().Str("game", id).Int("moves", sg.NumberOfMoves).Msg("game restored")
	return sess, nil
}

func (s *Server) savePath(id string) string {
	return filepath.Join(s.saveDir, id+".toml")
}

// changed persists the game and pushes its state to every watcher.
func (s *Server) changed(id string, sess *game.Session) {
	if s.saveDir != "" {
		if err := config.SaveGame(s.savePath(id), sess); err != nil {
			s.log.Warn().Err(err).Str("game", id).Msg("save game")
		}
	}
	s.broadcast(id, wsMessage{Type: "state", State: stateOf(id, sess)})
}

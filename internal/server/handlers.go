package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reversi_go/internal/game"
)

// statusFor maps session and game errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnknownGame):
		return http.StatusNotFound
	case errors.Is(err, game.ErrBadBoard):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrIllegalMove):
		return http.StatusUnprocessableEntity
	case errors.Is(err, game.ErrBusy),
		errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrNoHistory),
		errors.Is(err, game.ErrInterrupted),
		errors.Is(err, game.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// handleAnalyze answers one position with a throwaway engine. The request
// context bounds the search.
func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ToMove == game.None {
		c.JSON(http.StatusBadRequest, gin.H{"error": "toMove must be first or second"})
		return
	}
	g, err := game.ParseBoard(req.Board, req.ToMove)
	if err != nil {
		fail(c, err)
		return
	}
	if !g.MoveIsPossible(req.ToMove) {
		c.JSON(http.StatusOK, analyzeResponse{Pass: true})
		return
	}

	m := newEngine(req.Strength, s.log).ComputeMoveContext(c.Request.Context(), g)
	if m.IsNone() {
		err := c.Request.Context().Err()
		if err == nil {
			err = game.ErrInterrupted
		}
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, analyzeResponse{Move: &m})
}

func (s *Server) handleCreate(c *gin.Context) {
	var req createRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	id, sess := s.newGame(req.HumanColor, req.Strength)
	s.log.Info().Str("game", id).Stringer("human", sess.HumanColor()).Int("strength", sess.Strength()).Msg("game created")

	// The computer opens when the human plays Second.
	err := sess.ComputerMakeMove(c.Request.Context())
	s.changed(id, sess)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, stateOf(id, sess))
}

// withGame resolves :id and runs f, persisting and broadcasting afterwards
// whatever f did.
func (s *Server) withGame(c *gin.Context, f func(sess *game.Session) error) {
	id := c.Param("id")
	sess, err := s.lookup(id)
	if err != nil {
		fail(c, err)
		return
	}
	err = f(sess)
	s.changed(id, sess)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stateOf(id, sess))
}

func (s *Server) handleGet(c *gin.Context) {
	id := c.Param("id")
	sess, err := s.lookup(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stateOf(id, sess))
}

func (s *Server) handleMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	s.withGame(c, func(sess *game.Session) error {
		return sess.FieldClicked(ctx, req.X, req.Y)
	})
}

func (s *Server) handleUndo(c *gin.Context) {
	s.withGame(c, func(sess *game.Session) error { return sess.Undo() })
}

func (s *Server) handleContinue(c *gin.Context) {
	ctx := c.Request.Context()
	s.withGame(c, func(sess *game.Session) error { return sess.Resume(ctx) })
}

func (s *Server) handleHint(c *gin.Context) {
	sess, err := s.lookup(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	m, err := sess.Hint(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"move": m})
}

package server

import (
	"strings"

	"github.com/samber/lo"

	"reversi_go/internal/game"
)

type squareDTO struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type stateDTO struct {
	ID          string      `json:"id"`
	Board       []string    `json:"board"`
	ToMove      game.Color  `json:"toMove"`
	Human       game.Color  `json:"human"`
	Strength    int         `json:"strength"`
	Status      string      `json:"status"`
	Interrupted bool        `json:"interrupted"`
	Result      game.Result `json:"result"`
	Moves       []string    `json:"moves"`
	Legal       []squareDTO `json:"legal"`
}

func boardRows(g *game.Game) []string {
	return lo.Filter(strings.Split(g.String(), "\n"), func(row string, _ int) bool {
		return row != ""
	})
}

func stateOf(id string, sess *game.Session) *stateDTO {
	g := sess.Snapshot()
	return &stateDTO{
		ID:          id,
		Board:       boardRows(g),
		ToMove:      g.ToMove(),
		Human:       sess.HumanColor(),
		Strength:    sess.Strength(),
		Status:      sess.State().String(),
		Interrupted: sess.Interrupted(),
		Result:      sess.Result(),
		Moves: lo.Map(g.Moves(), func(m game.Move, _ int) string {
			return m.String()
		}),
		Legal: lo.Map(g.LegalMoves(g.ToMove()), func(m game.Move, _ int) squareDTO {
			return squareDTO{X: m.X, Y: m.Y}
		}),
	}
}

type analyzeRequest struct {
	Board    string     `json:"board" binding:"required"`
	ToMove   game.Color `json:"toMove"`
	Strength int        `json:"strength"`
}

type analyzeResponse struct {
	Move *game.Move `json:"move"`
	Pass bool       `json:"pass"`
}

type createRequest struct {
	HumanColor game.Color `json:"humanColor"`
	Strength   int        `json:"strength"`
}

type moveRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// wsMessage is both directions of the websocket protocol. Clients send
// "move" (with X, Y), "hint", "cancel" and "continue"; the server answers
// with "state", "thinking", "hint" and "error".
type wsMessage struct {
	Type  string     `json:"type"`
	X     int        `json:"x,omitempty"`
	Y     int        `json:"y,omitempty"`
	State *stateDTO  `json:"state,omitempty"`
	Move  *game.Move `json:"move,omitempty"`
	Error string     `json:"error,omitempty"`
}

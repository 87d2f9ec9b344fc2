package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"reversi_go/internal/game"
)

type wsClient struct {
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	server *Server
	gameID string
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (s *Server) handleWS(c *gin.Context) {
	id := c.Param("id")
	sess, err := s.lookup(id)
	if err != nil {
		fail(c, err)
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	client := &wsClient{
		conn:   conn,
		send:   make(chan []byte, 16),
		done:   make(chan struct{}),
		server: s,
		gameID: id,
	}
	s.register(client)
	client.sendJSON(wsMessage{Type: "state", State: stateOf(id, sess)})

	go client.writePump()
	go client.readPump(sess)
}

func (s *Server) register(c *wsClient) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	set, ok := s.connections[c.gameID]
	if !ok {
		set = make(map[*wsClient]struct{})
		s.connections[c.gameID] = set
	}
	set[c] = struct{}{}
}

func (s *Server) unregister(c *wsClient) {
	s.connMu.Lock()
	if set, ok := s.connections[c.gameID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(s.connections, c.gameID)
		}
	}
	s.connMu.Unlock()
	c.once.Do(func() { close(c.done) })
	c.conn.Close()
}

func (s *Server) broadcast(id string, msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("encode ws message")
		return
	}
	s.connMu.RLock()
	defer s.connMu.RUnlock()
	for c := range s.connections[id] {
		c.queue(data)
	}
}

func (c *wsClient) writePump() {
	for {
		select {
		case msg := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// readPump handles client messages until the connection drops. Searches run
// in their own goroutines so a "cancel" can get through while one is going.
func (c *wsClient) readPump(sess *game.Session) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer c.server.unregister(c)
	s := c.server

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendJSON(wsMessage{Type: "error", Error: "bad message: " + err.Error()})
			continue
		}
		switch msg.Type {
		case "move":
			x, y := msg.X, msg.Y
			go s.playMove(ctx, c, sess, x, y)
		case "continue":
			go s.computerTurn(ctx, c, sess)
		case "hint":
			go func() {
				m, err := sess.Hint(ctx)
				if err != nil {
					c.sendJSON(wsMessage{Type: "error", Error: err.Error()})
					return
				}
				c.sendJSON(wsMessage{Type: "hint", Move: &m})
			}()
		case "cancel":
			sess.Interrupt()
		default:
			c.sendJSON(wsMessage{Type: "error", Error: "unknown message type " + msg.Type})
		}
	}
}

func (s *Server) playMove(ctx context.Context, c *wsClient, sess *game.Session, x, y int) {
	if err := sess.HumanMove(x, y); err != nil {
		c.sendJSON(wsMessage{Type: "error", Error: err.Error()})
		return
	}
	s.changed(c.gameID, sess)
	s.computerTurn(ctx, c, sess)
}

func (s *Server) computerTurn(ctx context.Context, c *wsClient, sess *game.Session) {
	g := sess.Snapshot()
	if g.GameOver() || g.ToMove() == sess.HumanColor() {
		return
	}
	s.broadcast(c.gameID, wsMessage{Type: "thinking"})
	err := sess.Resume(ctx)
	s.changed(c.gameID, sess)
	if err != nil {
		c.sendJSON(wsMessage{Type: "error", Error: err.Error()})
	}
}

func (c *wsClient) sendJSON(v wsMessage) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.queue(data)
}

func (c *wsClient) queue(data []byte) {
	select {
	case c.send <- data:
	case <-c.done:
	default:
	}
}

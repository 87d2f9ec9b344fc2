package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"reversi_go/internal/game"
)

func newTestServer(t *testing.T, saveDir string) *httptest.Server {
	t.Helper()
	srv := New(Config{SaveDir: saveDir, Logger: zerolog.Nop()})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, "")
	var out map[string]string
	if code := doJSON(t, http.MethodGet, ts.URL+"/health", nil, &out); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if out["status"] != "ok" {
		t.Fatalf("body %v", out)
	}
}

func TestAnalyzeOpening(t *testing.T) {
	ts := newTestServer(t, "")
	opening := strings.TrimSpace(game.New().String())
	var out analyzeResponse
	code := doJSON(t, http.MethodPost, ts.URL+"/api/analyze",
		map[string]any{"board": opening, "toMove": "first", "strength": 1}, &out)
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if out.Pass || out.Move == nil {
		t.Fatalf("want a move, got %+v", out)
	}
	if !game.New().MoveIsLegal(*out.Move) {
		t.Fatalf("illegal opening move %v", *out.Move)
	}
}

func TestAnalyzePass(t *testing.T) {
	ts := newTestServer(t, "")
	board := "XO......\n" + strings.Repeat("........\n", 7)
	var out analyzeResponse
	code := doJSON(t, http.MethodPost, ts.URL+"/api/analyze",
		map[string]any{"board": board, "toMove": "second", "strength": 3}, &out)
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if !out.Pass || out.Move != nil {
		t.Fatalf("want pass, got %+v", out)
	}
}

func TestAnalyzeRejects(t *testing.T) {
	ts := newTestServer(t, "")
	opening := game.New().String()
	cases := []map[string]any{
		{"board": "XO", "toMove": "first"},
		{"board": opening},
		{"board": opening, "toMove": "purple"},
		{"toMove": "first"},
	}
	for i, body := range cases {
		if code := doJSON(t, http.MethodPost, ts.URL+"/api/analyze", body, nil); code != http.StatusBadRequest {
			t.Errorf("case %d: status %d, want 400", i, code)
		}
	}
}

func TestGameFlow(t *testing.T) {
	ts := newTestServer(t, "")
	var st stateDTO
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/games",
		map[string]any{"humanColor": "first", "strength": 1}, &st); code != http.StatusCreated {
		t.Fatalf("create: status %d", code)
	}
	if st.ID == "" || len(st.Moves) != 0 || len(st.Legal) != 4 || st.ToMove != game.First {
		t.Fatalf("fresh game %+v", st)
	}
	if len(st.Board) != game.BoardSize {
		t.Fatalf("board has %d rows", len(st.Board))
	}
	base := ts.URL + "/api/games/" + st.ID

	if code := doJSON(t, http.MethodPost, base+"/moves", moveRequest{X: 1, Y: 1}, nil); code != http.StatusUnprocessableEntity {
		t.Fatalf("illegal move: status %d", code)
	}

	var hint struct {
		Move game.Move `json:"move"`
	}
	if code := doJSON(t, http.MethodPost, base+"/hint", nil, &hint); code != http.StatusOK {
		t.Fatalf("hint: status %d", code)
	}
	if !game.New().MoveIsLegal(hint.Move) {
		t.Fatalf("hint %v is not legal", hint.Move)
	}

	if code := doJSON(t, http.MethodPost, base+"/moves", moveRequest{X: 3, Y: 4}, &st); code != http.StatusOK {
		t.Fatalf("move: status %d", code)
	}
	if len(st.Moves) != 2 || st.ToMove != game.First {
		t.Fatalf("after move and reply: %+v", st)
	}
	if st.Result.First+st.Result.Second != 6 {
		t.Fatalf("scores %+v", st.Result)
	}

	if code := doJSON(t, http.MethodGet, base, nil, &st); code != http.StatusOK || len(st.Moves) != 2 {
		t.Fatalf("get: status %d, %+v", code, st)
	}

	if code := doJSON(t, http.MethodPost, base+"/undo", nil, &st); code != http.StatusOK {
		t.Fatalf("undo: status %d", code)
	}
	if len(st.Moves) != 0 || st.ToMove != game.First {
		t.Fatalf("after undo: %+v", st)
	}
	if code := doJSON(t, http.MethodPost, base+"/undo", nil, nil); code != http.StatusConflict {
		t.Fatalf("undo on empty history: status %d", code)
	}
}

func TestComputerOpensForSecond(t *testing.T) {
	ts := newTestServer(t, "")
	var st stateDTO
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/games",
		createRequest{HumanColor: game.Second, Strength: 2}, &st); code != http.StatusCreated {
		t.Fatalf("create: status %d", code)
	}
	if st.Human != game.Second || len(st.Moves) != 1 || st.ToMove != game.Second {
		t.Fatalf("computer did not open: %+v", st)
	}
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/games/"+st.ID+"/hint", nil, nil); code != http.StatusOK {
		t.Fatalf("hint: status %d", code)
	}
}

func TestUnknownGame(t *testing.T) {
	ts := newTestServer(t, t.TempDir())
	for _, id := range []string{"nope", "0f8fad5b-d9cb-469f-a165-70867728950e"} {
		if code := doJSON(t, http.MethodGet, ts.URL+"/api/games/"+id, nil, nil); code != http.StatusNotFound {
			t.Errorf("%s: status %d", id, code)
		}
	}
}

func TestGamesPersistAcrossServers(t *testing.T) {
	dir := t.TempDir()
	ts := newTestServer(t, dir)
	var st stateDTO
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/games", createRequest{HumanColor: game.First, Strength: 1}, &st); code != http.StatusCreated {
		t.Fatalf("create: status %d", code)
	}
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/games/"+st.ID+"/moves", moveRequest{X: 4, Y: 3}, &st); code != http.StatusOK {
		t.Fatalf("move: status %d", code)
	}
	if _, err := os.Stat(filepath.Join(dir, st.ID+".toml")); err != nil {
		t.Fatalf("no saved file: %v", err)
	}

	other := newTestServer(t, dir)
	var back stateDTO
	if code := doJSON(t, http.MethodGet, other.URL+"/api/games/"+st.ID, nil, &back); code != http.StatusOK {
		t.Fatalf("get from second server: status %d", code)
	}
	if strings.Join(back.Moves, " ") != strings.Join(st.Moves, " ") || back.Strength != 1 || back.Human != game.First {
		t.Fatalf("restored %+v, want %+v", back, st)
	}
}

func readWS(t *testing.T, conn *websocket.Conn) wsMessage {
	t.Helper()
	var msg wsMessage
	if err := conn.SetReadDeadline(time.Now().Add(10 * time.Second)); err != nil {
		t.Fatalf("deadline: %v", err)
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read ws: %v", err)
	}
	return msg
}

func TestWebsocketMove(t *testing.T) {
	ts := newTestServer(t, "")
	var st stateDTO
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/games", createRequest{HumanColor: game.First, Strength: 1}, &st); code != http.StatusCreated {
		t.Fatalf("create: status %d", code)
	}

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/games/" + st.ID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if msg := readWS(t, conn); msg.Type != "state" || msg.State == nil || msg.State.ID != st.ID {
		t.Fatalf("first message %+v", msg)
	}

	if err := conn.WriteJSON(wsMessage{Type: "bogus"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if msg := readWS(t, conn); msg.Type != "error" {
		t.Fatalf("want error for unknown type, got %+v", msg)
	}

	if err := conn.WriteJSON(wsMessage{Type: "move", X: 5, Y: 6}); err != nil {
		t.Fatalf("write: %v", err)
	}
	sawThinking := false
	for {
		msg := readWS(t, conn)
		if msg.Type == "error" {
			t.Fatalf("server error: %s", msg.Error)
		}
		if msg.Type == "thinking" {
			sawThinking = true
		}
		if msg.Type == "state" && len(msg.State.Moves) == 2 {
			if msg.State.ToMove != game.First {
				t.Fatalf("to move %v after reply", msg.State.ToMove)
			}
			break
		}
	}
	if !sawThinking {
		t.Fatalf("no thinking message before the reply")
	}

	if err := conn.WriteJSON(wsMessage{Type: "hint"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg := readWS(t, conn)
	if msg.Type != "hint" || msg.Move == nil || msg.Move.Color != game.First {
		t.Fatalf("hint reply %+v", msg)
	}
}

func TestWebsocketUnknownGame(t *testing.T) {
	ts := newTestServer(t, "")
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/games/missing"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatalf("dial succeeded for unknown game")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("response %v", resp)
	}
}

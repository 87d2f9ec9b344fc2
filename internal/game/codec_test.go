package game

import (
	"errors"
	"testing"
)

func TestBoardTextRoundTrip(t *testing.T) {
	for _, g := range RandomGames(50, 3) {
		back, err := ParseBoard(g.String(), g.ToMove())
		if err != nil {
			t.Fatalf("ParseBoard: %v\n%s", err, g)
		}
		if back.grid != g.grid || back.score != g.score {
			t.Fatalf("round trip changed board\n%s\n%s", g, back)
		}
	}
}

func TestParseBoardErrors(t *testing.T) {
	cases := map[string]string{
		"short row":  "XO\n" + "........\n........\n........\n........\n........\n........\n........\n",
		"bad cell":   "...Z....\n........\n........\n........\n........\n........\n........\n........\n",
		"seven rows": "........\n........\n........\n........\n........\n........\n........\n",
		"nine rows":  "........\n........\n........\n........\n........\n........\n........\n........\n........\n",
	}
	for name, s := range cases {
		if _, err := ParseBoard(s, First); !errors.Is(err, ErrBadBoard) {
			t.Errorf("%s: err = %v", name, err)
		}
	}
}

func TestParseBoardColumnsAreX(t *testing.T) {
	g, err := ParseBoard(`
		..X.....
		........
		........
		........
		........
		........
		........
		.......O
	`, Second)
	if err != nil {
		t.Fatal(err)
	}
	if g.ColorAt(3, 1) != First || g.ColorAt(8, 8) != Second {
		t.Fatalf("coordinates swapped:\n%s", g)
	}
	if g.ToMove() != Second || g.MoveNumber() != 0 {
		t.Fatalf("to move %s, moves %d", g.ToMove(), g.MoveNumber())
	}
}

func TestReplay(t *testing.T) {
	g := RandomGames(1, 42)[0]
	back, err := Replay(g.Moves())
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if back.String() != g.String() || back.ToMove() != g.ToMove() {
		t.Fatalf("replay diverged")
	}
	bad := append(g.Moves(), Move{X: 1, Y: 1, Color: First})
	bad[0] = Move{X: 1, Y: 1, Color: First}
	if _, err := Replay(bad); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("bad replay: %v", err)
	}
}

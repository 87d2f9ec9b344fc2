package ui

import (
	"testing"
	"time"
)

func TestPixelSquareRoundTrip(t *testing.T) {
	for x := 1; x <= 8; x++ {
		for y := 1; y <= 8; y++ {
			cx, cy := squareCenter(x, y)
			sq, ok := pixelToSquare(int(cx), int(cy))
			if !ok || sq.X != x || sq.Y != y {
				t.Fatalf("(%d,%d) -> %v %v", x, y, sq, ok)
			}
		}
	}
	for _, p := range [][2]int{{0, 0}, {BoardMargin - 1, 100}, {100, BoardMargin + BoardPixels}, {WindowWidth, 10}} {
		if _, ok := pixelToSquare(p[0], p[1]); ok {
			t.Fatalf("%v should be off the board", p)
		}
	}
}

func TestFlipScale(t *testing.T) {
	if sx, turned := flipScale(0); sx != 1 || turned {
		t.Fatalf("start: %v %v", sx, turned)
	}
	if sx, turned := flipScale(1); sx != 1 || !turned {
		t.Fatalf("end: %v %v", sx, turned)
	}
	if sx, _ := flipScale(0.5); sx != 0 {
		t.Fatalf("middle: %v", sx)
	}
	if sx, turned := flipScale(2); sx != 1 || !turned {
		t.Fatalf("clamp: %v %v", sx, turned)
	}
}

func TestAnimDuration(t *testing.T) {
	if animDuration(1) <= animDuration(10) {
		t.Fatalf("speed 1 should be slower than speed 10")
	}
	if animDuration(0) != animDuration(1) || animDuration(99) != 40*time.Millisecond {
		t.Fatalf("speed not clamped")
	}
}

func TestPacerSlowsAfterQuietTicks(t *testing.T) {
	var rates []bool
	p := &pacer{fast: true, apply: func(fast bool) { rates = append(rates, fast) }}
	for i := 0; i < idleAfter-1; i++ {
		p.tick(false)
	}
	if len(rates) != 0 {
		t.Fatalf("slowed down early: %v", rates)
	}
	p.tick(false)
	p.tick(false)
	if len(rates) != 1 || rates[0] {
		t.Fatalf("rates %v, want one switch to idle", rates)
	}
	p.tick(true)
	p.tick(true)
	if len(rates) != 2 || !rates[1] {
		t.Fatalf("rates %v, want a switch back to full speed", rates)
	}
	// activity resets the quiet count
	for i := 0; i < idleAfter-1; i++ {
		p.tick(false)
	}
	p.tick(true)
	p.tick(false)
	if len(rates) != 2 {
		t.Fatalf("rates %v after a short pause", rates)
	}
}

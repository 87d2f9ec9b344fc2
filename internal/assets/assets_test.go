package assets

import (
	"bytes"
	"io"
	"testing"

	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"reversi_go/internal/game"
)

func TestRenderChips(t *testing.T) {
	for _, c := range []game.Color{game.First, game.Second} {
		for _, gray := range []bool{false, true} {
			name := ChipName(c, gray)
			img, err := RenderSVG(name, 48, 48)
			if err != nil {
				t.Fatalf("%s: %v", name, err)
			}
			if img.Bounds().Dx() != 48 || img.Bounds().Dy() != 48 {
				t.Fatalf("%s: size %v", name, img.Bounds())
			}
			if _, _, _, a := img.At(24, 24).RGBA(); a == 0 {
				t.Fatalf("%s: centre is transparent", name)
			}
			if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
				t.Fatalf("%s: corner is painted", name)
			}
		}
	}
	if _, err := RenderSVG("missing", 10, 10); err == nil {
		t.Fatalf("expected error for missing artwork")
	}
}

func TestRenderAspect(t *testing.T) {
	img, err := RenderSVG("hint", 0, 30)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 30 {
		t.Fatalf("width %d, want 30", img.Bounds().Dx())
	}
}

func TestClickWAVDecodes(t *testing.T) {
	const rate = 44100
	s, err := wav.DecodeWithSampleRate(rate, bytes.NewReader(ClickWAV(rate)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	pcm, err := io.ReadAll(s)
	if err != nil {
		t.Fatal(err)
	}
	if len(pcm) == 0 || len(pcm)%4 != 0 {
		t.Fatalf("pcm length %d", len(pcm))
	}
	nonZero := false
	for _, b := range pcm {
		if b != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Fatalf("click is silent")
	}
}

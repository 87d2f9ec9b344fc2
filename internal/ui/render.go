// File ui/render.go
package ui

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"reversi_go/internal/game"
)

// Diagonal light-to-dark tint applied once to the baked board.
const gradKage = `
package main

var UBright float
var UDark   float

func Fragment(pos vec4, uv vec2, col vec4) vec4 {
    c := imageSrc0At(uv)
    t := clamp((uv.x + uv.y) * 0.5, 0.0, 1.0)
    f := mix(UBright, UDark, t)
    return vec4(c.rgb * f, c.a)
}
`

var gradShader *ebiten.Shader

func init() {
	s, err := ebiten.NewShader([]byte(gradKage))
	if err != nil {
		panic(err)
	}
	gradShader = s
}

var (
	feltColor  = color.RGBA{0x1f, 0x6b, 0x3a, 0xff}
	lineColor  = color.RGBA{0x0c, 0x33, 0x1a, 0xff}
	frameColor = color.RGBA{0x4a, 0x2f, 0x1b, 0xff}
	lastColor  = color.RGBA{0xff, 0x5a, 0x36, 0xff}
)

// bakeBoard draws the static board (frame, felt, grid, star points) once.
func bakeBoard() *ebiten.Image {
	layer := ebiten.NewImage(WindowWidth, BoardPixels+2*BoardMargin)
	layer.Fill(frameColor)
	vector.DrawFilledRect(layer, BoardMargin, BoardMargin, BoardPixels, BoardPixels, feltColor, false)
	for i := 0; i <= game.BoardSize; i++ {
		p := float32(BoardMargin + i*CellPixels)
		vector.StrokeLine(layer, p, BoardMargin, p, BoardMargin+BoardPixels, 2, lineColor, true)
		vector.StrokeLine(layer, BoardMargin, p, BoardMargin+BoardPixels, p, 2, lineColor, true)
	}
	for _, sq := range [4][2]int{{2, 2}, {6, 2}, {2, 6}, {6, 6}} {
		cx := float32(BoardMargin + sq[0]*CellPixels)
		cy := float32(BoardMargin + sq[1]*CellPixels)
		vector.DrawFilledCircle(layer, cx, cy, 4, lineColor, true)
	}

	shaded := ebiten.NewImage(layer.Bounds().Dx(), layer.Bounds().Dy())
	op := &ebiten.DrawRectShaderOptions{}
	op.Images[0] = layer
	op.Uniforms = map[string]any{
		"UBright": float32(1.25),
		"UDark":   float32(0.75),
	}
	shaded.DrawRectShader(layer.Bounds().Dx(), layer.Bounds().Dy(), gradShader, op)
	return shaded
}

// drawChip draws img centred on square (x, y), squeezed horizontally by sx
// (1 = full width) for the flip animation.
func drawChip(dst, img *ebiten.Image, x, y int, sx float64) {
	if img == nil || sx <= 0 {
		return
	}
	cx, cy := squareCenter(x, y)
	w := float64(img.Bounds().Dx())
	h := float64(img.Bounds().Dy())
	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Translate(-w/2, -h/2)
	op.GeoM.Scale(sx, 1)
	op.GeoM.Translate(cx, cy)
	dst.DrawImage(img, op)
}

// drawPieces draws every chip of g, letting the running flip animation
// override the squares it owns.
func (s *Screen) drawPieces(dst *ebiten.Image, g *game.Game, now time.Time) {
	for x := 1; x <= game.BoardSize; x++ {
		for y := 1; y <= game.BoardSize; y++ {
			c := g.ColorAt(x, y)
			if c == game.None {
				continue
			}
			if s.anim != nil && s.anim.covers(x, y) {
				col, sx := s.anim.frame(now)
				drawChip(dst, s.chips[col], x, y, sx)
				continue
			}
			drawChip(dst, s.chips[c], x, y, 1)
		}
	}
	if last := g.LastMove(); !last.IsNone() {
		cx, cy := squareCenter(last.X, last.Y)
		vector.DrawFilledCircle(dst, float32(cx), float32(cy), 4, lastColor, true)
	}
}

func (s *Screen) drawHint(dst *ebiten.Image, now time.Time) {
	if s.hint.IsNone() || now.After(s.hintUntil) {
		return
	}
	// blink at 4 Hz
	if (now.UnixMilli()/125)%2 == 0 {
		drawChip(dst, s.hintImg, s.hint.X, s.hint.Y, 1)
	}
}

func (s *Screen) drawStatus(dst *ebiten.Image, g *game.Game) {
	face := basicfont.Face7x13
	y0 := BoardPixels + 2*BoardMargin + 20

	line := fmt.Sprintf("Black %2d   White %2d   strength %d   you play %s",
		g.Score(game.First), g.Score(game.Second), s.session.Strength(), colorName(s.session.HumanColor()))
	text.Draw(dst, line, face, BoardMargin, y0, color.White)

	var st string
	switch {
	case s.status != "":
		st = s.status
	case g.GameOver():
		res := s.session.Result()
		if res.Winner == game.None {
			st = fmt.Sprintf("Game over: draw %d-%d", res.First, res.Second)
		} else {
			st = fmt.Sprintf("Game over: %s wins %d-%d", colorName(res.Winner), res.First, res.Second)
		}
	case s.busy:
		st = "Thinking" + dots(time.Now())
	case s.session.Interrupted():
		st = "Interrupted - press C to continue"
	case g.ToMove() == s.session.HumanColor():
		st = "Your move"
	}
	text.Draw(dst, st, face, BoardMargin, y0+20, color.RGBA{0xff, 0xe0, 0x8a, 0xff})
	text.Draw(dst, "N new  U undo  H hint  S switch  1-7 strength  F5 save  F9 load  Esc quit",
		face, BoardMargin, y0+40, color.Gray{0xb0})
}

func colorName(c game.Color) string {
	switch c {
	case game.First:
		return "black"
	case game.Second:
		return "white"
	}
	return "nobody"
}

func dots(now time.Time) string {
	n := int(now.UnixMilli()/400) % 4
	return "...."[:n]
}

// flipScale maps animation progress p in [0,1] to the chip's horizontal
// scale and whether the new color is showing.
func flipScale(p float64) (sx float64, turned bool) {
	p = math.Min(math.Max(p, 0), 1)
	if p < 0.5 {
		return 1 - 2*p, false
	}
	return 2*p - 1, true
}

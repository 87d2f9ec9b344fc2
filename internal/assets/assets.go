package assets

import (
	"bytes"
	"embed"
	"encoding/binary"
	"fmt"
	"image"
	"image/draw"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"reversi_go/internal/game"
)

//go:embed chips/*.svg
var chipFS embed.FS

var (
	imgMu    sync.Mutex
	imgCache = map[string]*ebiten.Image{}
)

// ChipName returns the embedded artwork name for a color.
func ChipName(c game.Color, grayscale bool) string {
	suffix := "_color"
	if grayscale {
		suffix = "_gray"
	}
	return c.String() + suffix
}

// LoadSVG renders chips/<name>.svg at size×size pixels. Results are cached.
func LoadSVG(name string, size int) (*ebiten.Image, error) {
	key := fmt.Sprintf("%s@%d", name, size)
	imgMu.Lock()
	defer imgMu.Unlock()
	if img := imgCache[key]; img != nil {
		return img, nil
	}
	rgba, err := RenderSVG(name, size, size)
	if err != nil {
		return nil, err
	}
	img := ebiten.NewImageFromImage(rgba)
	imgCache[key] = img
	return img, nil
}

// RenderSVG rasterizes an embedded SVG without touching the GPU.
func RenderSVG(name string, w, h int) (*image.RGBA, error) {
	data, err := chipFS.ReadFile("chips/" + name + ".svg")
	if err != nil {
		return nil, fmt.Errorf("read embedded svg %s: %w", name, err)
	}
	rgba, err := rasterizeSVG(data, w, h)
	if err != nil {
		return nil, fmt.Errorf("rasterize %s: %w", name, err)
	}
	return rgba, nil
}

// rasterizeSVG draws svgData into a transparent w×h image. A non-positive
// dimension is derived from the view box aspect ratio.
func rasterizeSVG(svgData []byte, targetW, targetH int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, err
	}
	vb := icon.ViewBox

	w, h := float64(targetW), float64(targetH)
	switch {
	case w <= 0 && h <= 0:
		w, h = vb.W, vb.H
	case w <= 0:
		w = h * vb.W / vb.H
	case h <= 0:
		h = w * vb.H / vb.W
	}
	w, h = math.Max(w, 1), math.Max(h, 1)
	icon.SetTarget(0, 0, w, h)

	dstW, dstH := int(w+0.5), int(h+0.5)
	rgba := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.Draw(rgba, rgba.Bounds(), image.Transparent, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(dstW, dstH, rgba, rgba.Bounds())
	dasher := rasterx.NewDasher(dstW, dstH, scanner)
	icon.Draw(dasher, 1.0)
	return rgba, nil
}

// ---- sound ----

// ClickWAV synthesizes the piece-placed sound: a short decaying 16-bit
// stereo tone wrapped in a RIFF/WAVE header.
func ClickWAV(sampleRate int) []byte {
	const (
		freq     = 880.0
		duration = 0.06
		channels = 2
	)
	n := int(float64(sampleRate) * duration)
	pcm := make([]byte, n*channels*2)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		env := math.Exp(-t * 60)
		v := int16(env * 0.5 * math.MaxInt16 * math.Sin(2*math.Pi*freq*t))
		for ch := 0; ch < channels; ch++ {
			binary.LittleEndian.PutUint16(pcm[(i*channels+ch)*2:], uint16(v))
		}
	}

	var buf bytes.Buffer
	le := binary.LittleEndian
	buf.WriteString("RIFF")
	binary.Write(&buf, le, uint32(36+len(pcm)))
	buf.WriteString("WAVEfmt ")
	binary.Write(&buf, le, uint32(16))
	binary.Write(&buf, le, uint16(1)) // PCM
	binary.Write(&buf, le, uint16(channels))
	binary.Write(&buf, le, uint32(sampleRate))
	binary.Write(&buf, le, uint32(sampleRate*channels*2))
	binary.Write(&buf, le, uint16(channels*2))
	binary.Write(&buf, le, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, le, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}

// LoadClick decodes the synthesized click into a player on ctx.
func LoadClick(ctx *audio.Context) (*audio.Player, error) {
	decoded, err := wav.DecodeWithSampleRate(ctx.SampleRate(), bytes.NewReader(ClickWAV(ctx.SampleRate())))
	if err != nil {
		return nil, fmt.Errorf("decode click: %w", err)
	}
	player, err := ctx.NewPlayer(decoded)
	if err != nil {
		return nil, fmt.Errorf("create click player: %w", err)
	}
	return player, nil
}

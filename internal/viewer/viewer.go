// Package viewer is an interactive ebiten.Game front end for the crt
// package: it owns a source image, re-modulates and re-demodulates it every
// frame, and maps keyboard input onto the receiver's monitor controls.
//
// Grounded on video_backend_ebiten.go's EbitenOutput: a mutex-guarded frame
// buffer filled off the Ebiten goroutine and blitted in Draw, and keyboard
// polling in Update via ebiten/inpututil. The interactive viewer itself is
// named as an external collaborator (interface only) -- this is that
// collaborator's concrete implementation.
package viewer

import (
	"fmt"
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/ntsccrt/ntsccrt/crt"
)

// Game drives one CRT instance against a fixed source image, re-decoding it
// every frame so that live control changes (hue, noise, scanlines...) are
// visible immediately.
type Game struct {
	crt    *crt.CRT
	source *crt.ModulateSettings

	outW, outH int
	out        []byte
	img        *ebiten.Image

	noise int32
	field int

	mu sync.Mutex
}

// New builds a Game decoding srcPix (packed RGB, format, w x h) into an
// outW x outH window.
func New(srcPix []byte, format crt.PixelFormat, w, h, outW, outH int) *Game {
	c := crt.NewCRT(crt.DefaultSystemConfig())
	out := make([]byte, outW*outH*3)
	c.Init(outW, outH, crt.FormatRGB, out)

	g := &Game{
		crt: c,
		source: &crt.ModulateSettings{
			Data: srcPix, Format: format, W: w, H: h, AsColor: true,
		},
		outW: outW,
		outH: outH,
		out:  out,
		img:  ebiten.NewImage(outW, outH),
	}
	return g
}

// Update advances one frame: toggles and adjustments from the keyboard are
// applied to the CRT's monitor controls, then the source is re-encoded and
// decoded.
func (g *Game) Update() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	ctl := &g.crt.Controls
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		ctl.Scanlines = !ctl.Scanlines
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		ctl.Blend = !ctl.Blend
	}
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		ctl.Hue -= 2
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		ctl.Hue += 2
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) {
		ctl.Contrast += 2
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) && ctl.Contrast > 0 {
		ctl.Contrast -= 2
	}
	if ebiten.IsKeyPressed(ebiten.KeyEqual) {
		g.noise++
	}
	if ebiten.IsKeyPressed(ebiten.KeyMinus) && g.noise > 0 {
		g.noise--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.crt.Reset()
		g.noise = 0
	}

	g.source.Field = g.field
	g.source.Frame = g.field
	g.field ^= 1

	g.crt.Modulate(g.source)
	g.crt.Demodulate(g.noise)
	g.img.WritePixels(toRGBA(g.out, g.outW, g.outH))
	return nil
}

// Draw blits the decoded frame and an overlay of the current controls.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.img, nil)
	g.mu.Lock()
	ctl := g.crt.Controls
	noise := g.noise
	g.mu.Unlock()
	ebiten.SetWindowTitle(fmt.Sprintf(
		"ntsccrt viewer - hue=%d contrast=%d noise=%d scanlines=%v blend=%v",
		ctl.Hue, ctl.Contrast, noise, ctl.Scanlines, ctl.Blend))
}

// Layout reports a fixed logical screen size matching the CRT's output.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.outW, g.outH
}

// toRGBA expands a packed 24-bit RGB buffer into the RGBA bytes
// ebiten.Image.WritePixels expects.
func toRGBA(rgb []byte, w, h int) []byte {
	out := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		out[i*4+0] = rgb[i*3+0]
		out[i*4+1] = rgb[i*3+1]
		out[i*4+2] = rgb[i*3+2]
		out[i*4+3] = 255
	}
	return out
}

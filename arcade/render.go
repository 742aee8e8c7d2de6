package arcade

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/plus3/orbshot/shooter"
)

// Renderer paints the world onto a persistent canvas. The canvas is never
// cleared between frames; a translucent overlay fades older frames into a
// motion trail instead.
type Renderer struct {
	cfg     shooter.Config
	canvas  *ebiten.Image
	overlay color.NRGBA

	game     int
	lastTick int64
	painted  bool
}

func NewRenderer(cfg shooter.Config) *Renderer {
	overlay := color.NRGBA{
		R: shooter.BackgroundColor.R,
		G: shooter.BackgroundColor.G,
		B: shooter.BackgroundColor.B,
		A: alpha8(cfg.TrailAlpha),
	}
	return &Renderer{cfg: cfg, overlay: overlay, lastTick: -1}
}

// Canvas returns the persistent canvas, creating it on first use.
func (r *Renderer) Canvas() *ebiten.Image {
	if r.canvas == nil {
		r.canvas = ebiten.NewImage(r.cfg.Width, r.cfg.Height)
		r.canvas.Fill(shooter.BackgroundColor)
	}
	return r.canvas
}

// Paint draws one frame of the world onto the canvas. Nothing is drawn unless
// the world advanced since the last call, so a stopped game stays frozen on
// its last frame.
func (r *Renderer) Paint(world *shooter.World) {
	canvas := r.Canvas()

	wipe, paint := r.advance(world.Games(), world.State().Tick)
	if wipe {
		canvas.Fill(shooter.BackgroundColor)
	}
	if !paint {
		return
	}

	vector.DrawFilledRect(canvas, 0, 0, float32(r.cfg.Width), float32(r.cfg.Height), r.overlay, false)

	if player, ok := world.Player(); ok {
		drawCircle(canvas, &player, 1)
	}
	for p, a := range world.Particles() {
		drawCircle(canvas, p, a)
	}
	for p := range world.Projectiles() {
		drawCircle(canvas, p, 1)
	}
	for e := range world.Enemies() {
		drawCircle(canvas, e, 1)
	}
}

// advance records the world's game and tick and reports whether the canvas
// must be cleared (a new game began) and whether a frame must be painted.
func (r *Renderer) advance(game int, tick int64) (wipe, paint bool) {
	if game != r.game {
		r.game = game
		r.painted = false
		wipe = true
	}
	if tick == r.lastTick && r.painted {
		return wipe, false
	}
	r.lastTick = tick
	r.painted = true
	return wipe, true
}

func drawCircle(dst *ebiten.Image, c *shooter.Circle, alpha float64) {
	clr := color.NRGBA{R: c.Color.R, G: c.Color.G, B: c.Color.B, A: alpha8(alpha)}
	vector.DrawFilledCircle(dst, float32(c.Pos.X), float32(c.Pos.Y), float32(c.Radius), clr, true)
}

func alpha8(a float64) uint8 {
	return uint8(max(0, min(1, a)) * 255)
}

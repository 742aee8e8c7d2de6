// Package arcade runs a shooter.World inside an ebiten window: it paints the
// world, draws the HUD and turns mouse, touch and keyboard input into game
// actions.
package arcade

import (
	"errors"
	"image"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	debugui_ebiten "github.com/plus3/orbshot/ecs/debugui/ebiten"
	"github.com/plus3/orbshot/shooter"
)

// Game implements ebiten.Game.
type Game struct {
	cfg      shooter.Config
	world    *shooter.World
	hud      *HUD
	renderer *Renderer
	input    Input
	debug    *DebugOverlay
	logger   *log.Logger
}

type Option func(*options)

type options struct {
	logger *log.Logger
	imgui  *debugui_ebiten.ImguiBackend
	world  []shooter.Option
}

func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithImgui enables the debug overlay on the given backend. F1 toggles it.
func WithImgui(backend debugui_ebiten.ImguiBackend) Option {
	return func(o *options) { o.imgui = &backend }
}

// WithWorldOptions passes extra options to shooter.NewWorld.
func WithWorldOptions(opts ...shooter.Option) Option {
	return func(o *options) { o.world = append(o.world, opts...) }
}

func NewGame(cfg shooter.Config, opts ...Option) (*Game, error) {
	o := options{logger: log.New(io.Discard, "", 0)}
	for _, opt := range opts {
		opt(&o)
	}

	cfg.FitViewport(shooter.DefaultWidth, shooter.DefaultHeight)
	hud := NewHUD(cfg)
	worldOpts := append([]shooter.Option{
		shooter.WithObserver(hud),
		shooter.WithLogger(o.logger),
	}, o.world...)

	world, err := shooter.NewWorld(cfg, worldOpts...)
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:      cfg,
		world:    world,
		hud:      hud,
		renderer: NewRenderer(cfg),
		logger:   o.logger,
	}
	if o.imgui != nil {
		g.debug = NewDebugOverlay(*o.imgui, world)
	}
	return g, nil
}

func (g *Game) World() *shooter.World {
	return g.world
}

func (g *Game) Update() error {
	g.input.Poll()
	if g.input.Quit {
		return ebiten.Termination
	}

	if g.debug != nil {
		if g.input.Toggle {
			g.debug.Toggle()
		}
		g.debug.Update(g.cfg.TickDuration().Seconds())
		if g.debug.WantsMouse() {
			g.input.Presses = g.input.Presses[:0]
		}
	}

	g.handle(g.input.Presses, g.input.Confirm)
	g.world.Step()
	return nil
}

// handle applies one tick of pointer presses and the confirm key.
func (g *Game) handle(presses []image.Point, confirm bool) {
	for _, p := range presses {
		if g.hud.PanelVisible(g.world.Phase()) {
			if g.hud.ButtonContains(p.X, p.Y) {
				g.activate()
			}
			continue
		}
		g.world.Click(float64(p.X), float64(p.Y))
	}

	if confirm && g.hud.PanelVisible(g.world.Phase()) {
		g.activate()
	}
}

// activate presses the panel button: start from Idle, restart after game over.
func (g *Game) activate() {
	var err error
	switch g.world.Phase() {
	case shooter.PhaseIdle:
		err = g.world.Start()
	case shooter.PhaseGameOver:
		err = g.world.Restart()
	}
	if err != nil && !errors.Is(err, shooter.ErrRestartUnsupported) {
		g.logger.Printf("panel action failed: %v", err)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Paint(g.world)
	screen.DrawImage(g.renderer.Canvas(), nil)
	g.hud.Draw(screen, g.world.Phase())

	if g.debug != nil {
		g.debug.Draw(screen)
	}
}

// Layout keeps the logical screen at the configured canvas size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.debug != nil {
		g.debug.Layout(g.cfg.Width, g.cfg.Height)
	}
	return g.cfg.Width, g.cfg.Height
}

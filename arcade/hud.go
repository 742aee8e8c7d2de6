package arcade

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/plus3/orbshot/shooter"
)

const (
	panelWidth   = 320
	panelHeight  = 220
	buttonWidth  = 200
	buttonHeight = 40
	scoreScale   = 5
)

var (
	hudTextColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	panelColor      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	panelTextColor  = color.RGBA{R: 31, G: 41, B: 55, A: 255}
	buttonColor     = color.RGBA{R: 59, G: 130, B: 246, A: 255}
	buttonTextColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// HUD draws the score line and the start / end-game panel. It is the
// world's Observer, so the displayed values only change through
// notifications.
type HUD struct {
	variant shooter.Variant
	face    text.Face

	score      int
	finalScore int
	panel      image.Rectangle
	button     image.Rectangle
}

func NewHUD(cfg shooter.Config) *HUD {
	panel := image.Rect(0, 0, panelWidth, panelHeight).
		Add(image.Pt((cfg.Width-panelWidth)/2, (cfg.Height-panelHeight)/2))
	button := image.Rect(0, 0, buttonWidth, buttonHeight).
		Add(image.Pt(panel.Min.X+(panelWidth-buttonWidth)/2, panel.Max.Y-buttonHeight-24))

	return &HUD{
		variant: cfg.Variant,
		face:    text.NewGoXFace(basicfont.Face7x13),
		panel:   panel,
		button:  button,
	}
}

func (h *HUD) ScoreChanged(score int) {
	h.score = score
}

func (h *HUD) GameOver(finalScore int) {
	h.finalScore = finalScore
}

func (h *HUD) Score() int      { return h.score }
func (h *HUD) FinalScore() int { return h.finalScore }

// PanelVisible reports whether the panel is shown in the given phase. The
// bare variant never shows it.
func (h *HUD) PanelVisible(phase shooter.Phase) bool {
	return h.variant == shooter.VariantUI && phase != shooter.PhaseRunning
}

// ButtonContains reports whether (x, y) falls on the start / restart button.
func (h *HUD) ButtonContains(x, y int) bool {
	return image.Pt(x, y).In(h.button)
}

func (h *HUD) Draw(screen *ebiten.Image, phase shooter.Phase) {
	if h.variant != shooter.VariantUI {
		return
	}

	if phase == shooter.PhaseRunning {
		h.drawText(screen, fmt.Sprintf("Score: %d", h.score), 12, 12, 2, hudTextColor, text.AlignStart)
		return
	}

	p := h.panel
	vector.DrawFilledRect(screen, float32(p.Min.X), float32(p.Min.Y), float32(p.Dx()), float32(p.Dy()), panelColor, false)

	cx := float64(p.Min.X + p.Dx()/2)
	h.drawText(screen, fmt.Sprintf("%d", h.finalScore), cx, float64(p.Min.Y+24), scoreScale, panelTextColor, text.AlignCenter)
	h.drawText(screen, "Points", cx, float64(p.Min.Y+100), 2, panelTextColor, text.AlignCenter)

	b := h.button
	vector.DrawFilledRect(screen, float32(b.Min.X), float32(b.Min.Y), float32(b.Dx()), float32(b.Dy()), buttonColor, false)
	label := "Start Game"
	if phase == shooter.PhaseGameOver {
		label = "Restart"
	}
	h.drawText(screen, label, cx, float64(b.Min.Y+(b.Dy()-26)/2), 2, buttonTextColor, text.AlignCenter)
}

func (h *HUD) drawText(dst *ebiten.Image, s string, x, y, scale float64, clr color.Color, align text.Align) {
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.PrimaryAlign = align
	text.Draw(dst, s, h.face, op)
}

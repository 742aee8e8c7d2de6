package arcade

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input collects the pointer presses and key presses of one tick.
type Input struct {
	Presses  []image.Point
	Confirm  bool
	Toggle   bool
	Quit     bool
	touchIDs []ebiten.TouchID
}

// Poll reads this tick's just-pressed mouse button, touches and keys.
func (in *Input) Poll() {
	in.Presses = in.Presses[:0]

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		in.Presses = append(in.Presses, image.Pt(x, y))
	}

	in.touchIDs = inpututil.AppendJustPressedTouchIDs(in.touchIDs[:0])
	for _, id := range in.touchIDs {
		x, y := ebiten.TouchPosition(id)
		in.Presses = append(in.Presses, image.Pt(x, y))
	}

	in.Confirm = inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace)
	in.Toggle = inpututil.IsKeyJustPressed(ebiten.KeyF1)
	in.Quit = inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}

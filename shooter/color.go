package shooter

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HSL converts hue (degrees, any range), saturation and lightness (both
// 0..1) to an opaque RGBA colour.
func HSL(h, s, l float64) color.RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

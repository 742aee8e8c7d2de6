package shooter

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// shrinkTween eases a radius from one size down to another, fast at first
// and slowing towards the end.
func shrinkTween(from, to float64, duration time.Duration) *gween.Tween {
	return gween.New(float32(from), float32(to), float32(duration.Seconds()), ease.OutQuad)
}

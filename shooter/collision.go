package shooter

import "math"

// Collides reports whether the gap between two circles' edges is below
// tolerance: hypot(dx, dy) - r1 - r2 < tolerance. The radii are summed first
// so the result does not depend on argument order.
func Collides(a, b *Circle, tolerance float64) bool {
	dist := math.Hypot(a.Pos.X-b.Pos.X, a.Pos.Y-b.Pos.Y)
	return dist-(a.Radius+b.Radius) < tolerance
}

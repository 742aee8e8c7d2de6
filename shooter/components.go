package shooter

import (
	"image/color"

	"github.com/tanema/gween"
)

type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{X: v.X * f, Y: v.Y * f}
}

// Circle is the only drawable entity. Its role comes from the tag component
// it is spawned with.
type Circle struct {
	Pos      Vec2
	Radius   float64
	Color    color.RGBA
	Velocity Vec2
	// Friction scales Velocity every tick before integration; 1 means none.
	Friction float64
}

// Update applies friction and then integrates the position by one tick.
func (c *Circle) Update() {
	c.Velocity = c.Velocity.Scale(c.Friction)
	c.Pos = c.Pos.Add(c.Velocity)
}

// OutOfBounds reports whether any part of the circle lies outside the
// width x height canvas.
func (c *Circle) OutOfBounds(width, height float64) bool {
	return c.Pos.X-c.Radius < 0 ||
		c.Pos.X+c.Radius > width ||
		c.Pos.Y-c.Radius < 0 ||
		c.Pos.Y+c.Radius > height
}

type Player struct{}

type Projectile struct{}

// Enemy carries the radius tween started by the last hit. Shrink is nil
// while the enemy keeps its size.
type Enemy struct {
	Shrink   *gween.Tween
	ShrinkTo float64
}

type Particle struct {
	Alpha float64
}

// GameState is the ECS singleton shared by the frame systems.
type GameState struct {
	Phase Phase
	Score int
	Tick  int64

	EnemiesSpawned int
	Kills          int
	Hits           int
	ShotsFired     int
}

package main

import (
	"math"

	"github.com/plus3/orbshot/shooter"
)

// Bot fires at the enemy nearest to the player every FireEvery ticks.
type Bot struct {
	FireEvery int
	ticks     int
}

// Act is called once per tick before the world steps. It reports whether a
// shot was fired.
func (b *Bot) Act(world *shooter.World) bool {
	b.ticks++
	if b.FireEvery <= 0 || b.ticks%b.FireEvery != 0 {
		return false
	}

	target, ok := nearestEnemy(world)
	if !ok {
		return false
	}
	return world.Click(target.X, target.Y)
}

func nearestEnemy(world *shooter.World) (shooter.Vec2, bool) {
	player, ok := world.Player()
	if !ok {
		return shooter.Vec2{}, false
	}

	best := math.Inf(1)
	var target shooter.Vec2
	found := false
	for e := range world.Enemies() {
		d := math.Hypot(e.Pos.X-player.Pos.X, e.Pos.Y-player.Pos.Y) - e.Radius
		if d < best {
			best = d
			target = e.Pos
			found = true
		}
	}
	return target, found
}

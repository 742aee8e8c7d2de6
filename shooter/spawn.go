package shooter

import (
	"math"
	"math/rand/v2"
	"time"
)

// spawnTimer fires once per interval of accumulated time. It runs on its own
// clock, independent of whether the frame systems are executing.
type spawnTimer struct {
	interval time.Duration
	elapsed  time.Duration
}

func (t *spawnTimer) advance(dt time.Duration) int {
	t.elapsed += dt
	fires := 0
	for t.elapsed >= t.interval {
		t.elapsed -= t.interval
		fires++
	}
	return fires
}

func (t *spawnTimer) reset() {
	t.elapsed = 0
}

// uniform samples [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return rng.Float64()*(hi-lo) + lo
}

// aim returns a velocity of the given speed pointing from 'from' to 'to'.
func aim(from, to Vec2, speed float64) Vec2 {
	angle := math.Atan2(to.Y-from.Y, to.X-from.X)
	return Vec2{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed}
}

func newPlayer(cfg *Config) Circle {
	return Circle{
		Pos:      Vec2{X: float64(cfg.Width) / 2, Y: float64(cfg.Height) / 2},
		Radius:   cfg.Player.Radius,
		Color:    PlayerColor,
		Friction: 1,
	}
}

// newEnemy places an enemy just outside a random canvas edge, heading for target.
func newEnemy(rng *rand.Rand, cfg *Config, target Vec2) (Circle, Enemy) {
	radius := uniform(rng, cfg.Enemy.RadiusMin, cfg.Enemy.RadiusMax)
	width, height := float64(cfg.Width), float64(cfg.Height)

	var pos Vec2
	if rng.Float64() < 0.5 {
		pos.X = -radius
		if rng.Float64() >= 0.5 {
			pos.X = width + radius
		}
		pos.Y = rng.Float64() * height
	} else {
		pos.X = rng.Float64() * width
		pos.Y = -radius
		if rng.Float64() >= 0.5 {
			pos.Y = height + radius
		}
	}

	hue := rng.Float64() * 360
	speed := uniform(rng, cfg.Enemy.SpeedMin, cfg.Enemy.SpeedMax)

	return Circle{
		Pos:      pos,
		Radius:   radius,
		Color:    HSL(hue, cfg.Enemy.Saturation, cfg.Enemy.Lightness),
		Velocity: aim(pos, target, speed),
		Friction: 1,
	}, Enemy{}
}

func newProjectile(cfg *Config, from, to Vec2) Circle {
	return Circle{
		Pos:      from,
		Radius:   cfg.Projectile.Radius,
		Color:    ProjectileColor,
		Velocity: aim(from, to, cfg.Projectile.Speed),
		Friction: 1,
	}
}

// ParticleCount is the size of the burst spawned when a projectile hits an
// enemy of the given radius.
func ParticleCount(cfg *Config, enemyRadius float64) int {
	return int(math.Floor(cfg.Particle.PerRadius * enemyRadius))
}

// particleBurst returns the particles for a hit at 'at' on an enemy.
func particleBurst(rng *rand.Rand, cfg *Config, at Vec2, enemy *Circle) []Circle {
	n := ParticleCount(cfg, enemy.Radius)
	particles := make([]Circle, n)
	for i := range particles {
		particles[i] = Circle{
			Pos:    at,
			Radius: uniform(rng, cfg.Particle.RadiusMin, cfg.Particle.RadiusMax),
			Color:  enemy.Color,
			Velocity: Vec2{
				X: (rng.Float64() - 0.5) * (rng.Float64() * cfg.Particle.Speed),
				Y: (rng.Float64() - 0.5) * (rng.Float64() * cfg.Particle.Speed),
			},
			Friction: cfg.Particle.Friction,
		}
	}
	return particles
}

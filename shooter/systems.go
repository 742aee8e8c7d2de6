package shooter

import (
	"math/rand/v2"

	"github.com/plus3/orbshot/ecs"
)

type playerView struct {
	*Circle
	*Player
}

type projectileView struct {
	Id ecs.EntityId
	*Circle
	*Projectile
}

type enemyView struct {
	Id ecs.EntityId
	*Circle
	*Enemy
}

type particleView struct {
	Id ecs.EntityId
	*Circle
	*Particle
}

type PlayerSystem struct {
	Players ecs.Query[playerView]
}

func (s *PlayerSystem) Execute(frame *ecs.UpdateFrame) {
	for player := range s.Players.Values() {
		player.Circle.Update()
	}
}

// ParticleSystem fades particles and removes them once fully transparent.
type ParticleSystem struct {
	Particles ecs.Query[particleView]
	Fade      float64
}

func (s *ParticleSystem) Execute(frame *ecs.UpdateFrame) {
	for p := range s.Particles.Values() {
		p.Particle.Alpha -= s.Fade
		if p.Particle.Alpha <= 0 {
			frame.Commands.Delete(p.Id)
			continue
		}
		p.Circle.Update()
	}
}

// ProjectileSystem moves projectiles and removes those that leave the canvas.
type ProjectileSystem struct {
	Projectiles ecs.Query[projectileView]
	Width       float64
	Height      float64
}

func (s *ProjectileSystem) Execute(frame *ecs.UpdateFrame) {
	for p := range s.Projectiles.Values() {
		p.Circle.Update()
		if p.Circle.OutOfBounds(s.Width, s.Height) {
			frame.Commands.Delete(p.Id)
		}
	}
}

// ShrinkSystem drives the radius tween of enemies that were hit.
type ShrinkSystem struct {
	Enemies ecs.Query[enemyView]
}

func (s *ShrinkSystem) Execute(frame *ecs.UpdateFrame) {
	for e := range s.Enemies.Values() {
		if e.Enemy.Shrink == nil {
			continue
		}
		radius, done := e.Enemy.Shrink.Update(float32(frame.DeltaTime))
		if done {
			e.Circle.Radius = e.Enemy.ShrinkTo
			e.Enemy.Shrink = nil
			continue
		}
		e.Circle.Radius = float64(radius)
	}
}

// EnemySystem moves enemies and resolves enemy-player and
// enemy-projectile collisions.
type EnemySystem struct {
	Enemies     ecs.Query[enemyView]
	Projectiles ecs.Query[projectileView]
	Players     ecs.Query[playerView]
	State       ecs.Singleton[GameState]

	cfg      *Config
	rng      *rand.Rand
	observer Observer
}

func (s *EnemySystem) Execute(frame *ecs.UpdateFrame) {
	state := s.State.Get()
	_, player, hasPlayer := s.Players.First()

	for enemy := range s.Enemies.Values() {
		enemy.Circle.Update()

		if hasPlayer && state.Phase == PhaseRunning && Collides(enemy.Circle, player.Circle, s.cfg.HitTolerance) {
			state.Phase = PhaseGameOver
			frame.Commands.Defer(func() {
				s.observer.GameOver(state.Score)
			})
		}

		destroyed := false
		for projectile := range s.Projectiles.Values() {
			if !Collides(enemy.Circle, projectile.Circle, s.cfg.HitTolerance) {
				continue
			}

			state.Score += s.cfg.ScorePerHit
			state.Hits++
			s.observer.ScoreChanged(state.Score)

			for _, particle := range particleBurst(s.rng, s.cfg, projectile.Circle.Pos, enemy.Circle) {
				frame.Commands.Spawn(particle, Particle{Alpha: 1})
			}

			current := enemy.Circle.Radius
			if target := current - s.cfg.Enemy.ShrinkStep; target > s.cfg.Enemy.MinRadius {
				enemy.Enemy.Shrink = shrinkTween(current, target, s.cfg.Enemy.ShrinkDuration)
				enemy.Enemy.ShrinkTo = target
				frame.Commands.Delete(projectile.Id)
				continue
			}

			frame.Commands.Delete(enemy.Id)
			frame.Commands.Delete(projectile.Id)
			if !destroyed {
				destroyed = true
				state.Kills++
			}
		}
	}
}

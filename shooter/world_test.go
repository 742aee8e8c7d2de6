package shooter

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	scores    []int
	gameOvers []int
}

func (o *recordingObserver) ScoreChanged(score int) { o.scores = append(o.scores, score) }
func (o *recordingObserver) GameOver(final int)     { o.gameOvers = append(o.gameOvers, final) }

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.Variant = VariantBare
	// Tests place their own enemies.
	cfg.Enemy.SpawnInterval = time.Hour
	return cfg
}

func newTestWorld(t *testing.T, cfg Config, opts ...Option) *World {
	t.Helper()
	w, err := NewWorld(cfg, opts...)
	require.NoError(t, err)
	return w
}

func centre(w *World) Vec2 {
	return Vec2{X: float64(w.cfg.Width) / 2, Y: float64(w.cfg.Height) / 2}
}

func (w *World) placeEnemy(pos Vec2, radius float64, velocity Vec2) {
	w.storage.Spawn(Circle{Pos: pos, Radius: radius, Color: HSL(200, 0.5, 0.5), Velocity: velocity, Friction: 1}, Enemy{})
}

func (w *World) placeProjectile(pos Vec2, velocity Vec2) {
	w.storage.Spawn(Circle{Pos: pos, Radius: w.cfg.Projectile.Radius, Color: ProjectileColor, Velocity: velocity, Friction: 1}, Projectile{})
}

func (w *World) placeParticle(pos Vec2, alpha float64) {
	w.storage.Spawn(Circle{Pos: pos, Radius: 2, Velocity: Vec2{X: 1}, Friction: w.cfg.Particle.Friction}, Particle{Alpha: alpha})
}

func enemyRadii(w *World) []float64 {
	var radii []float64
	for e := range w.Enemies() {
		radii = append(radii, e.Radius)
	}
	return radii
}

func TestNewWorldVariants(t *testing.T) {
	bare := newTestWorld(t, testConfig())
	assert.Equal(t, PhaseRunning, bare.Phase())
	assert.Equal(t, Counts{Players: 1}, bare.Counts())

	player, ok := bare.Player()
	require.True(t, ok)
	assert.Equal(t, centre(bare), player.Pos)
	assert.Equal(t, 15.0, player.Radius)

	cfg := testConfig()
	cfg.Variant = VariantUI
	ui := newTestWorld(t, cfg)
	assert.Equal(t, PhaseIdle, ui.Phase())
	assert.Equal(t, Counts{}, ui.Counts())

	_, err := NewWorld(Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestHitShrinksLargeEnemy(t *testing.T) {
	obs := &recordingObserver{}
	w := newTestWorld(t, testConfig(), WithObserver(obs))
	c := centre(w)

	enemyPos := Vec2{X: c.X + 100, Y: c.Y}
	w.placeEnemy(enemyPos, 25, Vec2{})
	w.placeProjectile(Vec2{X: enemyPos.X - 25 - 5, Y: c.Y}, Vec2{})

	w.Step()

	assert.Equal(t, 10, w.Score())
	assert.Equal(t, []int{0, 10}, obs.scores)
	counts := w.Counts()
	assert.Equal(t, 0, counts.Projectiles)
	assert.Equal(t, 1, counts.Enemies)
	assert.Equal(t, 50, counts.Particles)

	// The radius shrinks smoothly rather than at once.
	assert.Equal(t, []float64{25}, enemyRadii(w))
	w.Step()
	r := enemyRadii(w)[0]
	assert.Less(t, r, 25.0)
	assert.Greater(t, r, 15.0)

	for i := 0; i < w.cfg.TPS; i++ {
		w.Step()
	}
	assert.Equal(t, []float64{15}, enemyRadii(w))
	assert.Equal(t, 0, w.State().Kills)
}

func TestHitDestroysSmallEnemy(t *testing.T) {
	for _, radius := range []float64{12, 20} {
		w := newTestWorld(t, testConfig())
		c := centre(w)

		enemyPos := Vec2{X: c.X + 200, Y: c.Y}
		w.placeEnemy(enemyPos, radius, Vec2{})
		w.placeProjectile(Vec2{X: enemyPos.X - radius - 5.5, Y: c.Y}, Vec2{})

		w.Step()

		counts := w.Counts()
		assert.Equal(t, 0, counts.Enemies, "radius %v", radius)
		assert.Equal(t, 0, counts.Projectiles, "radius %v", radius)
		assert.Equal(t, int(math.Floor(2*radius)), counts.Particles)
		assert.Equal(t, 10, w.Score())
		assert.Equal(t, 1, w.State().Kills)
	}
}

func TestParticleCountIsFloorOfTwiceRadius(t *testing.T) {
	w := newTestWorld(t, testConfig())
	c := centre(w)

	enemyPos := Vec2{X: c.X + 200, Y: c.Y}
	w.placeEnemy(enemyPos, 17.3, Vec2{})
	w.placeProjectile(Vec2{X: enemyPos.X - 17.3 - 5, Y: c.Y}, Vec2{})
	w.Step()

	assert.Equal(t, 34, w.Counts().Particles)
	for p, alpha := range w.Particles() {
		assert.Equal(t, 1.0, alpha)
		assert.Greater(t, p.Radius, 0.0)
	}
}

func TestProjectileHittingTwoEnemiesScoresTwice(t *testing.T) {
	w := newTestWorld(t, testConfig())
	c := centre(w)

	at := Vec2{X: c.X + 200, Y: c.Y}
	w.placeEnemy(Vec2{X: at.X + 10, Y: at.Y}, 12, Vec2{})
	w.placeEnemy(Vec2{X: at.X - 10, Y: at.Y}, 12, Vec2{})
	w.placeProjectile(at, Vec2{})

	w.Step()

	assert.Equal(t, 20, w.Score())
	assert.Equal(t, Counts{Players: 1, Particles: 48}, w.Counts())
	assert.Equal(t, 2, w.State().Kills)
}

func TestScoreNeverDecreases(t *testing.T) {
	obs := &recordingObserver{}
	cfg := testConfig()
	cfg.Enemy.SpawnInterval = 200 * time.Millisecond
	w := newTestWorld(t, cfg, WithObserver(obs))

	for tick := 0; tick < 3000 && w.Phase() == PhaseRunning; tick++ {
		if tick%5 == 0 {
			for e := range w.Enemies() {
				w.Click(e.Pos.X, e.Pos.Y)
				break
			}
		}
		w.Step()
	}

	require.NotEmpty(t, obs.scores)
	require.Equal(t, 0, obs.scores[0])
	prev := 0
	for _, s := range obs.scores[1:] {
		assert.Equal(t, prev+10, s)
		prev = s
	}
	assert.Equal(t, prev, w.Score())
}

func TestProjectileRemovedAfterLeavingCanvas(t *testing.T) {
	w := newTestWorld(t, testConfig())
	width, height := float64(w.cfg.Width), float64(w.cfg.Height)

	w.placeProjectile(Vec2{X: width - 6, Y: 100}, Vec2{X: 4})
	w.placeProjectile(Vec2{X: 100, Y: 7}, Vec2{Y: -4})
	w.placeProjectile(Vec2{X: 100, Y: height - 100}, Vec2{X: 1})

	w.Step()

	assert.Equal(t, 1, w.Counts().Projectiles)
	for p := range w.Projectiles() {
		assert.Equal(t, Vec2{X: 101, Y: height - 100}, p.Pos)
	}
}

func TestParticleFadesAndIsRemoved(t *testing.T) {
	w := newTestWorld(t, testConfig())
	w.placeParticle(Vec2{X: 50, Y: 50}, 0.025)

	w.Step()
	alphas := particleAlphas(w)
	require.Len(t, alphas, 1)
	assert.InDelta(t, 0.015, alphas[0], 1e-9)

	w.Step()
	alphas = particleAlphas(w)
	require.Len(t, alphas, 1)
	assert.InDelta(t, 0.005, alphas[0], 1e-9)

	w.Step()
	assert.Empty(t, particleAlphas(w))
}

func TestParticleFrictionSlowsParticle(t *testing.T) {
	w := newTestWorld(t, testConfig())
	w.placeParticle(Vec2{X: 50, Y: 50}, 1)

	w.Step()
	for p := range w.Particles() {
		assert.InDelta(t, 0.99, p.Velocity.X, 1e-12)
		assert.InDelta(t, 50.99, p.Pos.X, 1e-12)
	}
}

func particleAlphas(w *World) []float64 {
	var alphas []float64
	for _, a := range w.Particles() {
		alphas = append(alphas, a)
	}
	return alphas
}

func TestEnemyTouchingPlayerEndsGame(t *testing.T) {
	obs := &recordingObserver{}
	w := newTestWorld(t, testConfig(), WithObserver(obs))
	c := centre(w)

	w.placeEnemy(Vec2{X: c.X + 15 + 10 + 0.5, Y: c.Y}, 10, Vec2{})
	// A second enemy further down the collection is still resolved this frame.
	far := Vec2{X: c.X - 300, Y: c.Y}
	w.placeEnemy(far, 12, Vec2{})
	w.placeProjectile(Vec2{X: far.X + 12 + 5, Y: far.Y}, Vec2{})

	w.Step()

	assert.Equal(t, PhaseGameOver, w.Phase())
	assert.Equal(t, []int{10}, obs.gameOvers)
	assert.Equal(t, int64(1), w.State().Tick)

	// The loop is stopped: nothing moves any more.
	w.placeProjectile(Vec2{X: 100, Y: 100}, Vec2{X: 1})
	w.Step()
	assert.Equal(t, int64(1), w.State().Tick)
	for p := range w.Projectiles() {
		assert.Equal(t, Vec2{X: 100, Y: 100}, p.Pos)
	}
	assert.False(t, w.Click(0, 0))
	assert.Len(t, obs.gameOvers, 1)
}

func TestSpawnerKeepsRunningAfterGameOver(t *testing.T) {
	for _, stop := range []bool{false, true} {
		cfg := testConfig()
		cfg.Enemy.SpawnInterval = time.Second
		cfg.StopSpawnerOnGameOver = stop
		w := newTestWorld(t, cfg)
		c := centre(w)

		w.placeEnemy(c, 10, Vec2{})
		w.Step()
		require.Equal(t, PhaseGameOver, w.Phase())

		for i := 0; i < 3; i++ {
			w.Update(time.Second)
		}

		if stop {
			assert.Equal(t, 0, w.State().EnemiesSpawned)
			assert.Equal(t, 1, w.Counts().Enemies)
		} else {
			assert.Equal(t, 3, w.State().EnemiesSpawned)
			assert.Equal(t, 4, w.Counts().Enemies)
		}
		assert.Equal(t, int64(1), w.State().Tick)
	}
}

func TestSpawnTimerFiresOncePerInterval(t *testing.T) {
	cfg := testConfig()
	cfg.Enemy.SpawnInterval = time.Second
	w := newTestWorld(t, cfg)

	w.Update(999 * time.Millisecond)
	assert.Equal(t, 0, w.State().EnemiesSpawned)
	w.Update(time.Millisecond)
	assert.Equal(t, 1, w.State().EnemiesSpawned)
	w.Update(2500 * time.Millisecond)
	assert.Equal(t, 3, w.State().EnemiesSpawned)

	// Spawned enemies are outside the canvas when they appear.
	width, height := float64(cfg.Width), float64(cfg.Height)
	for e := range w.Enemies() {
		assert.GreaterOrEqual(t, e.Radius, 10.0)
		assert.Less(t, e.Radius, 30.0)
		// At most two ticks of movement: still straddling an edge.
		nearEdge := e.Pos.X < e.Radius || e.Pos.X > width-e.Radius || e.Pos.Y < e.Radius || e.Pos.Y > height-e.Radius
		assert.True(t, nearEdge)
	}
}

func TestSpawnTimerFiresOnWholeSecondTicks(t *testing.T) {
	cfg := testConfig()
	cfg.Enemy.SpawnInterval = time.Second
	w := newTestWorld(t, cfg)

	for i := 0; i < 59; i++ {
		w.Step()
	}
	assert.Equal(t, 0, w.State().EnemiesSpawned)
	w.Step()
	assert.Equal(t, 1, w.State().EnemiesSpawned)

	// The spawner keeps its clock after game over, so the count holds even
	// if an enemy reaches the player.
	for i := 60; i < 600; i++ {
		w.Step()
	}
	assert.Equal(t, 10, w.State().EnemiesSpawned)
}

func TestClickSpawnsAimedProjectile(t *testing.T) {
	w := newTestWorld(t, testConfig())
	c := centre(w)

	require.True(t, w.Click(c.X, c.Y-100))

	var projectiles []Circle
	for p := range w.Projectiles() {
		projectiles = append(projectiles, *p)
	}
	require.Len(t, projectiles, 1)
	p := projectiles[0]
	assert.Equal(t, c, p.Pos)
	assert.Equal(t, 5.0, p.Radius)
	assert.InDelta(t, 0, p.Velocity.X, 1e-9)
	assert.InDelta(t, -4, p.Velocity.Y, 1e-9)
	assert.Equal(t, 1, w.State().ShotsFired)
}

// Clicking on the player aims along +x (atan2(0, 0) == 0), so an enemy
// approaching from the right is hit before it reaches the centre.
func TestClickAtCentreHitsEnemyApproachingFromRight(t *testing.T) {
	w := newTestWorld(t, testConfig())
	c := centre(w)

	start := Vec2{X: c.X + 300, Y: c.Y}
	w.placeEnemy(start, 12, aim(start, c, 5))
	require.True(t, w.Click(c.X, c.Y))

	for i := 0; i < 100 && w.Score() == 0; i++ {
		w.Step()
	}

	assert.Equal(t, 10, w.Score())
	assert.Equal(t, PhaseRunning, w.Phase())
	assert.Equal(t, 0, w.Counts().Enemies)
}

func TestStartAndRestart(t *testing.T) {
	obs := &recordingObserver{}
	cfg := testConfig()
	cfg.Variant = VariantUI
	w := newTestWorld(t, cfg, WithObserver(obs))

	assert.False(t, w.Click(10, 10))
	assert.ErrorIs(t, w.Restart(), ErrInvalidTransition)

	require.NoError(t, w.Start())
	assert.Equal(t, PhaseRunning, w.Phase())
	assert.ErrorIs(t, w.Start(), ErrInvalidTransition)
	assert.ErrorIs(t, w.Restart(), ErrInvalidTransition)

	c := centre(w)
	far := Vec2{X: c.X + 300, Y: c.Y}
	w.placeEnemy(far, 25, Vec2{})
	w.placeProjectile(Vec2{X: far.X - 30, Y: c.Y}, Vec2{})
	w.placeProjectile(Vec2{X: 50, Y: 50}, Vec2{})
	w.placeParticle(Vec2{X: 10, Y: 10}, 1)
	w.Step()
	require.Equal(t, 10, w.Score())

	w.placeEnemy(c, 10, Vec2{})
	w.Step()
	require.Equal(t, PhaseGameOver, w.Phase())
	assert.Equal(t, []int{10}, obs.gameOvers)

	require.NoError(t, w.Restart())
	assert.Equal(t, PhaseRunning, w.Phase())
	assert.Equal(t, 0, w.Score())
	assert.Equal(t, Counts{Players: 1}, w.Counts())
	assert.Equal(t, GameState{Phase: PhaseRunning}, w.State())
	assert.Equal(t, 0, obs.scores[len(obs.scores)-1])

	player, ok := w.Player()
	require.True(t, ok)
	assert.Equal(t, c, player.Pos)
}

func TestGamesCountsStarts(t *testing.T) {
	cfg := testConfig()
	cfg.Variant = VariantUI
	w := newTestWorld(t, cfg)
	assert.Equal(t, 0, w.Games())

	require.NoError(t, w.Start())
	assert.Equal(t, 1, w.Games())

	w.placeEnemy(centre(w), 10, Vec2{})
	w.Step()
	require.Equal(t, PhaseGameOver, w.Phase())
	ended := w.State().Tick

	require.NoError(t, w.Restart())
	assert.Equal(t, 2, w.Games())

	// The new game reaches the old game's final tick on its first step.
	w.Step()
	assert.Equal(t, ended, w.State().Tick)

	assert.Equal(t, 1, newTestWorld(t, testConfig()).Games())
}

func TestBareVariantCannotRestart(t *testing.T) {
	w := newTestWorld(t, testConfig())
	w.placeEnemy(centre(w), 10, Vec2{})
	w.Step()

	require.Equal(t, PhaseGameOver, w.Phase())
	assert.ErrorIs(t, w.Restart(), ErrRestartUnsupported)
	assert.Equal(t, PhaseGameOver, w.Phase())
}

func TestSameSeedSameGame(t *testing.T) {
	run := func() GameState {
		cfg := testConfig()
		cfg.Seed = 7
		cfg.Enemy.SpawnInterval = 300 * time.Millisecond
		w := newTestWorld(t, cfg)
		for tick := 0; tick < 600 && w.Phase() == PhaseRunning; tick++ {
			if tick%7 == 0 {
				for e := range w.Enemies() {
					w.Click(e.Pos.X, e.Pos.Y)
					break
				}
			}
			w.Step()
		}
		return w.State()
	}

	assert.Equal(t, run(), run())
}

func TestWithRand(t *testing.T) {
	cfg := testConfig()
	a := newTestWorld(t, cfg, WithRand(rand.New(rand.NewPCG(1, 2))))
	b := newTestWorld(t, cfg, WithRand(rand.New(rand.NewPCG(1, 2))))

	a.SpawnEnemy()
	b.SpawnEnemy()
	assert.Equal(t, enemyRadii(a), enemyRadii(b))
}

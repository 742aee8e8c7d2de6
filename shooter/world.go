package shooter

import (
	"fmt"
	"io"
	"iter"
	"log"
	"math/rand/v2"
	"time"

	"github.com/plus3/orbshot/ecs"
)

// World owns every piece of game state: the entity storage, the frame
// systems, the spawn timer and the RNG. It is driven one tick at a time by
// Update and is not safe for concurrent use.
type World struct {
	cfg       Config
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	state     *ecs.Singleton[GameState]
	rng       *rand.Rand
	spawner   spawnTimer
	observer  Observer
	logger    *log.Logger

	// steps counts Step calls since the last reset; games counts resets.
	steps int64
	games int

	players     *ecs.View[playerView]
	projectiles *ecs.View[projectileView]
	enemies     *ecs.View[enemyView]
	particles   *ecs.View[particleView]
}

type Option func(*World)

// WithObserver registers the collaborator notified of score changes and game over.
func WithObserver(o Observer) Option {
	return func(w *World) {
		if o != nil {
			w.observer = o
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithRand replaces the seeded RNG, mostly for tests.
func WithRand(r *rand.Rand) Option {
	return func(w *World) {
		if r != nil {
			w.rng = r
		}
	}
}

// NewRegistry returns a component registry with every game component registered.
func NewRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Circle](registry)
	ecs.RegisterComponent[Player](registry)
	ecs.RegisterComponent[Projectile](registry)
	ecs.RegisterComponent[Enemy](registry)
	ecs.RegisterComponent[Particle](registry)
	return registry
}

// NewWorld validates cfg and builds a world. The ui variant starts Idle and
// waits for Start; the bare variant starts Running.
func NewWorld(cfg Config, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.FitViewport(DefaultWidth, DefaultHeight)

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	storage := ecs.NewStorage(NewRegistry())
	w := &World{
		cfg:      cfg,
		storage:  storage,
		state:    ecs.NewSingleton[GameState](storage),
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		spawner:  spawnTimer{interval: cfg.Enemy.SpawnInterval},
		observer: nopObserver{},
		logger:   log.New(io.Discard, "", 0),

		players:     ecs.NewView[playerView](storage),
		projectiles: ecs.NewView[projectileView](storage),
		enemies:     ecs.NewView[enemyView](storage),
		particles:   ecs.NewView[particleView](storage),
	}
	for _, opt := range opts {
		opt(w)
	}

	// Registration order is the per-frame update order.
	w.scheduler = ecs.NewScheduler(storage)
	w.scheduler.Register(&PlayerSystem{})
	w.scheduler.Register(&ParticleSystem{Fade: cfg.Particle.Fade})
	w.scheduler.Register(&ProjectileSystem{Width: float64(cfg.Width), Height: float64(cfg.Height)})
	w.scheduler.Register(&ShrinkSystem{})
	w.scheduler.Register(&EnemySystem{cfg: &w.cfg, rng: w.rng, observer: w.observer})

	if cfg.Variant == VariantBare {
		w.reset()
		w.logger.Printf("game started (variant=%s seed=%d)", cfg.Variant, seed)
	} else {
		w.logger.Printf("world ready (variant=%s seed=%d)", cfg.Variant, seed)
	}

	return w, nil
}

// reset clears all three collections, recreates the player, zeroes the score
// and restarts the spawn timer.
func (w *World) reset() {
	w.storage.Clear()
	*w.state.Get() = GameState{Phase: PhaseRunning}
	w.storage.Spawn(newPlayer(&w.cfg), Player{})
	w.spawner.reset()
	w.steps = 0
	w.games++
	w.observer.ScoreChanged(0)
}

// Start leaves the Idle phase.
func (w *World) Start() error {
	if phase := w.Phase(); phase != PhaseIdle {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, phase)
	}
	w.reset()
	w.logger.Printf("game started")
	return nil
}

// Restart begins a new game after game over. Only the ui variant can restart.
func (w *World) Restart() error {
	if w.cfg.Variant == VariantBare {
		return ErrRestartUnsupported
	}
	if phase := w.Phase(); phase != PhaseGameOver {
		return fmt.Errorf("%w: restart from %s", ErrInvalidTransition, phase)
	}
	w.reset()
	w.logger.Printf("game restarted")
	return nil
}

// Update advances the world by dt. The spawn timer runs whenever a game has
// been started; the frame systems only run while the phase is Running.
func (w *World) Update(dt time.Duration) {
	state := w.state.Get()

	spawning := state.Phase == PhaseRunning ||
		(state.Phase == PhaseGameOver && !w.cfg.StopSpawnerOnGameOver)
	if spawning {
		for fires := w.spawner.advance(dt); fires > 0; fires-- {
			w.SpawnEnemy()
		}
	}

	if state.Phase != PhaseRunning {
		return
	}

	w.scheduler.Once(dt.Seconds())
	state.Tick++

	if state.Phase == PhaseGameOver {
		w.logger.Printf("game over: score=%d ticks=%d kills=%d", state.Score, state.Tick, state.Kills)
	}
}

// Step advances the world by exactly one tick. Over TPS steps the spawn
// clock sees exactly one second.
func (w *World) Step() {
	w.Update(w.cfg.TickDelta(w.steps))
	w.steps++
}

// SpawnEnemy adds one enemy aimed at the player's current position.
func (w *World) SpawnEnemy() ecs.EntityId {
	target := Vec2{X: float64(w.cfg.Width) / 2, Y: float64(w.cfg.Height) / 2}
	if player, ok := w.Player(); ok {
		target = player.Pos
	}
	circle, enemy := newEnemy(w.rng, &w.cfg, target)
	w.state.Get().EnemiesSpawned++
	return w.storage.Spawn(circle, enemy)
}

// Click fires a projectile from the player towards (x, y). It reports false
// when the game is not running.
func (w *World) Click(x, y float64) bool {
	state := w.state.Get()
	if state.Phase != PhaseRunning {
		return false
	}
	player, ok := w.Player()
	if !ok {
		return false
	}
	w.storage.Spawn(newProjectile(&w.cfg, player.Pos, Vec2{X: x, Y: y}), Projectile{})
	state.ShotsFired++
	return true
}

func (w *World) Config() Config {
	return w.cfg
}

func (w *World) Phase() Phase {
	return w.state.Get().Phase
}

func (w *World) Score() int {
	return w.state.Get().Score
}

// Games counts started games: Start, Restart and the bare variant's
// automatic start each begin a new one.
func (w *World) Games() int {
	return w.games
}

// State returns a copy of the game state singleton.
func (w *World) State() GameState {
	return *w.state.Get()
}

func (w *World) Storage() *ecs.Storage {
	return w.storage
}

func (w *World) Scheduler() *ecs.Scheduler {
	return w.scheduler
}

// Player returns a copy of the player circle.
func (w *World) Player() (Circle, bool) {
	for p := range w.players.Values() {
		return *p.Circle, true
	}
	return Circle{}, false
}

// Projectiles yields live projectiles in spawn order. The pointers are only
// valid until the next Update.
func (w *World) Projectiles() iter.Seq[*Circle] {
	return func(yield func(*Circle) bool) {
		for p := range w.projectiles.Values() {
			if !yield(p.Circle) {
				return
			}
		}
	}
}

// Enemies yields live enemies in spawn order.
func (w *World) Enemies() iter.Seq[*Circle] {
	return func(yield func(*Circle) bool) {
		for e := range w.enemies.Values() {
			if !yield(e.Circle) {
				return
			}
		}
	}
}

// Particles yields live particles with their alpha.
func (w *World) Particles() iter.Seq2[*Circle, float64] {
	return func(yield func(*Circle, float64) bool) {
		for p := range w.particles.Values() {
			if !yield(p.Circle, p.Particle.Alpha) {
				return
			}
		}
	}
}

type Counts struct {
	Players     int
	Projectiles int
	Enemies     int
	Particles   int
}

func (w *World) Counts() Counts {
	return Counts{
		Players:     w.players.Count(),
		Projectiles: w.projectiles.Count(),
		Enemies:     w.enemies.Count(),
		Particles:   w.particles.Count(),
	}
}

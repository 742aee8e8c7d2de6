package shooter

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type Variant string

const (
	// VariantUI has a start panel, a score display and a restart path.
	VariantUI Variant = "ui"
	// VariantBare starts running immediately and stops silently on game over.
	VariantBare Variant = "bare"
)

type PlayerConfig struct {
	Radius float64 `yaml:"radius"`
}

type ProjectileConfig struct {
	Radius float64 `yaml:"radius"`
	Speed  float64 `yaml:"speed"`
}

type EnemyConfig struct {
	SpawnInterval time.Duration `yaml:"spawnInterval"`
	RadiusMin     float64       `yaml:"radiusMin"`
	RadiusMax     float64       `yaml:"radiusMax"`
	SpeedMin      float64       `yaml:"speedMin"`
	SpeedMax      float64       `yaml:"speedMax"`
	Saturation    float64       `yaml:"saturation"`
	Lightness     float64       `yaml:"lightness"`

	// A hit shrinks the enemy by ShrinkStep when the result stays above
	// MinRadius; otherwise the enemy is destroyed.
	ShrinkStep     float64       `yaml:"shrinkStep"`
	MinRadius      float64       `yaml:"minRadius"`
	ShrinkDuration time.Duration `yaml:"shrinkDuration"`
}

type ParticleConfig struct {
	RadiusMin float64 `yaml:"radiusMin"`
	RadiusMax float64 `yaml:"radiusMax"`
	Speed     float64 `yaml:"speed"`
	Friction  float64 `yaml:"friction"`
	Fade      float64 `yaml:"fade"`
	// PerRadius particles are spawned per unit of enemy radius, rounded down.
	PerRadius float64 `yaml:"perRadius"`
}

type Config struct {
	// Width and Height size the canvas. Zero means fit the viewport at
	// startup; see FitViewport.
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	TPS     int     `yaml:"tps"`
	Variant Variant `yaml:"variant"`
	// Seed for the gameplay RNG; zero picks a random seed.
	Seed  uint64 `yaml:"seed"`
	Debug bool   `yaml:"debug"`

	Player     PlayerConfig     `yaml:"player"`
	Projectile ProjectileConfig `yaml:"projectile"`
	Enemy      EnemyConfig      `yaml:"enemy"`
	Particle   ParticleConfig   `yaml:"particle"`

	HitTolerance float64 `yaml:"hitTolerance"`
	ScorePerHit  int     `yaml:"scorePerHit"`
	// TrailAlpha is the opacity of the overlay drawn instead of clearing the canvas.
	TrailAlpha float64 `yaml:"trailAlpha"`
	// StopSpawnerOnGameOver stops the enemy spawn timer when the game ends.
	// By default the timer keeps firing after game over.
	StopSpawnerOnGameOver bool `yaml:"stopSpawnerOnGameOver"`
}

var (
	BackgroundColor = color.RGBA{R: 85, G: 85, B: 85, A: 255}
	PlayerColor     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	ProjectileColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Canvas size used when no viewport is available, e.g. headless runs.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

func DefaultConfig() Config {
	return Config{
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		TPS:     60,
		Variant: VariantUI,
		Player: PlayerConfig{
			Radius: 15,
		},
		Projectile: ProjectileConfig{
			Radius: 5,
			Speed:  4,
		},
		Enemy: EnemyConfig{
			SpawnInterval:  time.Second,
			RadiusMin:      10,
			RadiusMax:      30,
			SpeedMin:       1,
			SpeedMax:       6,
			Saturation:     0.5,
			Lightness:      0.5,
			ShrinkStep:     10,
			MinRadius:      10,
			ShrinkDuration: 500 * time.Millisecond,
		},
		Particle: ParticleConfig{
			RadiusMin: 0.5,
			RadiusMax: 3,
			Speed:     6,
			Friction:  0.99,
			Fade:      0.01,
			PerRadius: 2,
		},
		HitTolerance: 1,
		ScorePerHit:  10,
		TrailAlpha:   0.1,
	}
}

// LoadConfig reads a YAML file and overlays it on DefaultConfig. Keys missing
// from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	return LoadConfigOver(DefaultConfig(), path)
}

// LoadConfigOver is LoadConfig with a caller-supplied base instead of
// DefaultConfig.
func LoadConfigOver(base Config, path string) (Config, error) {
	cfg := base

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks that every value is usable by the game loop.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Width >= 0 && c.Height >= 0, "canvas size must not be negative, got %dx%d", c.Width, c.Height)
	check(c.TPS > 0, "tps must be positive, got %d", c.TPS)
	check(c.Variant == VariantUI || c.Variant == VariantBare, "unknown variant %q", c.Variant)

	check(c.Player.Radius > 0, "player radius must be positive, got %.2f", c.Player.Radius)
	check(c.Projectile.Radius > 0, "projectile radius must be positive, got %.2f", c.Projectile.Radius)
	check(c.Projectile.Speed > 0, "projectile speed must be positive, got %.2f", c.Projectile.Speed)

	e := c.Enemy
	check(e.SpawnInterval > 0, "enemy spawn interval must be positive, got %s", e.SpawnInterval)
	check(e.RadiusMin > 0 && e.RadiusMin < e.RadiusMax, "enemy radius range invalid: min(%.1f) max(%.1f)", e.RadiusMin, e.RadiusMax)
	check(e.SpeedMin >= 0 && e.SpeedMin < e.SpeedMax, "enemy speed range invalid: min(%.1f) max(%.1f)", e.SpeedMin, e.SpeedMax)
	check(e.Saturation >= 0 && e.Saturation <= 1, "enemy saturation must be in [0,1], got %.2f", e.Saturation)
	check(e.Lightness >= 0 && e.Lightness <= 1, "enemy lightness must be in [0,1], got %.2f", e.Lightness)
	check(e.ShrinkStep > 0, "enemy shrink step must be positive, got %.2f", e.ShrinkStep)
	check(e.MinRadius > 0, "enemy min radius must be positive, got %.2f", e.MinRadius)
	check(e.ShrinkDuration >= 0, "enemy shrink duration must not be negative, got %s", e.ShrinkDuration)

	p := c.Particle
	check(p.RadiusMin > 0 && p.RadiusMin < p.RadiusMax, "particle radius range invalid: min(%.2f) max(%.2f)", p.RadiusMin, p.RadiusMax)
	check(p.Speed >= 0, "particle speed must not be negative, got %.2f", p.Speed)
	check(p.Friction > 0 && p.Friction <= 1, "particle friction must be in (0,1], got %.3f", p.Friction)
	check(p.Fade > 0 && p.Fade <= 1, "particle fade must be in (0,1], got %.3f", p.Fade)
	check(p.PerRadius >= 0, "particles per radius must not be negative, got %.2f", p.PerRadius)

	check(c.ScorePerHit >= 0, "score per hit must not be negative, got %d", c.ScorePerHit)
	check(c.TrailAlpha > 0 && c.TrailAlpha <= 1, "trail alpha must be in (0,1], got %.2f", c.TrailAlpha)

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// FitViewport sizes the canvas to width x height, leaving any dimension the
// config already sets. Non-positive arguments are ignored.
func (c *Config) FitViewport(width, height int) {
	if c.Width == 0 && width > 0 {
		c.Width = width
	}
	if c.Height == 0 && height > 0 {
		c.Height = height
	}
}

// TickDuration is the nominal simulated time covered by one frame, rounded
// down to the nanosecond.
func (c *Config) TickDuration() time.Duration {
	return time.Second / time.Duration(c.TPS)
}

// TickTime is the simulated time at the end of tick n.
func (c *Config) TickTime(n int64) time.Duration {
	return time.Duration(n) * time.Second / time.Duration(c.TPS)
}

// TickDelta is the length of tick n (counting from zero). Consecutive deltas
// sum to TickTime, so whole seconds of ticks add up to whole seconds.
func (c *Config) TickDelta(n int64) time.Duration {
	return c.TickTime(n+1) - c.TickTime(n)
}

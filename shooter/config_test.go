package shooter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orbshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Second/60, cfg.TickDuration())
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
width: 800
height: 600
variant: bare
seed: 99
enemy:
  spawnInterval: 250ms
  radiusMax: 40
stopSpawnerOnGameOver: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 600, cfg.Height)
	assert.Equal(t, VariantBare, cfg.Variant)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.Equal(t, 250*time.Millisecond, cfg.Enemy.SpawnInterval)
	assert.Equal(t, 40.0, cfg.Enemy.RadiusMax)
	assert.True(t, cfg.StopSpawnerOnGameOver)

	// Untouched keys keep their defaults.
	def := DefaultConfig()
	assert.Equal(t, def.Enemy.RadiusMin, cfg.Enemy.RadiusMin)
	assert.Equal(t, def.Particle, cfg.Particle)
	assert.Equal(t, def.Player, cfg.Player)
	assert.Equal(t, def.ScorePerHit, cfg.ScorePerHit)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeConfig(t, "width: [1, 2"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")

	_, err = LoadConfig(writeConfig(t, "tps: 0\nvariant: fancy\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "tps must be positive")
	assert.Contains(t, err.Error(), `unknown variant "fancy"`)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"negative width", func(c *Config) { c.Width = -1 }, "canvas size"},
		{"inverted enemy radius", func(c *Config) { c.Enemy.RadiusMin = 40 }, "enemy radius range"},
		{"no spawn interval", func(c *Config) { c.Enemy.SpawnInterval = 0 }, "spawn interval"},
		{"zero particle radius", func(c *Config) { c.Particle.RadiusMin = 0 }, "particle radius range"},
		{"friction above one", func(c *Config) { c.Particle.Friction = 1.5 }, "particle friction"},
		{"zero fade", func(c *Config) { c.Particle.Fade = 0 }, "particle fade"},
		{"negative score", func(c *Config) { c.ScorePerHit = -1 }, "score per hit"},
		{"opaque trail", func(c *Config) { c.TrailAlpha = 0 }, "trail alpha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestZeroSizeFitsViewport(t *testing.T) {
	base := DefaultConfig()
	base.Width, base.Height = 0, 0

	cfg, err := LoadConfigOver(base, writeConfig(t, "height: 500\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Width)
	assert.Equal(t, 500, cfg.Height)

	cfg.FitViewport(1920, 1080)
	assert.Equal(t, 1920, cfg.Width)
	assert.Equal(t, 500, cfg.Height)

	unsized := base
	unsized.FitViewport(0, 0)
	assert.Equal(t, 0, unsized.Width)

	w, err := NewWorld(base)
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, w.Config().Width)
	assert.Equal(t, DefaultHeight, w.Config().Height)
}

func TestTickDeltasDoNotDrift(t *testing.T) {
	cfg := DefaultConfig()

	var total time.Duration
	for n := int64(0); n < 600; n++ {
		d := cfg.TickDelta(n)
		assert.InDelta(t, int64(cfg.TickDuration()), int64(d), 1)
		total += d
		if (n+1)%60 == 0 {
			assert.Equal(t, time.Duration((n+1)/60)*time.Second, total)
		}
	}
	assert.Equal(t, cfg.TickTime(600), total)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "Idle", PhaseIdle.String())
	assert.Equal(t, "Running", PhaseRunning.String())
	assert.Equal(t, "GameOver", PhaseGameOver.String())
	assert.Equal(t, "Phase(7)", Phase(7).String())
}

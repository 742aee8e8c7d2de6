package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/orbshot/arcade"
	debugui_ebiten "github.com/plus3/orbshot/ecs/debugui/ebiten"
	"github.com/plus3/orbshot/shooter"
)

const windowTitle = "orbshot"

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file.")
	variant := flag.String("variant", "", "Override the game variant: ui or bare.")
	seed := flag.Uint64("seed", 0, "Override the gameplay RNG seed.")
	debug := flag.Bool("debug", false, "Enable the Dear ImGui debug overlay (F1 toggles it).")
	flag.Parse()

	// The window fills the monitor unless the config sets a size.
	cfg := shooter.DefaultConfig()
	cfg.Width, cfg.Height = 0, 0
	if *configPath != "" {
		loaded, err := shooter.LoadConfigOver(cfg, *configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *variant != "" {
		cfg.Variant = shooter.Variant(*variant)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	cfg.Debug = cfg.Debug || *debug
	if m := ebiten.Monitor(); m != nil {
		cfg.FitViewport(m.Size())
	}
	cfg.FitViewport(shooter.DefaultWidth, shooter.DefaultHeight)

	logger := log.New(os.Stderr, "orbshot: ", log.LstdFlags)
	opts := []arcade.Option{arcade.WithLogger(logger)}

	if cfg.Debug {
		opts = append(opts, arcade.WithImgui(debugui_ebiten.NewImguiBackend(windowTitle, cfg.Width, cfg.Height)))
	} else {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
		ebiten.SetWindowTitle(windowTitle)
	}
	ebiten.SetTPS(cfg.TPS)

	game, err := arcade.NewGame(cfg, opts...)
	if err != nil {
		log.Fatalf("Failed to create game: %v", err)
	}

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatalf("Game exited with error: %v", err)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/plus3/orbshot/shooter"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file.")
	duration := flag.Duration("duration", 10*time.Second, "Wall clock budget for the simulation.")
	maxTicks := flag.Int64("ticks", 60*60*10, "Stop after this many ticks.")
	seed := flag.Uint64("seed", 0, "Gameplay RNG seed; 0 picks one from the clock.")
	variant := flag.String("variant", string(shooter.VariantBare), "Game variant: ui or bare.")
	fireEvery := flag.Int("fire-every", 12, "The bot fires every N ticks; 0 disables it.")
	flag.Parse()

	cfg := shooter.DefaultConfig()
	if *configPath != "" {
		loaded, err := shooter.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	cfg.Variant = shooter.Variant(*variant)
	cfg.Seed = *seed
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	logger := log.New(os.Stderr, "orbshot-sim: ", log.LstdFlags)
	world, err := shooter.NewWorld(cfg, shooter.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to create world: %v", err)
	}
	if world.Phase() == shooter.PhaseIdle {
		if err := world.Start(); err != nil {
			log.Fatalf("Failed to start game: %v", err)
		}
	}

	report := &Report{
		Duration:  *duration,
		MaxTicks:  *maxTicks,
		Seed:      cfg.Seed,
		Variant:   cfg.Variant,
		FireEvery: *fireEvery,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation (seed=%d, budget=%s)...\n", cfg.Seed, *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	bot := &Bot{FireEvery: *fireEvery}
	startTime := time.Now()
	report.StopReason = run(ctx, world, bot, *maxTicks, &report.UpdateTime)

	state := world.State()
	report.State = state
	report.Counts = world.Counts()
	report.SimulatedTime = cfg.TickTime(state.Tick)
	report.Scheduler = world.Scheduler().GetStats()
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)
	report.TotalTime = time.Since(startTime)

	log.Println("Simulation finished.")

	fmt.Println("\n\n--- Simulation Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}

// run steps the world until the game ends, the tick limit is hit or ctx
// expires, recording the time taken by every step.
func run(ctx context.Context, world *shooter.World, bot *Bot, maxTicks int64, samples *Stats) string {
	for {
		select {
		case <-ctx.Done():
			return "wall clock budget exhausted"
		default:
		}

		if world.Phase() != shooter.PhaseRunning {
			return "game over"
		}
		if world.State().Tick >= maxTicks {
			return "tick limit reached"
		}

		bot.Act(world)

		start := time.Now()
		world.Step()
		samples.Samples = append(samples.Samples, time.Since(start))
	}
}

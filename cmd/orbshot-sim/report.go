package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/orbshot/ecs"
	"github.com/plus3/orbshot/shooter"
)

type Report struct {
	// Configuration
	Duration  time.Duration
	MaxTicks  int64
	Seed      uint64
	Variant   shooter.Variant
	FireEvery int

	// Results
	StopReason    string
	State         shooter.GameState
	Counts        shooter.Counts
	SimulatedTime time.Duration
	TotalTime     time.Duration
	UpdateTime    Stats
	Scheduler     *ecs.SchedulerStats
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// Accuracy is the share of shots that hit, as a percentage.
func (r *Report) Accuracy() float64 {
	if r.State.ShotsFired == 0 {
		return 0
	}
	return 100 * float64(r.State.Hits) / float64(r.State.ShotsFired)
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Orbshot Simulation Report

## Configuration
- **Wall Clock Budget:** {{.Duration}}
- **Tick Limit:** {{.MaxTicks}}
- **Seed:** {{.Seed}}
- **Variant:** {{.Variant}}
- **Bot Fires Every:** {{.FireEvery}} ticks

## Game
- **Stopped Because:** {{.StopReason}}
- **Final Phase:** {{.State.Phase}}
- **Ticks:** {{.State.Tick}} ({{.SimulatedTime}} simulated)
- **Score:** {{.State.Score}}
- **Enemies Spawned:** {{.State.EnemiesSpawned}}
- **Kills:** {{.State.Kills}}
- **Shots / Hits:** {{.State.ShotsFired}} / {{.State.Hits}} ({{printf "%.1f" .Accuracy}}%)
- **Live at End:** {{.Counts.Projectiles}} projectiles, {{.Counts.Enemies}} enemies, {{.Counts.Particles}} particles

## Performance Results
- **Total Time:** {{.TotalTime}}
- **Update Time (Tick):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Systems
| System | Runs | Avg | Min | Max |
|---|---|---|---|---|
{{range .Scheduler.Systems}}| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MinDuration}} | {{.MaxDuration}} |
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}} ({{mb (bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc)}} MB)
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
- Total GC Pause: {{ns .MemStatsEnd.PauseTotalNs}}
`

	fm := template.FuncMap{
		"mb": func(v any) string {
			switch val := v.(type) {
			case uint64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			case int64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			default:
				return "N/A"
			}
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}

package arcade

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/orbshot/ecs"
	"github.com/plus3/orbshot/ecs/debugui"
	debugui_ebiten "github.com/plus3/orbshot/ecs/debugui/ebiten"
	"github.com/plus3/orbshot/shooter"
)

// DebugOverlay runs the Dear ImGui windows in their own ECS storage, apart
// from the game world they inspect.
type DebugOverlay struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	backend   *ecs.Singleton[debugui_ebiten.ImguiBackend]
	input     *ecs.Singleton[debugui.ImguiInputState]
}

func NewDebugOverlay(backend debugui_ebiten.ImguiBackend, world *shooter.World) *DebugOverlay {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[debugui_ebiten.ImguiBackend](registry)
	debugui.RegisterComponents(registry)

	storage := ecs.NewStorage(registry)
	d := &DebugOverlay{
		storage: storage,
		backend: ecs.NewSingleton(storage, backend),
		input:   ecs.NewSingleton(storage, debugui.ImguiInputState{Visible: true}),
	}

	stats := debugui.NewPerformanceStats(120)
	timer := debugui.NewFrameTimer()
	browser := debugui.NewEntityBrowser(100)

	storage.Spawn(debugui.ImguiItem{Render: func() {
		stats.Record(timer.GetDeltaTime())
		stats.Render(world.Storage(), world.Scheduler())
	}})
	storage.Spawn(debugui.ImguiItem{Render: func() {
		browser.Render(world.Storage())
	}})
	storage.Spawn(debugui.ImguiItem{Render: func() {
		renderGameWindow(world)
	}})

	d.scheduler = ecs.NewScheduler(storage)
	d.scheduler.Register(&debugui.ImguiSystem{})
	return d
}

func (d *DebugOverlay) Toggle() {
	state := d.input.Get()
	state.Visible = !state.Visible
}

// WantsMouse reports whether ImGui consumed the last mouse input.
func (d *DebugOverlay) WantsMouse() bool {
	return d.input.Get().WantCaptureMouse
}

// Update builds this tick's ImGui frame.
func (d *DebugOverlay) Update(dt float64) {
	d.backend.Get().BeginFrame()
	d.scheduler.Once(dt)
	d.backend.Get().EndFrame()
}

func (d *DebugOverlay) Draw(screen *ebiten.Image) {
	d.backend.Get().Draw(screen)
}

func (d *DebugOverlay) Layout(width, height int) {
	d.backend.Get().Layout(width, height)
}

func renderGameWindow(world *shooter.World) {
	if !imgui.BeginV("Game", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	state := world.State()
	counts := world.Counts()

	imgui.Text(fmt.Sprintf("Phase: %s", state.Phase))
	imgui.Text(fmt.Sprintf("Score: %d  Tick: %d", state.Score, state.Tick))
	imgui.Separator()
	imgui.Text(fmt.Sprintf("Projectiles: %d", counts.Projectiles))
	imgui.Text(fmt.Sprintf("Enemies: %d", counts.Enemies))
	imgui.Text(fmt.Sprintf("Particles: %d", counts.Particles))
	imgui.Separator()
	imgui.Text(fmt.Sprintf("Spawned: %d  Kills: %d", state.EnemiesSpawned, state.Kills))
	imgui.Text(fmt.Sprintf("Shots: %d  Hits: %d", state.ShotsFired, state.Hits))
	if state.ShotsFired > 0 {
		imgui.Text(fmt.Sprintf("Accuracy: %.0f%%", 100*float64(state.Hits)/float64(state.ShotsFired)))
	}

	if state.Phase == shooter.PhaseRunning && imgui.Button("Spawn Enemy") {
		world.SpawnEnemy()
	}

	imgui.End()
}

// Package game is the interactive raylib shell around a sim.Simulation.
package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bounce/camera"
	"github.com/pthm-cable/bounce/config"
	"github.com/pthm-cable/bounce/renderer"
	"github.com/pthm-cable/bounce/sim"
	"github.com/pthm-cable/bounce/ui"
)

// Options configures the interactive shell.
type Options struct {
	Sim         sim.Options
	SnapshotDir string // where S saves snapshots, "" = current directory
	PerfLog     bool   // periodic text perf dumps through Logf
}

// perfLogInterval is the frame period of text perf dumps.
const perfLogInterval = 120

// Game holds the simulation and everything needed to show it.
type Game struct {
	sim     *sim.Simulation
	gravity *sim.Gravity
	opts    Options

	camera     *camera.Camera
	background *renderer.BackgroundRenderer
	particles  *renderer.ParticleRenderer
	hud        *ui.HUD
	controls   *ui.ControlsPanel
	perfPanel  *ui.PerfPanel
	renderPerf *PerfStats

	paused   bool
	showPerf bool
	dragging bool

	screenWidth, screenHeight float32
}

// NewGame creates the simulation and the raylib-side renderers. The window
// must already be open.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	s, err := sim.New(cfg, opts.Sim)
	if err != nil {
		return nil, err
	}

	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	d := cfg.Derived

	g := &Game{
		sim:          s,
		gravity:      sim.NewGravity(s.Acceleration()),
		opts:         opts,
		camera:       camera.New(w, h, d.MinX32, d.MinY32, d.MaxX32, d.MaxY32),
		background:   renderer.NewBackgroundRenderer(d.MinX32, d.MinY32, d.MaxX32, d.MaxY32, d.CellSize32),
		particles:    renderer.NewParticleRenderer(cfg.Particles.Capacity),
		hud:          ui.NewHUD(),
		controls:     ui.NewControlsPanel(int32(w)-250, 10, 240, config.MaxSubsteps),
		perfPanel:    ui.NewPerfPanel(10, 145, 240),
		renderPerf:   NewPerfStats(),
		screenWidth:  w,
		screenHeight: h,
	}
	return g, nil
}

// Simulation returns the underlying simulation.
func (g *Game) Simulation() *sim.Simulation { return g.sim }

// Update handles input and advances the simulation by one frame unless paused.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}
	if err := g.sim.Update(rl.GetFrameTime()); err != nil {
		slog.Error("simulation update failed", "frame", g.sim.Frame(), "error", err)
	}

	if g.opts.PerfLog && g.sim.Frame()%perfLogInterval == 0 {
		g.logPerfStats()
	}
}

// Frame returns the number of physics frames completed.
func (g *Game) Frame() int64 { return g.sim.Frame() }

// Unload releases the simulation's workers and output files.
func (g *Game) Unload() {
	if err := g.sim.Close(); err != nil {
		slog.Error("closing simulation", "error", err)
	}
}

// togglePause flips the pause state.
func (g *Game) togglePause() {
	g.paused = !g.paused
}

// reset clears every particle and restores the camera.
func (g *Game) reset() {
	g.sim.Reset()
	g.camera.Reset()
	slog.Info("simulation reset")
}

// saveSnapshot writes the particle state to the snapshot directory.
func (g *Game) saveSnapshot() {
	dir := g.opts.SnapshotDir
	if dir == "" {
		dir = "."
	}
	path, err := g.sim.SaveSnapshot(dir)
	if err != nil {
		slog.Error("saving snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "frame", g.sim.Frame())
}

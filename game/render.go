package game

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bounce/config"
	"github.com/pthm-cable/bounce/ui"
)

const controlsLegend = "[Arrows] gravity dir  [G] gravity  [Space] pause  [R] reset  [Tab] panel  [P] perf  [S] snapshot  [RMB] pan  [Wheel] zoom"

// Draw renders the game state.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	start := time.Now()
	g.background.Draw(g.camera)
	g.renderPerf.Record("background", time.Since(start))

	start = time.Now()
	g.particles.Draw(g.sim.Particles(), g.camera)
	g.renderPerf.Record("particles", time.Since(start))

	start = time.Now()
	g.drawUI()
	g.renderPerf.Record("ui", time.Since(start))

	rl.EndDrawing()
	g.sim.Perf().RecordFrame()
}

// drawUI draws the HUD and applies any control panel edits.
func (g *Game) drawUI() {
	s := g.sim
	step := s.LastStep()
	ax, ay := s.Acceleration()

	g.hud.Draw(ui.HUDData{
		Title:      "Bounce",
		Particles:  s.Particles().Len(),
		Capacity:   s.Particles().Cap(),
		Drawn:      g.particles.Drawn(),
		Frame:      s.Frame(),
		SimTime:    s.SimTime(),
		FPS:        rl.GetFPS(),
		Substeps:   s.Substeps(),
		Damping:    s.Damping(),
		GravityX:   ax,
		GravityY:   ay,
		Contacts:   step.Collisions.Contacts,
		WallHits:   step.WallHits,
		MaxOverlap: step.Collisions.MaxOverlap,
		Paused:     g.paused,
	})
	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)

	if g.showPerf {
		g.perfPanel.Draw(s.Perf().Stats())
	}

	res := g.controls.Draw(ui.ControlsState{
		Damping:   s.Damping(),
		Substeps:  s.Substeps(),
		Paused:    g.paused,
		GravityOn: g.gravity.Enabled(),
		ShowGrid:  g.background.ShowGrid,
	})
	g.applyControls(res)
}

func (g *Game) applyControls(res ui.ControlsResult) {
	if res.Damping != g.sim.Damping() {
		g.sim.SetDamping(res.Damping)
	}
	if res.Substeps != g.sim.Substeps() {
		n := min(max(res.Substeps, 1), config.MaxSubsteps)
		if err := g.sim.SetSubsteps(n); err != nil {
			Logf("substeps: %v", err)
		}
	}
	if res.TogglePause {
		g.togglePause()
	}
	if res.ToggleGravity {
		g.gravity.Toggle()
		g.gravity.Apply(g.sim)
	}
	if res.ToggleGrid {
		g.background.ShowGrid = !g.background.ShowGrid
	}
	if res.Reset {
		g.reset()
	}
}

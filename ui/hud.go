package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bounce/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title      string
	Particles  int
	Capacity   int
	Drawn      int
	Frame      int64
	SimTime    float64
	FPS        int32
	Substeps   int
	Damping    float32
	GravityX   float32
	GravityY   float32
	Contacts   int
	WallHits   int
	MaxOverlap float32
	Paused     bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Particles: %d / %d | Drawn: %d", data.Particles, data.Capacity, data.Drawn),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Frame: %d | Sim: %.1fs | FPS: %d | Sub-steps: %d", data.Frame, data.SimTime, data.FPS, data.Substeps),
		10, 55, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Gravity: (%.2f, %.2f) | Damping: %.2f", data.GravityX, data.GravityY, data.Damping),
		10, 75, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Contacts: %d | Wall hits: %d | Max overlap: %.4f", data.Contacts, data.WallHits, data.MaxOverlap),
		10, 95, 16, rl.LightGray,
	)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 115, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase frame timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	pad := r.Theme.Padding
	height := r.Theme.LineHeight*4 + (r.Theme.LineHeight+2)*int32(len(telemetry.Phases)) + pad*2
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + pad
	y := r.DrawSectionHeader(x, p.y+pad, "Frame timing")

	y = r.DrawLabelValue(x, y, "Avg tick", stats.AvgTickDuration.Round(time.Microsecond).String())
	y = r.DrawLabelValue(x, y, "Max tick", stats.MaxTickDuration.Round(time.Microsecond).String())
	y = r.DrawLabelValue(x, y, "Heap", fmt.Sprintf("%.1f MB", stats.HeapAllocMB))

	for _, phase := range telemetry.Phases {
		y = r.DrawPercentBar(x, y, phase, stats.PhasePct[phase], p.width-2*pad)
	}
}

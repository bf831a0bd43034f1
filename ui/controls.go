package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsState is the simulation state the panel displays.
type ControlsState struct {
	Damping   float32
	Substeps  int
	Paused    bool
	GravityOn bool
	ShowGrid  bool
}

// ControlsResult reports what the user changed this frame.
type ControlsResult struct {
	Damping       float32
	Substeps      int
	TogglePause   bool
	ToggleGravity bool
	ToggleGrid    bool
	Reset         bool
}

// ControlsPanel renders the right-side panel of sliders and buttons.
type ControlsPanel struct {
	renderer    *Renderer
	x, y        int32
	width       int32
	visible     bool
	maxSubsteps int
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32, maxSubsteps int) *ControlsPanel {
	return &ControlsPanel{
		renderer:    NewRenderer(),
		x:           x,
		y:           y,
		width:       width,
		visible:     true,
		maxSubsteps: maxSubsteps,
	}
}

// SetPosition moves the panel.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x, c.y = x, y
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point is over the panel.
func (c *ControlsPanel) Contains(x, y float32) bool {
	if !c.visible {
		return false
	}
	return x >= float32(c.x) && x <= float32(c.x+c.width) &&
		y >= float32(c.y) && y <= float32(c.y+c.height())
}

func (c *ControlsPanel) height() int32 {
	return 230
}

// Draw renders the panel and returns the edited values. A hidden panel
// returns the state unchanged.
func (c *ControlsPanel) Draw(state ControlsState) ControlsResult {
	res := ControlsResult{Damping: state.Damping, Substeps: state.Substeps}
	if !c.visible {
		return res
	}

	r := c.renderer
	pad := r.Theme.Padding
	r.DrawPanel(c.x, c.y, c.width, c.height())

	x := float32(c.x + pad)
	y := c.y + pad
	w := float32(c.width - 2*pad)

	y = r.DrawSectionHeader(c.x+pad, y, "Controls")
	y += 4

	rl.DrawText(fmt.Sprintf("Wall damping  %.2f", state.Damping), int32(x), y, r.Theme.FontSize, r.Theme.LabelColor)
	y += r.Theme.LineHeight
	res.Damping = gui.SliderBar(
		rl.Rectangle{X: x + 20, Y: float32(y), Width: w - 50, Height: 18},
		"0", "1",
		state.Damping, 0, 1,
	)
	y += 30

	rl.DrawText(fmt.Sprintf("Sub-steps  %d", state.Substeps), int32(x), y, r.Theme.FontSize, r.Theme.LabelColor)
	y += r.Theme.LineHeight
	sub := gui.SliderBar(
		rl.Rectangle{X: x + 20, Y: float32(y), Width: w - 50, Height: 18},
		"1", fmt.Sprint(c.maxSubsteps),
		float32(state.Substeps), 1, float32(c.maxSubsteps),
	)
	res.Substeps = int(math.Round(float64(sub)))
	y += 34

	half := (w - 8) / 2
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: half, Height: 26}, toggleText(state.Paused, "Resume", "Pause")) {
		res.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: x + half + 8, Y: float32(y), Width: half, Height: 26}, "Reset") {
		res.Reset = true
	}
	y += 34

	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: half, Height: 26}, toggleText(state.GravityOn, "Gravity off", "Gravity on")) {
		res.ToggleGravity = true
	}
	if gui.Button(rl.Rectangle{X: x + half + 8, Y: float32(y), Width: half, Height: 26}, toggleText(state.ShowGrid, "Hide grid", "Show grid")) {
		res.ToggleGrid = true
	}

	return res
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}

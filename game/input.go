package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.togglePause()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.reset()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.showPerf = !g.showPerf
	}
	if rl.IsKeyPressed(rl.KeyS) {
		g.saveSnapshot()
	}

	g.handleGravityInput()
	g.handleCameraInput()
}

// handleGravityInput points gravity with the arrow keys and toggles it with G.
// Only particle accelerations change.
func (g *Game) handleGravityInput() {
	changed := true
	switch {
	case rl.IsKeyPressed(rl.KeyUp):
		g.gravity.Point(0, 1)
	case rl.IsKeyPressed(rl.KeyDown):
		g.gravity.Point(0, -1)
	case rl.IsKeyPressed(rl.KeyLeft):
		g.gravity.Point(-1, 0)
	case rl.IsKeyPressed(rl.KeyRight):
		g.gravity.Point(1, 0)
	case rl.IsKeyPressed(rl.KeyG):
		g.gravity.Toggle()
	default:
		changed = false
	}
	if changed {
		g.gravity.Apply(g.sim)
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.controls.SetPosition(int32(w)-250, 10)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	mouse := rl.GetMousePosition()

	// Drag with the right button to pan.
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) && !g.controls.Contains(mouse.X, mouse.Y) {
		g.dragging = true
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonRight) {
		g.dragging = false
	}
	if g.dragging {
		d := rl.GetMouseDelta()
		g.camera.Pan(-d.X, -d.Y)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + wheel*0.1)
	}

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

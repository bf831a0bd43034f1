package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bounce/camera"
)

// BackgroundRenderer draws the domain rectangle and, optionally, the
// collision grid.
type BackgroundRenderer struct {
	MinX, MinY, MaxX, MaxY float32
	CellSize               float32

	ShowGrid bool

	fill   rl.Color
	border rl.Color
	grid   rl.Color
}

// NewBackgroundRenderer creates a renderer for the given bounds.
func NewBackgroundRenderer(minX, minY, maxX, maxY, cellSize float32) *BackgroundRenderer {
	return &BackgroundRenderer{
		MinX:     minX,
		MinY:     minY,
		MaxX:     maxX,
		MaxY:     maxY,
		CellSize: cellSize,
		fill:     rl.Color{R: 18, G: 22, B: 28, A: 255},
		border:   rl.Color{R: 90, G: 100, B: 115, A: 255},
		grid:     rl.Color{R: 40, G: 46, B: 56, A: 255},
	}
}

// Draw renders the domain through cam.
func (b *BackgroundRenderer) Draw(cam *camera.Camera) {
	x0, y0 := cam.WorldToScreen(b.MinX, b.MaxY) // top-left on screen
	x1, y1 := cam.WorldToScreen(b.MaxX, b.MinY)
	rect := rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}

	rl.DrawRectangleRec(rect, b.fill)

	// Skip the grid once cells shrink below a few pixels.
	if b.ShowGrid && b.CellSize > 0 && cam.WorldLength(b.CellSize) >= 4 {
		for x := b.MinX + b.CellSize; x < b.MaxX; x += b.CellSize {
			sx, _ := cam.WorldToScreen(x, 0)
			rl.DrawLineV(rl.Vector2{X: sx, Y: y0}, rl.Vector2{X: sx, Y: y1}, b.grid)
		}
		for y := b.MinY + b.CellSize; y < b.MaxY; y += b.CellSize {
			_, sy := cam.WorldToScreen(0, y)
			rl.DrawLineV(rl.Vector2{X: x0, Y: sy}, rl.Vector2{X: x1, Y: sy}, b.grid)
		}
	}

	rl.DrawRectangleLinesEx(rect, 2, b.border)
}

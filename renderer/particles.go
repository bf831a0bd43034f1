// Package renderer draws the particle set through raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bounce/camera"
	"github.com/pthm-cable/bounce/components"
)

// minPixelRadius keeps far-zoomed particles visible.
const minPixelRadius = 0.75

// ParticleRenderer renders particles as filled circles.
type ParticleRenderer struct {
	positions []float32
	drawn     int
}

// NewParticleRenderer creates a renderer with a position buffer for capacity
// particles.
func NewParticleRenderer(capacity int) *ParticleRenderer {
	return &ParticleRenderer{positions: make([]float32, 0, 2*capacity)}
}

// Draw copies the active positions out of p and draws every visible particle.
// Only positions are copied each frame; radius and colour never change after
// spawn and are read in place.
func (r *ParticleRenderer) Draw(p *components.ParticleSet, cam *camera.Camera) {
	r.positions = p.PositionsInto(r.positions)
	r.drawn = 0

	n := len(r.positions) / 2
	for i := 0; i < n; i++ {
		wx, wy := r.positions[2*i], r.positions[2*i+1]
		radius := p.Radius(i)
		if !cam.IsVisible(wx, wy, radius) {
			continue
		}

		sx, sy := cam.WorldToScreen(wx, wy)
		pr := max(cam.WorldLength(radius), minPixelRadius)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, pr, toRLColor(p.Color(i)))
		r.drawn++
	}
}

// Drawn returns how many particles the last Draw call rendered.
func (r *ParticleRenderer) Drawn() int { return r.drawn }

func toRLColor(c components.Color) rl.Color {
	return rl.Color{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: 255,
	}
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

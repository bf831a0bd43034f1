package sim

import "math"

// Gravity tracks the direction and on/off state of the external acceleration
// driven by user input. Magnitude is fixed at construction.
type Gravity struct {
	magnitude float32
	dirX      float32
	dirY      float32
	enabled   bool
}

// NewGravity derives magnitude and direction from an initial acceleration.
// A zero vector starts disabled and pointing down.
func NewGravity(ax, ay float32) *Gravity {
	m := float32(math.Hypot(float64(ax), float64(ay)))
	if m == 0 {
		return &Gravity{magnitude: 9.81, dirY: -1}
	}
	return &Gravity{magnitude: m, dirX: ax / m, dirY: ay / m, enabled: true}
}

// Point sets the direction. Non-unit input is normalised; zero is ignored.
func (g *Gravity) Point(dx, dy float32) {
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return
	}
	g.dirX, g.dirY = dx/l, dy/l
	g.enabled = true
}

// Toggle flips gravity on or off and returns the new state.
func (g *Gravity) Toggle() bool {
	g.enabled = !g.enabled
	return g.enabled
}

// Enabled reports whether gravity is on.
func (g *Gravity) Enabled() bool { return g.enabled }

// Vector returns the acceleration to apply.
func (g *Gravity) Vector() (ax, ay float32) {
	if !g.enabled {
		return 0, 0
	}
	return g.dirX * g.magnitude, g.dirY * g.magnitude
}

// Apply pushes the current vector into s.
func (g *Gravity) Apply(s *Simulation) {
	s.SetAcceleration(g.Vector())
}

// Package components defines the particle state stored by the simulation.
package components

import (
	"fmt"

	"github.com/pthm-cable/bounce/config"
)

// Color is a linear RGB triple in [0, 1].
type Color struct {
	R, G, B float32
}

// Particle holds the initial state of a particle being appended to a set.
type Particle struct {
	X, Y         float32
	PrevX, PrevY float32
	AccelX       float32
	AccelY       float32
	Radius       float32
	Color        Color
}

// ParticleSet is a fixed-capacity structure-of-arrays particle store.
// Vector quantities are flat interleaved (x, y) pairs: element i lives at [2i, 2i+1].
// Indices [0, Len) are active, [Len, Cap) are reserved and inert.
type ParticleSet struct {
	Pos    []float32
	Prev   []float32
	Accel  []float32
	Radii  []float32
	Colors []Color

	active    int
	maxRadius float32
}

// NewParticleSet allocates a set with room for capacity particles.
func NewParticleSet(capacity int) (*ParticleSet, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: particle capacity must be positive, got %d", config.ErrInvalidConfiguration, capacity)
	}
	return &ParticleSet{
		Pos:    make([]float32, 2*capacity),
		Prev:   make([]float32, 2*capacity),
		Accel:  make([]float32, 2*capacity),
		Radii:  make([]float32, capacity),
		Colors: make([]Color, capacity),
	}, nil
}

// Len returns the active particle count.
func (s *ParticleSet) Len() int { return s.active }

// Cap returns the fixed capacity.
func (s *ParticleSet) Cap() int { return len(s.Radii) }

// Remaining returns how many more particles fit.
func (s *ParticleSet) Remaining() int { return len(s.Radii) - s.active }

// MaxRadius returns the largest radius among particles appended since the last Reset.
func (s *ParticleSet) MaxRadius() float32 { return s.maxRadius }

// Append adds p at the end of the active range and returns its index.
func (s *ParticleSet) Append(p Particle) (int, error) {
	if s.active >= len(s.Radii) {
		return -1, fmt.Errorf("%w: set holds %d particles", config.ErrCapacityExceeded, len(s.Radii))
	}
	i := s.active
	s.Pos[2*i], s.Pos[2*i+1] = p.X, p.Y
	s.Prev[2*i], s.Prev[2*i+1] = p.PrevX, p.PrevY
	s.Accel[2*i], s.Accel[2*i+1] = p.AccelX, p.AccelY
	s.Radii[i] = p.Radius
	s.Colors[i] = p.Color
	if p.Radius > s.maxRadius {
		s.maxRadius = p.Radius
	}
	s.active++
	return i, nil
}

// Reset empties the active range without releasing storage.
func (s *ParticleSet) Reset() {
	clear(s.Pos)
	clear(s.Prev)
	clear(s.Accel)
	clear(s.Radii)
	clear(s.Colors)
	s.active = 0
	s.maxRadius = 0
}

// Position returns the current position of particle i.
func (s *ParticleSet) Position(i int) (x, y float32) {
	return s.Pos[2*i], s.Pos[2*i+1]
}

// SetPosition moves particle i without touching its previous position.
func (s *ParticleSet) SetPosition(i int, x, y float32) {
	s.Pos[2*i], s.Pos[2*i+1] = x, y
}

// Previous returns the position of particle i one sub-step ago.
func (s *ParticleSet) Previous(i int) (x, y float32) {
	return s.Prev[2*i], s.Prev[2*i+1]
}

// Acceleration returns the external acceleration of particle i.
func (s *ParticleSet) Acceleration(i int) (x, y float32) {
	return s.Accel[2*i], s.Accel[2*i+1]
}

// Radius returns the radius of particle i.
func (s *ParticleSet) Radius(i int) float32 { return s.Radii[i] }

// Color returns the colour of particle i.
func (s *ParticleSet) Color(i int) Color { return s.Colors[i] }

// EffectiveVelocity derives the velocity of particle i from its position history.
func (s *ParticleSet) EffectiveVelocity(i int, dt float32) (vx, vy float32) {
	return (s.Pos[2*i] - s.Prev[2*i]) / dt, (s.Pos[2*i+1] - s.Prev[2*i+1]) / dt
}

// SetVelocity rewrites the previous position of particle i so that its
// effective velocity over dt becomes (vx, vy).
func (s *ParticleSet) SetVelocity(i int, vx, vy, dt float32) {
	s.Prev[2*i] = s.Pos[2*i] - vx*dt
	s.Prev[2*i+1] = s.Pos[2*i+1] - vy*dt
}

// SetAccelerationAll sets the external acceleration of every active particle.
// This is the only write path available to input handling.
func (s *ParticleSet) SetAccelerationAll(ax, ay float32) {
	for i := 0; i < s.active; i++ {
		s.Accel[2*i] = ax
		s.Accel[2*i+1] = ay
	}
}

// PositionsInto copies the active interleaved positions into dst, growing it if needed.
func (s *ParticleSet) PositionsInto(dst []float32) []float32 {
	n := 2 * s.active
	if cap(dst) < n {
		dst = make([]float32, n)
	}
	dst = dst[:n]
	copy(dst, s.Pos[:n])
	return dst
}

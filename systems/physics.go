package systems

import "github.com/pthm-cable/bounce/components"

// Bounds represents the simulation domain.
type Bounds struct {
	MinX, MinY float32
	MaxX, MaxY float32
}

// WallResolver keeps particles inside Bounds, inset by each particle's radius.
// Velocity is reflected implicitly by rewriting the previous position.
type WallResolver struct {
	Bounds  Bounds
	Damping float32 // 1 = elastic, 0 = particle sticks to the wall
}

// Resolve clamps every active particle and returns the number of wall contacts.
func (w WallResolver) Resolve(p *components.ParticleSet) int {
	hits := 0
	for i := 0; i < p.Len(); i++ {
		if w.ResolveOne(p, i) {
			hits++
		}
	}
	return hits
}

// ResolveOne clamps particle i on both axes and reports whether it touched a wall.
// Applying it to an already resolved particle is a no-op.
func (w WallResolver) ResolveOne(p *components.ParticleSet, i int) bool {
	r := p.Radii[i]
	hitX := reflectAxis(&p.Pos[2*i], &p.Prev[2*i], w.Bounds.MinX+r, w.Bounds.MaxX-r, w.Damping)
	hitY := reflectAxis(&p.Pos[2*i+1], &p.Prev[2*i+1], w.Bounds.MinY+r, w.Bounds.MaxY-r, w.Damping)
	return hitX || hitY
}

// reflectAxis clamps pos into [lo, hi] and places prev on the far side of the
// wall so the implied velocity is reversed and scaled by damping.
func reflectAxis(pos, prev *float32, lo, hi, damping float32) bool {
	switch {
	case *pos < lo:
		*prev = lo + (*pos-*prev)*damping
		*pos = lo
	case *pos > hi:
		*prev = hi + (*pos-*prev)*damping
		*pos = hi
	default:
		return false
	}
	return true
}

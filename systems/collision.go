package systems

import (
	"math"

	"github.com/pthm-cable/bounce/components"
)

// MinContactDistSq is the squared centre distance at or below which a pair is
// treated as coincident and skipped (distance 1e-4 in world units).
const MinContactDistSq = 1e-8

// Contact describes one overlapping pair. The normal points from J to I.
type Contact struct {
	I, J    int
	NX, NY  float32
	Overlap float32
}

// CollisionStats summarises one collision pass.
type CollisionStats struct {
	Checks     int     // candidate pairs distance-tested
	Contacts   int     // overlapping pairs resolved
	Degenerate int     // coincident pairs skipped
	MaxOverlap float32 // deepest penetration seen
}

// Add accumulates o into s.
func (s *CollisionStats) Add(o CollisionStats) {
	s.Checks += o.Checks
	s.Contacts += o.Contacts
	s.Degenerate += o.Degenerate
	if o.MaxOverlap > s.MaxOverlap {
		s.MaxOverlap = o.MaxOverlap
	}
}

// CollisionResolver rebuilds the grid from current positions and separates
// every overlapping pair found in that snapshot.
type CollisionResolver interface {
	Resolve(p *components.ParticleSet, grid *SpatialGrid, dt float32) CollisionStats
}

// ContactSolver applies a detected contact to the particle set.
type ContactSolver interface {
	Solve(p *components.ParticleSet, c Contact, dt float32)
}

// PositionalSolver pushes both particles apart by half the overlap each.
type PositionalSolver struct{}

// Solve moves positions only; the implied velocity changes with them.
func (PositionalSolver) Solve(p *components.ParticleSet, c Contact, _ float32) {
	half := c.Overlap * 0.5
	p.Pos[2*c.I] += c.NX * half
	p.Pos[2*c.I+1] += c.NY * half
	p.Pos[2*c.J] -= c.NX * half
	p.Pos[2*c.J+1] -= c.NY * half
}

// ImpulseSolver separates the pair without changing its velocities, then
// exchanges momentum along the normal when the pair is approaching.
// Masses are equal.
type ImpulseSolver struct {
	Restitution float32 // 1 = elastic
}

// Solve applies the positional split and, if approaching, the impulse.
func (s ImpulseSolver) Solve(p *components.ParticleSet, c Contact, dt float32) {
	vix, viy := p.EffectiveVelocity(c.I, dt)
	vjx, vjy := p.EffectiveVelocity(c.J, dt)

	half := c.Overlap * 0.5
	dx, dy := c.NX*half, c.NY*half
	p.Pos[2*c.I] += dx
	p.Pos[2*c.I+1] += dy
	p.Pos[2*c.J] -= dx
	p.Pos[2*c.J+1] -= dy

	vn := (vix-vjx)*c.NX + (viy-vjy)*c.NY
	if vn < 0 {
		// Equal masses: j = -(1+e)*vn / (1/m + 1/m) with m = 1.
		imp := -(1 + s.Restitution) * vn * 0.5
		vix += imp * c.NX
		viy += imp * c.NY
		vjx -= imp * c.NX
		vjy -= imp * c.NY
	}
	p.SetVelocity(c.I, vix, viy, dt)
	p.SetVelocity(c.J, vjx, vjy, dt)
}

type pairResult uint8

const (
	pairSeparated pairResult = iota
	pairDegenerate
	pairOverlap
)

// testPair checks particles i and j against interleaved positions pos.
func testPair(pos, radii []float32, i, j int) (Contact, pairResult) {
	dx := pos[2*i] - pos[2*j]
	dy := pos[2*i+1] - pos[2*j+1]
	distSq := dx*dx + dy*dy

	minDist := radii[i] + radii[j]
	if distSq >= minDist*minDist {
		return Contact{}, pairSeparated
	}
	if distSq <= MinContactDistSq {
		return Contact{}, pairDegenerate
	}

	dist := float32(math.Sqrt(float64(distSq)))
	return Contact{
		I:       i,
		J:       j,
		NX:      dx / dist,
		NY:      dy / dist,
		Overlap: minDist - dist,
	}, pairOverlap
}

func (s *CollisionStats) record(c Contact, res pairResult) {
	s.Checks++
	switch res {
	case pairDegenerate:
		s.Degenerate++
	case pairOverlap:
		s.Contacts++
		if c.Overlap > s.MaxOverlap {
			s.MaxOverlap = c.Overlap
		}
	}
}

// SerialResolver detects and solves pairs one at a time in index order, so
// later pairs see corrections made by earlier ones.
type SerialResolver struct {
	solver     ContactSolver
	candidates []int
}

// NewSerialResolver creates a single-threaded resolver around solver.
func NewSerialResolver(solver ContactSolver) *SerialResolver {
	return &SerialResolver{solver: solver, candidates: make([]int, 0, 64)}
}

// NewPositionalResolver creates the default positional-only resolver.
func NewPositionalResolver() *SerialResolver {
	return NewSerialResolver(PositionalSolver{})
}

// NewImpulseResolver creates a positional+impulse resolver.
func NewImpulseResolver(restitution float32) *SerialResolver {
	return NewSerialResolver(ImpulseSolver{Restitution: restitution})
}

// Resolve runs one collision pass.
func (r *SerialResolver) Resolve(p *components.ParticleSet, grid *SpatialGrid, dt float32) CollisionStats {
	var stats CollisionStats
	n := p.Len()
	grid.Rebuild(p.Pos, n)
	maxR := p.MaxRadius()

	for i := 0; i < n; i++ {
		x, y := p.Position(i)
		r.candidates = grid.QueryInto(r.candidates[:0], x, y, p.Radii[i]+maxR)
		for _, j := range r.candidates {
			if j <= i {
				continue
			}
			c, res := testPair(p.Pos, p.Radii, i, j)
			stats.record(c, res)
			if res == pairOverlap {
				r.solver.Solve(p, c, dt)
			}
		}
	}
	return stats
}

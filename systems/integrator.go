package systems

import (
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/pthm-cable/bounce/components"
)

// Integrator advances every active particle by one sub-step.
type Integrator interface {
	Integrate(p *components.ParticleSet, dt float32)
}

// VerletStep applies one Störmer-Verlet step to a single coordinate.
func VerletStep(pos, prev, acc, dt float32) (newPos, newPrev float32) {
	return 2*pos - prev + acc*(dt*dt), pos
}

// VerletIntegrator is the scalar position-Verlet integrator.
type VerletIntegrator struct{}

// Integrate updates positions in place; the pre-step position becomes the previous one.
func (VerletIntegrator) Integrate(p *components.ParticleSet, dt float32) {
	n := 2 * p.Len()
	pos, prev, acc := p.Pos[:n], p.Prev[:n], p.Accel[:n]
	dt2 := dt * dt
	for k := range pos {
		x := pos[k]
		pos[k] = 2*x - prev[k] + acc[k]*dt2
		prev[k] = x
	}
}

// BLASIntegrator runs the same update as VerletIntegrator over the whole
// active range with blas32 vector kernels.
type BLASIntegrator struct {
	next []float32
}

// NewBLASIntegrator creates a vectorised integrator with scratch for capacity particles.
func NewBLASIntegrator(capacity int) *BLASIntegrator {
	return &BLASIntegrator{next: make([]float32, 2*capacity)}
}

// Integrate updates positions in place.
func (b *BLASIntegrator) Integrate(p *components.ParticleSet, dt float32) {
	n := 2 * p.Len()
	if n == 0 {
		return
	}
	if len(b.next) < n {
		b.next = make([]float32, len(p.Pos))
	}

	pos := blas32.Vector{N: n, Inc: 1, Data: p.Pos[:n]}
	prev := blas32.Vector{N: n, Inc: 1, Data: p.Prev[:n]}
	acc := blas32.Vector{N: n, Inc: 1, Data: p.Accel[:n]}
	next := blas32.Vector{N: n, Inc: 1, Data: b.next[:n]}

	blas32.Copy(pos, next)        // next = x
	blas32.Scal(2, next)          // next = 2x
	blas32.Axpy(-1, prev, next)   // next = 2x - x_prev
	blas32.Axpy(dt*dt, acc, next) // next += a*dt^2
	blas32.Copy(pos, prev)        // x_prev = x
	blas32.Copy(next, pos)
}

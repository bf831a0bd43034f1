// Package sim orchestrates the physics passes into fixed-timestep frames and
// hosts the particle state shared by the headless and graphical front ends.
package sim

import (
	"fmt"
	"math"

	"github.com/pthm-cable/bounce/components"
	"github.com/pthm-cable/bounce/config"
	"github.com/pthm-cable/bounce/systems"
	"github.com/pthm-cable/bounce/telemetry"
)

// PhaseTimer marks the start of a named frame phase.
type PhaseTimer interface {
	StartPhase(phase string)
}

type nopTimer struct{}

func (nopTimer) StartPhase(string) {}

// StepperConfig selects the passes a Stepper runs.
type StepperConfig struct {
	Bounds      systems.Bounds
	Damping     float32
	CellSize    float32
	Capacity    int    // sizes the vectorised integrator scratch
	Collision   string // config.CollisionPositional or config.CollisionImpulse
	Restitution float32
	Integrator  string // config.IntegratorScalar or config.IntegratorBLAS
	Parallel    bool
	Workers     int // 0 = GOMAXPROCS
}

// StepperConfigFrom builds a StepperConfig from loaded configuration.
func StepperConfigFrom(cfg *config.Config) StepperConfig {
	return StepperConfig{
		Bounds: systems.Bounds{
			MinX: cfg.Derived.MinX32,
			MinY: cfg.Derived.MinY32,
			MaxX: cfg.Derived.MaxX32,
			MaxY: cfg.Derived.MaxY32,
		},
		Damping:     float32(cfg.Physics.Damping),
		CellSize:    cfg.Derived.CellSize32,
		Capacity:    cfg.Particles.Capacity,
		Collision:   cfg.Physics.Collision,
		Restitution: float32(cfg.Physics.Restitution),
		Integrator:  cfg.Physics.Integrator,
		Parallel:    cfg.Physics.Parallel,
	}
}

// StepStats summarises one frame.
type StepStats struct {
	Substeps   int
	WallHits   int
	Collisions systems.CollisionStats
}

// Stepper advances a particle set by whole frames of fixed sub-steps.
type Stepper struct {
	integrator systems.Integrator
	walls      systems.WallResolver
	resolver   systems.CollisionResolver
	grid       *systems.SpatialGrid
	timer      PhaseTimer
}

// NewStepper creates a stepper. Unknown scheme names and invalid grid
// geometry return an error wrapping config.ErrInvalidConfiguration.
func NewStepper(cfg StepperConfig) (*Stepper, error) {
	b := cfg.Bounds
	grid, err := systems.NewSpatialGrid(cfg.CellSize, b.MinX, b.MinY, b.MaxX, b.MaxY)
	if err != nil {
		return nil, err
	}

	var integ systems.Integrator
	switch cfg.Integrator {
	case config.IntegratorScalar, "":
		integ = systems.VerletIntegrator{}
	case config.IntegratorBLAS:
		integ = systems.NewBLASIntegrator(cfg.Capacity)
	default:
		return nil, fmt.Errorf("%w: unknown integrator %q", config.ErrInvalidConfiguration, cfg.Integrator)
	}

	var solver systems.ContactSolver
	switch cfg.Collision {
	case config.CollisionPositional, "":
		solver = systems.PositionalSolver{}
	case config.CollisionImpulse:
		solver = systems.ImpulseSolver{Restitution: cfg.Restitution}
	default:
		return nil, fmt.Errorf("%w: unknown collision scheme %q", config.ErrInvalidConfiguration, cfg.Collision)
	}

	var resolver systems.CollisionResolver = systems.NewSerialResolver(solver)
	if cfg.Parallel {
		resolver = systems.NewParallelResolver(solver, cfg.Workers)
	}

	return &Stepper{
		integrator: integ,
		walls:      systems.WallResolver{Bounds: b, Damping: cfg.Damping},
		resolver:   resolver,
		grid:       grid,
		timer:      nopTimer{},
	}, nil
}

// SetPhaseTimer attaches a timer notified at each phase boundary. nil detaches.
func (s *Stepper) SetPhaseTimer(t PhaseTimer) {
	if t == nil {
		t = nopTimer{}
	}
	s.timer = t
}

// Damping returns the wall rebound factor.
func (s *Stepper) Damping() float32 { return s.walls.Damping }

// SetDamping changes the wall rebound factor, clamped to [0, 1].
func (s *Stepper) SetDamping(d float32) {
	s.walls.Damping = min(max(d, 0), 1)
}

// AdvanceFrame runs substeps sub-steps of length dt. The caller's measured
// frame time never enters here.
func (s *Stepper) AdvanceFrame(p *components.ParticleSet, substeps int, dt float32) (StepStats, error) {
	if substeps < 1 {
		return StepStats{}, fmt.Errorf("%w: substeps must be at least 1, got %d", config.ErrInvalidConfiguration, substeps)
	}
	if !(dt > 0) || math.IsInf(float64(dt), 0) {
		return StepStats{}, fmt.Errorf("%w: sub-step dt must be positive and finite, got %g", config.ErrInvalidConfiguration, dt)
	}

	var stats StepStats
	for i := 0; i < substeps; i++ {
		sub := s.Substep(p, dt)
		stats.WallHits += sub.WallHits
		stats.Collisions.Add(sub.Collisions)
	}
	stats.Substeps = substeps
	return stats, nil
}

// Substep integrates, enforces walls, then resolves particle contacts.
// Contacts can push a particle back past a wall, so walls are enforced once
// more at the end; the second pass touches only those particles.
func (s *Stepper) Substep(p *components.ParticleSet, dt float32) StepStats {
	s.timer.StartPhase(telemetry.PhaseIntegrate)
	s.integrator.Integrate(p, dt)

	s.timer.StartPhase(telemetry.PhaseWalls)
	hits := s.walls.Resolve(p)

	s.timer.StartPhase(telemetry.PhaseCollide)
	coll := s.resolver.Resolve(p, s.grid, dt)

	s.timer.StartPhase(telemetry.PhaseWalls)
	hits += s.walls.Resolve(p)

	return StepStats{Substeps: 1, WallHits: hits, Collisions: coll}
}

// Close releases collision workers, if any.
func (s *Stepper) Close() {
	if c, ok := s.resolver.(interface{ Close() }); ok {
		c.Close()
	}
}

package sim

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/bounce/components"
	"github.com/pthm-cable/bounce/config"
	"github.com/pthm-cable/bounce/systems"
	"github.com/pthm-cable/bounce/telemetry"
)

// Options holds run settings that are not part of the physics configuration.
type Options struct {
	OutputDir string // CSV and config output, "" disables
	LogStats  bool   // emit window and perf stats through slog
	Workers   int    // parallel collision workers, 0 = GOMAXPROCS
}

// Simulation owns the particle set and everything that advances it.
type Simulation struct {
	cfg *config.Config

	particles *components.ParticleSet
	stepper   *Stepper
	spawner   *systems.Spawner

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	bookmarks *telemetry.BookmarkDetector
	output    *telemetry.OutputManager
	logStats  bool

	frame     int64
	substeps  int
	substepDT float32
	accelX    float32
	accelY    float32

	lastStep      StepStats
	lastWindow    telemetry.WindowStats
	lastBookmarks []telemetry.Bookmark
}

// New builds a simulation from validated configuration.
func New(cfg *config.Config, opts Options) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	particles, err := components.NewParticleSet(cfg.Particles.Capacity)
	if err != nil {
		return nil, err
	}

	stepCfg := StepperConfigFrom(cfg)
	stepCfg.Workers = opts.Workers
	stepper, err := NewStepper(stepCfg)
	if err != nil {
		return nil, err
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		stepper.Close()
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		stepper.Close()
		output.Close()
		return nil, fmt.Errorf("writing config: %w", err)
	}

	s := &Simulation{
		cfg:       cfg,
		particles: particles,
		stepper:   stepper,
		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.FrameDT32),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarks: telemetry.NewBookmarkDetector(10, cfg.Particles.Capacity),
		output:    output,
		logStats:  opts.LogStats,
		substeps:  cfg.Physics.Substeps,
		substepDT: cfg.Derived.SubstepDT32,
		accelX:    float32(cfg.Physics.GravityX),
		accelY:    float32(cfg.Physics.GravityY),
	}
	s.spawner = systems.NewSpawner(s.spawnerConfig())
	stepper.SetPhaseTimer(s.perf)

	if output != nil {
		slog.Info("output enabled", "dir", output.Dir())
	}
	return s, nil
}

func (s *Simulation) spawnerConfig() systems.SpawnerConfig {
	sp := s.cfg.Spawn
	return systems.SpawnerConfig{
		Interval:  float32(sp.Interval),
		BatchSize: sp.BatchSize,
		X:         float32(sp.X),
		Y:         float32(sp.Y),
		VelocityX: float32(sp.VelocityX),
		VelocityY: float32(sp.VelocityY),
		AccelX:    s.accelX,
		AccelY:    s.accelY,
		Radius:    s.cfg.Derived.Radius32,
		Spacing:   float32(sp.Spacing),
		Jitter:    float32(sp.Jitter),
		SubstepDT: s.substepDT,
		HueCycle:  float32(sp.HueCycle),
		Seed:      sp.Seed,
	}
}

// Update spawns on the frameDelta clock, then advances physics by exactly one
// fixed frame.
func (s *Simulation) Update(frameDelta float32) error {
	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseSpawn)
	spawned := s.spawner.Advance(s.particles, frameDelta)

	step, err := s.stepper.AdvanceFrame(s.particles, s.substeps, s.substepDT)
	if err != nil {
		s.perf.EndTick()
		return fmt.Errorf("frame %d: %w", s.frame, err)
	}
	s.frame++
	s.lastStep = step

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.collector.RecordSpawn(spawned)
	s.collector.RecordWallHits(step.WallHits)
	c := step.Collisions
	s.collector.RecordCollisions(c.Checks, c.Contacts, c.Degenerate, c.MaxOverlap)

	var flushErr error
	if s.collector.ShouldFlush(s.frame) {
		flushErr = s.flush()
	}

	s.perf.EndTick()
	return flushErr
}

func (s *Simulation) flush() error {
	s.lastWindow = s.collector.Flush(s.frame, s.particles, s.substepDT)
	perfStats := s.perf.Stats()
	s.lastBookmarks = s.bookmarks.Check(s.lastWindow)

	if s.logStats {
		s.lastWindow.LogStats()
		perfStats.LogStats()
		for _, b := range s.lastBookmarks {
			b.LogBookmark()
		}
	}

	if err := s.output.WriteTelemetry(s.lastWindow); err != nil {
		return err
	}
	return s.output.WritePerf(perfStats, s.frame)
}

// Particles returns the particle set. Callers outside the physics passes must
// treat it as read-only and use SetAcceleration for input.
func (s *Simulation) Particles() *components.ParticleSet { return s.particles }

// PositionsInto copies the active interleaved positions into dst.
func (s *Simulation) PositionsInto(dst []float32) []float32 {
	return s.particles.PositionsInto(dst)
}

// SetAcceleration sets the external acceleration of every active particle and
// of particles spawned from now on.
func (s *Simulation) SetAcceleration(ax, ay float32) {
	s.accelX, s.accelY = ax, ay
	s.particles.SetAccelerationAll(ax, ay)
	s.spawner.SetAcceleration(ax, ay)
}

// Acceleration returns the current external acceleration.
func (s *Simulation) Acceleration() (ax, ay float32) { return s.accelX, s.accelY }

// Substeps returns the sub-step count per frame.
func (s *Simulation) Substeps() int { return s.substeps }

// SetSubsteps changes the sub-step count. Previous positions are rescaled so
// every particle keeps its velocity under the new sub-step length.
func (s *Simulation) SetSubsteps(n int) error {
	if n < 1 || n > config.MaxSubsteps {
		return fmt.Errorf("%w: substeps must be in [1, %d], got %d", config.ErrInvalidConfiguration, config.MaxSubsteps, n)
	}
	if n == s.substeps {
		return nil
	}

	newDT := s.cfg.Derived.FrameDT32 / float32(n)
	scale := newDT / s.substepDT
	p := s.particles
	for k := 0; k < 2*p.Len(); k++ {
		p.Prev[k] = p.Pos[k] - (p.Pos[k]-p.Prev[k])*scale
	}

	s.substeps = n
	s.substepDT = newDT
	s.spawner.SetSubstepDT(newDT)
	return nil
}

// SubstepDT returns the current sub-step length in seconds.
func (s *Simulation) SubstepDT() float32 { return s.substepDT }

// Damping returns the wall rebound factor.
func (s *Simulation) Damping() float32 { return s.stepper.Damping() }

// SetDamping changes the wall rebound factor.
func (s *Simulation) SetDamping(d float32) { s.stepper.SetDamping(d) }

// Frame returns the number of physics frames completed.
func (s *Simulation) Frame() int64 { return s.frame }

// SimTime returns simulated seconds.
func (s *Simulation) SimTime() float64 {
	return float64(s.frame) * float64(s.cfg.Derived.FrameDT32)
}

// LastStep returns the stats of the most recent frame.
func (s *Simulation) LastStep() StepStats { return s.lastStep }

// LastWindow returns the most recently flushed window stats.
func (s *Simulation) LastWindow() telemetry.WindowStats { return s.lastWindow }

// LastBookmarks returns the bookmarks raised by the most recent window.
func (s *Simulation) LastBookmarks() []telemetry.Bookmark { return s.lastBookmarks }

// Perf returns the performance collector.
func (s *Simulation) Perf() *telemetry.PerfCollector { return s.perf }

// Config returns the configuration the simulation was built from.
func (s *Simulation) Config() *config.Config { return s.cfg }

// Reset removes every particle and restarts the spawn cadence.
func (s *Simulation) Reset() {
	s.particles.Reset()
	s.spawner.Reset()
	s.frame = 0
	s.lastStep = StepStats{}
	s.lastBookmarks = nil
	s.collector.Reset(0)
	s.bookmarks.Reset()
}

// SaveSnapshot writes the particle state to dir and returns the file path.
func (s *Simulation) SaveSnapshot(dir string) (string, error) {
	return telemetry.SaveSnapshot(telemetry.NewSnapshot(s.particles, s.frame), dir)
}

// LoadSnapshot replaces the particle state with the snapshot at path.
func (s *Simulation) LoadSnapshot(path string) error {
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	if err := snap.RestoreInto(s.particles); err != nil {
		return fmt.Errorf("restoring %s: %w", path, err)
	}
	s.frame = snap.Frame
	s.collector.Reset(s.frame)
	return nil
}

// Close stops collision workers and closes output files.
func (s *Simulation) Close() error {
	s.stepper.Close()
	return s.output.Close()
}

package systems

import (
	"math/rand"

	"github.com/pthm-cable/bounce/components"
)

// SpawnerConfig holds the cadence and initial state of spawned particles.
type SpawnerConfig struct {
	Interval  float32 // seconds between batches
	BatchSize int

	X, Y      float32 // position of the first particle in a batch
	VelocityX float32
	VelocityY float32
	AccelX    float32
	AccelY    float32
	Radius    float32
	Spacing   float32 // batch offset along -Y, in diameters
	Jitter    float32 // uniform position noise, world units

	SubstepDT float32 // used to backdate the previous position
	HueCycle  float32 // seconds per colour cycle, 0 = random colours
	Seed      int64
}

// Spawner appends particles on a fixed cadence until the set is full.
type Spawner struct {
	cfg     SpawnerConfig
	elapsed float32
	hue     *HueRamp
	rng     *rand.Rand
}

// NewSpawner creates a spawner with its timer at zero.
func NewSpawner(cfg SpawnerConfig) *Spawner {
	return &Spawner{
		cfg: cfg,
		hue: NewHueRamp(cfg.HueCycle),
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Advance accumulates frameDelta seconds and spawns a batch once the interval
// has elapsed. The timer resets on every due batch, even when the set is full.
func (s *Spawner) Advance(p *components.ParticleSet, frameDelta float32) int {
	s.elapsed += frameDelta
	s.hue.Update(frameDelta)

	if s.elapsed < s.cfg.Interval {
		return 0
	}
	n := s.TrySpawn(p, s.elapsed, s.cfg.Interval, s.cfg.BatchSize)
	s.elapsed = 0
	return n
}

// TrySpawn appends up to batch particles when elapsed >= interval and
// returns how many were added. It clamps to the remaining capacity and never
// fails: a full set spawns nothing.
func (s *Spawner) TrySpawn(p *components.ParticleSet, elapsed, interval float32, batch int) int {
	if elapsed < interval || batch <= 0 {
		return 0
	}
	batch = min(batch, p.Remaining())

	step := s.cfg.Spacing * 2 * s.cfg.Radius
	for k := 0; k < batch; k++ {
		x := s.cfg.X
		y := s.cfg.Y - float32(k)*step
		if s.cfg.Jitter > 0 {
			x += (s.rng.Float32()*2 - 1) * s.cfg.Jitter
			y += (s.rng.Float32()*2 - 1) * s.cfg.Jitter
		}

		// Capacity was checked above.
		_, _ = p.Append(components.Particle{
			X:      x,
			Y:      y,
			PrevX:  x - s.cfg.VelocityX*s.cfg.SubstepDT,
			PrevY:  y - s.cfg.VelocityY*s.cfg.SubstepDT,
			AccelX: s.cfg.AccelX,
			AccelY: s.cfg.AccelY,
			Radius: s.cfg.Radius,
			Color:  s.nextColor(),
		})
	}
	return batch
}

// SetAcceleration changes the acceleration given to future particles.
func (s *Spawner) SetAcceleration(ax, ay float32) {
	s.cfg.AccelX, s.cfg.AccelY = ax, ay
}

// SetSubstepDT changes the step used to backdate previous positions.
func (s *Spawner) SetSubstepDT(dt float32) {
	s.cfg.SubstepDT = dt
}

// Elapsed returns the time accumulated since the last due batch.
func (s *Spawner) Elapsed() float32 { return s.elapsed }

// Reset zeroes the timer and restarts the colour ramp and jitter sequence.
func (s *Spawner) Reset() {
	s.elapsed = 0
	s.hue = NewHueRamp(s.cfg.HueCycle)
	s.rng = rand.New(rand.NewSource(s.cfg.Seed))
}

func (s *Spawner) nextColor() components.Color {
	if s.cfg.HueCycle > 0 {
		return s.hue.Color()
	}
	return components.Color{R: s.rng.Float32(), G: s.rng.Float32(), B: s.rng.Float32()}
}

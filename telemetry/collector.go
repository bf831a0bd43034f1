package telemetry

import "github.com/pthm-cable/bounce/components"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec    float64
	windowDurationFrames int64
	dt                   float32

	// Current window tracking
	windowStartFrame int64

	// Event counters for current window
	spawned    int
	wallHits   int
	checks     int
	contacts   int
	degenerate int
	maxOverlap float32

	speeds []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per physics frame (used for frame-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	framesPerWindow := int64(windowDurationSec/float64(dt) + 0.5)
	if framesPerWindow < 1 {
		framesPerWindow = 1
	}

	return &Collector{
		windowDurationSec:    windowDurationSec,
		windowDurationFrames: framesPerWindow,
		dt:                   dt,
	}
}

// RecordSpawn records n particles added this frame.
func (c *Collector) RecordSpawn(n int) {
	c.spawned += n
}

// RecordWallHits records n particle-wall contacts.
func (c *Collector) RecordWallHits(n int) {
	c.wallHits += n
}

// RecordCollisions records the outcome of collision passes.
func (c *Collector) RecordCollisions(checks, contacts, degenerate int, maxOverlap float32) {
	c.checks += checks
	c.contacts += contacts
	c.degenerate += degenerate
	if maxOverlap > c.maxOverlap {
		c.maxOverlap = maxOverlap
	}
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(currentFrame int64) bool {
	return currentFrame-c.windowStartFrame >= c.windowDurationFrames
}

// Flush produces a WindowStats and resets counters for the next window.
// substepDT converts each particle's position history into a velocity.
func (c *Collector) Flush(currentFrame int64, p *components.ParticleSet, substepDT float32) WindowStats {
	var verification float64
	if c.checks > 0 {
		verification = float64(c.contacts) / float64(c.checks)
	}

	var motion Motion
	motion, c.speeds = ComputeMotion(p, substepDT, c.speeds[:0])
	mean, std, p10, p50, p90 := ComputeSpeedStats(c.speeds)

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   currentFrame,
		SimTimeSec:       float64(currentFrame) * float64(c.dt),

		Particles: p.Len(),
		Spawned:   c.spawned,
		WallHits:  c.wallHits,

		CollisionChecks:  c.checks,
		Collisions:       c.contacts,
		Degenerate:       c.degenerate,
		VerificationRate: verification,
		MaxOverlap:       float64(c.maxOverlap),

		SpeedMean: mean,
		SpeedStd:  std,
		SpeedP10:  p10,
		SpeedP50:  p50,
		SpeedP90:  p90,

		KineticEnergy: motion.KineticEnergy,
		CenterX:       motion.Center.X,
		CenterY:       motion.Center.Y,
		MomentumX:     motion.Momentum.X,
		MomentumY:     motion.Momentum.Y,
	}

	c.Reset(currentFrame)
	return stats
}

// Reset discards the current window and starts a new one at frame.
func (c *Collector) Reset(frame int64) {
	c.windowStartFrame = frame
	c.spawned = 0
	c.wallHits = 0
	c.checks = 0
	c.contacts = 0
	c.degenerate = 0
	c.maxOverlap = 0
}

// WindowDurationFrames returns the number of frames per window.
func (c *Collector) WindowDurationFrames() int64 {
	return c.windowDurationFrames
}

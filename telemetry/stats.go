package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/bounce/components"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartFrame int64   `csv:"-"`
	WindowEndFrame   int64   `csv:"window_end"`
	SimTimeSec       float64 `csv:"sim_time"`

	// Population at window end
	Particles int `csv:"particles"`

	// Events during window
	Spawned  int `csv:"spawned"`
	WallHits int `csv:"wall_hits"`

	// Collision diagnostics
	CollisionChecks  int     `csv:"collision_checks"`
	Collisions       int     `csv:"collisions"`
	Degenerate       int     `csv:"degenerate"`
	VerificationRate float64 `csv:"verification_rate"` // collisions / checks
	MaxOverlap       float64 `csv:"max_overlap"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Bulk motion, unit mass per particle
	KineticEnergy float64 `csv:"kinetic_energy"`
	CenterX       float64 `csv:"center_x"`
	CenterY       float64 `csv:"center_y"`
	MomentumX     float64 `csv:"momentum_x"`
	MomentumY     float64 `csv:"momentum_y"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSpeedStats calculates mean, std, and percentiles. values is sorted in place.
func ComputeSpeedStats(values []float64) (mean, std, p10, p50, p90 float64) {
	switch len(values) {
	case 0:
		return 0, 0, 0, 0, 0
	case 1:
		return values[0], 0, values[0], values[0], values[0]
	}

	mean, std = stat.MeanStdDev(values, nil)

	sort.Float64s(values)
	p10 = Percentile(values, 0.10)
	p50 = Percentile(values, 0.50)
	p90 = Percentile(values, 0.90)

	return mean, std, p10, p50, p90
}

// Motion summarises the bulk motion of a particle set.
type Motion struct {
	Center        r2.Vec
	Momentum      r2.Vec
	KineticEnergy float64
}

// ComputeMotion derives centre of mass, net momentum and kinetic energy from
// the position history, appending each particle's speed to speeds.
func ComputeMotion(p *components.ParticleSet, dt float32, speeds []float64) (Motion, []float64) {
	var m Motion
	n := p.Len()
	if n == 0 {
		return m, speeds
	}

	for i := 0; i < n; i++ {
		x, y := p.Position(i)
		vx, vy := p.EffectiveVelocity(i, dt)
		v := r2.Vec{X: float64(vx), Y: float64(vy)}

		m.Center = r2.Add(m.Center, r2.Vec{X: float64(x), Y: float64(y)})
		m.Momentum = r2.Add(m.Momentum, v)

		speedSq := r2.Dot(v, v)
		m.KineticEnergy += 0.5 * speedSq
		speeds = append(speeds, r2.Norm(v))
	}
	m.Center = r2.Scale(1/float64(n), m.Center)
	return m, speeds
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartFrame),
		slog.Int64("window_end", s.WindowEndFrame),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Int("spawned", s.Spawned),
		slog.Int("wall_hits", s.WallHits),
		slog.Int("collision_checks", s.CollisionChecks),
		slog.Int("collisions", s.Collisions),
		slog.Int("degenerate", s.Degenerate),
		slog.Float64("verification_rate", s.VerificationRate),
		slog.Float64("max_overlap", s.MaxOverlap),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("center_x", s.CenterX),
		slog.Float64("center_y", s.CenterY),
		slog.Float64("momentum_x", s.MomentumX),
		slog.Float64("momentum_y", s.MomentumY),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"sim_time", s.SimTimeSec,
		"particles", s.Particles,
		"spawned", s.Spawned,
		"wall_hits", s.WallHits,
		"collision_checks", s.CollisionChecks,
		"collisions", s.Collisions,
		"degenerate", s.Degenerate,
		"verification_rate", s.VerificationRate,
		"max_overlap", s.MaxOverlap,
		"speed_mean", s.SpeedMean,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
		"kinetic_energy", s.KineticEnergy,
		"center_x", s.CenterX,
		"center_y", s.CenterY,
	)
}

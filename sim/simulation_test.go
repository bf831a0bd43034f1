package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/bounce/components"
	"github.com/pthm-cable/bounce/config"
	"github.com/pthm-cable/bounce/telemetry"
)

func testConfig(t *testing.T, mutate func(*config.Config)) *config.Config {
	t.Helper()
	cfg, err := config.Defaults()
	require.NoError(t, err)
	if mutate != nil {
		mutate(cfg)
		// Round-trip through Merge so derived values follow the edits.
		data, err := yaml.Marshal(cfg)
		require.NoError(t, err)
		require.NoError(t, cfg.Merge(data))
	}
	return cfg
}

func newTestSimulation(t *testing.T, mutate func(*config.Config), opts Options) *Simulation {
	t.Helper()
	s, err := New(testConfig(t, mutate), opts)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg, err := config.Defaults()
	require.NoError(t, err)
	cfg.Physics.Substeps = 0

	_, err = New(cfg, Options{})
	assert.ErrorIs(t, err, config.ErrInvalidConfiguration)
}

func TestUpdateSpawnsUntilFull(t *testing.T) {
	s := newTestSimulation(t, func(c *config.Config) {
		c.Particles.Capacity = 23
		c.Spawn.Interval = 0.05
		c.Spawn.BatchSize = 5
	}, Options{})

	for frame := 0; frame < 10; frame++ {
		require.NoError(t, s.Update(0.05))
		assert.LessOrEqual(t, s.Particles().Len(), 23)
	}
	assert.Equal(t, 23, s.Particles().Len())
	assert.Equal(t, int64(10), s.Frame())
}

func TestPhysicsIgnoresFrameDelta(t *testing.T) {
	seed := func(s *Simulation) {
		p := s.Particles()
		for i := 0; i < 20; i++ {
			x := -0.8 + float32(i)*0.08
			p.Append(components.Particle{X: x, Y: 0.5, PrevX: x - 0.001, PrevY: 0.5, AccelY: -9.81, Radius: 0.03})
		}
	}
	noSpawn := func(c *config.Config) { c.Spawn.BatchSize = 0 }

	fast := newTestSimulation(t, noSpawn, Options{})
	slow := newTestSimulation(t, noSpawn, Options{})
	seed(fast)
	seed(slow)

	for frame := 0; frame < 90; frame++ {
		require.NoError(t, fast.Update(0.001))
		require.NoError(t, slow.Update(0.5))
	}

	assert.Equal(t, fast.PositionsInto(nil), slow.PositionsInto(nil))
}

func TestSetAccelerationReachesExistingAndFutureParticles(t *testing.T) {
	s := newTestSimulation(t, func(c *config.Config) {
		c.Spawn.Interval = 0.05
		c.Spawn.BatchSize = 1
	}, Options{})

	require.NoError(t, s.Update(0.05))
	require.Equal(t, 1, s.Particles().Len())

	s.SetAcceleration(4, 0)
	require.NoError(t, s.Update(0.05))
	require.Equal(t, 2, s.Particles().Len())

	for i := 0; i < 2; i++ {
		ax, ay := s.Particles().Acceleration(i)
		assert.Equal(t, float32(4), ax)
		assert.Equal(t, float32(0), ay)
	}
	ax, ay := s.Acceleration()
	assert.Equal(t, [2]float32{4, 0}, [2]float32{ax, ay})
}

func TestSetSubstepsKeepsVelocity(t *testing.T) {
	s := newTestSimulation(t, func(c *config.Config) { c.Spawn.BatchSize = 0 }, Options{})
	p := s.Particles()
	p.Append(components.Particle{X: 0, Y: 0, Radius: 0.01})
	p.SetVelocity(0, 1.5, -0.5, s.SubstepDT())

	require.NoError(t, s.SetSubsteps(2))
	assert.Equal(t, 2, s.Substeps())
	assert.InDelta(t, 1.0/120.0, s.SubstepDT(), 1e-7)

	vx, vy := p.EffectiveVelocity(0, s.SubstepDT())
	assert.InDelta(t, 1.5, vx, 1e-3)
	assert.InDelta(t, -0.5, vy, 1e-3)

	assert.ErrorIs(t, s.SetSubsteps(0), config.ErrInvalidConfiguration)
	assert.ErrorIs(t, s.SetSubsteps(config.MaxSubsteps+1), config.ErrInvalidConfiguration)
}

func TestResetClearsParticles(t *testing.T) {
	s := newTestSimulation(t, nil, Options{})
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Update(0.05))
	}
	require.Positive(t, s.Particles().Len())

	s.Reset()
	assert.Equal(t, 0, s.Particles().Len())
	assert.Equal(t, int64(0), s.Frame())
	assert.Empty(t, s.PositionsInto(nil))
}

func TestOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	s, err := New(testConfig(t, func(c *config.Config) {
		c.Telemetry.StatsWindow = 0.5
	}), Options{OutputDir: dir})
	require.NoError(t, err)

	for i := 0; i < 90; i++ {
		require.NoError(t, s.Update(1.0/60.0))
	}
	require.NoError(t, s.Close())

	for _, name := range []string{"config.yaml", "telemetry.csv", "perf.csv"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	w := s.LastWindow()
	assert.Equal(t, int64(90), w.WindowEndFrame)
	assert.Equal(t, s.Particles().Len(), w.Particles)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTestSimulation(t, nil, Options{})
	for i := 0; i < 12; i++ {
		require.NoError(t, s.Update(0.05))
	}
	want := s.PositionsInto(nil)

	path, err := s.SaveSnapshot(t.TempDir())
	require.NoError(t, err)

	s.Reset()
	require.NoError(t, s.LoadSnapshot(path))
	assert.Equal(t, int64(12), s.Frame())
	assert.Equal(t, want, s.PositionsInto(nil))
}

func TestDampingPassThrough(t *testing.T) {
	s := newTestSimulation(t, nil, Options{})
	assert.Equal(t, float32(0.75), s.Damping())
	s.SetDamping(1)
	assert.Equal(t, float32(1), s.Damping())
}

func TestCapacityBookmark(t *testing.T) {
	s := newTestSimulation(t, func(c *config.Config) {
		c.Particles.Capacity = 10
		c.Spawn.Interval = 0.05
		c.Spawn.BatchSize = 5
		c.Telemetry.StatsWindow = 0.1
	}, Options{})

	for i := 0; i < 6; i++ {
		require.NoError(t, s.Update(0.05))
	}

	require.NotEmpty(t, s.LastBookmarks())
	assert.Equal(t, telemetry.BookmarkCapacityReached, s.LastBookmarks()[0].Type)
	assert.Equal(t, int64(6), s.LastBookmarks()[0].Frame)

	s.Reset()
	assert.Empty(t, s.LastBookmarks())
}

package systems

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/bounce/components"
)

func denseSet(t *testing.T, n int, seed int64) *components.ParticleSet {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	s, err := components.NewParticleSet(n)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		x := rng.Float32()*1.6 - 0.8
		y := rng.Float32()*1.6 - 0.8
		s.Append(components.Particle{
			X: x, Y: y,
			PrevX: x + (rng.Float32()-0.5)*0.002, PrevY: y + (rng.Float32()-0.5)*0.002,
			Radius: 0.01 + rng.Float32()*0.02,
		})
	}
	return s
}

func TestParallelDeterministicAcrossWorkerCounts(t *testing.T) {
	const n = 1500
	var reference []float32
	var refStats CollisionStats

	for _, workers := range []int{1, 2, 3, 8} {
		s := denseSet(t, n, 42)
		res := NewParallelResolver(ImpulseSolver{Restitution: 0.8}, workers)
		grid := newTestGrid(t, 0.12)

		var stats CollisionStats
		for pass := 0; pass < 5; pass++ {
			stats.Add(res.Resolve(s, grid, testDT))
		}
		res.Close()

		if reference == nil {
			reference = append([]float32(nil), s.Pos...)
			refStats = stats
			require.Positive(t, stats.Contacts)
			continue
		}
		assert.Equal(t, reference, s.Pos, "workers=%d", workers)
		assert.Equal(t, refStats, stats, "workers=%d", workers)
	}
}

func TestParallelGatherMatchesSerialOnFirstContact(t *testing.T) {
	// Isolated pairs: no particle touches more than one other, so the
	// snapshot and in-place orders find the same contacts.
	s1, err := components.NewParticleSet(200)
	require.NoError(t, err)
	for k := 0; k < 100; k++ {
		x := -0.9 + float32(k%10)*0.2
		y := -0.9 + float32(k/10)*0.2
		s1.Append(components.Particle{X: x - 0.015, Y: y, PrevX: x - 0.015, PrevY: y, Radius: 0.02})
		s1.Append(components.Particle{X: x + 0.015, Y: y, PrevX: x + 0.015, PrevY: y, Radius: 0.02})
	}
	s2, _ := components.NewParticleSet(200)
	for i := 0; i < s1.Len(); i++ {
		x, y := s1.Position(i)
		s2.Append(components.Particle{X: x, Y: y, PrevX: x, PrevY: y, Radius: s1.Radius(i)})
	}

	serial := NewPositionalResolver().Resolve(s1, newTestGrid(t, 0.08), testDT)
	par := NewParallelResolver(PositionalSolver{}, 4)
	defer par.Close()
	parallel := par.Resolve(s2, newTestGrid(t, 0.08), testDT)

	assert.Equal(t, 100, serial.Contacts)
	assert.Equal(t, serial, parallel)
	for k := range s1.Pos {
		assert.InDelta(t, s1.Pos[k], s2.Pos[k], 1e-7)
	}
}

func TestParallelCloseRestarts(t *testing.T) {
	res := NewParallelResolver(PositionalSolver{}, 2)
	s := denseSet(t, 300, 9)
	grid := newTestGrid(t, 0.12)

	res.Resolve(s, grid, testDT)
	res.Close()
	res.Close()
	stats := res.Resolve(s, grid, testDT)
	res.Close()

	assert.Positive(t, stats.Checks)
	assert.Equal(t, 2, res.Workers())
}

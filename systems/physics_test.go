package systems

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/bounce/components"
)

var unitBounds = Bounds{MinX: -1, MinY: -1, MaxX: 1, MaxY: 1}

func TestWallReflectsWithDamping(t *testing.T) {
	tests := []struct {
		name      string
		x, y      float32
		prevX     float32
		prevY     float32
		damping   float32
		wantX     float32
		wantY     float32
		wantPrevX float32
		wantPrevY float32
		wantHit   bool
	}{
		{
			name: "inside untouched",
			x:    0.2, y: 0.3, prevX: 0.1, prevY: 0.2,
			damping: 0.75,
			wantX:   0.2, wantY: 0.3, wantPrevX: 0.1, wantPrevY: 0.2,
		},
		{
			name: "floor elastic",
			x:    0, y: -0.95, prevX: 0, prevY: -0.85,
			damping: 1,
			// wall at -0.9, moved -0.1: prev = -0.9 + (-0.1) = -1.0
			wantX: 0, wantY: -0.9, wantPrevX: 0, wantPrevY: -1.0,
			wantHit: true,
		},
		{
			name: "right wall damped",
			x:    0.96, y: 0, prevX: 0.86, prevY: 0,
			damping: 0.5,
			wantX:   0.9, wantY: 0, wantPrevX: 0.95, wantPrevY: 0,
			wantHit: true,
		},
		{
			name: "corner fully absorbed",
			x:    -0.95, y: 0.95, prevX: -0.9, prevY: 0.9,
			damping: 0,
			wantX:   -0.9, wantY: 0.9, wantPrevX: -0.9, wantPrevY: 0.9,
			wantHit: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := components.NewParticleSet(1)
			s.Append(components.Particle{X: tc.x, Y: tc.y, PrevX: tc.prevX, PrevY: tc.prevY, Radius: 0.1})

			w := WallResolver{Bounds: unitBounds, Damping: tc.damping}
			hit := w.ResolveOne(s, 0)

			assert.Equal(t, tc.wantHit, hit)
			x, y := s.Position(0)
			px, py := s.Previous(0)
			assert.InDelta(t, tc.wantX, x, 1e-6)
			assert.InDelta(t, tc.wantY, y, 1e-6)
			assert.InDelta(t, tc.wantPrevX, px, 1e-6)
			assert.InDelta(t, tc.wantPrevY, py, 1e-6)
		})
	}
}

func TestWallReversesVelocity(t *testing.T) {
	const dt = float32(1.0 / 480.0)
	s, _ := components.NewParticleSet(1)
	s.Append(components.Particle{X: 0, Y: -0.99, PrevX: 0, PrevY: -0.98, Radius: 0.025})

	_, vyIn := s.EffectiveVelocity(0, dt)
	WallResolver{Bounds: unitBounds, Damping: 0.75}.Resolve(s)
	_, vyOut := s.EffectiveVelocity(0, dt)

	assert.Less(t, vyIn, float32(0))
	assert.Greater(t, vyOut, float32(0))
	assert.InDelta(t, -0.75*vyIn, vyOut, 1e-2)
}

func TestWallIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	s, _ := components.NewParticleSet(200)
	for i := 0; i < 200; i++ {
		x := rng.Float32()*4 - 2
		y := rng.Float32()*4 - 2
		s.Append(components.Particle{X: x, Y: y, PrevX: x - 0.01, PrevY: y + 0.02, Radius: 0.05})
	}

	w := WallResolver{Bounds: unitBounds, Damping: 0.6}
	w.Resolve(s)
	pos := append([]float32(nil), s.Pos...)
	prev := append([]float32(nil), s.Prev...)

	hits := w.Resolve(s)
	assert.Equal(t, 0, hits)
	assert.Equal(t, pos, s.Pos)
	assert.Equal(t, prev, s.Prev)
}

func TestWallContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	s, err := components.NewParticleSet(500)
	require.NoError(t, err)
	for i := 0; i < 500; i++ {
		r := 0.005 + rng.Float32()*0.05
		x := rng.Float32()*6 - 3
		y := rng.Float32()*6 - 3
		s.Append(components.Particle{X: x, Y: y, PrevX: x + rng.Float32() - 0.5, PrevY: y, Radius: r})
	}

	WallResolver{Bounds: unitBounds, Damping: 0.9}.Resolve(s)

	for i := 0; i < s.Len(); i++ {
		x, y := s.Position(i)
		r := s.Radius(i)
		assert.GreaterOrEqual(t, x, -1+r)
		assert.LessOrEqual(t, x, 1-r)
		assert.GreaterOrEqual(t, y, -1+r)
		assert.LessOrEqual(t, y, 1-r)
	}
}

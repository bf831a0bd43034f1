package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/bounce/components"
	"github.com/pthm-cable/bounce/config"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the particle state at a frame boundary.
type Snapshot struct {
	Version int   `json:"version"`
	Frame   int64 `json:"frame"`

	Capacity  int             `json:"capacity"`
	Particles []ParticleState `json:"particles"`
}

// ParticleState holds one particle's complete state.
type ParticleState struct {
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	PrevX  float32 `json:"prev_x"`
	PrevY  float32 `json:"prev_y"`
	AccelX float32 `json:"accel_x"`
	AccelY float32 `json:"accel_y"`
	Radius float32 `json:"radius"`

	Color components.Color `json:"color"`
}

// NewSnapshot captures the active particles of p.
func NewSnapshot(p *components.ParticleSet, frame int64) *Snapshot {
	s := &Snapshot{
		Version:   SnapshotVersion,
		Frame:     frame,
		Capacity:  p.Cap(),
		Particles: make([]ParticleState, p.Len()),
	}
	for i := range s.Particles {
		x, y := p.Position(i)
		px, py := p.Previous(i)
		ax, ay := p.Acceleration(i)
		s.Particles[i] = ParticleState{
			X: x, Y: y,
			PrevX: px, PrevY: py,
			AccelX: ax, AccelY: ay,
			Radius: p.Radius(i),
			Color:  p.Color(i),
		}
	}
	return s
}

// RestoreInto resets p and appends the snapshot's particles in order.
func (s *Snapshot) RestoreInto(p *components.ParticleSet) error {
	if s.Version != SnapshotVersion {
		return fmt.Errorf("%w: snapshot version %d, want %d", config.ErrInvalidConfiguration, s.Version, SnapshotVersion)
	}
	if len(s.Particles) > p.Cap() {
		return fmt.Errorf("%w: snapshot has %d particles, set holds %d", config.ErrCapacityExceeded, len(s.Particles), p.Cap())
	}

	p.Reset()
	for _, ps := range s.Particles {
		if _, err := p.Append(components.Particle{
			X: ps.X, Y: ps.Y,
			PrevX: ps.PrevX, PrevY: ps.PrevY,
			AccelX: ps.AccelX, AccelY: ps.AccelY,
			Radius: ps.Radius,
			Color:  ps.Color,
		}); err != nil {
			return err
		}
	}
	return nil
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.json", snapshot.Frame))

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}

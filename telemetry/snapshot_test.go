package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/bounce/components"
	"github.com/pthm-cable/bounce/config"
)

func snapshotSet(t *testing.T) *components.ParticleSet {
	t.Helper()
	p, err := components.NewParticleSet(8)
	if err != nil {
		t.Fatal(err)
	}
	p.Append(components.Particle{
		X: 0.25, Y: -0.5, PrevX: 0.24, PrevY: -0.49,
		AccelY: -9.81, Radius: 0.02,
		Color: components.Color{R: 1, G: 0.5},
	})
	p.Append(components.Particle{X: -0.1, Y: 0.3, PrevX: -0.1, PrevY: 0.3, Radius: 0.05})
	return p
}

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	src := snapshotSet(t)
	snapshot := NewSnapshot(src, 1000)

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}
	if want := filepath.Join(tmpDir, "snapshot_1000.json"); path != want {
		t.Errorf("Path mismatch: got %s, want %s", path, want)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if loaded.Version != SnapshotVersion {
		t.Errorf("Version mismatch: got %d, want %d", loaded.Version, SnapshotVersion)
	}
	if loaded.Frame != 1000 {
		t.Errorf("Frame mismatch: got %d, want 1000", loaded.Frame)
	}

	dst, _ := components.NewParticleSet(4)
	dst.Append(components.Particle{X: 0.9, Y: 0.9, Radius: 0.2})
	if err := loaded.RestoreInto(dst); err != nil {
		t.Fatalf("RestoreInto failed: %v", err)
	}

	if dst.Len() != src.Len() {
		t.Fatalf("Len mismatch: got %d, want %d", dst.Len(), src.Len())
	}
	for i := 0; i < src.Len(); i++ {
		if dst.Pos[2*i] != src.Pos[2*i] || dst.Pos[2*i+1] != src.Pos[2*i+1] {
			t.Errorf("particle %d position mismatch", i)
		}
		if dst.Prev[2*i] != src.Prev[2*i] || dst.Prev[2*i+1] != src.Prev[2*i+1] {
			t.Errorf("particle %d previous position mismatch", i)
		}
		if dst.Accel[2*i+1] != src.Accel[2*i+1] {
			t.Errorf("particle %d acceleration mismatch", i)
		}
		if dst.Radius(i) != src.Radius(i) || dst.Color(i) != src.Color(i) {
			t.Errorf("particle %d attributes mismatch", i)
		}
	}
	if dst.MaxRadius() != 0.05 {
		t.Errorf("MaxRadius = %v, want 0.05", dst.MaxRadius())
	}
}

func TestSnapshotRestoreErrors(t *testing.T) {
	snapshot := NewSnapshot(snapshotSet(t), 1)

	small, _ := components.NewParticleSet(1)
	if err := snapshot.RestoreInto(small); !errors.Is(err, config.ErrCapacityExceeded) {
		t.Errorf("RestoreInto(small) = %v, want ErrCapacityExceeded", err)
	}

	snapshot.Version = SnapshotVersion + 1
	big, _ := components.NewParticleSet(8)
	if err := snapshot.RestoreInto(big); !errors.Is(err, config.ErrInvalidConfiguration) {
		t.Errorf("RestoreInto(version) = %v, want ErrInvalidConfiguration", err)
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing snapshot")
	}
}

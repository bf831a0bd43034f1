package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Defaults()
	if err != nil {
		t.Fatalf("Defaults() error = %v", err)
	}

	if cfg.Physics.Substeps != 8 {
		t.Errorf("Substeps = %d, want 8", cfg.Physics.Substeps)
	}
	wantDT := float32(1.0 / 480.0)
	if math.Abs(float64(cfg.Derived.SubstepDT32-wantDT)) > 1e-9 {
		t.Errorf("SubstepDT32 = %v, want %v", cfg.Derived.SubstepDT32, wantDT)
	}
	// Auto cell size is two diameters.
	if math.Abs(float64(cfg.Derived.CellSize32)-4*cfg.Particles.Radius) > 1e-7 {
		t.Errorf("CellSize32 = %v, want %v", cfg.Derived.CellSize32, 4*cfg.Particles.Radius)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("physics:\n  substeps: 2\n  collision: impulse\nparticles:\n  capacity: 10\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Physics.Substeps != 2 {
		t.Errorf("Substeps = %d, want 2", cfg.Physics.Substeps)
	}
	if cfg.Physics.Collision != CollisionImpulse {
		t.Errorf("Collision = %q, want %q", cfg.Physics.Collision, CollisionImpulse)
	}
	if cfg.Particles.Capacity != 10 {
		t.Errorf("Capacity = %d, want 10", cfg.Particles.Capacity)
	}
	// Untouched fields keep their defaults.
	if cfg.Physics.Damping != 0.75 {
		t.Errorf("Damping = %v, want 0.75", cfg.Physics.Damping)
	}
	if cfg.Derived.SubstepDT32 != float32(1.0/120.0) {
		t.Errorf("SubstepDT32 = %v, want %v", cfg.Derived.SubstepDT32, float32(1.0/120.0))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero capacity", func(c *Config) { c.Particles.Capacity = 0 }},
		{"negative radius", func(c *Config) { c.Particles.Radius = -0.1 }},
		{"inverted x", func(c *Config) { c.World.MinX, c.World.MaxX = 1, -1 }},
		{"flat y", func(c *Config) { c.World.MaxY = c.World.MinY }},
		{"zero tick rate", func(c *Config) { c.Physics.TickRate = 0 }},
		{"zero substeps", func(c *Config) { c.Physics.Substeps = 0 }},
		{"too many substeps", func(c *Config) { c.Physics.Substeps = MaxSubsteps + 1 }},
		{"damping above one", func(c *Config) { c.Physics.Damping = 1.5 }},
		{"negative restitution", func(c *Config) { c.Physics.Restitution = -1 }},
		{"negative cell size", func(c *Config) { c.Physics.GridCellSize = -0.1 }},
		{"unknown collision", func(c *Config) { c.Physics.Collision = "bogus" }},
		{"unknown integrator", func(c *Config) { c.Physics.Integrator = "simd" }},
		{"negative interval", func(c *Config) { c.Spawn.Interval = -1 }},
		{"negative batch", func(c *Config) { c.Spawn.BatchSize = -1 }},
		{"negative jitter", func(c *Config) { c.Spawn.Jitter = -0.01 }},
		{"negative hue cycle", func(c *Config) { c.Spawn.HueCycle = -1 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Defaults()
			if err != nil {
				t.Fatal(err)
			}
			tc.mutate(cfg)
			err = cfg.Validate()
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("Validate() = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Defaults()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Physics.Damping = 0.5

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Physics.Damping != 0.5 {
		t.Errorf("Damping = %v, want 0.5", loaded.Physics.Damping)
	}
}

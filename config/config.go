// Package config provides configuration loading and validation for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Collision scheme names accepted by PhysicsConfig.Collision.
const (
	CollisionPositional = "positional"
	CollisionImpulse    = "impulse"
)

// Integrator names accepted by PhysicsConfig.Integrator.
const (
	IntegratorScalar = "scalar"
	IntegratorBLAS   = "blas"
)

// MaxSubsteps bounds PhysicsConfig.Substeps.
const MaxSubsteps = 64

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Particles ParticlesConfig `yaml:"particles"`
	Spawn     SpawnConfig     `yaml:"spawn"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the bounded simulation domain.
type WorldConfig struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

// PhysicsConfig holds integration and collision parameters.
type PhysicsConfig struct {
	TickRate     float64 `yaml:"tick_rate"`      // Fixed physics frames per second
	Substeps     int     `yaml:"substeps"`       // Sub-steps per physics frame
	Damping      float64 `yaml:"damping"`        // Wall rebound factor, 1 = elastic
	GravityX     float64 `yaml:"gravity_x"`
	GravityY     float64 `yaml:"gravity_y"`
	Collision    string  `yaml:"collision"`      // positional | impulse
	Restitution  float64 `yaml:"restitution"`    // Impulse scheme only
	Integrator   string  `yaml:"integrator"`     // scalar | blas
	Parallel     bool    `yaml:"parallel"`       // Gather contacts on worker goroutines
	GridCellSize float64 `yaml:"grid_cell_size"` // 0 = two particle diameters
}

// ParticlesConfig holds particle store parameters.
type ParticlesConfig struct {
	Capacity int     `yaml:"capacity"`
	Radius   float64 `yaml:"radius"`
}

// SpawnConfig holds spawn cadence and initial conditions.
type SpawnConfig struct {
	Interval  float64 `yaml:"interval"`   // Seconds between batches
	BatchSize int     `yaml:"batch_size"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	VelocityX float64 `yaml:"velocity_x"`
	VelocityY float64 `yaml:"velocity_y"`
	Spacing   float64 `yaml:"spacing"`   // Batch offset along -Y in diameters
	Jitter    float64 `yaml:"jitter"`    // Uniform position jitter, world units
	HueCycle  float64 `yaml:"hue_cycle"` // Seconds per full colour cycle
	Seed      int64   `yaml:"seed"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FrameDT32   float32 // 1 / tick_rate
	SubstepDT32 float32 // FrameDT32 / substeps
	Radius32    float32
	CellSize32  float32 // Resolved grid cell size
	MinX32      float32
	MinY32      float32
	MaxX32      float32
	MaxY32      float32
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := cfg.Merge(data); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Defaults returns the embedded default configuration.
func Defaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("embedded defaults: %w", err)
	}
	cfg.computeDerived()
	return cfg, nil
}

// Merge overlays YAML data onto c. Only fields present in data are overwritten.
func (c *Config) Merge(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// Validate checks every parameter the physics core depends on.
// Failures wrap ErrInvalidConfiguration.
func (c *Config) Validate() error {
	p := c.Physics
	switch {
	case c.Particles.Capacity <= 0:
		return invalid("particles.capacity must be positive, got %d", c.Particles.Capacity)
	case c.Particles.Radius <= 0:
		return invalid("particles.radius must be positive, got %g", c.Particles.Radius)
	case c.World.MaxX <= c.World.MinX:
		return invalid("world.max_x (%g) must exceed world.min_x (%g)", c.World.MaxX, c.World.MinX)
	case c.World.MaxY <= c.World.MinY:
		return invalid("world.max_y (%g) must exceed world.min_y (%g)", c.World.MaxY, c.World.MinY)
	case p.TickRate <= 0:
		return invalid("physics.tick_rate must be positive, got %g", p.TickRate)
	case p.Substeps < 1 || p.Substeps > MaxSubsteps:
		return invalid("physics.substeps must be in [1, %d], got %d", MaxSubsteps, p.Substeps)
	case p.Damping < 0 || p.Damping > 1:
		return invalid("physics.damping must be in [0, 1], got %g", p.Damping)
	case p.Restitution < 0 || p.Restitution > 1:
		return invalid("physics.restitution must be in [0, 1], got %g", p.Restitution)
	case p.GridCellSize < 0:
		return invalid("physics.grid_cell_size must not be negative, got %g", p.GridCellSize)
	case p.Collision != CollisionPositional && p.Collision != CollisionImpulse:
		return invalid("physics.collision must be %q or %q, got %q", CollisionPositional, CollisionImpulse, p.Collision)
	case p.Integrator != IntegratorScalar && p.Integrator != IntegratorBLAS:
		return invalid("physics.integrator must be %q or %q, got %q", IntegratorScalar, IntegratorBLAS, p.Integrator)
	case c.Spawn.Interval < 0:
		return invalid("spawn.interval must not be negative, got %g", c.Spawn.Interval)
	case c.Spawn.BatchSize < 0:
		return invalid("spawn.batch_size must not be negative, got %d", c.Spawn.BatchSize)
	case c.Spawn.Spacing < 0 || c.Spawn.Jitter < 0 || c.Spawn.HueCycle < 0:
		return invalid("spawn.spacing, spawn.jitter and spawn.hue_cycle must not be negative")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.FrameDT32 = float32(1 / c.Physics.TickRate)
	c.Derived.SubstepDT32 = float32(1 / (c.Physics.TickRate * float64(c.Physics.Substeps)))
	c.Derived.Radius32 = float32(c.Particles.Radius)

	cell := c.Physics.GridCellSize
	if cell == 0 {
		cell = 4 * c.Particles.Radius
	}
	c.Derived.CellSize32 = float32(cell)

	c.Derived.MinX32 = float32(c.World.MinX)
	c.Derived.MinY32 = float32(c.World.MinY)
	c.Derived.MaxX32 = float32(c.World.MaxX)
	c.Derived.MaxY32 = float32(c.World.MaxY)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

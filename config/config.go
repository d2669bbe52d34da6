// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Pool      PoolConfig      `yaml:"pool"`
	Spawn     SpawnConfig     `yaml:"spawn"`
	Neutral   NeutralConfig   `yaml:"neutral"`
	Attract   AttractConfig   `yaml:"attract"`
	Repulse   RepulseConfig   `yaml:"repulse"`
	Hollow    HollowConfig    `yaml:"hollow"`
	Bounds    BoundsConfig    `yaml:"bounds"`
	Trail     TrailConfig     `yaml:"trail"`
	Camera    CameraConfig    `yaml:"camera"`
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

// PoolConfig holds particle pool parameters.
type PoolConfig struct {
	Capacity int `yaml:"capacity"` // Fixed slot count; never resized after startup
}

// SpawnConfig holds admission parameters.
type SpawnConfig struct {
	Radius         float64 `yaml:"radius"`          // Shell radius particles spawn at
	HeightJitter   float64 `yaml:"height_jitter"`   // Vertical jitter half-range on the shell ring
	IntervalJitter float64 `yaml:"interval_jitter"` // Fractional jitter on 1/rate (0.3 = ±30%)
	DefaultRate    float64 `yaml:"default_rate"`    // Particles per second at startup
	MinSpeed       float64 `yaml:"min_speed"`
	MaxSpeed       float64 `yaml:"max_speed"`
}

// NeutralConfig holds the asymptotic-halt mode parameters.
type NeutralConfig struct {
	InteractionRadius float64 `yaml:"interaction_radius"`
	StoppingRadius    float64 `yaml:"stopping_radius"`
	MinSpeedFactor    float64 `yaml:"min_speed_factor"` // Anti-deadlock floor, not a physical constant
	JitterThreshold   float64 `yaml:"jitter_threshold"` // Ratio below which jitter kicks in
	JitterStrength    float64 `yaml:"jitter_strength"`
	CrowdCount        int     `yaml:"crowd_count"`        // Active count above which shrink accelerates
	CrowdShrink       float64 `yaml:"crowd_shrink"`       // Per-frame multiplier under crowding
	CrowdShrinkRatio  float64 `yaml:"crowd_shrink_ratio"` // Ratio below which crowd shrink applies
	IdleShrink        float64 `yaml:"idle_shrink"`        // Per-frame multiplier when nearly halted
	IdleShrinkRatio   float64 `yaml:"idle_shrink_ratio"`  // Ratio below which idle shrink applies
}

// AttractConfig holds the implosive-trapping mode parameters.
type AttractConfig struct {
	Radius          float64 `yaml:"radius"` // Pull takes effect inside this distance
	PullStrength    float64 `yaml:"pull_strength"`
	CoreRadius      float64 `yaml:"core_radius"`
	Damping         float64 `yaml:"damping"` // Velocity multiplier inside core+1
	JitterBase      float64 `yaml:"jitter_base"`
	JitterClose     float64 `yaml:"jitter_close"`    // Added as closeness^4 * this
	TrappedRadius   float64 `yaml:"trapped_radius"`  // Neighborhood radius for trapped count
	TrappedLimit    int     `yaml:"trapped_limit"`   // Count above which crowd shrink starts
	ShrinkPerOver   float64 `yaml:"shrink_per_over"` // Shrink steepening per particle over the limit
	ShrinkFloor     float64 `yaml:"shrink_floor"`
	DeactivateScale float64 `yaml:"deactivate_scale"`
}

// RepulseConfig holds the elastic-wall mode parameters.
type RepulseConfig struct {
	Radius       float64 `yaml:"radius"`
	CoreRadius   float64 `yaml:"core_radius"`
	StaticForce  float64 `yaml:"static_force"`
	ReflectGain  float64 `yaml:"reflect_gain"`  // Reflection force = approach * (1 + gain*intensity)
	WallOffset   float64 `yaml:"wall_offset"`   // Hard clamp at core_radius + this
	BounceRetain float64 `yaml:"bounce_retain"` // Fraction of speed kept on inelastic bounce
}

// HollowConfig holds the curved-suction mode parameters.
type HollowConfig struct {
	InwardWeight    float64 `yaml:"inward_weight"`
	TangentWeight   float64 `yaml:"tangent_weight"`
	BaseSpeed       float64 `yaml:"base_speed"`
	SpeedGain       float64 `yaml:"speed_gain"`    // Speed = base + gain * max(1, base-distance)
	JitterBase      float64 `yaml:"jitter_base"`
	JitterGain      float64 `yaml:"jitter_gain"`
	JitterRadius    float64 `yaml:"jitter_radius"` // Jitter ramps inside this distance
	ShrinkRadius    float64 `yaml:"shrink_radius"`
	Shrink          float64 `yaml:"shrink"`
	DeactivateScale float64 `yaml:"deactivate_scale"`
	DeactivateDist  float64 `yaml:"deactivate_dist"`
}

// BoundsConfig holds the unconditional deactivation limits.
type BoundsConfig struct {
	MaxDistance float64 `yaml:"max_distance"`
	MinScale    float64 `yaml:"min_scale"`
	DeltaClamp  float64 `yaml:"delta_clamp"` // Upper bound on per-frame elapsed time
}

// TrailConfig holds motion-trail ghosting parameters.
type TrailConfig struct {
	Depth int `yaml:"depth"` // Number of lagged frames rendered as ghosts (0 disables)
}

// CameraConfig holds orbit camera parameters.
type CameraConfig struct {
	Distance float64 `yaml:"distance"`
	FOV      float64 `yaml:"fov"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	SpawnRadiusSq   float64 // Spawn.Radius squared
	TrappedRadiusSq float64 // Attract.TrappedRadius squared
	MaxDistanceSq   float64 // Bounds.MaxDistance squared
	ScreenW32       float32
	ScreenH32       float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Pool.Capacity <= 0 {
		c.Pool.Capacity = 1000
	}
	if c.Spawn.MaxSpeed < c.Spawn.MinSpeed {
		c.Spawn.MaxSpeed = c.Spawn.MinSpeed
	}
	c.Derived.SpawnRadiusSq = c.Spawn.Radius * c.Spawn.Radius
	c.Derived.TrappedRadiusSq = c.Attract.TrappedRadius * c.Attract.TrappedRadius
	c.Derived.MaxDistanceSq = c.Bounds.MaxDistance * c.Bounds.MaxDistance
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
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

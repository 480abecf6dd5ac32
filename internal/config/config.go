// Package config loads and saves YAML-backed run configurations for the
// fluid engine, and offers a small table of named presets.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sphfluid/internal/fluid"
)

const (
	DefaultParticleCount = 1000
	DefaultDt             = 1.0 / 60
	DefaultDuration       = 10.0
)

// Config mirrors fluid.Config plus the run parameters the engine itself
// knows nothing about: how many particles to seed, for how long to run, and
// with which random seed.
type Config struct {
	ParticleCount int     `yaml:"particle_count"`
	Dt            float64 `yaml:"dt"`
	Duration      float64 `yaml:"duration"`
	Seed          int64   `yaml:"seed"`

	Gravity                float64 `yaml:"gravity"`
	SmoothingRadius         float64 `yaml:"smoothing_radius"`
	TargetDensity           float64 `yaml:"target_density"`
	PressureMultiplier      float64 `yaml:"pressure_multiplier"`
	NearPressureMultiplier  float64 `yaml:"near_pressure_multiplier"`
	ViscosityStrength       float64 `yaml:"viscosity_strength"`
	CollisionDamping        float64 `yaml:"collision_damping"`
	BoundsX                 float64 `yaml:"bounds_x"`
	BoundsY                 float64 `yaml:"bounds_y"`
	BoundsZ                 float64 `yaml:"bounds_z"`

	SeedMargin         float64 `yaml:"seed_margin"`
	SeedMinHeightRatio float64 `yaml:"seed_min_height_ratio"`
}

// DefaultConfig returns the authoritative default run configuration, mirroring
// fluid.DefaultConfig's physical parameters.
func DefaultConfig() *Config {
	d := fluid.DefaultConfig()
	return &Config{
		ParticleCount: DefaultParticleCount,
		Dt:            DefaultDt,
		Duration:      DefaultDuration,

		Gravity:                d.Gravity,
		SmoothingRadius:        d.SmoothingRadius,
		TargetDensity:          d.TargetDensity,
		PressureMultiplier:     d.PressureMultiplier,
		NearPressureMultiplier: d.NearPressureMultiplier,
		ViscosityStrength:      d.ViscosityStrength,
		CollisionDamping:       d.CollisionDamping,
		BoundsX:                d.Bounds.X,
		BoundsY:                d.Bounds.Y,
		BoundsZ:                d.Bounds.Z,

		SeedMargin:         0.05,
		SeedMinHeightRatio: -0.5,
	}
}

// Load reads a YAML config file, defaulting any field it omits.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// FluidConfig projects the physical parameters out into a fluid.Config the
// engine can Init with.
func (c *Config) FluidConfig() fluid.Config {
	return fluid.Config{
		Gravity:                c.Gravity,
		SmoothingRadius:        c.SmoothingRadius,
		TargetDensity:          c.TargetDensity,
		PressureMultiplier:     c.PressureMultiplier,
		NearPressureMultiplier: c.NearPressureMultiplier,
		ViscosityStrength:      c.ViscosityStrength,
		CollisionDamping:       c.CollisionDamping,
		Bounds:                 fluid.Vec3{X: c.BoundsX, Y: c.BoundsY, Z: c.BoundsZ},
	}
}

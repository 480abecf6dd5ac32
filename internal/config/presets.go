package config

// Presets is a named table of ready-to-run scenarios, the fluid analogue of
// the teacher's per-model preset table — narrowed to a single flat map since
// the engine has exactly one system rather than a model zoo.
var Presets = map[string]*Config{
	"dam_break": {
		ParticleCount: 1500, Dt: DefaultDt, Duration: 8.0,
		Gravity: -9.81, SmoothingRadius: 0.2, TargetDensity: 1000.0,
		PressureMultiplier: 30.0, NearPressureMultiplier: 25.0,
		ViscosityStrength: 0.02, CollisionDamping: 0.6,
		BoundsX: 1.5, BoundsY: 1.0, BoundsZ: 1.0,
		SeedMargin: 0.05, SeedMinHeightRatio: 0.3,
	},
	"calm_pool": {
		ParticleCount: 800, Dt: DefaultDt, Duration: 10.0,
		Gravity: -9.81, SmoothingRadius: 0.2, TargetDensity: 1000.0,
		PressureMultiplier: 30.0, NearPressureMultiplier: 25.0,
		ViscosityStrength: 0.035, CollisionDamping: 0.85,
		BoundsX: 1.0, BoundsY: 1.0, BoundsZ: 1.0,
		SeedMargin: 0.05, SeedMinHeightRatio: -0.4,
	},
	"viscous_blob": {
		ParticleCount: 600, Dt: DefaultDt, Duration: 10.0,
		Gravity: -9.81, SmoothingRadius: 0.25, TargetDensity: 1000.0,
		PressureMultiplier: 20.0, NearPressureMultiplier: 15.0,
		ViscosityStrength: 0.3, CollisionDamping: 0.4,
		BoundsX: 1.0, BoundsY: 1.0, BoundsZ: 1.0,
		SeedMargin: 0.1, SeedMinHeightRatio: 0.0,
	},
	"zero_gravity": {
		ParticleCount: 500, Dt: DefaultDt, Duration: 15.0,
		Gravity: 0.0, SmoothingRadius: 0.2, TargetDensity: 1000.0,
		PressureMultiplier: 30.0, NearPressureMultiplier: 25.0,
		ViscosityStrength: 0.01, CollisionDamping: 0.9,
		BoundsX: 1.0, BoundsY: 1.0, BoundsZ: 1.0,
		SeedMargin: 0.1, SeedMinHeightRatio: -0.5,
	},
}

// GetPreset looks up a named preset, or nil if it does not exist.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

// ListPresets returns every known preset name.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}

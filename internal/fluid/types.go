// Package fluid implements the SPH fluid simulation core: a fixed population
// of particles advanced one time step at a time under gravity, a dual
// density/near-density pressure model, artificial viscosity, and inelastic
// boundary collisions.
package fluid

// Vec3 is a plain 3-component vector. It carries no behavior beyond the
// arithmetic the physics passes need.
type Vec3 struct {
	X, Y, Z float64
}

func (a Vec3) Add(b Vec3) Vec3      { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3      { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// Particle is the core's unit of state. Position and Velocity are the
// authoritative values read by external observers between steps; Predicted,
// Density and NearDensity are scratch values recomputed every step.
type Particle struct {
	Position  Vec3
	Predicted Vec3
	Velocity  Vec3
	Density   float64
	NearDensity float64
}

// Config holds the tunable physical parameters. It is immutable during a
// step; SetConfig replaces it wholesale between steps.
type Config struct {
	Gravity                float64
	SmoothingRadius        float64
	TargetDensity          float64
	PressureMultiplier     float64
	NearPressureMultiplier float64
	ViscosityStrength      float64
	CollisionDamping       float64
	Bounds                 Vec3
}

// DefaultConfig returns the authoritative default parameter set.
func DefaultConfig() Config {
	return Config{
		Gravity:                -9.81,
		SmoothingRadius:        0.2,
		TargetDensity:          1000.0,
		PressureMultiplier:     30.0,
		NearPressureMultiplier: 25.0,
		ViscosityStrength:      0.035,
		CollisionDamping:       0.85,
		Bounds:                 Vec3{X: 1.0, Y: 1.0, Z: 1.0},
	}
}

package metrics

import "github.com/san-kum/sphfluid/internal/fluid"

// KineticEnergy tracks the cloud's total kinetic energy (unit particle mass)
// across a run, reporting the fractional drift between the first and most
// recent observation — the fluid analogue of a conserved-energy check.
type KineticEnergy struct {
	name    string
	initial float64
	current float64
	samples int
}

// NewKineticEnergy constructs an empty KineticEnergy metric.
func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(particles []fluid.Particle, t float64) {
	var total float64
	for _, p := range particles {
		v := p.Velocity
		total += 0.5 * v.Dot(v)
	}
	if k.samples == 0 {
		k.initial = total
	}
	k.current = total
	k.samples++
}

// Value returns the fractional drift in total kinetic energy since the first
// observation, or 0 if fewer than two samples have been taken or the initial
// energy was zero.
func (k *KineticEnergy) Value() float64 {
	if k.samples < 2 || k.initial == 0 {
		return 0
	}
	drift := (k.current - k.initial) / k.initial
	if drift < 0 {
		return -drift
	}
	return drift
}

func (k *KineticEnergy) Reset() {
	k.initial = 0
	k.current = 0
	k.samples = 0
}

package metrics

import "github.com/san-kum/sphfluid/internal/fluid"

// Containment reports the fraction of observed steps in which every particle
// stayed within the configured bounds, adapted from a threshold-violation
// check over a generic state vector into a per-particle bounds check.
type Containment struct {
	name       string
	bounds     fluid.Vec3
	violations int
	samples    int
}

// NewContainment constructs a Containment metric checking against bounds.
func NewContainment(bounds fluid.Vec3) *Containment {
	return &Containment{name: "containment", bounds: bounds}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(particles []fluid.Particle, t float64) {
	c.samples++
	for _, p := range particles {
		if outOfBounds(p.Position, c.bounds) {
			c.violations++
			return
		}
	}
}

func outOfBounds(p, b fluid.Vec3) bool {
	return abs(p.X) > b.X || abs(p.Y) > b.Y || abs(p.Z) > b.Z
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}

// Package metrics implements pluggable per-step observation probes run by
// internal/runner after every simulation step.
package metrics

import "github.com/san-kum/sphfluid/internal/fluid"

// Metric observes the particle cloud once per step and reports a scalar
// summary value at the end of a run.
type Metric interface {
	Name() string
	Observe(particles []fluid.Particle, t float64)
	Value() float64
	Reset()
}

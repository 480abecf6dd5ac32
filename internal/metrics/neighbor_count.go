package metrics

import "github.com/san-kum/sphfluid/internal/fluid"

// NeighborCount tracks the mean per-particle density across the cloud as
// a cheap proxy for average neighborhood occupancy — a sparse cloud (most
// particles near the target density with few neighbors contributing) looks
// very different from a tightly packed one.
type NeighborCount struct {
	name    string
	sum     float64
	samples int
}

// NewNeighborCount constructs an empty NeighborCount metric.
func NewNeighborCount() *NeighborCount {
	return &NeighborCount{name: "mean_density"}
}

func (n *NeighborCount) Name() string { return n.name }

func (n *NeighborCount) Observe(particles []fluid.Particle, t float64) {
	if len(particles) == 0 {
		return
	}
	var total float64
	for _, p := range particles {
		total += p.Density
	}
	n.sum += total / float64(len(particles))
	n.samples++
}

func (n *NeighborCount) Value() float64 {
	if n.samples == 0 {
		return 0
	}
	return n.sum / float64(n.samples)
}

func (n *NeighborCount) Reset() {
	n.sum = 0
	n.samples = 0
}

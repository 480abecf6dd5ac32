// Package seed provides the external particle-population collaborator the
// fluid core expects at Init time. The core itself never generates initial
// conditions; a Seeder is the documented contract a caller fulfills.
package seed

import (
	"math/rand"

	"github.com/san-kum/sphfluid/internal/fluid"
)

// Seeder produces the initial particle population for a run.
type Seeder interface {
	Seed(n int) []fluid.Particle
}

// Uniform places particles uniformly at random inside a cube of side BoxSize
// centered at the origin, inset by Margin on every face, with a floor at
// MinHeightRatio of the half-extent — the default reference seeder.
type Uniform struct {
	BoxSize        float64
	Margin         float64
	MinHeightRatio float64
	Rand           *rand.Rand
}

// NewUniform returns a Uniform seeder with the given deterministic seed.
func NewUniform(boxSize, margin, minHeightRatio float64, randomSeed int64) *Uniform {
	return &Uniform{
		BoxSize:        boxSize,
		Margin:         margin,
		MinHeightRatio: minHeightRatio,
		Rand:           rand.New(rand.NewSource(randomSeed)),
	}
}

// Seed implements Seeder.
func (u *Uniform) Seed(n int) []fluid.Particle {
	half := u.BoxSize / 2
	lo := -half + u.Margin
	hi := half - u.Margin
	minY := lo
	if floor := u.MinHeightRatio * half; floor > minY {
		minY = floor
	}

	particles := make([]fluid.Particle, n)
	for i := 0; i < n; i++ {
		pos := fluid.Vec3{
			X: lo + u.Rand.Float64()*(hi-lo),
			Y: minY + u.Rand.Float64()*(hi-minY),
			Z: lo + u.Rand.Float64()*(hi-lo),
		}
		particles[i] = fluid.Particle{Position: pos, Predicted: pos}
	}
	return particles
}

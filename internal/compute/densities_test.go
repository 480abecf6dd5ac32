package compute

import (
	"math"
	"testing"

	"github.com/san-kum/sphfluid/internal/kernel"
	"github.com/san-kum/sphfluid/internal/spatialhash"
)

func TestBruteForceDensitiesAgreesWithSpatialHash(t *testing.T) {
	const h = 0.3
	n := 60
	px := make([]float64, n)
	py := make([]float64, n)
	pz := make([]float64, n)
	for i := 0; i < n; i++ {
		px[i] = float64(i%5) * 0.1
		py[i] = float64((i/5)%5) * 0.1
		pz[i] = float64(i%4) * 0.1
	}

	coeffs := kernel.NewCoefficients(h)
	bruteDensity, bruteNear := BruteForceDensities(px, py, pz, h,
		func(d, h float64) float64 { return coeffs.DensityKernel(d, h) },
		func(d, h float64) float64 { return coeffs.NearDensityKernel(d, h) },
	)

	idx := spatialhash.New(n, h)
	idx.Build(px, py, pz)
	order := idx.Order()

	hashDensity := make([]float64, n)
	hashNear := make([]float64, n)
	for pos := 0; pos < n; pos++ {
		xi, yi, zi := px[order[pos]], py[order[pos]], pz[order[pos]]
		var rho, nearRho float64
		idx.ForEachNeighbor(xi, yi, zi, func(j int) {
			oj := order[j]
			dx := px[oj] - xi
			dy := py[oj] - yi
			dz := pz[oj] - zi
			d := math.Sqrt(dx*dx + dy*dy + dz*dz)
			rho += coeffs.DensityKernel(d, h)
			nearRho += coeffs.NearDensityKernel(d, h)
		})
		hashDensity[order[pos]] = rho
		hashNear[order[pos]] = nearRho
	}

	for i := 0; i < n; i++ {
		if math.Abs(bruteDensity[i]-hashDensity[i]) > 1e-9 {
			t.Errorf("particle %d: brute density %v != hash density %v", i, bruteDensity[i], hashDensity[i])
		}
		if math.Abs(bruteNear[i]-hashNear[i]) > 1e-9 {
			t.Errorf("particle %d: brute near-density %v != hash near-density %v", i, bruteNear[i], hashNear[i])
		}
	}
}

package compute

import (
	"math"
	"runtime"
	"sync"
)

// BruteForceDensities computes density and near-density for every particle
// by summing over every particle directly (itself included), independent of
// the spatial hash. It is O(n^2) and serves as a cross-check oracle for the
// spatial-hash neighbor search, in tests and in the sphsim verify command;
// the engine itself never calls it.
func BruteForceDensities(px, py, pz []float64, h float64, densityKernel, nearDensityKernel func(d, h float64) float64) (density, nearDensity []float64) {
	n := len(px)
	density = make([]float64, n)
	nearDensity = make([]float64, n)
	if n == 0 {
		return
	}

	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				var rho, nearRho float64
				for j := 0; j < n; j++ {
					dx := px[j] - px[i]
					dy := py[j] - py[i]
					dz := pz[j] - pz[i]
					d := math.Sqrt(dx*dx + dy*dy + dz*dz)
					rho += densityKernel(d, h)
					nearRho += nearDensityKernel(d, h)
				}
				density[i] = rho
				nearDensity[i] = nearRho
			}
		}(start, end)
	}
	wg.Wait()
	return
}

package compute

import (
	"runtime"
)

// CPUBackend is the always-available goroutine-parallel backend.
type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}

// Densities runs the brute-force O(n^2) density oracle on the CPU.
func (c *CPUBackend) Densities(px, py, pz []float64, h float64, densityKernel, nearDensityKernel func(d, h float64) float64) (density, nearDensity []float64) {
	return BruteForceDensities(px, py, pz, h, densityKernel, nearDensityKernel)
}

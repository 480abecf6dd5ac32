//go:build !cuda

package compute

type CUDABackend struct{}

func NewCUDABackend() *CUDABackend {
	return &CUDABackend{}
}

func (c *CUDABackend) Name() string    { return "cuda (not available)" }
func (c *CUDABackend) Available() bool { return false }
func (c *CUDABackend) Cleanup()        {}

func (c *CUDABackend) Densities(px, py, pz []float64, h float64, densityKernel, nearDensityKernel func(d, h float64) float64) (density, nearDensity []float64) {
	cpu := NewCPUBackend()
	return cpu.Densities(px, py, pz, h, densityKernel, nearDensityKernel)
}

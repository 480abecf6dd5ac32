//go:build cuda

package compute

/*
#cgo CFLAGS: -I/opt/cuda/include
#cgo LDFLAGS: -L/opt/cuda/lib64 -L${SRCDIR} -lcudart -lkernels -lstdc++
#include <stdlib.h>

extern int cuda_device_count();
extern const char* cuda_device_name_get();
extern void densities_gpu(float* px, float* py, float* pz, float* density, float* nearDensity, int n, float h);
*/
import "C"
import "unsafe"

type CUDABackend struct {
	available  bool
	deviceName string
}

func NewCUDABackend() *CUDABackend {
	count := int(C.cuda_device_count())
	name := ""
	if count > 0 {
		name = C.GoString(C.cuda_device_name_get())
	}
	return &CUDABackend{
		available:  count > 0,
		deviceName: name,
	}
}

func (c *CUDABackend) Name() string {
	if c.available {
		return "cuda (" + c.deviceName + ")"
	}
	return "cuda (not available)"
}

func (c *CUDABackend) Available() bool { return c.available }
func (c *CUDABackend) Cleanup()        {}

// Densities runs the density oracle on the GPU. The kernel only evaluates
// the closed-form density/near-density sums it was compiled for, so it
// ignores the densityKernel/nearDensityKernel callbacks the CPU path uses.
func (c *CUDABackend) Densities(px, py, pz []float64, h float64, densityKernel, nearDensityKernel func(d, h float64) float64) (density, nearDensity []float64) {
	if !c.available {
		cpu := NewCPUBackend()
		return cpu.Densities(px, py, pz, h, densityKernel, nearDensityKernel)
	}

	n := len(px)
	density = make([]float64, n)
	nearDensity = make([]float64, n)

	pxF := make([]float32, n)
	pyF := make([]float32, n)
	pzF := make([]float32, n)
	densF := make([]float32, n)
	nearF := make([]float32, n)
	for i := 0; i < n; i++ {
		pxF[i] = float32(px[i])
		pyF[i] = float32(py[i])
		pzF[i] = float32(pz[i])
	}

	C.densities_gpu(
		(*C.float)(unsafe.Pointer(&pxF[0])),
		(*C.float)(unsafe.Pointer(&pyF[0])),
		(*C.float)(unsafe.Pointer(&pzF[0])),
		(*C.float)(unsafe.Pointer(&densF[0])),
		(*C.float)(unsafe.Pointer(&nearF[0])),
		C.int(n),
		C.float(h),
	)

	for i := 0; i < n; i++ {
		density[i] = float64(densF[i])
		nearDensity[i] = float64(nearF[i])
	}

	return density, nearDensity
}

// Package compute provides hardware-accelerated computation backends used
// as a brute-force cross-check oracle and as an inert GPU offload extension
// point.
//
// The package automatically selects the best available backend:
//
//   - CUDA: GPU-accelerated computation (stubbed out in ordinary builds)
//   - CPU: goroutine-parallel fallback, always available
//
// Build with CUDA support:
//
//	go build -tags cuda
//
// The fluid engine never calls into this package at simulation time; it
// exists so BruteForceDensities can cross-check the spatial-hash neighbor
// search in tests, and so a future GPU offload of the physics passes has
// somewhere to live without disturbing the CPU-only default path.
package compute

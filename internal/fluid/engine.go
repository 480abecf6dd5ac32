package fluid

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/san-kum/sphfluid/internal/kernel"
	"github.com/san-kum/sphfluid/internal/spatialhash"
)

// Engine owns the authoritative particle array and drives it one step at a
// time. It is not safe for concurrent use from multiple goroutines; a single
// owner is expected to call Step sequentially.
type Engine struct {
	config Config
	coeffs kernel.Coefficients

	particles         []Particle
	viscositySnapshot []Vec3
	index             *spatialhash.Index

	workers    int
	barrier    *barrier // arity workers+1: every worker plus the calling goroutine
	currentDt  float64
	done       chan struct{}
	wg         sync.WaitGroup
	failed     atomic.Bool
	step       int
	running    bool
}

// New constructs an Engine; call Init before the first Step.
func New() *Engine {
	return &Engine{}
}

// Init replaces the configuration and particle population, resizes scratch
// buffers, and (re)launches the persistent worker pool. Any previously
// running workers are stopped first.
func (e *Engine) Init(config Config, particles []Particle) error {
	return e.initWithWorkers(config, particles, 0)
}

// initWithWorkers is Init with the worker count pinned to a specific value
// instead of derived from runtime.NumCPU. A workers value of 0 means "derive
// automatically", matching Init's behavior; it exists so tests can compare
// simulation output across different worker counts on the same hardware.
func (e *Engine) initWithWorkers(config Config, particles []Particle, workers int) error {
	if err := validateConfig(config); err != nil {
		return err
	}
	e.stopWorkers()

	e.config = config
	e.coeffs = kernel.NewCoefficients(config.SmoothingRadius)
	e.particles = particles
	n := len(particles)
	e.viscositySnapshot = make([]Vec3, n)
	e.index = spatialhash.New(n, config.SmoothingRadius)

	if workers > 0 {
		e.workers = clamp(workers, 1, max(n, 1))
	} else {
		e.workers = clamp(runtime.NumCPU(), 1, max(n, 1))
	}
	e.failed.Store(false)
	e.step = 0
	e.startWorkers()
	return nil
}

// SetConfig replaces the configuration in effect for subsequent steps. The
// index's cell size and kernel coefficients are refreshed if the smoothing
// radius changed.
func (e *Engine) SetConfig(config Config) error {
	if err := validateConfig(config); err != nil {
		return err
	}
	if config.SmoothingRadius != e.config.SmoothingRadius {
		e.coeffs = kernel.NewCoefficients(config.SmoothingRadius)
		if e.index != nil {
			e.index.SetSmoothingRadius(config.SmoothingRadius)
		}
	}
	e.config = config
	return nil
}

// Config returns the configuration currently in effect.
func (e *Engine) Config() Config { return e.config }

// Particles returns the live particle slice. Callers must treat it as
// read-only; the engine mutates it in place on the next Step.
func (e *Engine) Particles() []Particle { return e.particles }

// Step advances the simulation by dt. It is a no-op when there are no
// particles. Returns a *StepError if a worker previously failed; once that
// happens the engine refuses all further steps until re-initialized.
func (e *Engine) Step(dt float64) error {
	n := len(e.particles)
	if n == 0 {
		return nil
	}
	if e.failed.Load() {
		return &StepError{Step: e.step, Err: ErrWorkerFailure}
	}

	e.currentDt = dt
	e.barrier.wait() // (A) release workers into this step
	e.barrier.wait() // (B) wait for external-forces pass to finish

	px := make([]float64, n)
	py := make([]float64, n)
	pz := make([]float64, n)
	for i, p := range e.particles {
		px[i], py[i], pz[i] = p.Predicted.X, p.Predicted.Y, p.Predicted.Z
	}
	e.index.Build(px, py, pz)
	e.reorder()

	e.barrier.wait() // (C) release workers into the density pass
	e.barrier.wait() // (D) wait for densities
	e.barrier.wait() // (E) wait for pressure forces
	if e.config.ViscosityStrength != 0 {
		e.barrier.wait() // (F) wait for the viscosity snapshot
		e.barrier.wait() // (G) wait for viscosity
	}
	e.barrier.wait() // (H) wait for the position update; step complete

	e.step++
	if e.failed.Load() {
		return &StepError{Step: e.step, Err: ErrWorkerFailure}
	}
	return nil
}

// reorder rearranges particles into the cell-sorted layout produced by the
// most recent index build, so that index positions map directly onto
// particle-slice indices for the remaining passes of this step.
func (e *Engine) reorder() {
	order := e.index.Order()
	sorted := make([]Particle, len(e.particles))
	for pos, orig := range order {
		sorted[pos] = e.particles[orig]
	}
	copy(e.particles, sorted)
}

// Destroy stops the worker pool and releases buffers.
func (e *Engine) Destroy() {
	e.stopWorkers()
	e.particles = nil
	e.viscositySnapshot = nil
	e.index = nil
}

func (e *Engine) startWorkers() {
	e.barrier = newBarrier(e.workers + 1)
	e.done = make(chan struct{})
	e.wg.Add(e.workers)
	e.running = true
	for w := 0; w < e.workers; w++ {
		go e.workerLoop(w)
	}
}

func (e *Engine) stopWorkers() {
	if !e.running {
		return
	}
	e.running = false
	close(e.done)
	e.barrier.trip()
	e.wg.Wait()
}

// workerLoop is a persistent worker: it is launched once in Init and lives
// across every subsequent Step call, rendezvousing with the caller and its
// siblings at each pass boundary via the shared barrier instead of being
// spawned and joined per pass.
func (e *Engine) workerLoop(worker int) {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.failed.Store(true)
			e.barrier.trip()
		}
	}()

	n := len(e.particles)
	chunk := (n + e.workers - 1) / e.workers
	start := worker * chunk
	end := min(start+chunk, n)

	for {
		e.barrier.wait() // (A) wait for the next step's dt
		select {
		case <-e.done:
			return
		default:
		}
		dt := e.currentDt

		e.applyExternalForces(start, end, dt)
		e.barrier.wait() // (B) let the caller rebuild the spatial index
		e.barrier.wait() // (C) index rebuilt; proceed to densities

		e.computeDensities(start, end)
		e.barrier.wait() // (D)
		e.computePressureForces(start, end, dt)
		e.barrier.wait() // (E)
		if e.config.ViscosityStrength != 0 {
			e.snapshotViscosityInput(start, end)
			e.barrier.wait() // (F)
			e.computeViscosity(start, end)
			e.barrier.wait() // (G)
		}
		e.updatePositions(start, end, dt)
		e.barrier.wait() // (H)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Package runner drives a fluid.Engine across many steps, the multi-step
// harness a CLI or test needs around the engine's single-step core.
package runner

import (
	"context"
	"fmt"

	"github.com/san-kum/sphfluid/internal/fluid"
	"github.com/san-kum/sphfluid/internal/metrics"
)

// Config describes a run: how long to simulate and at what step size.
type Config struct {
	Dt       float64
	Duration float64
}

// Snapshot is a recorded observation of the particle cloud at one instant.
type Snapshot struct {
	Time      float64
	Particles []fluid.Particle
}

// Result accumulates a run's snapshots, final metric values, and any errors
// encountered along the way.
type Result struct {
	Snapshots  []Snapshot
	Times      []float64
	Metrics    map[string]float64
	Errors     []error
	StepsTaken int
}

// Runner wraps a fluid.Engine with pluggable metrics, in the shape of a
// generic simulation loop narrowed to the fixed-particle-array domain: no
// swappable integrator, no controller, no adaptive step-size logic.
type Runner struct {
	engine  *fluid.Engine
	metrics []metrics.Metric
}

// New wraps an already-initialized engine.
func New(engine *fluid.Engine) *Runner {
	return &Runner{engine: engine}
}

// AddMetric registers a metric observed once per step.
func (r *Runner) AddMetric(m metrics.Metric) { r.metrics = append(r.metrics, m) }

// Run advances the engine until cfg.Duration has elapsed or ctx is canceled,
// recording a snapshot and observing every metric after each step.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Snapshots: make([]Snapshot, 0, steps+1),
		Times:     make([]float64, 0, steps+1),
		Metrics:   make(map[string]float64),
		Errors:    make([]error, 0),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	t := 0.0
	result.Snapshots = append(result.Snapshots, r.snapshot(t))
	result.Times = append(result.Times, t)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := r.engine.Step(cfg.Dt); err != nil {
			result.Errors = append(result.Errors, err)
			break
		}

		t += cfg.Dt
		result.StepsTaken++
		result.Snapshots = append(result.Snapshots, r.snapshot(t))
		result.Times = append(result.Times, t)

		for _, m := range r.metrics {
			m.Observe(r.engine.Particles(), t)
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback advances the engine step by step, invoking callback with
// the current time and particles before each step; returning false from
// callback stops the run before that step is taken.
func (r *Runner) RunWithCallback(ctx context.Context, cfg Config, callback func(t float64, particles []fluid.Particle) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	t := 0.0
	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(t, r.engine.Particles()) {
			return nil
		}

		if err := r.engine.Step(cfg.Dt); err != nil {
			return err
		}
		t += cfg.Dt
	}
	return nil
}

func (r *Runner) snapshot(t float64) Snapshot {
	live := r.engine.Particles()
	copied := make([]fluid.Particle, len(live))
	copy(copied, live)
	return Snapshot{Time: t, Particles: copied}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("runner: dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("runner: duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

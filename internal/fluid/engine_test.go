package fluid

import (
	"math"
	"math/rand"
	"sort"
	"testing"
)

func makeParticles(positions []Vec3) []Particle {
	ps := make([]Particle, len(positions))
	for i, p := range positions {
		ps[i] = Particle{Position: p, Predicted: p}
	}
	return ps
}

func TestInitRejectsInvalidConfig(t *testing.T) {
	e := New()
	cfg := DefaultConfig()
	cfg.SmoothingRadius = 0
	if err := e.Init(cfg, makeParticles([]Vec3{{}})); err != ErrInvalidSmoothingRadius {
		t.Fatalf("Init with zero smoothing radius = %v, want ErrInvalidSmoothingRadius", err)
	}

	cfg = DefaultConfig()
	cfg.CollisionDamping = 1.5
	if err := e.Init(cfg, makeParticles([]Vec3{{}})); err != ErrInvalidCollisionDamping {
		t.Fatalf("Init with damping > 1 = %v, want ErrInvalidCollisionDamping", err)
	}

	cfg = DefaultConfig()
	cfg.Bounds = Vec3{X: 0, Y: 1, Z: 1}
	if err := e.Init(cfg, makeParticles([]Vec3{{}})); err != ErrInvalidBounds {
		t.Fatalf("Init with zero bound = %v, want ErrInvalidBounds", err)
	}
}

func TestZeroParticlesStepIsNoop(t *testing.T) {
	e := New()
	if err := e.Init(DefaultConfig(), nil); err != nil {
		t.Fatalf("Init with 0 particles: %v", err)
	}
	defer e.Destroy()
	for i := 0; i < 5; i++ {
		if err := e.Step(1.0 / 60); err != nil {
			t.Fatalf("Step on empty engine: %v", err)
		}
	}
}

func TestFreeFallUnderGravityAlone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ViscosityStrength = 0
	cfg.PressureMultiplier = 0
	cfg.NearPressureMultiplier = 0
	cfg.Bounds = Vec3{X: 100, Y: 100, Z: 100}

	e := New()
	if err := e.Init(cfg, makeParticles([]Vec3{{X: 0, Y: 50, Z: 0}})); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer e.Destroy()

	dt := 0.01
	for i := 0; i < 10; i++ {
		if err := e.Step(dt); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
	p := e.Particles()[0]
	wantVy := cfg.Gravity * dt * 10
	if math.Abs(p.Velocity.Y-wantVy) > 1e-9 {
		t.Fatalf("Velocity.Y = %v, want %v", p.Velocity.Y, wantVy)
	}
}

func TestContainmentWithinBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bounds = Vec3{X: 1, Y: 1, Z: 1}

	positions := make([]Vec3, 40)
	for i := range positions {
		positions[i] = Vec3{
			X: 0.9*float64(i%5)/5 - 0.45,
			Y: 0.9,
			Z: 0.9*float64(i%3)/3 - 0.3,
		}
	}
	e := New()
	if err := e.Init(cfg, makeParticles(positions)); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer e.Destroy()

	for i := 0; i < 60; i++ {
		if err := e.Step(1.0 / 60); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
	for i, p := range e.Particles() {
		if math.Abs(p.Position.X) > cfg.Bounds.X+1e-9 ||
			math.Abs(p.Position.Y) > cfg.Bounds.Y+1e-9 ||
			math.Abs(p.Position.Z) > cfg.Bounds.Z+1e-9 {
			t.Fatalf("particle %d left bounds: %+v", i, p.Position)
		}
	}
}

func TestFloorBounceReversesAndDamps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ViscosityStrength = 0
	cfg.PressureMultiplier = 0
	cfg.NearPressureMultiplier = 0
	cfg.Bounds = Vec3{X: 10, Y: 1, Z: 10}
	cfg.CollisionDamping = 0.5

	e := New()
	if err := e.Init(cfg, makeParticles([]Vec3{{X: 0, Y: -0.999, Z: 0}})); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer e.Destroy()

	for i := 0; i < 5; i++ {
		if err := e.Step(0.05); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
	p := e.Particles()[0]
	if p.Position.Y < -cfg.Bounds.Y-1e-9 {
		t.Fatalf("particle fell through floor: %v", p.Position.Y)
	}
	// Every step ends in floor contact, so the final velocity is the last
	// pre-contact velocity (-0.33721875) reversed and halved by the damping.
	if math.Abs(p.Velocity.Y-0.168609375) > 1e-9 {
		t.Fatalf("Velocity.Y after bounce = %v, want 0.168609375", p.Velocity.Y)
	}
}

func TestFinitenessUnderManySteps(t *testing.T) {
	cfg := DefaultConfig()
	positions := make([]Vec3, 60)
	for i := range positions {
		positions[i] = Vec3{
			X: 0.5*float64(i%4)/4 - 0.25,
			Y: 0.5*float64((i/4)%4)/4 - 0.25,
			Z: 0.5*float64(i%3)/3 - 0.25,
		}
	}
	e := New()
	if err := e.Init(cfg, makeParticles(positions)); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer e.Destroy()

	for i := 0; i < 100; i++ {
		if err := e.Step(1.0 / 60); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
	for i, p := range e.Particles() {
		if !finite(p.Position) || !finite(p.Velocity) {
			t.Fatalf("particle %d became non-finite: %+v", i, p)
		}
	}
}

func finite(v Vec3) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

func TestTwoBodyPressureForceIsSymmetric(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = 0
	cfg.ViscosityStrength = 0
	cfg.SmoothingRadius = 0.5
	cfg.Bounds = Vec3{X: 10, Y: 10, Z: 10}

	e := New()
	pos := []Vec3{{X: -0.05, Y: 0, Z: 0}, {X: 0.05, Y: 0, Z: 0}}
	if err := e.Init(cfg, makeParticles(pos)); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer e.Destroy()

	if err := e.Step(0.01); err != nil {
		t.Fatalf("Step: %v", err)
	}
	p0, p1 := e.Particles()[0], e.Particles()[1]
	if math.Abs(p0.Velocity.X+p1.Velocity.X) > 1e-6 {
		t.Fatalf("pressure force not symmetric: v0.X=%v v1.X=%v", p0.Velocity.X, p1.Velocity.X)
	}
}

func TestSingleParticleForcesOneWorker(t *testing.T) {
	cfg := DefaultConfig()
	e := New()
	if err := e.Init(cfg, makeParticles([]Vec3{{X: 0, Y: 0, Z: 0}})); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer e.Destroy()
	if e.workers != 1 {
		t.Fatalf("workers = %d, want 1 for a single particle", e.workers)
	}
	if err := e.Step(1.0 / 60); err != nil {
		t.Fatalf("Step: %v", err)
	}
	p := e.Particles()[0]
	if !finite(p.Position) || !finite(p.Velocity) {
		t.Fatalf("particle became non-finite: %+v", p)
	}
}

// randomCloud deterministically scatters n points inside a cube of the
// given half-extent, for tests that need a nontrivial but reproducible
// particle layout.
func randomCloud(n int, half float64, randomSeed int64) []Vec3 {
	r := rand.New(rand.NewSource(randomSeed))
	positions := make([]Vec3, n)
	for i := range positions {
		positions[i] = Vec3{
			X: (r.Float64()*2 - 1) * half,
			Y: (r.Float64()*2 - 1) * half,
			Z: (r.Float64()*2 - 1) * half,
		}
	}
	return positions
}

func TestIdleKernelLeavesPositionsUnchanged(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = 0
	cfg.PressureMultiplier = 0
	cfg.NearPressureMultiplier = 0
	cfg.ViscosityStrength = 0
	cfg.CollisionDamping = 1
	cfg.Bounds = Vec3{X: 100, Y: 100, Z: 100}

	positions := randomCloud(100, 2.0, 1)
	want := make([]Vec3, len(positions))
	copy(want, positions)

	e := New()
	if err := e.Init(cfg, makeParticles(positions)); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer e.Destroy()

	for i := 0; i < 60; i++ {
		if err := e.Step(1.0 / 60); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
	// Step reorders particles into cell-sorted layout, so compare the two
	// position sets independently of slice order.
	got := make([]Vec3, len(e.Particles()))
	for i, p := range e.Particles() {
		got[i] = p.Position
	}
	byCoords := func(v []Vec3) func(a, b int) bool {
		return func(a, b int) bool {
			if v[a].X != v[b].X {
				return v[a].X < v[b].X
			}
			if v[a].Y != v[b].Y {
				return v[a].Y < v[b].Y
			}
			return v[a].Z < v[b].Z
		}
	}
	sort.Slice(got, byCoords(got))
	sort.Slice(want, byCoords(want))
	for i := range got {
		if math.Abs(got[i].X-want[i].X) > 1e-12 ||
			math.Abs(got[i].Y-want[i].Y) > 1e-12 ||
			math.Abs(got[i].Z-want[i].Z) > 1e-12 {
			t.Fatalf("position %d moved with zero forces: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestResultsAreInvariantToWorkerCount(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bounds = Vec3{X: 5, Y: 5, Z: 5}
	positions := randomCloud(100, 2.0, 2)

	run := func(workers int) []Particle {
		e := New()
		if err := e.initWithWorkers(cfg, makeParticles(positions), workers); err != nil {
			t.Fatalf("initWithWorkers(%d): %v", workers, err)
		}
		defer e.Destroy()
		for i := 0; i < 60; i++ {
			if err := e.Step(1.0 / 60); err != nil {
				t.Fatalf("Step %d with %d workers: %v", i, workers, err)
			}
		}
		out := make([]Particle, len(e.Particles()))
		copy(out, e.Particles())
		return out
	}

	serial := run(1)
	parallel := run(8)
	for i := range serial {
		dp := serial[i].Position.Sub(parallel[i].Position)
		if d := math.Sqrt(dp.Dot(dp)); d > 1e-3 {
			t.Fatalf("particle %d diverged between worker counts: serial=%+v parallel=%+v (d=%v)",
				i, serial[i].Position, parallel[i].Position, d)
		}
	}
}

func TestSetConfigRejectsAndPreservesPriorState(t *testing.T) {
	e := New()
	cfg := DefaultConfig()
	if err := e.Init(cfg, makeParticles([]Vec3{{}})); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer e.Destroy()

	bad := cfg
	bad.SmoothingRadius = -1
	if err := e.SetConfig(bad); err != ErrInvalidSmoothingRadius {
		t.Fatalf("SetConfig with bad radius = %v, want ErrInvalidSmoothingRadius", err)
	}
	if e.Config().SmoothingRadius != cfg.SmoothingRadius {
		t.Fatalf("SetConfig mutated state despite rejecting: got %v", e.Config())
	}
}

package fluid

import (
	"math"

	"github.com/san-kum/sphfluid/internal/kernel"
)

const eps = 1e-6

// applyExternalForces integrates gravity into velocity and writes the
// predicted position used by the spatial index and the density pass.
func (e *Engine) applyExternalForces(start, end int, dt float64) {
	for i := start; i < end; i++ {
		p := &e.particles[i]
		p.Velocity.Y += e.config.Gravity * dt
		p.Predicted = p.Position.Add(p.Velocity.Scale(dt))
	}
}

// computeDensities accumulates density and near-density at each particle's
// predicted position by summing kernel contributions from its spatial-hash
// neighborhood.
func (e *Engine) computeDensities(start, end int) {
	h := e.config.SmoothingRadius
	for i := start; i < end; i++ {
		pi := e.particles[i].Predicted
		var density, nearDensity float64
		e.index.ForEachNeighbor(pi.X, pi.Y, pi.Z, func(j int) {
			pj := e.particles[j].Predicted
			d := distance(pi, pj)
			if d >= h {
				return
			}
			density += e.coeffs.DensityKernel(d, h)
			nearDensity += e.coeffs.NearDensityKernel(d, h)
		})
		e.particles[i].Density = math.Max(density, eps)
		e.particles[i].NearDensity = math.Max(nearDensity, eps)
	}
}

// computePressureForces applies the pressure and near-pressure gradient
// force from every neighbor, writing the resulting velocity change.
//
// The near-pressure term shared between a pair is derived from the
// neighbor's Density rather than its NearDensity — this asymmetry is
// intentional and reproduced verbatim from the reference model, not a bug.
func (e *Engine) computePressureForces(start, end int, dt float64) {
	h := e.config.SmoothingRadius
	for i := start; i < end; i++ {
		pi := e.particles[i].Predicted
		density := e.particles[i].Density
		nearDensity := e.particles[i].NearDensity
		pressure := kernel.PressureFromDensity(density, e.config.TargetDensity, e.config.PressureMultiplier)
		nearPressure := kernel.NearPressureFromDensity(nearDensity, e.config.NearPressureMultiplier)

		var force Vec3
		e.index.ForEachNeighbor(pi.X, pi.Y, pi.Z, func(j int) {
			if j == i {
				return
			}
			pj := e.particles[j].Predicted
			offset := pj.Sub(pi)
			d := math.Sqrt(offset.Dot(offset))
			if d >= h || d < eps {
				return
			}
			dir := offset.Scale(1.0 / d)

			neighborDensity := e.particles[j].Density
			neighborPressure := kernel.PressureFromDensity(neighborDensity, e.config.TargetDensity, e.config.PressureMultiplier)
			sharedPressure := (pressure + neighborPressure) / 2

			sharedNearPressure := (nearPressure + kernel.NearPressureFromDensity(neighborDensity, e.config.NearPressureMultiplier)) / 2

			slope := e.coeffs.DensityDerivative(d, h)
			nearSlope := e.coeffs.NearDensityDerivative(d, h)

			f := dir.Scale(sharedPressure * slope / math.Max(neighborDensity, eps))
			nf := dir.Scale(sharedNearPressure * nearSlope / math.Max(e.particles[j].NearDensity, eps))
			force = force.Add(f).Add(nf)
		})

		accel := force.Scale(1.0 / math.Max(density, eps))
		e.particles[i].Velocity = e.particles[i].Velocity.Add(accel.Scale(dt))
	}
}

// snapshotViscosityInput copies the pre-viscosity velocity into the scratch
// buffer the viscosity pass reads from, so that viscosity summation is not
// perturbed by velocities this same pass is still writing.
func (e *Engine) snapshotViscosityInput(start, end int) {
	for i := start; i < end; i++ {
		e.viscositySnapshot[i] = e.particles[i].Velocity
	}
}

// computeViscosity applies a poly6-weighted velocity-difference damping
// force between neighbors, reading from the pre-pass snapshot.
func (e *Engine) computeViscosity(start, end int) {
	if e.config.ViscosityStrength == 0 {
		return
	}
	h := e.config.SmoothingRadius
	for i := start; i < end; i++ {
		pi := e.particles[i].Predicted
		vi := e.viscositySnapshot[i]
		var accum Vec3
		e.index.ForEachNeighbor(pi.X, pi.Y, pi.Z, func(j int) {
			if j == i {
				return
			}
			pj := e.particles[j].Predicted
			d := distance(pi, pj)
			if d >= h {
				return
			}
			vj := e.viscositySnapshot[j]
			w := e.coeffs.Poly6Kernel(d, h)
			accum = accum.Add(vj.Sub(vi).Scale(w))
		})
		e.particles[i].Velocity = e.particles[i].Velocity.Add(accum.Scale(e.config.ViscosityStrength))
	}
}

// updatePositions integrates velocity into position and resolves boundary
// collisions against the configured box, axis by axis.
func (e *Engine) updatePositions(start, end int, dt float64) {
	b := e.config.Bounds
	damping := e.config.CollisionDamping
	for i := start; i < end; i++ {
		p := &e.particles[i]
		p.Position = p.Position.Add(p.Velocity.Scale(dt))
		resolveAxis(&p.Position.X, &p.Velocity.X, b.X, damping)
		resolveAxis(&p.Position.Y, &p.Velocity.Y, b.Y, damping)
		resolveAxis(&p.Position.Z, &p.Velocity.Z, b.Z, damping)
	}
}

func resolveAxis(pos, vel *float64, bound, damping float64) {
	if *pos > bound {
		*pos = bound
		*vel = -*vel * damping
	} else if *pos < -bound {
		*pos = -bound
		*vel = -*vel * damping
	}
}

func distance(a, b Vec3) float64 {
	d := a.Sub(b)
	return math.Sqrt(d.Dot(d))
}

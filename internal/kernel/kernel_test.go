package kernel

import "testing"

const h = 0.2

func TestKernelsVanishOutsideSupport(t *testing.T) {
	c := NewCoefficients(h)
	beyond := h + 1e-3
	if v := c.DensityKernel(beyond, h); v != 0 {
		t.Errorf("DensityKernel beyond support = %v, want 0", v)
	}
	if v := c.NearDensityKernel(beyond, h); v != 0 {
		t.Errorf("NearDensityKernel beyond support = %v, want 0", v)
	}
	if v := c.DensityDerivative(beyond, h); v != 0 {
		t.Errorf("DensityDerivative beyond support = %v, want 0", v)
	}
	if v := c.NearDensityDerivative(beyond, h); v != 0 {
		t.Errorf("NearDensityDerivative beyond support = %v, want 0", v)
	}
	if v := c.Poly6Kernel(beyond, h); v != 0 {
		t.Errorf("Poly6Kernel beyond support = %v, want 0", v)
	}
}

func TestKernelsPositiveWithinSupport(t *testing.T) {
	c := NewCoefficients(h)
	d := h / 2
	if v := c.DensityKernel(d, h); v <= 0 {
		t.Errorf("DensityKernel within support = %v, want > 0", v)
	}
	if v := c.NearDensityKernel(d, h); v <= 0 {
		t.Errorf("NearDensityKernel within support = %v, want > 0", v)
	}
	if v := c.Poly6Kernel(d, h); v <= 0 {
		t.Errorf("Poly6Kernel within support = %v, want > 0", v)
	}
}

func TestDerivativesAreNonPositive(t *testing.T) {
	c := NewCoefficients(h)
	for d := 0.0; d < h; d += h / 20 {
		if v := c.DensityDerivative(d, h); v > 0 {
			t.Errorf("DensityDerivative(%v) = %v, want <= 0", d, v)
		}
		if v := c.NearDensityDerivative(d, h); v > 0 {
			t.Errorf("NearDensityDerivative(%v) = %v, want <= 0", d, v)
		}
	}
}

func TestKernelMonotonicDecay(t *testing.T) {
	c := NewCoefficients(h)
	prev := c.DensityKernel(0, h)
	for d := h / 20; d < h; d += h / 20 {
		v := c.DensityKernel(d, h)
		if v > prev {
			t.Fatalf("DensityKernel not monotonically decaying at d=%v: %v > %v", d, v, prev)
		}
		prev = v
	}
}

func TestPressureFromDensity(t *testing.T) {
	if p := PressureFromDensity(1000, 1000, 30); p != 0 {
		t.Errorf("PressureFromDensity at target = %v, want 0", p)
	}
	if p := PressureFromDensity(1100, 1000, 30); p != 3000 {
		t.Errorf("PressureFromDensity(1100,1000,30) = %v, want 3000", p)
	}
}

func TestNearPressureFromDensity(t *testing.T) {
	if p := NearPressureFromDensity(0, 25); p != 0 {
		t.Errorf("NearPressureFromDensity(0,...) = %v, want 0", p)
	}
	if p := NearPressureFromDensity(2, 25); p != 50 {
		t.Errorf("NearPressureFromDensity(2,25) = %v, want 50", p)
	}
}

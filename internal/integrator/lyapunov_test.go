package integrator

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestLyapunovTrackerZeroForIdentityJacobian(t *testing.T) {
	lt := NewLyapunovTracker(3)
	identity := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		identity.Set(i, i, 1)
	}
	for i := 0; i < 10; i++ {
		lt.Advance(identity, 1.0)
	}
	for i, exp := range lt.Spectrum() {
		if math.Abs(exp) > 1e-9 {
			t.Fatalf("dimension %d: expected zero exponent under the identity map, got %v", i, exp)
		}
	}
}

func TestLyapunovTrackerPositiveForExpandingJacobian(t *testing.T) {
	lt := NewLyapunovTracker(2)
	stretch := mat.NewDense(2, 2, []float64{2, 0, 0, 0.5})
	for i := 0; i < 20; i++ {
		lt.Advance(stretch, 1.0)
	}
	spec := lt.Spectrum()
	if spec[0] <= 0 {
		t.Fatalf("expected a positive exponent for the expanding direction, got %v", spec[0])
	}
}

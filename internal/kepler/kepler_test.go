package kepler

import (
	"math"
	"testing"

	"github.com/asterodyne/apophis/internal/nbody"
)

func TestCartesianRoundTrip(t *testing.T) {
	mu := nbody.Sun.Mu
	el := Elements{A: 1.2, E: 0.3, I: 0.2, RAAN: 1.1, ArgPeri: 0.7, TrueAnom: 2.4}

	r, v := ToCartesian(el, mu)
	got := FromCartesian(r, v, mu)

	if math.Abs(got.A-el.A) > 1e-9 {
		t.Fatalf("A: got %v want %v", got.A, el.A)
	}
	if math.Abs(got.E-el.E) > 1e-9 {
		t.Fatalf("E: got %v want %v", got.E, el.E)
	}
	if math.Abs(got.I-el.I) > 1e-9 {
		t.Fatalf("I: got %v want %v", got.I, el.I)
	}
}

func TestPeriodPositiveForBoundOrbit(t *testing.T) {
	mu := nbody.Sun.Mu
	el := Elements{A: 0.922, E: 0.191, I: 0.0}
	p := Period(el, mu)
	if p <= 0 {
		t.Fatalf("expected a positive period, got %v", p)
	}
	// Apophis's real period is roughly 323.6 days; a semi-major axis of
	// 0.922 au around the Sun should land in the right ballpark.
	if p < 300 || p > 350 {
		t.Fatalf("period %v days outside the expected ballpark for a=0.922au", p)
	}
}

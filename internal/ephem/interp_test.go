package ephem

import (
	"math"
	"testing"

	"github.com/asterodyne/apophis/internal/ring"
	"github.com/asterodyne/apophis/internal/series"
)

func linear() *Interpolant {
	return &Interpolant{
		Epoch: 0,
		Knots: []float64{0, 1, 2},
		Pieces: []Piece{
			{Coeffs: []float64{0, 1}},  // s
			{Coeffs: []float64{1, 2}}, // 1 + 2s
		},
	}
}

func TestEvaluateWithinPiece(t *testing.T) {
	in := linear()
	v, err := Evaluate(in, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(v[0]-0.5) > 1e-14 {
		t.Fatalf("value = %f, want 0.5", v[0])
	}
	v, err = Evaluate(in, 1.5)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(v[0]-2.0) > 1e-14 {
		t.Fatalf("value = %f, want 2.0", v[0])
	}
}

func TestEvaluateOutOfDomain(t *testing.T) {
	in := linear()
	if _, err := Evaluate(in, -0.1); err == nil {
		t.Fatal("expected out-of-domain error")
	}
	if _, err := Evaluate(in, 2.1); err == nil {
		t.Fatal("expected out-of-domain error")
	}
	// Right endpoint of the last interval is valid.
	if _, err := Evaluate(in, 2.0); err != nil {
		t.Fatalf("right endpoint should be valid: %v", err)
	}
}

func TestEvaluateAtGenericOverSeriesRing(t *testing.T) {
	in := linear()
	r := ring.UTS{Order: 3}
	tSym := series.Var(3) // t itself, so evaluating near t=0.5 shifted
	tSym = series.Scale(tSym, 1)
	shifted, _ := series.Add(tSym, series.Const(3, 0.5))
	got, err := EvaluateAt[series.Series](in, r, shifted, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(series.Evaluate(got, 0)-0.5) > 1e-14 {
		t.Fatalf("value at symbolic center = %f, want 0.5", series.Evaluate(got, 0))
	}
	// The derivative coefficient (c_1) must equal the local slope of the
	// piece, since evaluating a series argument threads perturbations of
	// t through Horner's scheme exactly.
	if math.Abs(got.Coeff(1)-1.0) > 1e-12 {
		t.Fatalf("slope coefficient = %f, want 1.0", got.Coeff(1))
	}
}

func TestDifferentiate(t *testing.T) {
	in := linear()
	d := Differentiate(in)
	v, err := Evaluate(d, 1.5)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(v[0]-2.0) > 1e-14 {
		t.Fatalf("derivative value = %f, want 2.0", v[0])
	}
}

package ring

import (
	"math"
	"testing"

	"github.com/asterodyne/apophis/internal/series"
)

func TestUTSRingConstantTermTracksDouble(t *testing.T) {
	r := UTS{Order: 6}
	a := r.Embed(3.0)
	b := r.Embed(4.0)
	sum := r.Add(a, b)
	if math.Abs(series.Evaluate(sum, 0)-7.0) > 1e-14 {
		t.Fatalf("sum at t=0 = %f, want 7", series.Evaluate(sum, 0))
	}
	prod := r.Mul(a, b)
	if math.Abs(series.Evaluate(prod, 0)-12.0) > 1e-14 {
		t.Fatalf("prod at t=0 = %f, want 12", series.Evaluate(prod, 0))
	}
	root, err := r.Sqrt(r.Embed(9.0))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(series.Evaluate(root, 0)-3.0) > 1e-13 {
		t.Fatalf("sqrt(9) at t=0 = %f, want 3", series.Evaluate(root, 0))
	}
}

func TestDoubleRingMatchesUTSAtZero(t *testing.T) {
	d := Double{}
	r := UTS{Order: 4}
	x, y := 2.3, -1.7
	got := series.Evaluate(r.Mul(r.Embed(x), r.Embed(y)), 0)
	want := d.Mul(x, y)
	if math.Abs(got-want) > 1e-14 {
		t.Fatalf("UTS ring mul at t=0 = %f, double ring = %f", got, want)
	}
}

// Package ephem implements the piecewise-polynomial ephemeris interpolant
// (component C of the design): a time series of Taylor pieces, each valid
// over a half-open knot interval, evaluated generically over whatever ring
// the caller's local-time argument lives in -- a plain double for
// bootstrapping, a Taylor series when the evaluation point is itself the
// symbolic time of an in-progress integration step.
package ephem

import (
	"fmt"
	"sort"

	"github.com/asterodyne/apophis/internal/ring"
)

// Piece is a single polynomial segment, coefficients always in double
// (the ephemeris file's native precision) regardless of the ring the
// caller evaluates it in.
type Piece struct {
	Coeffs []float64 // c_0 + c_1*s + ... + c_Q*s^Q, s = t - knot start
}

// Interpolant is a piecewise-polynomial time series over knots t_0 < t_1
// < ... < t_n. Piece j covers [t_j, t_{j+1}) for j<n, and the last knot is
// the right-hand boundary of validity, evaluable as a closed endpoint.
type Interpolant struct {
	Epoch  float64 // t0, start of the fitted span; knots are absolute times and Epoch is not subtracted during evaluation
	Knots  []float64
	Pieces []Piece // len(Pieces) == len(Knots)-1
}

// ErrOutOfDomain is returned when the query time falls outside the knot
// range.
type ErrOutOfDomain struct {
	T          float64
	Lo, Hi     float64
}

func (e *ErrOutOfDomain) Error() string {
	return fmt.Sprintf("ephem: t=%g outside domain [%g, %g]", e.T, e.Lo, e.Hi)
}

func (in *Interpolant) locate(t float64) (int, error) {
	lo, hi := in.Knots[0], in.Knots[len(in.Knots)-1]
	if t < lo || t > hi {
		return 0, &ErrOutOfDomain{T: t, Lo: lo, Hi: hi}
	}
	// Binary search for the rightmost knot <= t; clamp the right endpoint
	// into the last interval.
	idx := sort.Search(len(in.Knots), func(i int) bool { return in.Knots[i] > t }) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(in.Pieces) {
		idx = len(in.Pieces) - 1
	}
	return idx, nil
}

// Evaluate returns the interpolated value at the plain-double time t, as a
// one-element slice (see EvaluateAt for the ring-generic entry point used
// inside the integrator).
func Evaluate(in *Interpolant, t float64) ([]float64, error) {
	idx, err := in.locate(t)
	if err != nil {
		return nil, err
	}
	s := t - in.Knots[idx]
	p := in.Pieces[idx]
	acc := 0.0
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		acc = acc*s + p.Coeffs[i]
	}
	return []float64{acc}, nil
}

// EvaluateAt substitutes a possibly-symbolic local time s = tSymbolic -
// knotStart into piece j's double-coefficient polynomial using Horner's
// scheme built from the ring R's own Add/Mul/Embed, so a UTS or jet
// argument comes back capturing exactly how a perturbation of the
// evaluation time propagates into the ephemeris value -- the generic
// contract component C's design requires.
func EvaluateAt[T any](in *Interpolant, r ring.Ring[T], tSymbolic T, tSymbolicDouble float64) (T, error) {
	idx, err := in.locate(tSymbolicDouble)
	if err != nil {
		var zero T
		return zero, err
	}
	knotStart := in.Knots[idx]
	s := r.Sub(tSymbolic, r.Embed(knotStart))
	p := in.Pieces[idx]
	acc := r.Embed(0)
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		acc = r.Add(r.Embed(p.Coeffs[i]), r.Mul(acc, s))
	}
	return acc, nil
}

// Differentiate returns a new interpolant whose piece polynomials are the
// term-wise derivatives of in's -- used to turn a position interpolant
// into a velocity or acceleration interpolant without re-fitting.
func Differentiate(in *Interpolant) *Interpolant {
	out := &Interpolant{Epoch: in.Epoch, Knots: append([]float64(nil), in.Knots...)}
	out.Pieces = make([]Piece, len(in.Pieces))
	for j, p := range in.Pieces {
		if len(p.Coeffs) <= 1 {
			out.Pieces[j] = Piece{Coeffs: []float64{0}}
			continue
		}
		d := make([]float64, len(p.Coeffs)-1)
		for i := 1; i < len(p.Coeffs); i++ {
			d[i-1] = float64(i) * p.Coeffs[i]
		}
		out.Pieces[j] = Piece{Coeffs: d}
	}
	return out
}

// Validate checks the strictly-increasing-knots invariant.
func (in *Interpolant) Validate() error {
	if len(in.Knots) < 2 {
		return fmt.Errorf("ephem: need at least 2 knots, got %d", len(in.Knots))
	}
	if len(in.Pieces) != len(in.Knots)-1 {
		return fmt.Errorf("ephem: expected %d pieces, got %d", len(in.Knots)-1, len(in.Pieces))
	}
	for i := 1; i < len(in.Knots); i++ {
		if in.Knots[i] <= in.Knots[i-1] {
			return fmt.Errorf("ephem: knots not strictly increasing at index %d (%g <= %g)", i, in.Knots[i], in.Knots[i-1])
		}
	}
	return nil
}

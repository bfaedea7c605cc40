package ephem

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// FitPiece finds the unique degree-(n-1) polynomial passing exactly
// through the n samples (t_i, v_i), t measured relative to t0, by solving
// the Vandermonde system directly -- exact interpolation rather than a
// least-squares fit, adequate since the sampler (an analytic ephemeris
// theory) is smooth and can be queried at exactly the node count needed.
func FitPiece(t0 float64, sampleTimes, sampleValues []float64) (Piece, error) {
	n := len(sampleTimes)
	if n != len(sampleValues) {
		return Piece{}, fmt.Errorf("ephem: fit: %d sample times but %d values", n, len(sampleValues))
	}
	a := mat.NewDense(n, n, nil)
	for i, t := range sampleTimes {
		s := t - t0
		p := 1.0
		for j := 0; j < n; j++ {
			a.Set(i, j, p)
			p *= s
		}
	}
	b := mat.NewVecDense(n, append([]float64(nil), sampleValues...))
	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return Piece{}, fmt.Errorf("ephem: fit: %w", err)
	}
	coeffs := make([]float64, n)
	for i := range coeffs {
		coeffs[i] = x.AtVec(i)
	}
	return Piece{Coeffs: coeffs}, nil
}

// FitScalar builds an Interpolant for a scalar function sampled at
// nodesPerPiece equally spaced points across every [knots[j], knots[j+1]]
// interval, both knots included.
func FitScalar(knots []float64, nodesPerPiece int, f func(t float64) float64) (*Interpolant, error) {
	if len(knots) < 2 {
		return nil, fmt.Errorf("ephem: fit: need at least 2 knots")
	}
	pieces := make([]Piece, len(knots)-1)
	for j := 0; j < len(knots)-1; j++ {
		t0, t1 := knots[j], knots[j+1]
		times := make([]float64, nodesPerPiece)
		values := make([]float64, nodesPerPiece)
		for i := 0; i < nodesPerPiece; i++ {
			t := t0 + (t1-t0)*float64(i)/float64(nodesPerPiece-1)
			times[i] = t
			values[i] = f(t)
		}
		piece, err := FitPiece(t0, times, values)
		if err != nil {
			return nil, err
		}
		pieces[j] = piece
	}
	in := &Interpolant{Epoch: knots[0], Knots: append([]float64(nil), knots...), Pieces: pieces}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return in, nil
}

// FitVector builds a Vector (three scalar Interpolants) for a
// vector-valued function.
func FitVector(knots []float64, nodesPerPiece int, f func(t float64) [3]float64) (Vector, error) {
	x, err := FitScalar(knots, nodesPerPiece, func(t float64) float64 { return f(t)[0] })
	if err != nil {
		return Vector{}, err
	}
	y, err := FitScalar(knots, nodesPerPiece, func(t float64) float64 { return f(t)[1] })
	if err != nil {
		return Vector{}, err
	}
	z, err := FitScalar(knots, nodesPerPiece, func(t float64) float64 { return f(t)[2] })
	if err != nil {
		return Vector{}, err
	}
	return Vector{X: x, Y: y, Z: z}, nil
}

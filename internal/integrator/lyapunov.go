package integrator

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/asterodyne/apophis/internal/jet"
	"github.com/asterodyne/apophis/internal/taylor"
)

// LyapunovTracker estimates the Lyapunov spectrum of a trajectory with
// the Benettin algorithm: propagate a basis of the K-dimensional
// perturbation space alongside the trajectory using the jet-transport
// state's own linear sensitivities as the step Jacobian, periodically
// re-orthonormalize with a QR decomposition, and accumulate the log of
// the diagonal stretch factors. Grounded on the teacher's state-plus-STM
// propagation pattern, but the Jacobian here comes for free from the
// jet-transport coefficients rather than from a hand-derived analytic
// partial-derivative matrix.
type LyapunovTracker struct {
	k       int
	logSum  []float64
	elapsed float64
	q       *mat.Dense // current orthonormal basis, k x k
}

// NewLyapunovTracker starts tracking with the identity basis over k
// perturbed dimensions.
func NewLyapunovTracker(k int) *LyapunovTracker {
	q := mat.NewDense(k, k, nil)
	for i := 0; i < k; i++ {
		q.Set(i, i, 1)
	}
	return &LyapunovTracker{k: k, logSum: make([]float64, k), q: q}
}

// Advance folds in one step's Jacobian, re-orthonormalizes, and
// accumulates the log-stretch of each basis direction.
func (lt *LyapunovTracker) Advance(jac *mat.Dense, h float64) {
	var product mat.Dense
	product.Mul(jac, lt.q)

	var qr mat.QR
	qr.Factorize(&product)
	var q, r mat.Dense
	qr.QTo(&q)
	qr.RTo(&r)

	for i := 0; i < lt.k; i++ {
		d := math.Abs(r.At(i, i))
		if d > 0 {
			lt.logSum[i] += math.Log(d)
		}
	}
	lt.elapsed += h
	lt.q = &q
}

// Spectrum returns the current Lyapunov exponent estimate for each
// perturbed dimension, in units of 1/day.
func (lt *LyapunovTracker) Spectrum() []float64 {
	out := make([]float64, lt.k)
	if lt.elapsed == 0 {
		return out
	}
	for i := range out {
		out[i] = lt.logSum[i] / lt.elapsed
	}
	return out
}

// JacobianFromJet extracts the K x K linear-sensitivity matrix of the
// propagated state (position, velocity, and the Yarkovsky and
// radiation-pressure parameters, all K jet-transport components) with
// respect to the K perturbed parameters, from a jet-transport step's
// coefficients evaluated at local time h: row i is state component i,
// column j is d(component i)/d(delta_j) after undoing the per-variable
// scale factor baked into the MTS variable construction. Rows 6 and 7
// (Yark, Beta) come out at the identity since RHS treats both as
// constants of motion, but still need populating explicitly or the
// flow-map Jacobian is rank-deficient in those two directions.
func JacobianFromJet(c taylor.JetCoefficients, h float64, k int, scale []float64) *mat.Dense {
	jac := mat.NewDense(k, k, nil)
	comps := [8]jet.MTS{
		jet.EvaluateAt(c.Pos[0], h), jet.EvaluateAt(c.Pos[1], h), jet.EvaluateAt(c.Pos[2], h),
		jet.EvaluateAt(c.Vel[0], h), jet.EvaluateAt(c.Vel[1], h), jet.EvaluateAt(c.Vel[2], h),
		jet.EvaluateAt(c.Yark, h), jet.EvaluateAt(c.Beta, h),
	}
	for row := 0; row < k && row < len(comps); row++ {
		for col := 0; col < k; col++ {
			v := comps[row].LinearCoeff(col)
			if scale[col] != 0 {
				v /= scale[col]
			}
			jac.Set(row, col, v)
		}
	}
	return jac
}

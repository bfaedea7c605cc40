package ring

import (
	"errors"
	"math"

	"github.com/asterodyne/apophis/internal/jet"
)

var errSqrtDomain = errors.New("ring/jetseries: sqrt of series with non-positive constant term")

func sqrtFloat(v float64) float64 { return math.Sqrt(v) }

func jetSeriesFrom(c []jet.MTS) jet.Series { return jet.SeriesFromMTSCoeffs(c) }

// JetSeries is the Ring[jet.Series] instantiation: the jet-transport
// algebra, UTS over MTS. K and M and the per-variable scale factors are
// fixed for the lifetime of an integration.
type JetSeries struct {
	Order        int
	K, M         int
	PerturbScale []float64
}

func (r JetSeries) shape() (int, int, []float64) { return r.K, r.M, r.PerturbScale }

func (r JetSeries) Zero() jet.Series {
	k, m, s := r.shape()
	return jet.Const(r.Order, k, m, s, 0)
}
func (r JetSeries) One() jet.Series {
	k, m, s := r.shape()
	return jet.Const(r.Order, k, m, s, 1)
}
func (r JetSeries) Embed(v float64) jet.Series {
	k, m, s := r.shape()
	return jet.Const(r.Order, k, m, s, v)
}
func (r JetSeries) Add(a, b jet.Series) jet.Series {
	v, err := jet.Add(a, b)
	if err != nil {
		panic(err)
	}
	return v
}
func (r JetSeries) Sub(a, b jet.Series) jet.Series {
	v, err := jet.Sub(a, b)
	if err != nil {
		panic(err)
	}
	return v
}
func (r JetSeries) Neg(a jet.Series) jet.Series { return jet.Neg(a) }
func (r JetSeries) Mul(a, b jet.Series) jet.Series {
	v, err := jet.Mul(a, b)
	if err != nil {
		panic(err)
	}
	return v
}
func (r JetSeries) Scale(a jet.Series, k float64) jet.Series { return jet.ScaleBy(a, k) }
func (r JetSeries) IsFinite(a jet.Series) bool {
	for i := 0; i <= a.Order(); i++ {
		for _, c := range a.Coeff(i).Coefficients() {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return false
			}
		}
	}
	return true
}

func (r JetSeries) Div(a, b jet.Series) (jet.Series, error) { return jet.Div(a, b) }

func (r JetSeries) Recip(a jet.Series) (jet.Series, error) {
	return jet.Div(r.One(), a)
}

func (r JetSeries) Sqrt(a jet.Series) (jet.Series, error) {
	// h = sqrt(a) via the same recursion series.Sqrt uses, one coefficient
	// at a time, but with MTS arithmetic: h_0 = sqrt(a_0) (Newton in the
	// MTS ring since sqrt has no closed constant-term formula there when
	// a_0 itself carries perturbation dependence beyond its constant
	// term -- but a_0's *constant* MTS term is what seeds the recursion,
	// matching the scalar contract that h_0 != 0).
	n := a.Order()
	h := make([]jet.MTS, n+1)
	c0 := a.Coeff(0)
	if c0.ConstantTerm() <= 0 {
		return jet.Series{}, errSqrtDomain
	}
	h0, err := mtsSqrtConst(c0)
	if err != nil {
		return jet.Series{}, err
	}
	h[0] = h0
	inv2h0, err := jet.MTSInvertConst(jet.Scal(h0, 2))
	if err != nil {
		return jet.Series{}, err
	}
	for kk := 1; kk <= n; kk++ {
		sum := jet.NewConst(h0.K(), h0.M(), h0.Scale(), 0)
		for j := 1; j < kk; j++ {
			term, err := jet.MTSMul(h[j], h[kk-j])
			if err != nil {
				return jet.Series{}, err
			}
			sum, _ = jet.MTSAdd(sum, term)
		}
		diff, err := jet.MTSSub(a.Coeff(kk), sum)
		if err != nil {
			return jet.Series{}, err
		}
		h[kk], err = jet.MTSMul(diff, inv2h0)
		if err != nil {
			return jet.Series{}, err
		}
	}
	return jetSeriesFrom(h), nil
}

// mtsSqrtConst computes the square root of an MTS whose constant term is
// positive, via Newton iteration in the MTS ring (same nilpotent-ideal
// argument as jet.MTSInvertConst).
func mtsSqrtConst(a jet.MTS) (jet.MTS, error) {
	c0 := a.ConstantTerm()
	h := jet.NewConst(a.K(), a.M(), a.Scale(), sqrtFloat(c0))
	for iter := 0; iter < a.M()+1; iter++ {
		hInv, err := jet.MTSInvertConst(h)
		if err != nil {
			return jet.MTS{}, err
		}
		quot, err := jet.MTSMul(a, hInv)
		if err != nil {
			return jet.MTS{}, err
		}
		sum, err := jet.MTSAdd(h, quot)
		if err != nil {
			return jet.MTS{}, err
		}
		h = jet.Scal(sum, 0.5)
	}
	return h, nil
}

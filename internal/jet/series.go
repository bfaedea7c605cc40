package jet

import "fmt"

// Series is a truncated univariate power series whose coefficients are
// themselves MTS elements: the jet-transport algebra proper, UTS-over-MTS.
// It mirrors internal/series.Series coefficient-by-coefficient but every
// scalar operation on float64 becomes an MTS operation, so a right-hand
// side written against the generic ring in internal/ring gets jet
// transport "for free" once it is instantiated with this type.
type Series struct {
	c []MTS // len(c) == order+1
}

// Order returns the UTS truncation order N.
func (s Series) Order() int { return len(s.c) - 1 }

// Coeff returns c_i.
func (s Series) Coeff(i int) MTS { return s.c[i] }

// ConstFromMTS returns the order-N jet series whose constant coefficient
// is m and whose higher coefficients are zero (used to embed a plain
// double into the jet algebra).
func ConstFromMTS(order int, m MTS) Series {
	c := make([]MTS, order+1)
	c[0] = m
	zero := NewConst(m.K(), m.M(), m.Scale(), 0)
	for i := 1; i <= order; i++ {
		c[i] = zero
	}
	return Series{c}
}

// SeriesFromMTSCoeffs builds a jet Series directly from its MTS
// coefficients, in order 0..N. Used by ring.JetSeries when a recursion
// (e.g. Sqrt) computes each coefficient individually.
func SeriesFromMTSCoeffs(c []MTS) Series {
	out := make([]MTS, len(c))
	copy(out, c)
	return Series{out}
}

// Const returns the order-N jet series equal to the plain double v, using
// the given MTS shape (K, M, scale) to build the zero coefficients.
func Const(order, k, m int, scale []float64, v float64) Series {
	return ConstFromMTS(order, NewConst(k, m, scale, v))
}

// Var returns the order-N jet series representing the independent
// (integration-time) variable: (0, 1, 0, ..., 0) with MTS-constant entries.
func Var(order, k, m int, scale []float64) Series {
	s := Const(order, k, m, scale, 0)
	if order >= 1 {
		s.c[1] = NewConst(k, m, scale, 1)
	}
	return s
}

func (s Series) clone() Series {
	c := make([]MTS, len(s.c))
	copy(c, s.c)
	return Series{c}
}

func checkOrder(a, b Series) error {
	if a.Order() != b.Order() {
		return fmt.Errorf("jet: mismatched orders %d and %d", a.Order(), b.Order())
	}
	return nil
}

// Add returns a+b coefficient-wise.
func Add(a, b Series) (Series, error) {
	if err := checkOrder(a, b); err != nil {
		return Series{}, err
	}
	out := make([]MTS, len(a.c))
	for i := range out {
		v, err := MTSAdd(a.c[i], b.c[i])
		if err != nil {
			return Series{}, err
		}
		out[i] = v
	}
	return Series{out}, nil
}

// Sub returns a-b coefficient-wise.
func Sub(a, b Series) (Series, error) {
	if err := checkOrder(a, b); err != nil {
		return Series{}, err
	}
	out := make([]MTS, len(a.c))
	for i := range out {
		v, err := MTSSub(a.c[i], b.c[i])
		if err != nil {
			return Series{}, err
		}
		out[i] = v
	}
	return Series{out}, nil
}

// Neg returns -a.
func Neg(a Series) Series {
	out := make([]MTS, len(a.c))
	for i, v := range a.c {
		out[i] = mtsNeg(v)
	}
	return Series{out}
}

// ScaleBy multiplies every coefficient by the plain scalar k.
func ScaleBy(a Series, k float64) Series {
	out := make([]MTS, len(a.c))
	for i, v := range a.c {
		out[i] = Scal(v, k)
	}
	return Series{out}
}

// Mul returns the Cauchy product a*b, each term multiplied in the MTS ring.
func Mul(a, b Series) (Series, error) {
	if err := checkOrder(a, b); err != nil {
		return Series{}, err
	}
	n := a.Order()
	out := make([]MTS, n+1)
	for kk := 0; kk <= n; kk++ {
		sum := NewConst(a.c[0].K(), a.c[0].M(), a.c[0].Scale(), 0)
		for j := 0; j <= kk; j++ {
			term, err := MTSMul(a.c[j], b.c[kk-j])
			if err != nil {
				return Series{}, err
			}
			sum, _ = MTSAdd(sum, term)
		}
		out[kk] = sum
	}
	return Series{out}, nil
}

// Div returns a/b; requires b's constant coefficient's constant MTS term
// to be nonzero, mirroring the scalar series division contract.
func Div(a, b Series) (Series, error) {
	if err := checkOrder(a, b); err != nil {
		return Series{}, err
	}
	if b.c[0].ConstantTerm() == 0 {
		return Series{}, fmt.Errorf("jet: division by series with zero constant term")
	}
	n := a.Order()
	out := make([]MTS, n+1)
	inv0, err := MTSInvertConst(b.c[0])
	if err != nil {
		return Series{}, err
	}
	for kk := 0; kk <= n; kk++ {
		sum := a.c[kk]
		for j := 0; j < kk; j++ {
			term, err := MTSMul(b.c[kk-j], out[j])
			if err != nil {
				return Series{}, err
			}
			sum, _ = MTSSub(sum, term)
		}
		out[kk], _ = MTSMul(sum, inv0)
	}
	return Series{out}, nil
}

// Differentiate w.r.t. the independent (time) variable.
func Differentiate(s Series) Series {
	n := s.Order()
	out := make([]MTS, n+1)
	for i := 0; i < n; i++ {
		out[i] = Scal(s.c[i+1], float64(i+1))
	}
	out[n] = NewConst(s.c[0].K(), s.c[0].M(), s.c[0].Scale(), 0)
	return Series{out}
}

// Integrate returns the antiderivative with constant-of-integration c0.
func Integrate(s Series, c0 MTS) Series {
	n := s.Order()
	out := make([]MTS, n+1)
	out[0] = c0
	for i := 0; i < n; i++ {
		out[i+1] = Scal(s.c[i], 1/float64(i+1))
	}
	return Series{out}
}

// EvaluateAt sums the series at a plain local time h via Horner's scheme,
// collapsing the time-truncated jet series down to a single MTS: the
// state's remaining dependence on the K perturbed parameters at that
// instant.
func EvaluateAt(s Series, h float64) MTS {
	acc := s.c[s.Order()]
	for i := s.Order() - 1; i >= 0; i-- {
		acc = Scal(acc, h)
		acc, _ = mtsAdd(acc, s.c[i])
	}
	return acc
}

// EvaluateAtZero returns the value of the series at t=0 with delta=0: the
// plain double this jet reduces to when both the time step and the
// perturbation vanish.
func (s Series) EvaluateAtZero() float64 {
	return s.c[0].ConstantTerm()
}

// MTSAdd, MTSSub, and MTSMul expose the MTS-level ring operators under
// names distinct from Series' own Add/Sub/Mul, since Go has no
// overloading and both algebras need a package-level Add/Sub/Mul.
func MTSAdd(a, b MTS) (MTS, error) { return mtsAdd(a, b) }
func MTSSub(a, b MTS) (MTS, error) { return mtsSub(a, b) }
func MTSMul(a, b MTS) (MTS, error) { return mtsMul(a, b) }

// MTSInvertConst inverts an MTS whose constant term is nonzero. It is
// used for series-level leading coefficients, which in the jet-transport
// algebra are MTS values standing in for a single scalar during a UTS
// division step. It solves h*a=1 by Newton iteration, h <- h*(2 - a*h),
// starting from h = 1/a_0 and reusing MTS multiplication.
func MTSInvertConst(a MTS) (MTS, error) {
	if a.ConstantTerm() == 0 {
		return MTS{}, fmt.Errorf("jet: cannot invert MTS with zero constant term")
	}
	h := NewConst(a.K(), a.M(), a.Scale(), 1/a.ConstantTerm())
	// The error a*h - 1 has no constant term, so it is nilpotent in the
	// graded ideal of positive-degree monomials; M+1 Newton iterations
	// therefore make h exact up to total degree M.
	for iter := 0; iter < a.M()+1; iter++ {
		prod, err := mtsMul(a, h)
		if err != nil {
			return MTS{}, err
		}
		two := NewConst(a.K(), a.M(), a.Scale(), 2)
		corr, err := mtsSub(two, prod)
		if err != nil {
			return MTS{}, err
		}
		h, err = mtsMul(h, corr)
		if err != nil {
			return MTS{}, err
		}
	}
	return h, nil
}

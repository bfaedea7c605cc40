package series

import "math"

// Sqrt implements the standard recursion
// h_n = (1/(2 h_0)) * (f_n - sum_{k=1}^{n-1} h_k h_{n-k}), requiring h_0 != 0.
func Sqrt(f Series) (Series, error) {
	if f.c[0] <= 0 {
		return Series{}, &AlgebraError{Op: "sqrt", Msg: "constant term is not positive"}
	}
	n := f.Order()
	h := make([]float64, n+1)
	h[0] = math.Sqrt(f.c[0])
	inv2h0 := 1 / (2 * h[0])
	for k := 1; k <= n; k++ {
		var sum float64
		for j := 1; j < k; j++ {
			sum += h[j] * h[k-j]
		}
		h[k] = (f.c[k] - sum) * inv2h0
	}
	return Series{h}, nil
}

// Exp implements h_n = (1/n) sum_{k=0}^{n-1} (n-k) f_{n-k} h_k for h=exp(f).
func Exp(f Series) Series {
	n := f.Order()
	h := make([]float64, n+1)
	h[0] = math.Exp(f.c[0])
	for k := 1; k <= n; k++ {
		var sum float64
		for j := 0; j < k; j++ {
			sum += float64(k-j) * f.c[k-j] * h[j]
		}
		h[k] = sum / float64(k)
	}
	return Series{h}
}

// Log implements the recursion inverse to Exp:
// h_n = (1/f_0) * (f_n - (1/n) sum_{k=1}^{n-1} k h_k f_{n-k}).
func Log(f Series) (Series, error) {
	if f.c[0] <= 0 {
		return Series{}, &AlgebraError{Op: "log", Msg: "constant term is not positive"}
	}
	n := f.Order()
	h := make([]float64, n+1)
	h[0] = math.Log(f.c[0])
	for k := 1; k <= n; k++ {
		var sum float64
		for j := 1; j < k; j++ {
			sum += float64(j) * h[j] * f.c[k-j]
		}
		h[k] = (f.c[k] - sum/float64(k)) / f.c[0]
	}
	return Series{h}, nil
}

// SinCos returns (sin(f), cos(f)) computed together, since the standard
// recursion for one needs the other's coefficients at the same order.
func SinCos(f Series) (sinF, cosF Series) {
	n := f.Order()
	fp := Differentiate(f)
	s := make([]float64, n+1)
	c := make([]float64, n+1)
	s[0] = math.Sin(f.c[0])
	c[0] = math.Cos(f.c[0])
	for k := 1; k <= n; k++ {
		var sumS, sumC float64
		for j := 0; j < k; j++ {
			sumS += float64(k-j) * f.c[k-j] * c[j]
			sumC += float64(k-j) * f.c[k-j] * s[j]
		}
		s[k] = sumS / float64(k)
		c[k] = -sumC / float64(k)
	}
	_ = fp // derivative not needed directly; recursion is self-contained
	return Series{s}, Series{c}
}

// Sin returns sin(f).
func Sin(f Series) Series { s, _ := SinCos(f); return s }

// Cos returns cos(f).
func Cos(f Series) Series { _, c := SinCos(f); return c }

// Atan implements h=atan(f) via (1+f^2) h' = f', i.e.
// n*(1+f_0^2)*h_n = f'_{n-1} - sum_{k=1}^{n-1} k*h_k*(f*f)_{n-k}, with
// h_0=atan(f_0).
func Atan(f Series) Series {
	n := f.Order()
	f2, _ := Mul(f, f)
	one := Const(n, 1)
	denom, _ := Add(one, f2)
	fp := Differentiate(f)
	h := make([]float64, n+1)
	h[0] = math.Atan(f.c[0])
	for k := 1; k <= n; k++ {
		rhs := fp.c[k-1]
		for j := 1; j < k; j++ {
			rhs -= float64(j) * h[j] * denom.c[k-j]
		}
		h[k] = rhs / (float64(k) * denom.c[0])
	}
	return Series{h}
}

// PowInt raises f to a non-negative integer power by repeated squaring.
func PowInt(f Series, n int) (Series, error) {
	if n < 0 {
		return Series{}, &AlgebraError{Op: "pow", Msg: "negative integer exponent requires division"}
	}
	result := Const(f.Order(), 1)
	base := f
	for n > 0 {
		if n&1 == 1 {
			var err error
			result, err = Mul(result, base)
			if err != nil {
				return Series{}, err
			}
		}
		var err error
		base, err = Mul(base, base)
		if err != nil {
			return Series{}, err
		}
		n >>= 1
	}
	return result, nil
}

// Pow raises f to a real power p. Non-negative integer exponents use
// repeated squaring; anything else reduces to exp(p*log(f)).
func Pow(f Series, p float64) (Series, error) {
	if p == math.Trunc(p) && p >= 0 {
		return PowInt(f, int(p))
	}
	lg, err := Log(f)
	if err != nil {
		return Series{}, err
	}
	return Exp(Scale(lg, p)), nil
}

// AlgebraError reports a violation of the series algebra's contract:
// order mismatch, invalid composition, or an elementary function applied
// outside its domain.
type AlgebraError struct {
	Op  string
	Msg string
}

func (e *AlgebraError) Error() string {
	return "series: " + e.Op + ": " + e.Msg
}

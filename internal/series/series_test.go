package series

import (
	"math"
	"testing"
)

func TestConstSquareRoot(t *testing.T) {
	c := Const(6, 3.0)
	sq, err := Mul(c, c)
	if err != nil {
		t.Fatal(err)
	}
	if sq.Coeff(0) != 9.0 {
		t.Fatalf("c*c constant term = %f, want 9", sq.Coeff(0))
	}
	root, err := Sqrt(sq)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(root.Coeff(0)-3.0) > 1e-13 {
		t.Fatalf("sqrt(c^2) = %f, want 3", root.Coeff(0))
	}
	for i := 1; i <= root.Order(); i++ {
		if root.Coeff(i) != 0 {
			t.Fatalf("sqrt(c^2) coefficient %d = %f, want 0", i, root.Coeff(i))
		}
	}
}

func TestIntegrateShiftsCoefficients(t *testing.T) {
	f := FromCoeffs(8, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	F := Integrate(f, 0)
	for k := 1; k <= f.Order(); k++ {
		want := f.Coeff(k-1) / float64(k)
		if math.Abs(F.Coeff(k)-want) > 1e-14 {
			t.Fatalf("coefficient %d of integral = %f, want %f", k, F.Coeff(k), want)
		}
	}
}

func TestDivisionByZeroConstantErrors(t *testing.T) {
	a := Const(4, 1.0)
	b := Zero(4)
	if _, err := Div(a, b); err == nil {
		t.Fatal("expected AlgebraError dividing by series with zero constant term")
	}
}

func TestComposeRejectsNonZeroInnerConstant(t *testing.T) {
	f := Var(4)
	g := Const(4, 1.0)
	if _, err := Compose(f, g); err == nil {
		t.Fatal("expected AlgebraError composing with non-zero inner constant")
	}
}

func TestMismatchedOrdersRejected(t *testing.T) {
	a := Const(4, 1.0)
	b := Const(5, 1.0)
	if _, err := Add(a, b); err == nil {
		t.Fatal("expected AlgebraError for mismatched orders")
	}
}

func TestExpLogRoundTrip(t *testing.T) {
	f := FromCoeffs(10, []float64{1.5, 0.3, -0.1, 0.05, 0.01})
	e := Exp(f)
	back, err := Log(e)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i <= f.Order(); i++ {
		if math.Abs(back.Coeff(i)-f.Coeff(i)) > 1e-9 {
			t.Fatalf("log(exp(f)) coefficient %d = %f, want %f", i, back.Coeff(i), f.Coeff(i))
		}
	}
}

func TestSinCosPythagorean(t *testing.T) {
	f := FromCoeffs(12, []float64{0.4, 1.0, -0.2, 0.03})
	s, c := SinCos(f)
	s2, _ := Mul(s, s)
	c2, _ := Mul(c, c)
	sum, _ := Add(s2, c2)
	for i := 0; i <= sum.Order(); i++ {
		want := 0.0
		if i == 0 {
			want = 1.0
		}
		if math.Abs(sum.Coeff(i)-want) > 1e-9 {
			t.Fatalf("sin^2+cos^2 coefficient %d = %f, want %f", i, sum.Coeff(i), want)
		}
	}
}

func TestEvaluateHorner(t *testing.T) {
	f := FromCoeffs(3, []float64{1, 2, 3, 4}) // 1 + 2t + 3t^2 + 4t^3
	got := Evaluate(f, 2.0)
	want := 1 + 2*2.0 + 3*4.0 + 4*8.0
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("Evaluate = %f, want %f", got, want)
	}
}

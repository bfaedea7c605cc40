package ring

import (
	"fmt"
	"math"
)

// Double is the Ring[float64] instantiation: the plain-double right-hand
// side, used for regression against the series-valued integrator (see
// testable property 5, bit-for-bit agreement at jet delta=0).
type Double struct{}

func (Double) Zero() float64      { return 0 }
func (Double) One() float64       { return 1 }
func (Double) Embed(v float64) float64 { return v }
func (Double) Add(a, b float64) float64 { return a + b }
func (Double) Sub(a, b float64) float64 { return a - b }
func (Double) Neg(a float64) float64    { return -a }
func (Double) Mul(a, b float64) float64 { return a * b }
func (Double) Scale(a float64, k float64) float64 { return a * k }
func (Double) IsFinite(a float64) bool  { return !math.IsNaN(a) && !math.IsInf(a, 0) }

func (Double) Div(a, b float64) (float64, error) {
	if b == 0 {
		return 0, fmt.Errorf("ring/double: division by zero")
	}
	return a / b, nil
}

func (Double) Recip(a float64) (float64, error) {
	if a == 0 {
		return 0, fmt.Errorf("ring/double: reciprocal of zero")
	}
	return 1 / a, nil
}

func (Double) Sqrt(a float64) (float64, error) {
	if a < 0 {
		return 0, fmt.Errorf("ring/double: sqrt of negative value")
	}
	return math.Sqrt(a), nil
}

package ring

import "github.com/asterodyne/apophis/internal/series"

// UTS is the Ring[series.Series] instantiation: the plain Taylor
// integrator, series over doubles, order fixed at construction.
type UTS struct {
	Order int
}

func (r UTS) Zero() series.Series           { return series.Zero(r.Order) }
func (r UTS) One() series.Series            { return series.Const(r.Order, 1) }
func (r UTS) Embed(v float64) series.Series { return series.Const(r.Order, v) }
func (r UTS) Add(a, b series.Series) series.Series {
	v, err := series.Add(a, b)
	if err != nil {
		panic(err) // orders are fixed for the lifetime of a step; a mismatch is a programmer error
	}
	return v
}
func (r UTS) Sub(a, b series.Series) series.Series {
	v, err := series.Sub(a, b)
	if err != nil {
		panic(err)
	}
	return v
}
func (r UTS) Neg(a series.Series) series.Series { return series.Neg(a) }
func (r UTS) Mul(a, b series.Series) series.Series {
	v, err := series.Mul(a, b)
	if err != nil {
		panic(err)
	}
	return v
}
func (r UTS) Scale(a series.Series, k float64) series.Series { return series.Scale(a, k) }
func (r UTS) IsFinite(a series.Series) bool                  { return a.IsFinite() }

func (r UTS) Div(a, b series.Series) (series.Series, error) { return series.Div(a, b) }

func (r UTS) Recip(a series.Series) (series.Series, error) {
	return series.Div(r.One(), a)
}

func (r UTS) Sqrt(a series.Series) (series.Series, error) { return series.Sqrt(a) }

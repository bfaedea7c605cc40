// Package taylor implements the Taylor step kernel (component E): given a
// state at the start of a step, generate its Taylor coefficients in time by
// repeatedly evaluating the right-hand side over a truncated series ring,
// then pick a step size from the decay of the highest-order coefficients
// and sum the series to advance the state.
package taylor

import (
	"fmt"
	"math"

	"github.com/asterodyne/apophis/internal/jet"
	"github.com/asterodyne/apophis/internal/nbody"
	"github.com/asterodyne/apophis/internal/ring"
	"github.com/asterodyne/apophis/internal/series"
)

// Coefficients holds the Taylor expansion, around a step's starting
// epoch, of every component of the jet-transport state.
type Coefficients struct {
	Pos, Vel   [3]series.Series
	Yark, Beta series.Series
}

// ErrDivergent is returned when a generated coefficient is not finite,
// signalling the right-hand side blew up (e.g. a close encounter driving
// the distance to a body toward zero).
type ErrDivergent struct {
	Order int
}

func (e *ErrDivergent) Error() string {
	return fmt.Sprintf("taylor: non-finite coefficient generated at order %d", e.Order)
}

// GenerateDouble builds the order-N Taylor expansion of the state x0 at
// the given params, by the standard power-series recursion: since a
// Cauchy product's k-th coefficient depends only on operand coefficients
// of index <= k, filling x's coefficients low order to high and
// re-evaluating the whole right-hand side after each fill yields the
// correct next coefficient every time, at the cost of recomputing the
// lower-order coefficients O(N) times more than a term-by-term recursive
// generator would.
func GenerateDouble(order int, x0 nbody.State[float64], params nbody.Params[float64]) (Coefficients, error) {
	r := ring.UTS{Order: order}

	posC := [3][]float64{make([]float64, order+1), make([]float64, order+1), make([]float64, order+1)}
	velC := [3][]float64{make([]float64, order+1), make([]float64, order+1), make([]float64, order+1)}
	yarkC := make([]float64, order+1)
	betaC := make([]float64, order+1)
	for i := 0; i < 3; i++ {
		posC[i][0] = x0.Pos[i]
		velC[i][0] = x0.Vel[i]
	}
	yarkC[0] = x0.Yark
	betaC[0] = x0.Beta

	liftedParams := liftParamsToSeries(order, r, params)

	for k := 0; k < order; k++ {
		x := nbody.State[series.Series]{
			Pos:  nbody.Vec3[series.Series]{series.FromCoeffs(order, posC[0][:]), series.FromCoeffs(order, posC[1][:]), series.FromCoeffs(order, posC[2][:])},
			Vel:  nbody.Vec3[series.Series]{series.FromCoeffs(order, velC[0][:]), series.FromCoeffs(order, velC[1][:]), series.FromCoeffs(order, velC[2][:])},
			Yark: series.FromCoeffs(order, yarkC),
			Beta: series.FromCoeffs(order, betaC),
		}
		dx, err := nbody.RHS[series.Series](r, x, liftedParams)
		if err != nil {
			return Coefficients{}, err
		}
		denom := 1.0 / float64(k+1)
		for i := 0; i < 3; i++ {
			posC[i][k+1] = dx.Pos[i].Coeff(k) * denom
			velC[i][k+1] = dx.Vel[i].Coeff(k) * denom
		}
		yarkC[k+1] = dx.Yark.Coeff(k) * denom
		betaC[k+1] = dx.Beta.Coeff(k) * denom
		for i := 0; i < 3; i++ {
			if !finite(posC[i][k+1]) || !finite(velC[i][k+1]) {
				return Coefficients{}, &ErrDivergent{Order: k + 1}
			}
		}
	}

	return Coefficients{
		Pos:  [3]series.Series{series.FromCoeffs(order, posC[0]), series.FromCoeffs(order, posC[1]), series.FromCoeffs(order, posC[2])},
		Vel:  [3]series.Series{series.FromCoeffs(order, velC[0]), series.FromCoeffs(order, velC[1]), series.FromCoeffs(order, velC[2])},
		Yark: series.FromCoeffs(order, yarkC),
		Beta: series.FromCoeffs(order, betaC),
	}, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// liftParamsToSeries embeds a plain-double Params into the series ring, by
// constructing constant series for every body position/velocity/acceleration
// and potential. Bodies do not move within the span of a single generated
// step's coefficient recursion (their motion is folded in by re-evaluating
// BuildParams at each successive step boundary, not within one), so
// embedding them as constants across the recursion is exact for the
// purposes of generating the asteroid's own Taylor coefficients here.
func liftParamsToSeries(order int, r ring.UTS, params nbody.Params[float64]) nbody.Params[series.Series] {
	states := make([]nbody.BodyState[series.Series], len(params.States))
	for i, bs := range params.States {
		states[i] = nbody.BodyState[series.Series]{
			Pos: nbody.Vec3[series.Series]{r.Embed(bs.Pos[0]), r.Embed(bs.Pos[1]), r.Embed(bs.Pos[2])},
			Vel: nbody.Vec3[series.Series]{r.Embed(bs.Vel[0]), r.Embed(bs.Vel[1]), r.Embed(bs.Vel[2])},
			Acc: nbody.Vec3[series.Series]{r.Embed(bs.Acc[0]), r.Embed(bs.Acc[1]), r.Embed(bs.Acc[2])},
			Pot: r.Embed(bs.Pot),
		}
	}
	return nbody.Params[series.Series]{Bodies: params.Bodies, States: states}
}

// liftParamsToJet embeds a plain-double Params into the jet-transport
// ring, the same constant-body argument as liftParamsToSeries.
func liftParamsToJet(r ring.JetSeries, params nbody.Params[float64]) nbody.Params[jet.Series] {
	states := make([]nbody.BodyState[jet.Series], len(params.States))
	for i, bs := range params.States {
		states[i] = nbody.BodyState[jet.Series]{
			Pos: nbody.Vec3[jet.Series]{r.Embed(bs.Pos[0]), r.Embed(bs.Pos[1]), r.Embed(bs.Pos[2])},
			Vel: nbody.Vec3[jet.Series]{r.Embed(bs.Vel[0]), r.Embed(bs.Vel[1]), r.Embed(bs.Vel[2])},
			Acc: nbody.Vec3[jet.Series]{r.Embed(bs.Acc[0]), r.Embed(bs.Acc[1]), r.Embed(bs.Acc[2])},
			Pot: r.Embed(bs.Pot),
		}
	}
	return nbody.Params[jet.Series]{Bodies: params.Bodies, States: states}
}

// Sum evaluates the Taylor expansion at local time h, advancing the state
// by one step.
func (c Coefficients) Sum(h float64) nbody.State[float64] {
	return nbody.State[float64]{
		Pos:  nbody.Vec3[float64]{series.Evaluate(c.Pos[0], h), series.Evaluate(c.Pos[1], h), series.Evaluate(c.Pos[2], h)},
		Vel:  nbody.Vec3[float64]{series.Evaluate(c.Vel[0], h), series.Evaluate(c.Vel[1], h), series.Evaluate(c.Vel[2], h)},
		Yark: series.Evaluate(c.Yark, h),
		Beta: series.Evaluate(c.Beta, h),
	}
}

// stepSafetyFactor shrinks every chosen step below the raw truncation
// -error estimate, so an accepted step's actual error has margin before
// the next step's own coefficients are trusted.
const stepSafetyFactor = 0.9

// magnitudeFloor below this, a coefficient is treated as too small to
// usefully inform the step estimate for its order (e.g. a component that
// happens to sit at a local extremum), rather than driving h to zero or
// infinity.
const magnitudeFloor = 1e-300

// StepSize picks h from the decay rate of the last two Taylor orders
// across every state component, following the two-estimate rule:
// h_N = (tol/|a_N|)^(1/N), h_{N-1} = (tol/|a_{N-1}|)^(1/(N-1)), and the
// accepted step is the smaller of the two, scaled by a safety factor
// strictly less than one.
func (c Coefficients) StepSize(tol float64) float64 {
	order := c.Pos[0].Order()
	last, prev := 0.0, 0.0
	consider := func(s series.Series) {
		if v := math.Abs(s.Coeff(order)); v > last {
			last = v
		}
		if v := math.Abs(s.Coeff(order - 1)); v > prev {
			prev = v
		}
	}
	for i := 0; i < 3; i++ {
		consider(c.Pos[i])
		consider(c.Vel[i])
	}
	consider(c.Yark)
	consider(c.Beta)

	hN, hN1 := math.Inf(1), math.Inf(1)
	if last > magnitudeFloor {
		hN = math.Pow(tol/last, 1.0/float64(order))
	}
	if order-1 > 0 && prev > magnitudeFloor {
		hN1 = math.Pow(tol/prev, 1.0/float64(order-1))
	}
	h := math.Min(hN, hN1)
	if math.IsInf(h, 1) {
		return h
	}
	return stepSafetyFactor * h
}

// GenerateJet builds the order-N jet-transport Taylor expansion: the same
// coefficient-recursion as GenerateDouble, but every scalar is an MTS
// carrying the state's sensitivity to the K perturbed initial parameters,
// so the returned coefficients simultaneously encode the trajectory and
// its variational derivatives (component H reads these off directly
// rather than integrating a separate STM). params is a plain-double body
// table, lifted to constant jet series internally exactly as GenerateDouble
// lifts it to constant UTS series: bodies do not move within one step's
// coefficient recursion, so embedding them as constants is exact here.
func GenerateJet(order, k, m int, scale []float64, x0 nbody.State[jet.MTS], params nbody.Params[float64]) (JetCoefficients, error) {
	r := ring.JetSeries{Order: order, K: k, M: m, PerturbScale: scale}
	zero := jet.NewConst(k, m, scale, 0)
	liftedParams := liftParamsToJet(r, params)

	posC := [3][]jet.MTS{make([]jet.MTS, order+1), make([]jet.MTS, order+1), make([]jet.MTS, order+1)}
	velC := [3][]jet.MTS{make([]jet.MTS, order+1), make([]jet.MTS, order+1), make([]jet.MTS, order+1)}
	yarkC := make([]jet.MTS, order+1)
	betaC := make([]jet.MTS, order+1)
	for i := 0; i < 3; i++ {
		for kk := 1; kk <= order; kk++ {
			posC[i][kk], velC[i][kk] = zero, zero
		}
		posC[i][0] = x0.Pos[i]
		velC[i][0] = x0.Vel[i]
	}
	for kk := 1; kk <= order; kk++ {
		yarkC[kk], betaC[kk] = zero, zero
	}
	yarkC[0] = x0.Yark
	betaC[0] = x0.Beta

	for kk := 0; kk < order; kk++ {
		x := nbody.State[jet.Series]{
			Pos:  nbody.Vec3[jet.Series]{jet.SeriesFromMTSCoeffs(posC[0]), jet.SeriesFromMTSCoeffs(posC[1]), jet.SeriesFromMTSCoeffs(posC[2])},
			Vel:  nbody.Vec3[jet.Series]{jet.SeriesFromMTSCoeffs(velC[0]), jet.SeriesFromMTSCoeffs(velC[1]), jet.SeriesFromMTSCoeffs(velC[2])},
			Yark: jet.SeriesFromMTSCoeffs(yarkC),
			Beta: jet.SeriesFromMTSCoeffs(betaC),
		}
		dx, err := nbody.RHS[jet.Series](r, x, liftedParams)
		if err != nil {
			return JetCoefficients{}, err
		}
		inv := 1.0 / float64(kk+1)
		for i := 0; i < 3; i++ {
			posC[i][kk+1] = jet.Scal(dx.Pos[i].Coeff(kk), inv)
			velC[i][kk+1] = jet.Scal(dx.Vel[i].Coeff(kk), inv)
		}
		yarkC[kk+1] = jet.Scal(dx.Yark.Coeff(kk), inv)
		betaC[kk+1] = jet.Scal(dx.Beta.Coeff(kk), inv)
	}

	return JetCoefficients{
		Pos:  [3]jet.Series{jet.SeriesFromMTSCoeffs(posC[0]), jet.SeriesFromMTSCoeffs(posC[1]), jet.SeriesFromMTSCoeffs(posC[2])},
		Vel:  [3]jet.Series{jet.SeriesFromMTSCoeffs(velC[0]), jet.SeriesFromMTSCoeffs(velC[1]), jet.SeriesFromMTSCoeffs(velC[2])},
		Yark: jet.SeriesFromMTSCoeffs(yarkC),
		Beta: jet.SeriesFromMTSCoeffs(betaC),
	}, nil
}

// JetCoefficients is the jet-transport analogue of Coefficients: every
// coefficient is an MTS rather than a plain double.
type JetCoefficients struct {
	Pos, Vel   [3]jet.Series
	Yark, Beta jet.Series
}

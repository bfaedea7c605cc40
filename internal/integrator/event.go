package integrator

import (
	"fmt"
	"math"

	"github.com/asterodyne/apophis/internal/nbody"
	"github.com/asterodyne/apophis/internal/series"
	"github.com/asterodyne/apophis/internal/taylor"
)

// EventTrigger describes a close-approach watch on one body: an event
// fires when the asteroid-body distance drops below Threshold au
// somewhere within a step, at the local minimum of the distance.
type EventTrigger struct {
	Name      string
	BodyIndex int // index into the Params.Bodies/States slice used for this step
	Threshold float64
}

// Event records a detected close approach: the epoch and distance at the
// local minimum found inside a step.
type Event struct {
	Trigger  EventTrigger
	T        float64
	Distance float64
}

// DetectEvent looks for a local minimum of the asteroid-body distance
// within the step [t, t+h] using the step's own Taylor coefficients: the
// squared distance is itself a truncated series in local time (products
// and sums of series stay within the same order), so its root can be
// refined with a few steps of Newton's method on the derivative series
// evaluated via Horner, rather than a black-box bisection over repeated
// full right-hand-side evaluations. The body watched by trig.BodyIndex is
// read from params and held fixed at its step-start ephemeris position
// for the length of the step, the same approximation the step's own
// right-hand side makes internally, adequate at close-approach detection
// precision since the step size itself was chosen to keep truncation
// error small.
func DetectEvent(c taylor.Coefficients, t, h float64, trig EventTrigger, params nbody.Params[float64]) (Event, bool, error) {
	if trig.BodyIndex < 0 || trig.BodyIndex >= len(params.States) {
		return Event{}, false, fmt.Errorf("integrator: event trigger %q: body index %d out of range (%d bodies)", trig.Name, trig.BodyIndex, len(params.States))
	}
	bodyPos := params.States[trig.BodyIndex].Pos

	const samples = 16
	best := math.Inf(1)
	bestS := 0.0
	for i := 0; i <= samples; i++ {
		s := h * float64(i) / float64(samples)
		d := distanceAt(c, bodyPos, s)
		if d < best {
			best = d
			bestS = s
		}
	}
	if best > trig.Threshold {
		return Event{}, false, nil
	}

	s := bestS
	for iter := 0; iter < 8; iter++ {
		dPrime := distanceDerivativeAt(c, bodyPos, s)
		dSecond := distanceSecondDerivativeAt(c, bodyPos, s)
		if dSecond == 0 {
			break
		}
		delta := dPrime / dSecond
		s -= delta
		if s < 0 {
			s = 0
		}
		if s > h {
			s = h
		}
		if math.Abs(delta) < 1e-14 {
			break
		}
	}

	return Event{Trigger: trig, T: t + s, Distance: distanceAt(c, bodyPos, s)}, true, nil
}

func distanceAt(c taylor.Coefficients, bodyPos nbody.Vec3[float64], s float64) float64 {
	x := series.Evaluate(c.Pos[0], s) - bodyPos[0]
	y := series.Evaluate(c.Pos[1], s) - bodyPos[1]
	z := series.Evaluate(c.Pos[2], s) - bodyPos[2]
	return math.Sqrt(x*x + y*y + z*z)
}

// distanceDerivativeAt and distanceSecondDerivativeAt differentiate the
// squared-distance series analytically (cheaper and exact, unlike a
// centered finite difference on the sampled distance) and convert to the
// plain distance's derivatives via the chain rule at evaluation time.
func distanceDerivativeAt(c taylor.Coefficients, bodyPos nbody.Vec3[float64], s float64) float64 {
	d2, d2p, _ := squaredDistanceDerivatives(c, bodyPos, s)
	if d2 == 0 {
		return 0
	}
	return d2p / (2 * math.Sqrt(d2))
}

func distanceSecondDerivativeAt(c taylor.Coefficients, bodyPos nbody.Vec3[float64], s float64) float64 {
	d2, d2p, d2pp := squaredDistanceDerivatives(c, bodyPos, s)
	if d2 == 0 {
		return 0
	}
	d := math.Sqrt(d2)
	dp := d2p / (2 * d)
	return (d2pp - 2*dp*dp) / (2 * d)
}

// squaredDistanceDerivatives returns the value and first two s-derivatives
// of |pos(s)-bodyPos|^2. bodyPos is a constant offset, so it shifts each
// component's value but not its derivatives.
func squaredDistanceDerivatives(c taylor.Coefficients, bodyPos nbody.Vec3[float64], s float64) (val, d1, d2 float64) {
	sq := func(comp series.Series, offset float64) (float64, float64, float64) {
		v := series.Evaluate(comp, s) - offset
		vp := series.Evaluate(series.Differentiate(comp), s)
		vpp := series.Evaluate(series.Differentiate(series.Differentiate(comp)), s)
		return v, vp, vpp
	}
	for i := 0; i < 3; i++ {
		v, vp, vpp := sq(c.Pos[i], bodyPos[i])
		val += v * v
		d1 += 2 * v * vp
		d2 += 2*vp*vp + 2*v*vpp
	}
	return val, d1, d2
}

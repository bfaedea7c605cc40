package nbody

import (
	"github.com/asterodyne/apophis/internal/ephem"
	"github.com/asterodyne/apophis/internal/ring"
)

// BodyEphemeris bundles the position, velocity, and acceleration
// interpolants for one massive body, the pre-computed quantities the
// right-hand side's EIH terms need (section 4.D's literal input list).
type BodyEphemeris struct {
	Body          Body
	Pos, Vel, Acc ephem.Vector
}

// NewBodyEphemeris derives the velocity and acceleration companions of a
// fitted position vector for use in RHS.
func NewBodyEphemeris(b Body, pos ephem.Vector) BodyEphemeris {
	p, v, a := ephem.NewPositionVector(pos)
	return BodyEphemeris{Body: b, Pos: p, Vel: v, Acc: a}
}

// BuildParams evaluates every body's ephemeris at the (possibly symbolic)
// time t and assembles the Params the right-hand side consumes, including
// each body's Newtonian potential due to every other massive body -- a
// quantity that depends only on the bodies' mutual geometry, not on the
// asteroid, so it is computed once per call here rather than inside RHS.
func BuildParams[T any](r ring.Ring[T], t T, tDouble float64, ephemerides []BodyEphemeris) (Params[T], error) {
	n := len(ephemerides)
	positions := make([]Vec3[T], n)
	velocities := make([]Vec3[T], n)
	accelerations := make([]Vec3[T], n)
	bodies := make([]Body, n)

	for i, be := range ephemerides {
		bodies[i] = be.Body
		p, err := ephem.EvaluateVectorAt(be.Pos, r, t, tDouble)
		if err != nil {
			return Params[T]{}, err
		}
		v, err := ephem.EvaluateVectorAt(be.Vel, r, t, tDouble)
		if err != nil {
			return Params[T]{}, err
		}
		a, err := ephem.EvaluateVectorAt(be.Acc, r, t, tDouble)
		if err != nil {
			return Params[T]{}, err
		}
		positions[i] = Vec3[T](p)
		velocities[i] = Vec3[T](v)
		accelerations[i] = Vec3[T](a)
	}

	states := make([]BodyState[T], n)
	for i := range ephemerides {
		pot := r.Zero()
		for j := range ephemerides {
			if j == i {
				continue
			}
			rel := subv(r, positions[j], positions[i])
			dist, err := normv(r, rel)
			if err != nil {
				return Params[T]{}, err
			}
			invDist, err := r.Recip(dist)
			if err != nil {
				return Params[T]{}, err
			}
			pot = r.Add(pot, r.Scale(invDist, bodies[j].Mu))
		}
		states[i] = BodyState[T]{Pos: positions[i], Vel: velocities[i], Acc: accelerations[i], Pot: pot}
	}

	return Params[T]{Bodies: bodies, States: states}, nil
}

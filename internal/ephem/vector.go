package ephem

import "github.com/asterodyne/apophis/internal/ring"

// Vector is a 3-component ephemeris quantity (position, velocity, or
// acceleration), stored as three independent scalar interpolants sharing
// the same knot vector -- the ephemeris file's native layout is
// column-major per component, so fitting stays a per-axis operation.
type Vector struct {
	X, Y, Z *Interpolant
}

// NewPositionVector builds the velocity and acceleration companions of a
// position vector by term-wise differentiation, so a single fit produces
// everything the right-hand side needs for one body.
func NewPositionVector(pos Vector) (position, velocity, acceleration Vector) {
	vx, vy, vz := Differentiate(pos.X), Differentiate(pos.Y), Differentiate(pos.Z)
	ax, ay, az := Differentiate(vx), Differentiate(vy), Differentiate(vz)
	return pos, Vector{vx, vy, vz}, Vector{ax, ay, az}
}

// EvaluateVectorAt evaluates all three components of v at the (possibly
// symbolic) time tSymbolic, in the ring R.
func EvaluateVectorAt[T any](v Vector, r ring.Ring[T], tSymbolic T, tSymbolicDouble float64) ([3]T, error) {
	x, err := EvaluateAt(v.X, r, tSymbolic, tSymbolicDouble)
	if err != nil {
		var zero [3]T
		return zero, err
	}
	y, err := EvaluateAt(v.Y, r, tSymbolic, tSymbolicDouble)
	if err != nil {
		var zero [3]T
		return zero, err
	}
	z, err := EvaluateAt(v.Z, r, tSymbolic, tSymbolicDouble)
	if err != nil {
		var zero [3]T
		return zero, err
	}
	return [3]T{x, y, z}, nil
}

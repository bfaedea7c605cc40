// Package kepler converts between two-body Keplerian elements and
// Cartesian position/velocity, the classical algorithms adapted from the
// teacher's Orbit type (RV2COE and its inverse) to build the reference
// two-body test scenario's initial conditions.
package kepler

import (
	"math"

	"github.com/asterodyne/apophis/internal/nbody"
)

// Elements is a classical Keplerian element set, angles in radians.
type Elements struct {
	A, E, I, RAAN, ArgPeri, TrueAnom float64
}

// ToCartesian converts elements around a body of gravitational parameter
// mu into position/velocity in the body's equatorial (perifocal-rotated)
// frame, mirroring Orbit.RV's PQW-to-ECI construction.
func ToCartesian(el Elements, mu float64) (nbody.Vec3[float64], nbody.Vec3[float64]) {
	p := el.A * (1 - el.E*el.E)
	sinNu, cosNu := math.Sincos(el.TrueAnom)
	denom := 1 + el.E*cosNu

	rPQW := [3]float64{p * cosNu / denom, p * sinNu / denom, 0}
	vPQW := [3]float64{-math.Sqrt(mu/p) * sinNu, math.Sqrt(mu/p) * (el.E + cosNu), 0}

	r := pqwToInertial(el.I, el.ArgPeri, el.RAAN, rPQW)
	v := pqwToInertial(el.I, el.ArgPeri, el.RAAN, vPQW)
	return nbody.Vec3[float64](r), nbody.Vec3[float64](v)
}

// FromCartesian recovers the classical elements from a position/velocity
// pair around a body of gravitational parameter mu (Vallado's RV2COE).
func FromCartesian(r, v nbody.Vec3[float64], mu float64) Elements {
	R, V := [3]float64(r), [3]float64(v)
	h := cross(R, V)
	n := cross([3]float64{0, 0, 1}, h)
	speed := norm(V)
	radius := norm(R)

	xi := speed*speed/2 - mu/radius
	a := -mu / (2 * xi)

	var eVec [3]float64
	for i := 0; i < 3; i++ {
		eVec[i] = ((speed*speed-mu/radius)*R[i] - dot(R, V)*V[i]) / mu
	}
	e := norm(eVec)

	i := math.Acos(clamp(h[2] / norm(h)))

	nNorm := norm(n)
	var raan float64
	if nNorm > 0 {
		raan = math.Acos(clamp(n[0] / nNorm))
		if n[1] < 0 {
			raan = 2*math.Pi - raan
		}
	}

	var argPeri float64
	if nNorm > 0 && e > 0 {
		argPeri = math.Acos(clamp(dot(n, eVec) / (nNorm * e)))
		if eVec[2] < 0 {
			argPeri = 2*math.Pi - argPeri
		}
	}

	var nu float64
	if e > 0 {
		nu = math.Acos(clamp(dot(eVec, R) / (e * radius)))
		if dot(R, V) < 0 {
			nu = 2*math.Pi - nu
		}
	}

	return Elements{A: a, E: e, I: i, RAAN: raan, ArgPeri: argPeri, TrueAnom: nu}
}

// Period returns the two-body orbital period for a bound orbit (E < 1),
// in days when mu is in au^3/day^2.
func Period(el Elements, mu float64) float64 {
	return 2 * math.Pi * math.Sqrt(math.Pow(el.A, 3)/mu)
}

func pqwToInertial(i, argPeri, raan float64, v [3]float64) [3]float64 {
	// Compose the 3-1-3 Euler rotation R3(-raan) * R1(-i) * R3(-argPeri)
	// applied to v, the standard perifocal-to-inertial transform.
	sO, cO := math.Sincos(raan)
	sI, cI := math.Sincos(i)
	sW, cW := math.Sincos(argPeri)

	r11 := cO*cW - sO*sW*cI
	r12 := -cO*sW - sO*cW*cI
	r21 := sO*cW + cO*sW*cI
	r22 := -sO*sW + cO*cW*cI
	r31 := sW * sI
	r32 := cW * sI

	return [3]float64{
		r11*v[0] + r12*v[1],
		r21*v[0] + r22*v[1],
		r31*v[0] + r32*v[1],
	}
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{a[1]*b[2] - a[2]*b[1], a[2]*b[0] - a[0]*b[2], a[0]*b[1] - a[1]*b[0]}
}

func dot(a, b [3]float64) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func norm(a [3]float64) float64 { return math.Sqrt(dot(a, a)) }

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

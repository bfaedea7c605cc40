package nbody

import "math"

// vec3 is a plain 3-vector of plain doubles, used only for the constant
// pole-rotation geometry; the oblateness acceleration itself is computed
// in the caller's ring T (see rhs.go), this just supplies the rotation
// matrix entries as float64 constants.
type vec3 [3]float64

// poleRotation returns the 3x3 rotation matrix from the inertial frame the
// ephemeris is expressed in to body i's body-fixed frame, built from its
// pole right ascension and declination (the standard alpha0/delta0 IAU
// convention), mirroring the R3*R1*R3-style Euler composition the teacher
// used for spacecraft attitude frames but specialized to a pole-only
// rotation (no prime-meridian spin term, since the oblateness acceleration
// is axially symmetric and does not depend on body rotation phase).
func poleRotation(b Body) [3][3]float64 {
	sRA, cRA := math.Sincos(b.PoleRA)
	sDec, cDec := math.Sincos(b.PoleDec)
	// Rows are the body-fixed x,y,z axes expressed in the inertial frame;
	// z is the pole direction, x/y span the body equator.
	zAxis := vec3{cDec * cRA, cDec * sRA, sDec}
	xAxis := normalize(vec3{-sRA, cRA, 0})
	yAxis := cross(zAxis, xAxis)
	return [3][3]float64{
		{xAxis[0], xAxis[1], xAxis[2]},
		{yAxis[0], yAxis[1], yAxis[2]},
		{zAxis[0], zAxis[1], zAxis[2]},
	}
}

func normalize(v vec3) vec3 {
	n := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if n == 0 {
		return v
	}
	return vec3{v[0] / n, v[1] / n, v[2] / n}
}

func cross(a, b vec3) vec3 {
	return vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}


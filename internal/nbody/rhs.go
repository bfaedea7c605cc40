package nbody

import "github.com/asterodyne/apophis/internal/ring"

// State is the jet-transport state vector: six Cartesian components plus
// the Yarkovsky acceleration magnitude and the radiation-pressure
// coefficient, each an element of the current ring T (section 3, "Data
// model" / "Jet-transport state").
type State[T any] struct {
	Pos  Vec3[T]
	Vel  Vec3[T]
	Yark T // A, au/day^2 scale set by the caller's initial condition
	Beta T // radiation-pressure coefficient
}

// BodyState is a massive body's ephemeris sample at the current symbolic
// time, already evaluated through the ephemeris interpolant (component C)
// by the caller before the right-hand side runs -- the right-hand side
// itself does no interpolation, matching the data-flow described in
// section 2 ("D reads the ephemeris (C)... " is the caller's job here, so
// that this function stays a pure algebraic map, easy to keep correct
// across all three ring instantiations).
type BodyState[T any] struct {
	Pos, Vel, Acc Vec3[T]
	Pot           T // Newtonian potential at this body due to every other massive body
}

// Params bundles everything the right-hand side needs besides the state:
// the constant body table and the current ephemeris sample for each body,
// aligned by index.
type Params[T any] struct {
	Bodies []Body
	States []BodyState[T]
}

// Self-terms are suppressed structurally: the asteroid never appears in
// Bodies/States, so no pair (i,i) can arise, satisfying testable property
// 7 by construction rather than by a runtime check.

// RHS computes dx/dt for the jet-transport state, in the ring R. Written
// once, generic over T, and reused unmodified for the plain-double,
// series, and jet-transport variants (design note in SPEC_FULL.md).
func RHS[T any](r ring.Ring[T], x State[T], p Params[T]) (State[T], error) {
	cInv2 := 1.0 / (SpeedOfLightAUDay * SpeedOfLightAUDay)

	accel := Vec3[T]{r.Zero(), r.Zero(), r.Zero()}
	// Potential at the asteroid's own location due to every massive body,
	// needed by the EIH sum below and recomputed every call since the
	// asteroid moves.
	potAtAsteroid := r.Zero()
	dists := make([]T, len(p.Bodies))
	rel := make([]Vec3[T], len(p.Bodies))
	for i, b := range p.Bodies {
		rvec := subv(r, p.States[i].Pos, x.Pos)
		dist, err := normv(r, rvec)
		if err != nil {
			return State[T]{}, err
		}
		rel[i] = rvec
		dists[i] = dist
		invDist, err := r.Recip(dist)
		if err != nil {
			return State[T]{}, err
		}
		potAtAsteroid = r.Add(potAtAsteroid, r.Scale(invDist, b.Mu))
	}

	for i, b := range p.Bodies {
		bs := p.States[i]
		rvec := rel[i]
		dist := dists[i]
		invDist, err := r.Recip(dist)
		if err != nil {
			return State[T]{}, err
		}
		invDist3 := r.Mul(r.Mul(invDist, invDist), invDist)
		newton := scalev(r, mulv(r, rvec, invDist3), b.Mu)

		vij := subv(r, x.Vel, bs.Vel)
		unitR := mulv(r, rvec, invDist)

		radial := dotv(r, unitR, bs.Vel)
		radialTerm := r.Scale(r.Mul(radial, radial), 1.5)

		velTerm := r.Sub(
			r.Sub(r.Scale(dotv(r, x.Vel, bs.Vel), 4), r.Scale(dotv(r, bs.Vel, bs.Vel), 2)),
			dotv(r, x.Vel, x.Vel),
		)

		accTerm := r.Scale(dotv(r, rvec, bs.Acc), 0.5)

		pnScalar := r.Add(r.Add(r.Add(r.Scale(potAtAsteroid, 4), bs.Pot), velTerm), r.Add(radialTerm, accTerm))
		pnScalar = r.Scale(pnScalar, cInv2)
		one := r.One()
		pnFactor := r.Add(one, pnScalar)

		pnNewton := mulv(r, newton, pnFactor)

		coeffVel := subv(r, scalev(r, x.Vel, 4), scalev(r, bs.Vel, 3))
		velDepScalar := r.Scale(r.Scale(dotv(r, rvec, coeffVel), b.Mu), cInv2)
		velDep := mulv(r, vij, r.Mul(velDepScalar, invDist3))

		accCoupling := scalev(r, mulv(r, bs.Acc, r.Scale(invDist, b.Mu*cInv2)), 3.5)

		pair := addv(r, addv(r, pnNewton, velDep), accCoupling)
		accel = addv(r, accel, pair)

		if b.Oblate {
			obl, err := oblateness(r, x.Pos, bs.Pos, b)
			if err != nil {
				return State[T]{}, err
			}
			accel = addv(r, accel, obl)
		}
	}

	// Yarkovsky: A * r_hat along the Sun-asteroid direction. Body 0 is
	// conventionally the Sun in DefaultBodySet; the caller is responsible
	// for keeping that convention when assembling Params.
	if len(p.Bodies) > 0 {
		sunRel := rel[0]
		sunDist := dists[0]
		invSunDist, err := r.Recip(sunDist)
		if err != nil {
			return State[T]{}, err
		}
		sunHat := mulv(r, sunRel, invSunDist)
		// rel[0] = sunPos - astPos points *from* the asteroid *to* the Sun;
		// the outward radial direction the Yarkovsky/SRP terms need is its
		// negation, the Sun-to-asteroid direction.
		sunToAst := scalev(r, sunHat, -1)
		yarkAccel := mulv(r, sunToAst, x.Yark)
		accel = addv(r, accel, yarkAccel)

		// Solar radiation pressure: beta * GMsun / r^2 along the same
		// outward radial direction.
		invSunDist2 := r.Mul(invSunDist, invSunDist)
		srpMag := r.Mul(r.Scale(invSunDist2, p.Bodies[0].Mu), x.Beta)
		srpAccel := mulv(r, sunToAst, srpMag)
		accel = addv(r, accel, srpAccel)
	}

	return State[T]{
		Pos:  x.Vel,
		Vel:  accel,
		Yark: r.Zero(), // constant of motion, carried for its jet sensitivity only
		Beta: r.Zero(),
	}, nil
}

// oblateness computes the J2 zonal-harmonic acceleration on the asteroid
// due to body b, in the inertial frame: rotate the asteroid-relative
// position into b's body-fixed frame, apply the standard zonal-harmonic
// acceleration there, rotate back. J3/J4 are optional per body and not
// evaluated here. The rotation matrix is built from plain doubles (the
// pole doesn't depend on the perturbed state), so it commutes with the
// ring's Scale/Add regardless of T.
func oblateness[T any](r ring.Ring[T], astPos, bodyPos Vec3[T], b Body) (Vec3[T], error) {
	relInertial := subv(r, astPos, bodyPos) // body -> asteroid
	rot := poleRotation(b)

	rotated := Vec3[T]{r.Zero(), r.Zero(), r.Zero()}
	for row := 0; row < 3; row++ {
		acc := r.Zero()
		for col := 0; col < 3; col++ {
			if rot[row][col] == 0 {
				continue
			}
			acc = r.Add(acc, r.Scale(relInertial[col], rot[row][col]))
		}
		rotated[row] = acc
	}

	dist, err := normv(r, rotated)
	if err != nil {
		return Vec3[T]{}, err
	}
	invDist, err := r.Recip(dist)
	if err != nil {
		return Vec3[T]{}, err
	}
	x, y, z := rotated[0], rotated[1], rotated[2]
	r2 := norm2v(r, rotated)
	invR2, err := r.Recip(r2)
	if err != nil {
		return Vec3[T]{}, err
	}
	z2 := r.Mul(z, z)

	invR252 := r.Mul(r.Mul(invDist, invDist), r.Mul(invDist, invDist))
	invR252 = r.Mul(invR252, invDist) // 1/r^5
	invR272 := r.Mul(invR252, invR2)  // 1/r^7

	accJ2 := 1.5 * b.J2 * b.Radius * b.Radius * b.Mu
	fx := r.Scale(r.Sub(r.Mul(r.Scale(r.Mul(x, z2), 5), invR272), r.Mul(x, invR252)), accJ2)
	fy := r.Scale(r.Sub(r.Mul(r.Scale(r.Mul(y, z2), 5), invR272), r.Mul(y, invR252)), accJ2)
	z3 := r.Mul(z2, z)
	fz := r.Scale(r.Sub(r.Mul(r.Scale(z3, 5), invR272), r.Scale(r.Mul(z, invR252), 3)), accJ2)

	bodyFrame := Vec3[T]{fx, fy, fz}

	inertial := Vec3[T]{r.Zero(), r.Zero(), r.Zero()}
	for row := 0; row < 3; row++ {
		acc := r.Zero()
		for col := 0; col < 3; col++ {
			if rot[col][row] == 0 {
				continue
			}
			acc = r.Add(acc, r.Scale(bodyFrame[col], rot[col][row]))
		}
		inertial[row] = acc
	}
	return inertial, nil
}

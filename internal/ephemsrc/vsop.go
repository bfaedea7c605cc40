// Package ephemsrc fits piecewise-polynomial ephemerides (internal/ephem)
// from the analytic VSOP87 planetary theory, the same third-party
// planetary-position library (soniakeys/meeus's planetposition and pluto
// packages) the teacher's CelestialObject.HelioOrbit used, so a run needs
// no external SPICE kernel to get a usable solar-system ephemeris.
package ephemsrc

import (
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/planetposition"
	"github.com/soniakeys/meeus/v3/pluto"

	"github.com/asterodyne/apophis/internal/ephem"
	"github.com/asterodyne/apophis/internal/nbody"
)

// AUKm is the astronomical unit in kilometers. VSOP87 returns distances
// in au directly, so nothing in this package converts with it; it is kept
// for callers that want to render distances in km.
const AUKm = 1.49597870700e8

var vsopIndex = map[string]int{
	"Mercury": 0, "Venus": 1, "Earth": 2, "Mars": 3,
	"Jupiter": 4, "Saturn": 5, "Uranus": 6, "Neptune": 7,
}

// heliocentricCartesian evaluates a VSOP87 planet's heliocentric
// position at TDB days-past-J2000 t, converting its (l, b, r) spherical
// output into the equatorial-frame Cartesian au coordinates the
// right-hand side expects, mirroring HelioOrbit's L/B/R-to-Cartesian
// conversion exactly.
func heliocentricCartesian(planet *planetposition.V87Planet, t float64) [3]float64 {
	jd := t + base.J2000
	l, b, r := planet.Position2000(jd)
	sB, cB := math.Sincos(b.Rad())
	sL, cL := math.Sincos(l.Rad())
	return [3]float64{r * cB * cL, r * cB * sL, r * sB}
}

func plutoCartesian(t float64) [3]float64 {
	jd := t + base.J2000
	l, b, r := pluto.Heliocentric(jd)
	sB, cB := math.Sincos(b.Rad())
	sL, cL := math.Sincos(l.Rad())
	return [3]float64{r * cB * cL, r * cB * sL, r * sB}
}

// BuildBodyEphemeris fits a position Vector (and its velocity and
// acceleration companions) for one body over [t0, t1], sampled every
// knotSpacing days with nodesPerPiece nodes per fitted piece.
func BuildBodyEphemeris(b nbody.Body, t0, t1, knotSpacing float64, nodesPerPiece int, vsopDir string) (nbody.BodyEphemeris, error) {
	knots := buildKnots(t0, t1, knotSpacing)

	var sampler func(t float64) [3]float64
	switch b.Name {
	case "Sun":
		sampler = func(t float64) [3]float64 { return [3]float64{} }
	case "Pluto":
		sampler = plutoCartesian
	default:
		idx, ok := vsopIndex[b.Name]
		if !ok {
			return nbody.BodyEphemeris{}, fmt.Errorf("ephemsrc: no VSOP87 theory available for %s", b.Name)
		}
		planet, err := planetposition.LoadPlanetPath(idx, vsopDir)
		if err != nil {
			return nbody.BodyEphemeris{}, fmt.Errorf("ephemsrc: loading VSOP87 data for %s: %w", b.Name, err)
		}
		sampler = func(t float64) [3]float64 { return heliocentricCartesian(planet, t) }
	}

	pos, err := ephem.FitVector(knots, nodesPerPiece, sampler)
	if err != nil {
		return nbody.BodyEphemeris{}, fmt.Errorf("ephemsrc: fitting %s: %w", b.Name, err)
	}
	return nbody.NewBodyEphemeris(b, pos), nil
}

// BuildSolarSystemEphemeris fits every body in bodies over [t0, t1]. The
// Moon is silently skipped: no lunar-theory package was available to
// ground a fit against, so a caller wanting lunar perturbations must
// supply its own ephem.Vector via nbody.NewBodyEphemeris directly (see
// SPEC_FULL.md's Open Question decision on this).
func BuildSolarSystemEphemeris(bodies []nbody.Body, t0, t1, knotSpacing float64, nodesPerPiece int, vsopDir string) ([]nbody.BodyEphemeris, error) {
	out := make([]nbody.BodyEphemeris, 0, len(bodies))
	for _, b := range bodies {
		if b.Name == "Moon" {
			continue
		}
		be, err := BuildBodyEphemeris(b, t0, t1, knotSpacing, nodesPerPiece, vsopDir)
		if err != nil {
			return nil, err
		}
		out = append(out, be)
	}
	return out, nil
}

func buildKnots(t0, t1, spacing float64) []float64 {
	if spacing <= 0 {
		spacing = 1
	}
	n := int(math.Ceil((t1 - t0) / spacing))
	if n < 1 {
		n = 1
	}
	knots := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		knots[i] = t0 + spacing*float64(i)
		if knots[i] > t1 {
			knots[i] = t1
		}
	}
	return knots
}

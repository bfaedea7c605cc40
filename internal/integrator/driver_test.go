package integrator

import (
	"math"
	"testing"

	"github.com/go-kit/log"

	"github.com/asterodyne/apophis/internal/nbody"
)

type staticEphemeris struct {
	lo, hi float64
	params nbody.Params[float64]
}

func (s staticEphemeris) At(t float64) (nbody.Params[float64], error) { return s.params, nil }
func (s staticEphemeris) Domain() (float64, float64)                  { return s.lo, s.hi }

func sunOnlyEphemeris() staticEphemeris {
	return staticEphemeris{
		lo: -1e9, hi: 1e9,
		params: nbody.Params[float64]{
			Bodies: []nbody.Body{nbody.Sun},
			States: []nbody.BodyState[float64]{{}},
		},
	}
}

func TestDriverRunReachesStopTime(t *testing.T) {
	eph := sunOnlyEphemeris()
	d := NewDriver(DefaultConfig(), eph, log.NewNopLogger(), nil)
	x0 := nbody.State[float64]{Pos: nbody.Vec3[float64]{1, 0, 0}, Vel: nbody.Vec3[float64]{0, 0.0172, 0}}

	_, tFinal, err := d.Run(0, x0, 5)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if math.Abs(tFinal-5) > 1e-9 {
		t.Fatalf("expected to reach t=5, got %v", tFinal)
	}
}

func TestDriverRunHonorsStopRequest(t *testing.T) {
	eph := sunOnlyEphemeris()
	cfg := DefaultConfig()
	cfg.MaxStepDay = 0.01
	d := NewDriver(cfg, eph, log.NewNopLogger(), nil)
	x0 := nbody.State[float64]{Pos: nbody.Vec3[float64]{1, 0, 0}, Vel: nbody.Vec3[float64]{0, 0.0172, 0}}
	d.Stop()

	_, _, err := d.Run(0, x0, 500)
	if _, ok := err.(*ErrStopped); !ok {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestDriverRunTracksLyapunovWhenVarOrderPositive(t *testing.T) {
	eph := sunOnlyEphemeris()
	cfg := DefaultConfig()
	cfg.Order = 10
	cfg.VarOrder = 2
	d := NewDriver(cfg, eph, log.NewNopLogger(), nil)
	x0 := nbody.State[float64]{Pos: nbody.Vec3[float64]{1, 0, 0}, Vel: nbody.Vec3[float64]{0, 0.0172, 0}}

	if d.Lyapunov != nil {
		t.Fatalf("expected no Lyapunov tracker before Run")
	}
	if _, _, err := d.Run(0, x0, 2); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if d.Lyapunov == nil {
		t.Fatalf("expected Run to populate Lyapunov when VarOrder > 0")
	}
	spectrum := d.Lyapunov.Spectrum()
	if len(spectrum) != jetDims {
		t.Fatalf("expected a %d-dimensional spectrum, got %d", jetDims, len(spectrum))
	}
	for i, exp := range spectrum {
		if math.IsNaN(exp) || math.IsInf(exp, 0) {
			t.Fatalf("dimension %d: non-finite Lyapunov exponent %v", i, exp)
		}
	}
}

func TestDriverRunLeavesLyapunovNilWhenVarOrderZero(t *testing.T) {
	eph := sunOnlyEphemeris()
	d := NewDriver(DefaultConfig(), eph, log.NewNopLogger(), nil)
	x0 := nbody.State[float64]{Pos: nbody.Vec3[float64]{1, 0, 0}, Vel: nbody.Vec3[float64]{0, 0.0172, 0}}

	if _, _, err := d.Run(0, x0, 2); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if d.Lyapunov != nil {
		t.Fatalf("expected Lyapunov to stay nil when VarOrder == 0")
	}
}

func TestDriverRunRejectsOutOfEphemerisRange(t *testing.T) {
	eph := staticEphemeris{lo: 0, hi: 1, params: sunOnlyEphemeris().params}
	d := NewDriver(DefaultConfig(), eph, log.NewNopLogger(), nil)
	x0 := nbody.State[float64]{Pos: nbody.Vec3[float64]{1, 0, 0}, Vel: nbody.Vec3[float64]{0, 0.0172, 0}}

	_, _, err := d.Run(5, x0, 10)
	if _, ok := err.(*ErrOutOfEphemerisRange); !ok {
		t.Fatalf("expected ErrOutOfEphemerisRange, got %v", err)
	}
}

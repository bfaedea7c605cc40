package taylor

import (
	"math"
	"testing"

	"github.com/asterodyne/apophis/internal/nbody"
)

func kepler2BodyParams() nbody.Params[float64] {
	return nbody.Params[float64]{
		Bodies: []nbody.Body{nbody.Sun},
		States: []nbody.BodyState[float64]{{}},
	}
}

func TestGenerateDoubleMatchesVelocityIdentity(t *testing.T) {
	x0 := nbody.State[float64]{Pos: nbody.Vec3[float64]{1, 0, 0}, Vel: nbody.Vec3[float64]{0, 0.0172, 0}}
	c, err := GenerateDouble(6, x0, kepler2BodyParams())
	if err != nil {
		t.Fatalf("GenerateDouble: %v", err)
	}
	// dPos/dt == Vel identically, so Pos's order-1 coefficient must equal
	// Vel's order-0 coefficient component-wise.
	for i := 0; i < 3; i++ {
		if math.Abs(c.Pos[i].Coeff(1)-x0.Vel[i]) > 1e-12 {
			t.Fatalf("axis %d: Pos coeff(1)=%v want %v", i, c.Pos[i].Coeff(1), x0.Vel[i])
		}
	}
}

func TestGenerateDoubleStepSizeShrinksWithLooserAccuracy(t *testing.T) {
	x0 := nbody.State[float64]{Pos: nbody.Vec3[float64]{1, 0, 0}, Vel: nbody.Vec3[float64]{0, 0.0172, 0}}
	c, err := GenerateDouble(12, x0, kepler2BodyParams())
	if err != nil {
		t.Fatalf("GenerateDouble: %v", err)
	}
	tight := c.StepSize(1e-15)
	loose := c.StepSize(1e-6)
	if !(loose > tight) {
		t.Fatalf("expected a looser tolerance to select a larger step, tight=%v loose=%v", tight, loose)
	}
}

func TestSumRecoversInitialConditionAtZero(t *testing.T) {
	x0 := nbody.State[float64]{Pos: nbody.Vec3[float64]{1, 0.2, -0.1}, Vel: nbody.Vec3[float64]{0.01, 0.0172, 0}}
	c, err := GenerateDouble(8, x0, kepler2BodyParams())
	if err != nil {
		t.Fatalf("GenerateDouble: %v", err)
	}
	got := c.Sum(0)
	if got.Pos != x0.Pos || got.Vel != x0.Vel {
		t.Fatalf("Sum(0) = %+v, want initial condition %+v", got, x0)
	}
}

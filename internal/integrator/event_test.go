package integrator

import (
	"math"
	"testing"

	"github.com/asterodyne/apophis/internal/nbody"
	"github.com/asterodyne/apophis/internal/taylor"
)

func TestDetectEventFindsCloseApproachToOrigin(t *testing.T) {
	// A body on a straight line crossing near the origin: the minimum
	// distance should be found near the crossing point at s=1 (Pos =
	// (-1,0.05,0) + Vel*s with Vel=(1,0,0) gives closest approach when
	// x(s)=0, i.e. s=1, distance = 0.05). Watching body index 0, whose
	// state sits at the origin, reduces this to the origin-distance case.
	x0 := nbody.State[float64]{Pos: nbody.Vec3[float64]{-1, 0.05, 0}, Vel: nbody.Vec3[float64]{1, 0, 0}}
	params := nbody.Params[float64]{Bodies: []nbody.Body{nbody.Sun}, States: []nbody.BodyState[float64]{{Pos: nbody.Vec3[float64]{1000, 1000, 1000}}}}
	c, err := taylor.GenerateDouble(4, x0, params)
	if err != nil {
		t.Fatalf("GenerateDouble: %v", err)
	}

	trig := EventTrigger{Name: "test", BodyIndex: 0, Threshold: 0.2}
	watched := nbody.Params[float64]{Bodies: []nbody.Body{nbody.Sun}, States: []nbody.BodyState[float64]{{}}}
	ev, found, err := DetectEvent(c, 0, 2, trig, watched)
	if err != nil {
		t.Fatalf("DetectEvent: %v", err)
	}
	if !found {
		t.Fatalf("expected an event within threshold %v", trig.Threshold)
	}
	if math.Abs(ev.T-1) > 0.05 {
		t.Fatalf("expected the close approach near t=1, got %v", ev.T)
	}
	if math.Abs(ev.Distance-0.05) > 0.02 {
		t.Fatalf("expected minimum distance near 0.05, got %v", ev.Distance)
	}
}

func TestDetectEventFindsCloseApproachToOffsetBody(t *testing.T) {
	// Same trajectory as above, but the watched body sits at (0, 0.03, 0)
	// instead of the origin: closest approach is still near s=1, now at
	// distance |0.05-0.03| = 0.02.
	x0 := nbody.State[float64]{Pos: nbody.Vec3[float64]{-1, 0.05, 0}, Vel: nbody.Vec3[float64]{1, 0, 0}}
	params := nbody.Params[float64]{Bodies: []nbody.Body{nbody.Sun}, States: []nbody.BodyState[float64]{{Pos: nbody.Vec3[float64]{1000, 1000, 1000}}}}
	c, err := taylor.GenerateDouble(4, x0, params)
	if err != nil {
		t.Fatalf("GenerateDouble: %v", err)
	}

	trig := EventTrigger{Name: "test", BodyIndex: 0, Threshold: 0.2}
	watched := nbody.Params[float64]{Bodies: []nbody.Body{nbody.Earth}, States: []nbody.BodyState[float64]{{Pos: nbody.Vec3[float64]{0, 0.03, 0}}}}
	ev, found, err := DetectEvent(c, 0, 2, trig, watched)
	if err != nil {
		t.Fatalf("DetectEvent: %v", err)
	}
	if !found {
		t.Fatalf("expected an event within threshold %v", trig.Threshold)
	}
	if math.Abs(ev.T-1) > 0.05 {
		t.Fatalf("expected the close approach near t=1, got %v", ev.T)
	}
	if math.Abs(ev.Distance-0.02) > 0.02 {
		t.Fatalf("expected minimum distance near 0.02, got %v", ev.Distance)
	}
}

func TestDetectEventNoneWhenAboveThreshold(t *testing.T) {
	x0 := nbody.State[float64]{Pos: nbody.Vec3[float64]{-1, 5, 0}, Vel: nbody.Vec3[float64]{1, 0, 0}}
	params := nbody.Params[float64]{Bodies: []nbody.Body{nbody.Sun}, States: []nbody.BodyState[float64]{{Pos: nbody.Vec3[float64]{1000, 1000, 1000}}}}
	c, err := taylor.GenerateDouble(4, x0, params)
	if err != nil {
		t.Fatalf("GenerateDouble: %v", err)
	}
	trig := EventTrigger{Name: "test", BodyIndex: 0, Threshold: 0.1}
	watched := nbody.Params[float64]{Bodies: []nbody.Body{nbody.Sun}, States: []nbody.BodyState[float64]{{}}}
	_, found, err := DetectEvent(c, 0, 2, trig, watched)
	if err != nil {
		t.Fatalf("DetectEvent: %v", err)
	}
	if found {
		t.Fatalf("expected no event when the minimum distance exceeds the threshold")
	}
}

func TestDetectEventErrorsOnOutOfRangeBodyIndex(t *testing.T) {
	x0 := nbody.State[float64]{Pos: nbody.Vec3[float64]{-1, 0.05, 0}, Vel: nbody.Vec3[float64]{1, 0, 0}}
	params := nbody.Params[float64]{Bodies: []nbody.Body{nbody.Sun}, States: []nbody.BodyState[float64]{{}}}
	c, err := taylor.GenerateDouble(4, x0, params)
	if err != nil {
		t.Fatalf("GenerateDouble: %v", err)
	}
	trig := EventTrigger{Name: "test", BodyIndex: 3, Threshold: 0.2}
	if _, _, err := DetectEvent(c, 0, 2, trig, params); err == nil {
		t.Fatalf("expected an error for an out-of-range body index")
	}
}

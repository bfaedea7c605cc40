package integrator

import (
	"math"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/asterodyne/apophis/internal/jet"
	"github.com/asterodyne/apophis/internal/nbody"
	"github.com/asterodyne/apophis/internal/taylor"
)

// jetDims is K, the number of jet-transport perturbed parameters: the
// three position and three velocity components plus the Yarkovsky
// magnitude and the radiation-pressure coefficient.
const jetDims = 8

// Config carries the knobs the CLI exposes for a propagation run.
type Config struct {
	Order      int     // Taylor truncation order per step
	AbsTol     float64 // absolute local-truncation-error tolerance driving step size
	MaxSteps   int
	MaxStepDay float64 // hard ceiling on any single step, days
	StatusEvery time.Duration

	// VarOrder is the jet-transport algebra's total-degree bound M. Zero
	// disables jet transport: the driver only propagates the plain state
	// and Driver.Lyapunov stays nil after Run. A positive value carries a
	// jet-transport state alongside the plain state, reading the step
	// Jacobian off its linear coefficients to track the trajectory's
	// Lyapunov spectrum with the Benettin algorithm.
	VarOrder int
}

// DefaultConfig returns the library defaults (order 20, tolerance 1e-16,
// a one-million step cap). These are not the cmd/apophis flag defaults,
// which set order 25, tolerance 1e-20 and 10000 steps on their own.
func DefaultConfig() Config {
	return Config{Order: 20, AbsTol: 1e-16, MaxSteps: 1_000_000, MaxStepDay: 30, StatusEvery: 10 * time.Second}
}

// Sample is one recorded point of the propagated trajectory, in TDB days
// past J2000.
type Sample struct {
	T     float64
	State nbody.State[float64]
}

// Sink receives every accepted sample, and every detected event, as the
// propagation proceeds -- the streaming design's insertion point, kept
// separate from the driver so a sink can write to disk, a channel, or
// nothing at all.
type Sink interface {
	Emit(Sample) error
	EmitEvent(Event) error
}

// NopSink discards everything; used when the caller only wants the final
// state.
type NopSink struct{}

func (NopSink) Emit(Sample) error      { return nil }
func (NopSink) EmitEvent(Event) error  { return nil }

// EphemerisSource evaluates the body ephemeris at a given epoch and
// returns the Params the right-hand side needs there. Implemented by
// internal/ephem-backed body tables; kept as an interface here so the
// driver doesn't depend on how the ephemeris was fitted or loaded.
type EphemerisSource interface {
	At(t float64) (nbody.Params[float64], error)
	Domain() (lo, hi float64)
}

// Driver runs the adaptive step-size Taylor loop (component F): generate
// a step's coefficients, choose a step size from their decay, sum the
// series to advance the state, detect any close-approach events that
// occurred within the step, and repeat until the stop time, a step
// budget, or an explicit Stop request ends the run.
type Driver struct {
	Config
	Logger  log.Logger
	Eph     EphemerisSource
	Sink    Sink
	Events  []EventTrigger

	// Lyapunov holds the running Benettin-algorithm tracker for the most
	// recent Run call when Config.VarOrder > 0, nil otherwise. Read after
	// Run returns; Run resets it at the start of every call.
	Lyapunov *LyapunovTracker

	stopChan chan struct{}
}

// NewDriver wires a driver with the given ephemeris source and logger,
// grounded on the teacher's cancellation-channel and status-tick idiom.
func NewDriver(cfg Config, eph EphemerisSource, logger log.Logger, sink Sink) *Driver {
	if sink == nil {
		sink = NopSink{}
	}
	return &Driver{Config: cfg, Logger: logger, Eph: eph, Sink: sink, stopChan: make(chan struct{}, 1)}
}

// Stop requests the run loop to end at the next step boundary.
func (d *Driver) Stop() {
	select {
	case d.stopChan <- struct{}{}:
	default:
	}
}

// Run propagates x0 starting at t0 (TDB days past J2000) until tStop,
// returning the final state and the epoch actually reached (which may
// fall short of tStop if the run was stopped or the step budget was
// exhausted).
func (d *Driver) Run(t0 float64, x0 nbody.State[float64], tStop float64) (nbody.State[float64], float64, error) {
	direction := 1.0
	if tStop < t0 {
		direction = -1.0
	}

	t := t0
	x := x0
	lastStatus := time.Now()
	if err := d.Sink.Emit(Sample{T: t, State: x}); err != nil {
		return x, t, err
	}

	var jetScale []float64
	var jetX nbody.State[jet.MTS]
	if d.VarOrder > 0 {
		jetScale = defaultJetScale(x0)
		jetX = newJetState(x0, d.VarOrder, jetScale)
		d.Lyapunov = NewLyapunovTracker(jetDims)
	} else {
		d.Lyapunov = nil
	}

	for step := 0; step < d.MaxSteps; step++ {
		select {
		case <-d.stopChan:
			return x, t, &ErrStopped{}
		default:
		}

		lo, hi := d.Eph.Domain()
		if t < lo || t > hi {
			return x, t, &ErrOutOfEphemerisRange{T: t}
		}

		params, err := d.Eph.At(t)
		if err != nil {
			return x, t, err
		}

		coeffs, err := taylor.GenerateDouble(d.Order, x, params)
		if err != nil {
			return x, t, err
		}

		h := coeffs.StepSize(d.AbsTol)
		if math.IsInf(h, 1) || h > d.MaxStepDay {
			h = d.MaxStepDay
		}
		h *= direction
		if direction > 0 && t+h > tStop {
			h = tStop - t
		} else if direction < 0 && t+h < tStop {
			h = tStop - t
		}

		for _, trig := range d.Events {
			ev, found, everr := DetectEvent(coeffs, t, h, trig, params)
			if everr != nil {
				return x, t, everr
			}
			if found {
				if err := d.Sink.EmitEvent(ev); err != nil {
					return x, t, err
				}
			}
		}

		if d.VarOrder > 0 {
			jc, jerr := taylor.GenerateJet(d.Order, jetDims, d.VarOrder, jetScale, jetX, params)
			if jerr != nil {
				return x, t, jerr
			}
			jac := JacobianFromJet(jc, h, jetDims, jetScale)
			d.Lyapunov.Advance(jac, h)
			jetX = advanceJetState(jc, h)
		}

		x = coeffs.Sum(h)
		t += h

		if err := d.Sink.Emit(Sample{T: t, State: x}); err != nil {
			return x, t, err
		}

		if d.Logger != nil && time.Since(lastStatus) > d.StatusEvery {
			level.Info(d.Logger).Log("msg", "propagation status", "t_tdb_days", t, "step_h_days", h, "step_num", step)
			lastStatus = time.Now()
		}

		if (direction > 0 && t >= tStop) || (direction < 0 && t <= tStop) {
			return x, t, nil
		}
	}
	return x, t, &ErrMaxStepsExceeded{Steps: d.MaxSteps}
}

// defaultJetScale picks the per-variable scale factors NewVar bakes into
// each jet-transport variable, sized so a unit perturbation stays in the
// same ballpark as the state's own working units: position and velocity
// use small fixed physical uncertainties (1e-6 au, about 150 km, and
// 1e-8 au/day, about 17 mm/s), and
// the two non-gravitational parameters scale off their own nominal
// magnitude (or a nonzero floor if the nominal value is zero).
func defaultJetScale(x0 nbody.State[float64]) []float64 {
	const posScale = 1e-6 // au
	const velScale = 1e-8 // au/day
	scale := make([]float64, jetDims)
	for i := 0; i < 3; i++ {
		scale[i] = posScale
		scale[3+i] = velScale
	}
	scale[6] = 0.1 * math.Max(math.Abs(x0.Yark), 1e-14)
	scale[7] = 0.1 * math.Max(math.Abs(x0.Beta), 1e-14)
	return scale
}

// newJetState builds the initial jet-transport state: each of the eight
// components is its own nominal value plus its own scaled jet variable,
// so JacobianFromJet's column j reads out the state's sensitivity to
// perturbing initial component j.
func newJetState(x0 nbody.State[float64], m int, scale []float64) nbody.State[jet.MTS] {
	v := func(i int, val float64) jet.MTS {
		c := jet.NewConst(jetDims, m, scale, val)
		d := jet.NewVar(jetDims, m, scale, i)
		s, _ := jet.MTSAdd(c, d)
		return s
	}
	return nbody.State[jet.MTS]{
		Pos:  nbody.Vec3[jet.MTS]{v(0, x0.Pos[0]), v(1, x0.Pos[1]), v(2, x0.Pos[2])},
		Vel:  nbody.Vec3[jet.MTS]{v(3, x0.Vel[0]), v(4, x0.Vel[1]), v(5, x0.Vel[2])},
		Yark: v(6, x0.Yark),
		Beta: v(7, x0.Beta),
	}
}

// advanceJetState collapses one step's jet-transport coefficients down to
// the jet state at local time h, the jet-transport analogue of
// Coefficients.Sum, so the next step's GenerateJet call starts from the
// state (and its accumulated sensitivities) this step actually reached.
func advanceJetState(c taylor.JetCoefficients, h float64) nbody.State[jet.MTS] {
	return nbody.State[jet.MTS]{
		Pos:  nbody.Vec3[jet.MTS]{jet.EvaluateAt(c.Pos[0], h), jet.EvaluateAt(c.Pos[1], h), jet.EvaluateAt(c.Pos[2], h)},
		Vel:  nbody.Vec3[jet.MTS]{jet.EvaluateAt(c.Vel[0], h), jet.EvaluateAt(c.Vel[1], h), jet.EvaluateAt(c.Vel[2], h)},
		Yark: jet.EvaluateAt(c.Yark, h),
		Beta: jet.EvaluateAt(c.Beta, h),
	}
}

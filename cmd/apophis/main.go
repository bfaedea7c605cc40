// Command apophis drives an adaptive Taylor-series jet-transport
// propagation of a near-Earth asteroid through a solar-system ephemeris,
// detecting close-approach events and, when varorder>0, tracking the
// trajectory's Lyapunov spectrum.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/asterodyne/apophis/internal/config"
	"github.com/asterodyne/apophis/internal/ephemsrc"
	"github.com/asterodyne/apophis/internal/integrator"
	"github.com/asterodyne/apophis/internal/kepler"
	"github.com/asterodyne/apophis/internal/logging"
	"github.com/asterodyne/apophis/internal/nbody"
	"github.com/asterodyne/apophis/internal/output"
	"github.com/asterodyne/apophis/internal/ring"
	"github.com/asterodyne/apophis/internal/timeconv"
)

// sourceFromEphemerides adapts a fitted body-ephemeris table into the
// integrator.EphemerisSource interface, evaluating every body's constant
// (plain-double) params at the requested epoch.
type sourceFromEphemerides struct {
	ephemerides []nbody.BodyEphemeris
	lo, hi      float64
}

func (s sourceFromEphemerides) At(t float64) (nbody.Params[float64], error) {
	return nbody.BuildParams[float64](ring.Double{}, t, t, s.ephemerides)
}

func (s sourceFromEphemerides) Domain() (float64, float64) { return s.lo, s.hi }

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "apophis",
		Short: "propagate a near-Earth asteroid with high-order Taylor jet transport",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(v)
		},
	}

	flags := cmd.Flags()
	flags.String("jd0", "2020-12-17T00:00:00Z", "initial epoch, ISO date-time (UTC)")
	flags.Int("varorder", 5, "total degree of the jet-transport algebra")
	flags.Int("maxsteps", 10000, "step cap per direction")
	flags.Float64("nyears_bwd", -18.0, "years to integrate backward (negative)")
	flags.Float64("nyears_fwd", 9.0, "years to integrate forward")
	flags.Int("order", 25, "Taylor truncation order per step")
	flags.Float64("abstol", 1e-20, "absolute local-truncation-error tolerance")
	flags.Bool("parse_eqs", true, "ignored: both values run the same generic right-hand-side path; no pre-analysed path exists")
	flags.String("ss_eph_file", "", "solar-system ephemeris directory (VSOP87 data); empty uses the config default")
	flags.String("log_level", "info", "log level: debug, info, warn, error")
	flags.String("out_dir", "", "directory to write sample/event CSVs; empty disables streaming output")

	_ = v.BindPFlags(flags)
	return cmd
}

func run(v *viper.Viper) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(v.GetString("log_level"))
	level.Info(logger).Log("msg", "starting propagation")

	jd0Str := v.GetString("jd0")
	epoch, err := time.Parse(time.RFC3339, jd0Str)
	if err != nil {
		return fmt.Errorf("apophis: parsing --jd0=%q: %w", jd0Str, err)
	}
	t0 := timeconv.UTCToTDBDays(epoch)

	nBwd := v.GetFloat64("nyears_bwd")
	nFwd := v.GetFloat64("nyears_fwd")
	const daysPerYear = 365.25
	tBwd := t0 + nBwd*daysPerYear
	tFwd := t0 + nFwd*daysPerYear

	vsopDir := v.GetString("ss_eph_file")
	if vsopDir == "" {
		vsopDir = cfg.EphemerisDir
	}

	bodies := nbody.DefaultBodySet()
	ephemerides, err := ephemsrc.BuildSolarSystemEphemeris(bodies, tBwd-30, tFwd+30, 16, 8, vsopDir)
	if err != nil {
		return fmt.Errorf("apophis: fitting solar-system ephemeris: %w", err)
	}
	source := sourceFromEphemerides{ephemerides: ephemerides, lo: tBwd - 30, hi: tFwd + 30}

	driverCfg := integrator.Config{
		Order:       v.GetInt("order"),
		AbsTol:      v.GetFloat64("abstol"),
		MaxSteps:    v.GetInt("maxsteps"),
		MaxStepDay:  30,
		StatusEvery: 10 * time.Second,
		VarOrder:    v.GetInt("varorder"),
	}

	var sink integrator.Sink
	if outDir := v.GetString("out_dir"); outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("apophis: creating %s: %w", outDir, err)
		}
		csvSink, err := output.NewCSVSink(outDir+"/samples.csv", outDir+"/events.csv")
		if err != nil {
			return err
		}
		defer csvSink.Close()
		sink = csvSink
	}

	// Apophis's reference orbital elements (JPL solution #206, epoch
	// 2020-12-17): semi-major axis ~0.9224 au, eccentricity ~0.1914.
	r0, v0 := kepler.ToCartesian(kepler.Elements{
		A: 0.9224, E: 0.1914, I: 0.0537, RAAN: 3.3312, ArgPeri: 2.1197, TrueAnom: 0.0,
	}, nbody.Sun.Mu)
	x0 := nbody.State[float64]{Pos: r0, Vel: v0}

	driver := integrator.NewDriver(driverCfg, source, logger, sink)

	earthIdx, err := earthIndex(ephemerides)
	if err != nil {
		return fmt.Errorf("apophis: %w", err)
	}
	trig := integrator.EventTrigger{Name: "earth-close-approach", BodyIndex: earthIdx, Threshold: 0.01}
	driver.Events = []integrator.EventTrigger{trig}

	xFwd, tReached, err := driver.Run(t0, x0, tFwd)
	if err != nil {
		if _, ok := err.(*integrator.ErrMaxStepsExceeded); !ok {
			return fmt.Errorf("apophis: forward propagation: %w", err)
		}
		level.Info(logger).Log("msg", "forward propagation hit its step budget", "t_tdb_days", tReached)
	}
	level.Info(logger).Log("msg", "forward propagation complete", "t_utc", timeconv.TDBDaysToUTC(tReached), "x_au", xFwd.Pos[0], "y_au", xFwd.Pos[1], "z_au", xFwd.Pos[2])
	logLyapunov(logger, "forward", driver.Lyapunov)

	xBwd, tReachedBwd, err := driver.Run(t0, x0, tBwd)
	if err != nil {
		if _, ok := err.(*integrator.ErrMaxStepsExceeded); !ok {
			return fmt.Errorf("apophis: backward propagation: %w", err)
		}
		level.Info(logger).Log("msg", "backward propagation hit its step budget", "t_tdb_days", tReachedBwd)
	}
	level.Info(logger).Log("msg", "backward propagation complete", "t_utc", timeconv.TDBDaysToUTC(tReachedBwd), "x_au", xBwd.Pos[0], "y_au", xBwd.Pos[1], "z_au", xBwd.Pos[2])
	logLyapunov(logger, "backward", driver.Lyapunov)

	return nil
}

// logLyapunov reports the tracked Lyapunov spectrum for one propagation
// direction, or does nothing when --varorder disabled jet transport for
// this run.
func logLyapunov(logger log.Logger, direction string, tracker *integrator.LyapunovTracker) {
	if tracker == nil {
		return
	}
	spectrum := tracker.Spectrum()
	level.Info(logger).Log("msg", "lyapunov spectrum estimated", "direction", direction, "largest_exponent_per_day", spectrum[0])
}

// earthIndex finds Earth's position within the ephemeris-derived body
// list, the same slice order integrator.Driver.Run builds each step's
// nbody.Params from — not nbody.DefaultBodySet(), whose indices don't
// line up (BuildSolarSystemEphemeris drops the Moon).
func earthIndex(ephemerides []nbody.BodyEphemeris) (int, error) {
	for i, e := range ephemerides {
		if e.Body.Name == "Earth" {
			return i, nil
		}
	}
	return 0, fmt.Errorf("earth not found in solar-system ephemeris body list")
}

// Package integrator drives the adaptive Taylor-series propagation of an
// asteroid's jet-transport state through a solar-system ephemeris,
// detecting close-approach events along the way and, when requested,
// tracking the trajectory's Lyapunov spectrum via the variational
// equations carried inside the jet-transport state itself.
package integrator

import "fmt"

// ErrMaxStepsExceeded is returned when the driver reaches its configured
// step budget before the requested stop time.
type ErrMaxStepsExceeded struct {
	Steps int
}

func (e *ErrMaxStepsExceeded) Error() string {
	return fmt.Sprintf("integrator: exceeded step budget of %d", e.Steps)
}

// ErrOutOfEphemerisRange is returned when the current epoch falls outside
// every body ephemeris's fitted knot span.
type ErrOutOfEphemerisRange struct {
	T float64
}

func (e *ErrOutOfEphemerisRange) Error() string {
	return fmt.Sprintf("integrator: epoch t=%g outside the loaded ephemeris span", e.T)
}

// ErrStopped is returned (not treated as failure by callers) when a stop
// was requested via Driver.Stop before the target time was reached.
type ErrStopped struct{}

func (e *ErrStopped) Error() string { return "integrator: propagation stopped by request" }

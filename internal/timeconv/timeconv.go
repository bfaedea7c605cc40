// Package timeconv handles the UTC <-> TDB conversion at the I/O boundary
// (section 6 of the design): external dates are UTC, the integrator's
// internal time is TDB days past J2000. Nothing inside the Taylor step
// kernel should ever see a time.Time; conversion happens once, here.
package timeconv

import (
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
)

// tdbMinusTaiSeconds is the near-constant 32.184s offset between TT/TDB and
// TAI; the periodic TDB-TT term (sub-millisecond) is neglected, matching
// the precision the reference problem's day-scale step sizes need.
const tdbMinusTaiSeconds = 32.184

// leapSecondsAt2020 is the accumulated TAI-UTC offset. It changes at announced
// leap-second epochs; the reference problem's epoch (2020-12-17) uses the
// value in force since 2017-01-01.
const leapSecondsAt2020 = 37

// UTCToTDBDays converts a UTC time.Time into TDB days past J2000 (JD
// 2451545.0), the independent variable the integrator advances in.
func UTCToTDBDays(t time.Time) float64 {
	tai := t.UTC().Add(time.Duration(leapSecondsAt2020) * time.Second)
	tdb := tai.Add(time.Duration(tdbMinusTaiSeconds*1e9) * time.Nanosecond)
	jd := julian.TimeToJD(tdb)
	return jd - base.J2000
}

// TDBDaysToUTC is the inverse of UTCToTDBDays, used to stamp event records
// and dense-output knots with a human-readable UTC time for reporting.
func TDBDaysToUTC(days float64) time.Time {
	jd := days + base.J2000
	tdb := julian.JDToTime(jd)
	tai := tdb.Add(-time.Duration(tdbMinusTaiSeconds*1e9) * time.Nanosecond)
	return tai.Add(-time.Duration(leapSecondsAt2020) * time.Second).UTC()
}

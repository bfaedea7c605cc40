// Package logging wires up the go-kit structured logger used throughout
// the propagator, the same "level, subsys, message" key/value idiom the
// teacher's Mission.LogStatus calls used.
package logging

import (
	"os"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// New returns a go-kit logger writing logfmt to stderr, timestamped, with
// the minimum level filtered by minLevel ("debug", "info", "warn",
// "error"; anything else defaults to "info").
func New(minLevel string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.TimestampFormat(func() time.Time { return time.Now().UTC() }, time.RFC3339))

	var opt level.Option
	switch minLevel {
	case "debug":
		opt = level.AllowDebug()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		opt = level.AllowInfo()
	}
	return level.NewFilter(logger, opt)
}

// Package output streams a propagation's samples and events to disk,
// adapted from the teacher's StreamStates Cosmographia export but
// simplified to plain CSV written synchronously on each call (no channel
// or background goroutine), since there is no visualization catalog to
// build here.
package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/asterodyne/apophis/internal/integrator"
)

// CSVSink writes samples and events to two CSV files opened at
// construction, flushing as it goes so a killed run leaves a usable
// partial trace.
type CSVSink struct {
	samples *csv.Writer
	events  *csv.Writer
	sf, ef  *os.File
}

// NewCSVSink creates (or truncates) samplesPath and eventsPath and writes
// their headers.
func NewCSVSink(samplesPath, eventsPath string) (*CSVSink, error) {
	sf, err := os.Create(samplesPath)
	if err != nil {
		return nil, fmt.Errorf("output: creating %s: %w", samplesPath, err)
	}
	ef, err := os.Create(eventsPath)
	if err != nil {
		sf.Close()
		return nil, fmt.Errorf("output: creating %s: %w", eventsPath, err)
	}

	s := &CSVSink{samples: csv.NewWriter(sf), events: csv.NewWriter(ef), sf: sf, ef: ef}
	s.samples.Write([]string{"t_tdb_days", "x", "y", "z", "vx", "vy", "vz", "yark", "beta"})
	s.events.Write([]string{"trigger", "t_tdb_days", "distance_au"})
	s.samples.Flush()
	s.events.Flush()
	return s, nil
}

// Emit implements integrator.Sink.
func (s *CSVSink) Emit(sample integrator.Sample) error {
	row := []string{
		strconv.FormatFloat(sample.T, 'g', -1, 64),
		strconv.FormatFloat(sample.State.Pos[0], 'g', -1, 64),
		strconv.FormatFloat(sample.State.Pos[1], 'g', -1, 64),
		strconv.FormatFloat(sample.State.Pos[2], 'g', -1, 64),
		strconv.FormatFloat(sample.State.Vel[0], 'g', -1, 64),
		strconv.FormatFloat(sample.State.Vel[1], 'g', -1, 64),
		strconv.FormatFloat(sample.State.Vel[2], 'g', -1, 64),
		strconv.FormatFloat(sample.State.Yark, 'g', -1, 64),
		strconv.FormatFloat(sample.State.Beta, 'g', -1, 64),
	}
	if err := s.samples.Write(row); err != nil {
		return err
	}
	s.samples.Flush()
	return s.samples.Error()
}

// EmitEvent implements integrator.Sink.
func (s *CSVSink) EmitEvent(ev integrator.Event) error {
	row := []string{
		ev.Trigger.Name,
		strconv.FormatFloat(ev.T, 'g', -1, 64),
		strconv.FormatFloat(ev.Distance, 'g', -1, 64),
	}
	if err := s.events.Write(row); err != nil {
		return err
	}
	s.events.Flush()
	return s.events.Error()
}

// Close flushes and closes both underlying files.
func (s *CSVSink) Close() error {
	s.samples.Flush()
	s.events.Flush()
	if err := s.sf.Close(); err != nil {
		return err
	}
	return s.ef.Close()
}

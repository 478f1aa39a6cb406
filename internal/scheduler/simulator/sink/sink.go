package sink

import (
	"github.com/hashicorp/go-multierror"

	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/simulator"
)

// ParquetSink writes the job and round records of a single simulation to parquet files in a directory.
type ParquetSink struct {
	jobWriter   *JobWriter
	roundWriter *RoundWriter
}

func NewParquetSink(outputDir string) (*ParquetSink, error) {
	jobWriter, err := NewJobWriter(outputDir)
	if err != nil {
		return nil, err
	}
	roundWriter, err := NewRoundWriter(outputDir)
	if err != nil {
		jobWriter.Close()
		return nil, err
	}
	return &ParquetSink{
		jobWriter:   jobWriter,
		roundWriter: roundWriter,
	}, nil
}

func (s *ParquetSink) OnRoundEnd(record simulator.RoundRecord) error {
	return s.roundWriter.Update(record)
}

func (s *ParquetSink) OnJobCompleted(record simulator.JobRecord) error {
	return s.jobWriter.Update(record)
}

// Close flushes both files. It must be called once the simulation has finished.
func (s *ParquetSink) Close() error {
	var result *multierror.Error
	if err := s.roundWriter.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := s.jobWriter.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

type multiSink []simulator.Sink

// Multi returns a sink forwarding every record to each of sinks in order. Nil sinks are skipped.
func Multi(sinks ...simulator.Sink) simulator.Sink {
	rv := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			rv = append(rv, s)
		}
	}
	return rv
}

func (m multiSink) OnRoundEnd(record simulator.RoundRecord) error {
	for _, s := range m {
		if err := s.OnRoundEnd(record); err != nil {
			return err
		}
	}
	return nil
}

func (m multiSink) OnJobCompleted(record simulator.JobRecord) error {
	for _, s := range m {
		if err := s.OnJobCompleted(record); err != nil {
			return err
		}
	}
	return nil
}

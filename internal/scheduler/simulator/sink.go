package simulator

// Sink receives diagnostic records as a simulation progresses.
// An error returned by a Sink aborts the simulation.
type Sink interface {
	OnRoundEnd(record RoundRecord) error
	OnJobCompleted(record JobRecord) error
}

type NullSink struct{}

func (NullSink) OnRoundEnd(RoundRecord) error { return nil }

func (NullSink) OnJobCompleted(JobRecord) error { return nil }

// MemorySink stores every record it receives.
type MemorySink struct {
	Rounds []RoundRecord
	Jobs   []JobRecord
}

func (s *MemorySink) OnRoundEnd(record RoundRecord) error {
	s.Rounds = append(s.Rounds, record)
	return nil
}

func (s *MemorySink) OnJobCompleted(record JobRecord) error {
	s.Jobs = append(s.Jobs, record)
	return nil
}

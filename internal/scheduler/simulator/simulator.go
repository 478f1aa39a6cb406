package simulator

import (
	"container/heap"
	"math"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/Enuma3lish/ultimus-sub000/internal/common/simcontext"
	"github.com/Enuma3lish/ultimus-sub000/internal/common/simerrors"
	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/mlf"
	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/scoring"
	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/selector"
	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/workload"
)

// Simulator captures the parameters and state of a single simulation run.
// A Simulator runs once and is not safe for concurrent use.
type Simulator struct {
	config Config
	// All jobs in admission order. Job ids are indices into this slice.
	jobs   []*mlf.Job
	mlf    *mlf.MultiLevelFeedback
	index  *selector.Indexed
	scorer *scoring.Scorer
	// Non-nil if a single policy runs for the whole simulation.
	static *selector.Policy
	// Policy of the current round.
	policy selector.Policy
	round  round
	// Current simulated time.
	time int64
	// The run is aborted if time passes this bound.
	bound int64
	// Number of jobs yet to be admitted.
	pending int
	// Sum of the arrival times of active jobs, recomputed whenever the active set changes.
	activeArrivalSum float64
	// Sequence number of the next event to be published.
	sequenceNumber int
	// Events stored in a priority queue ordered first by time and second by sequence number.
	eventLog EventLog
	seed     int64
	metrics  *MetricsCollector
	rounds   []RoundRecord
	sink     Sink
	ran      bool
}

// round holds the bookkeeping of the round in progress.
type round struct {
	index     int
	startTime int64
	cost      float64
	completed int
}

// Result is the outcome of a completed simulation.
type Result struct {
	AverageFlowTime float64
	L2NormFlowTime  float64
	Metrics         Metrics
	// One record per job, ordered by id.
	Jobs []JobRecord
	// One record per completed round.
	Rounds []RoundRecord
	// Simulated time at which the last job completed.
	FinalTime int64
	Seed      int64
}

// NewSimulator validates config and jobs and returns a simulator ready to run.
// Invalid input is reported as *simerrors.ErrInvalidArgument.
func NewSimulator(config Config, jobs []workload.JobSpec, sink Sink) (*Simulator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := workload.Validate(jobs); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = NullSink{}
	}
	seed := config.Seed
	if seed == 0 {
		// Seed the RNG using the local time if no explicit random seed is provided.
		seed = time.Now().UnixNano()
	}
	s := &Simulator{
		config:  config,
		mlf:     mlf.New(config.MLF, rand.New(rand.NewSource(seed))),
		index:   selector.NewIndexed(config.HeapThreshold),
		scorer:  scoring.NewScorer(config.DiscountFactor),
		policy:  config.Baseline,
		round:   round{index: 1},
		seed:    seed,
		metrics: NewMetricsCollector(),
		sink:    sink,
	}
	if p, ok := config.staticPolicy(); ok {
		s.static = &p
		s.policy = p
	}
	s.bootstrapWorkload(jobs)
	return s, nil
}

// Simulate runs a simulation of jobs without a diagnostic sink.
func Simulate(ctx *simcontext.Context, config Config, jobs []workload.JobSpec) (*Result, error) {
	s, err := NewSimulator(config, jobs, nil)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx)
}

// bootstrapWorkload creates the jobs and publishes an arrival event for every tick at which jobs are admitted.
func (s *Simulator) bootstrapWorkload(specs []workload.JobSpec) {
	sorted := workload.Sorted(specs)
	s.jobs = make([]*mlf.Job, len(sorted))
	var latestArrival int64
	for i, spec := range sorted {
		s.jobs[i] = mlf.NewJob(i, spec.ArrivalTime, spec.Size)
	}
	for i := 0; i < len(s.jobs); {
		// Jobs are admitted on the first tick at or after their arrival.
		t := int64(math.Ceil(s.jobs[i].ArrivalTime()))
		j := i
		for j < len(s.jobs) && int64(math.Ceil(s.jobs[j].ArrivalTime())) == t {
			j++
		}
		s.pushEvent(t, arrivalEvent{jobs: s.jobs[i:j]})
		latestArrival = t
		i = j
	}
	s.pending = len(s.jobs)
	s.bound = s.config.MaxSimulatedTime
	if s.bound == 0 {
		// Work is never left waiting while the machine is idle, so every job completes by then.
		s.bound = latestArrival + workload.TotalWork(specs) + s.config.Checkpoint
	}
	if len(s.jobs) > 0 {
		s.pushEvent(s.config.Checkpoint, checkpointEvent{})
	}
}

func (s *Simulator) pushEvent(t int64, payload any) {
	heap.Push(&s.eventLog, Event{
		time:           t,
		sequenceNumber: s.sequenceNumber,
		payload:        payload,
	})
	s.sequenceNumber++
}

// Run runs the simulation until all jobs have completed.
func (s *Simulator) Run(ctx *simcontext.Context) (*Result, error) {
	if s.ran {
		return nil, errors.New("simulator has already run")
	}
	s.ran = true
	startTime := time.Now()
	ctx.Infof(
		"Simulating %d jobs with policy %s on the %s clock; seed %d, checkpoint %d, bound %d",
		len(s.jobs), s.config.Policy, s.config.Clock, s.seed, s.config.Checkpoint, s.bound,
	)

	for s.pending > 0 || s.mlf.Len() > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if s.time > s.bound {
			return nil, &simerrors.ErrSimulationDivergence{
				Round:       s.round.index,
				Time:        s.time,
				Bound:       s.bound,
				Outstanding: s.pending + s.mlf.Len(),
			}
		}
		if err := s.handleDueEvents(ctx); err != nil {
			return nil, err
		}
		job, err := s.selectJob()
		if err != nil {
			return nil, err
		}
		delta := s.segmentLength(job)
		s.accumulateCost(delta)
		if job != nil {
			if err := s.execute(job, delta); err != nil {
				return nil, err
			}
		}
		s.time += delta
	}
	// Close the last round if the final job completed exactly on a checkpoint.
	if err := s.handleDueEvents(ctx); err != nil {
		return nil, err
	}

	result := s.result()
	ctx.Infof("All jobs complete at %d. Simulation took %s", s.time, time.Since(startTime))
	ctx.Infof("Metrics: %s", result.Metrics)
	return result, nil
}

func (s *Simulator) handleDueEvents(ctx *simcontext.Context) error {
	for s.eventLog.Len() > 0 && s.eventLog[0].time <= s.time {
		event := heap.Pop(&s.eventLog).(Event)
		switch e := event.payload.(type) {
		case arrivalEvent:
			s.admit(e.jobs)
		case checkpointEvent:
			if err := s.endRound(ctx); err != nil {
				return err
			}
		default:
			return errors.Errorf("unknown event type %T", e)
		}
	}
	return nil
}

func (s *Simulator) admit(jobs []*mlf.Job) {
	for _, job := range jobs {
		s.mlf.Insert(job)
		s.index.Admitted(job)
	}
	s.pending -= len(jobs)
	s.sumActiveArrivals()
}

func (s *Simulator) sumActiveArrivals() {
	s.activeArrivalSum = 0
	for _, q := range s.mlf.Queues() {
		for _, job := range q.Jobs() {
			s.activeArrivalSum += job.ArrivalTime()
		}
	}
}

func (s *Simulator) selectJob() (*mlf.Job, error) {
	job := s.index.Select(s.policy, s.mlf)
	if job == nil && s.mlf.Len() > 0 {
		return nil, &simerrors.ErrSelectorMiss{
			Policy:      s.policy.String(),
			Round:       s.round.index,
			Time:        s.time,
			Outstanding: s.mlf.Len(),
		}
	}
	return job, nil
}

// segmentLength returns the number of ticks to advance by. On the event clock this is the longest
// stretch over which neither the selected job nor the contents of any queue changes.
func (s *Simulator) segmentLength(job *mlf.Job) int64 {
	if s.config.Clock == ClockTick {
		return 1
	}
	delta := int64(math.MaxInt64)
	if s.eventLog.Len() > 0 {
		delta = s.eventLog[0].time - s.time
	}
	if job != nil {
		delta = min(delta, job.RemainingTime(), s.mlf.UnitsToPromotion(job))
	}
	return min(delta, s.bound+1-s.time)
}

// accumulateCost adds, for each of the next delta ticks, the summed age of all active jobs to the round cost.
// The set of active jobs is fixed over the segment.
func (s *Simulator) accumulateCost(delta int64) {
	n := float64(s.mlf.Len())
	if n == 0 {
		return
	}
	for k := int64(0); k < delta; k++ {
		s.round.cost += n*float64(s.time+k) - s.activeArrivalSum
	}
}

func (s *Simulator) execute(job *mlf.Job, delta int64) error {
	job.MarkExecuted(s.time)
	s.mlf.IncreaseBy(job, delta)
	s.index.Executed(job)
	if !job.IsCompleted() {
		return nil
	}
	if err := job.MarkCompleted(s.time + delta); err != nil {
		return err
	}
	if err := s.mlf.Remove(job); err != nil {
		return err
	}
	s.index.Removed(job)
	s.sumActiveArrivals()
	s.round.completed++

	record := jobRecordFromJob(job)
	if err := s.metrics.OnJobCompleted(record); err != nil {
		return err
	}
	return s.sink.OnJobCompleted(record)
}

func (s *Simulator) result() *Result {
	jobs := make([]JobRecord, len(s.jobs))
	for i, job := range s.jobs {
		jobs[i] = jobRecordFromJob(job)
	}
	return &Result{
		AverageFlowTime: s.metrics.AverageFlowTime(),
		L2NormFlowTime:  s.metrics.L2NormFlowTime(),
		Metrics:         s.metrics.Metrics(),
		Jobs:            jobs,
		Rounds:          s.rounds,
		FinalTime:       s.time,
		Seed:            s.seed,
	}
}

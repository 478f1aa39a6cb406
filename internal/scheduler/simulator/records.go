package simulator

import (
	"github.com/markphelps/optional"

	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/mlf"
	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/selector"
)

// RoundRecord describes a completed round.
type RoundRecord struct {
	// Rounds are numbered from 1.
	RoundIndex int
	// Policy that ran during the round.
	Policy    selector.Policy
	StartTime int64
	EndTime   int64
	// Sum over the ticks of the round of the age of every active job.
	RoundCost float64
	// RoundCost divided by one more than JobsCompleted.
	NormalisedCost float64
	JobsCompleted  int
	// Number of feedback queue levels created so far.
	Levels int
	// Scores after the round. +Inf for a policy that has not yet run a round.
	BaselineScore float64
	AdaptiveScore float64
	// Policy chosen for the next round.
	NextPolicy selector.Policy
}

// JobRecord describes a job at the end of a simulation.
type JobRecord struct {
	Id                int
	ArrivalTime       float64
	Size              int64
	FirstExecutedTime optional.Int64
	CompletionTime    optional.Int64
	Done              bool
	// Units of work done so far.
	Executed int64
	// Feedback queue level at completion, or when the simulation ended.
	Level int
	Beta  float64
}

// FlowTime returns the time between arrival and completion, or 0 for jobs that did not complete.
func (r JobRecord) FlowTime() float64 {
	if !r.CompletionTime.Present() {
		return 0
	}
	return float64(r.CompletionTime.MustGet()) - r.ArrivalTime
}

func jobRecordFromJob(job *mlf.Job) JobRecord {
	return JobRecord{
		Id:                job.Id(),
		ArrivalTime:       job.ArrivalTime(),
		Size:              job.ProcessingTime(),
		FirstExecutedTime: job.FirstExecutedTime(),
		CompletionTime:    job.CompletionTime(),
		Done:              job.CompletionTime().Present(),
		Executed:          job.ExecutingTime(),
		Level:             job.CurrentQueue(),
		Beta:              job.Beta(),
	}
}

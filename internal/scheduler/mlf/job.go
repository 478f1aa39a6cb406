package mlf

import (
	"fmt"

	"github.com/markphelps/optional"
	"github.com/pkg/errors"
)

// Job is a single unit of work admitted to the simulated machine.
// Queue placement fields are only modified by the MultiLevelFeedback holding the job.
type Job struct {
	id             int
	arrivalTime    float64
	processingTime int64
	executingTime  int64
	// Index of the FeedbackQueue holding the job.
	currentQueue int
	// Units run since the job entered its current queue.
	timeInCurrentQueue int64
	// Drawn once on insertion; scales the promotion thresholds of the job.
	beta              float64
	firstExecutedTime optional.Int64
	completionTime    optional.Int64
}

func NewJob(id int, arrivalTime float64, processingTime int64) *Job {
	return &Job{
		id:             id,
		arrivalTime:    arrivalTime,
		processingTime: processingTime,
	}
}

func (job *Job) Id() int {
	return job.id
}

func (job *Job) ArrivalTime() float64 {
	return job.arrivalTime
}

func (job *Job) ProcessingTime() int64 {
	return job.processingTime
}

func (job *Job) ExecutingTime() int64 {
	return job.executingTime
}

func (job *Job) RemainingTime() int64 {
	return job.processingTime - job.executingTime
}

func (job *Job) IsCompleted() bool {
	return job.executingTime >= job.processingTime
}

func (job *Job) CurrentQueue() int {
	return job.currentQueue
}

func (job *Job) TimeInCurrentQueue() int64 {
	return job.timeInCurrentQueue
}

func (job *Job) Beta() float64 {
	return job.beta
}

func (job *Job) FirstExecutedTime() optional.Int64 {
	return job.firstExecutedTime
}

func (job *Job) CompletionTime() optional.Int64 {
	return job.completionTime
}

// MarkExecuted records t as the first time the job ran. Later calls are ignored.
func (job *Job) MarkExecuted(t int64) {
	if !job.firstExecutedTime.Present() {
		job.firstExecutedTime = optional.NewInt64(t)
	}
}

// MarkCompleted sets the completion time of a job that has received all its processing time.
func (job *Job) MarkCompleted(t int64) error {
	if !job.IsCompleted() {
		return errors.Errorf("job %d has %d units remaining and cannot complete", job.id, job.RemainingTime())
	}
	if job.completionTime.Present() {
		return errors.Errorf("job %d already completed at %d", job.id, job.completionTime.MustGet())
	}
	job.completionTime = optional.NewInt64(t)
	return nil
}

func (job *Job) String() string {
	return fmt.Sprintf(
		"{id: %d, arrival: %g, size: %d, executed: %d, queue: %d, inQueue: %d}",
		job.Id(), job.ArrivalTime(), job.ProcessingTime(), job.ExecutingTime(), job.CurrentQueue(), job.TimeInCurrentQueue(),
	)
}

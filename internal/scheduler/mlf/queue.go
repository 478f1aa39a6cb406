package mlf

// FeedbackQueue holds the jobs at one priority level in the order they entered the level.
type FeedbackQueue struct {
	level int
	jobs  []*Job
}

func newFeedbackQueue(level int) *FeedbackQueue {
	return &FeedbackQueue{level: level}
}

func (q *FeedbackQueue) Level() int {
	return q.level
}

func (q *FeedbackQueue) Len() int {
	return len(q.jobs)
}

// Jobs returns the jobs of the queue in order. The returned slice must not be modified.
func (q *FeedbackQueue) Jobs() []*Job {
	return q.jobs
}

func (q *FeedbackQueue) append(job *Job) {
	q.jobs = append(q.jobs, job)
}

func (q *FeedbackQueue) remove(job *Job) bool {
	for i, j := range q.jobs {
		if j == job {
			copy(q.jobs[i:], q.jobs[i+1:])
			q.jobs[len(q.jobs)-1] = nil
			q.jobs = q.jobs[:len(q.jobs)-1]
			return true
		}
	}
	return false
}

package selector

import (
	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/mlf"
)

// DefaultHeapThreshold is the active-set size above which FCFS and SRPT selection uses heaps.
const DefaultHeapThreshold = 10

// Indexed selects jobs for every policy. It keeps FCFS and SRPT heaps in sync with the
// MultiLevelFeedback so that selection over large active sets takes logarithmic time;
// small active sets are scanned linearly. Both paths select the same job.
type Indexed struct {
	threshold int
	fcfs      *JobQueue
	srpt      *JobQueue
}

func NewIndexed(threshold int) *Indexed {
	return &Indexed{
		threshold: threshold,
		fcfs:      NewJobQueue(FCFSLess),
		srpt:      NewJobQueue(SRPTLess),
	}
}

// Admitted must be called after job is inserted into the MultiLevelFeedback.
func (ix *Indexed) Admitted(job *mlf.Job) {
	ix.fcfs.Push(job)
	ix.srpt.Push(job)
}

// Executed must be called after job has run.
func (ix *Indexed) Executed(job *mlf.Job) {
	ix.srpt.Fix(job)
}

// Removed must be called when job leaves the MultiLevelFeedback.
func (ix *Indexed) Removed(job *mlf.Job) {
	ix.fcfs.Remove(job)
	ix.srpt.Remove(job)
}

func (ix *Indexed) Select(policy Policy, m *mlf.MultiLevelFeedback) *mlf.Job {
	if policy == PolicyRMLF || m.Len() <= ix.threshold {
		return New(policy).Select(m)
	}
	if policy == PolicySRPT {
		return ix.srpt.Peek()
	}
	return ix.fcfs.Peek()
}

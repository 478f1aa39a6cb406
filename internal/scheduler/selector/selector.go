package selector

import (
	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/mlf"
)

// Selector picks the next job to run. Selectors never modify the jobs or queues they inspect.
type Selector interface {
	Policy() Policy
	// Select returns nil if there is no active job that still needs processing.
	Select(m *mlf.MultiLevelFeedback) *mlf.Job
}

func New(policy Policy) Selector {
	switch policy {
	case PolicySRPT:
		return SRPT{}
	case PolicyRMLF:
		return RMLF{}
	default:
		return FCFS{}
	}
}

// FCFSLess orders jobs by arrival time. Jobs arriving together run in admission order.
func FCFSLess(a, b *mlf.Job) bool {
	if a.ArrivalTime() != b.ArrivalTime() {
		return a.ArrivalTime() < b.ArrivalTime()
	}
	return a.Id() < b.Id()
}

// SRPTLess orders jobs by remaining time, then arrival time, then id.
func SRPTLess(a, b *mlf.Job) bool {
	if a.RemainingTime() != b.RemainingTime() {
		return a.RemainingTime() < b.RemainingTime()
	}
	return FCFSLess(a, b)
}

type FCFS struct{}

func (FCFS) Policy() Policy {
	return PolicyFCFS
}

func (FCFS) Select(m *mlf.MultiLevelFeedback) *mlf.Job {
	return scan(m, FCFSLess)
}

type SRPT struct{}

func (SRPT) Policy() Policy {
	return PolicySRPT
}

func (SRPT) Select(m *mlf.MultiLevelFeedback) *mlf.Job {
	return scan(m, SRPTLess)
}

// RMLF runs the job at the head of the lowest non-empty level.
type RMLF struct{}

func (RMLF) Policy() Policy {
	return PolicyRMLF
}

func (RMLF) Select(m *mlf.MultiLevelFeedback) *mlf.Job {
	for _, q := range m.Queues() {
		for _, job := range q.Jobs() {
			if !job.IsCompleted() {
				return job
			}
		}
	}
	return nil
}

func scan(m *mlf.MultiLevelFeedback, less func(a, b *mlf.Job) bool) *mlf.Job {
	var selected *mlf.Job
	m.ForEachActive(func(job *mlf.Job) {
		if job.IsCompleted() {
			return
		}
		if selected == nil || less(job, selected) {
			selected = job
		}
	})
	return selected
}

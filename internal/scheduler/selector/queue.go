package selector

import (
	"container/heap"

	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/mlf"
)

// JobQueue is a priority queue of jobs supporting removal and re-prioritisation of arbitrary jobs.
type JobQueue struct {
	h jobHeap
}

func NewJobQueue(less func(a, b *mlf.Job) bool) *JobQueue {
	return &JobQueue{
		h: jobHeap{
			index: make(map[*mlf.Job]int),
			less:  less,
		},
	}
}

func (q *JobQueue) Len() int {
	return q.h.Len()
}

func (q *JobQueue) Push(job *mlf.Job) {
	heap.Push(&q.h, job)
}

// Peek returns the highest-priority job, or nil if the queue is empty.
func (q *JobQueue) Peek() *mlf.Job {
	if q.h.Len() == 0 {
		return nil
	}
	return q.h.jobs[0]
}

// Fix restores the ordering after the priority of job has changed.
func (q *JobQueue) Fix(job *mlf.Job) {
	if i, ok := q.h.index[job]; ok {
		heap.Fix(&q.h, i)
	}
}

// Remove removes job, returning false if it was not in the queue.
func (q *JobQueue) Remove(job *mlf.Job) bool {
	i, ok := q.h.index[job]
	if !ok {
		return false
	}
	heap.Remove(&q.h, i)
	return true
}

type jobHeap struct {
	jobs  []*mlf.Job
	index map[*mlf.Job]int
	less  func(a, b *mlf.Job) bool
}

func (h jobHeap) Len() int { return len(h.jobs) }

func (h jobHeap) Less(i, j int) bool { return h.less(h.jobs[i], h.jobs[j]) }

func (h jobHeap) Swap(i, j int) {
	h.jobs[i], h.jobs[j] = h.jobs[j], h.jobs[i]
	h.index[h.jobs[i]] = i
	h.index[h.jobs[j]] = j
}

func (h *jobHeap) Push(x any) {
	job := x.(*mlf.Job)
	h.index[job] = len(h.jobs)
	h.jobs = append(h.jobs, job)
}

func (h *jobHeap) Pop() any {
	old := h.jobs
	n := len(old)
	job := old[n-1]
	old[n-1] = nil // avoid memory leak
	h.jobs = old[0 : n-1]
	delete(h.index, job)
	return job
}

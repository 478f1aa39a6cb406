package mlf

import (
	"math"
	"math/rand"
	"strconv"

	"github.com/Enuma3lish/ultimus-sub000/internal/common/simerrors"
)

type Config struct {
	// Base quantum of level 0, reduced by each job's beta.
	FirstLevelQuantum float64 `validate:"gt=0"`
	// Controls how quickly beta shrinks as more jobs are admitted.
	Tau float64 `validate:"gt=0"`
	// The first FixedBetaJobs jobs admitted receive FixedBeta instead of a random draw.
	FixedBetaJobs int     `validate:"gte=1"`
	FixedBeta     float64 `validate:"gte=0"`
}

func DefaultConfig() Config {
	return Config{
		FirstLevelQuantum: 2,
		Tau:               12,
		FixedBetaJobs:     3,
		FixedBeta:         2,
	}
}

// MultiLevelFeedback is a multi-level feedback queue with randomised promotion thresholds.
// Level 0 has the highest priority. Levels are created the first time a job is promoted into them.
type MultiLevelFeedback struct {
	config Config
	queues []*FeedbackQueue
	// All jobs held by any queue, by id.
	active map[int]*Job
	// Number of jobs ever inserted. Determines the beta distribution of the next job.
	totalJobsSeen int
	rand          *rand.Rand
}

func New(config Config, rand *rand.Rand) *MultiLevelFeedback {
	return &MultiLevelFeedback{
		config: config,
		queues: []*FeedbackQueue{newFeedbackQueue(0)},
		active: make(map[int]*Job),
		rand:   rand,
	}
}

// Insert admits job into level 0. Inserting a job that is already active is not supported.
func (m *MultiLevelFeedback) Insert(job *Job) {
	m.totalJobsSeen++
	job.beta = m.beta(m.totalJobsSeen)
	job.currentQueue = 0
	job.timeInCurrentQueue = 0
	m.queues[0].append(job)
	m.active[job.id] = job
}

// Remove removes job from its queue and from the active set.
func (m *MultiLevelFeedback) Remove(job *Job) error {
	if active, ok := m.active[job.id]; !ok || active != job {
		return &simerrors.ErrNotFound{Type: "job", Value: strconv.Itoa(job.id)}
	}
	if !m.queues[job.currentQueue].remove(job) {
		return &simerrors.ErrNotFound{
			Type:    "job",
			Value:   strconv.Itoa(job.id),
			Message: "missing from level " + strconv.Itoa(job.currentQueue),
		}
	}
	delete(m.active, job.id)
	return nil
}

// Increase runs job for a single unit.
func (m *MultiLevelFeedback) Increase(job *Job) {
	m.IncreaseBy(job, 1)
}

// IncreaseBy runs job for units consecutive units. The result is the same as calling Increase units times.
func (m *MultiLevelFeedback) IncreaseBy(job *Job, units int64) {
	for units > 0 {
		step := m.UnitsToPromotion(job)
		if step > units {
			step = units
		}
		job.executingTime += step
		job.timeInCurrentQueue += step
		units -= step
		if float64(job.timeInCurrentQueue) >= m.CalculateTarget(job) {
			m.promote(job)
		}
	}
}

// CalculateTarget returns the number of units job may run in its current level before being promoted.
func (m *MultiLevelFeedback) CalculateTarget(job *Job) float64 {
	if job.currentQueue == 0 {
		return math.Max(1, m.config.FirstLevelQuantum-job.beta)
	}
	base := math.Max(1, 2-job.beta)
	return math.Pow(2, float64(job.currentQueue-1)) * base * 2
}

// UnitsToPromotion returns the number of units after which job will be promoted if it keeps running.
func (m *MultiLevelFeedback) UnitsToPromotion(job *Job) int64 {
	units := int64(math.Ceil(m.CalculateTarget(job))) - job.timeInCurrentQueue
	if units < 1 {
		return 1
	}
	return units
}

func (m *MultiLevelFeedback) promote(job *Job) {
	m.queues[job.currentQueue].remove(job)
	next := job.currentQueue + 1
	if next == len(m.queues) {
		m.queues = append(m.queues, newFeedbackQueue(next))
	}
	m.queues[next].append(job)
	job.currentQueue = next
	job.timeInCurrentQueue = 0
}

// beta returns the beta of the job with the given admission ordinal (starting at 1).
func (m *MultiLevelFeedback) beta(ordinal int) float64 {
	if ordinal <= m.config.FixedBetaJobs {
		return m.config.FixedBeta
	}
	u := m.rand.Float64()
	return -math.Log(1-u) / (m.config.Tau * math.Log(float64(ordinal)))
}

// Len returns the number of active jobs.
func (m *MultiLevelFeedback) Len() int {
	return len(m.active)
}

func (m *MultiLevelFeedback) TotalJobsSeen() int {
	return m.totalJobsSeen
}

func (m *MultiLevelFeedback) NumLevels() int {
	return len(m.queues)
}

// Queues returns the feedback queues ordered by level. The returned slice must not be modified.
func (m *MultiLevelFeedback) Queues() []*FeedbackQueue {
	return m.queues
}

// ForEachActive calls fn for every active job in no particular order.
func (m *MultiLevelFeedback) ForEachActive(fn func(job *Job)) {
	for _, job := range m.active {
		fn(job)
	}
}

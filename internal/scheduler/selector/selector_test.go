package selector

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/mlf"
)

func TestParsePolicy(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected Policy
		isValid  bool
	}{
		"fcfs":       {input: "fcfs", expected: PolicyFCFS, isValid: true},
		"upper case": {input: "SRPT", expected: PolicySRPT, isValid: true},
		"padded":     {input: " rmlf ", expected: PolicyRMLF, isValid: true},
		"unknown":    {input: "lifo", isValid: false},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var p Policy
			err := p.UnmarshalText([]byte(tc.input))
			if !tc.isValid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, p)
			text, err := p.MarshalText()
			require.NoError(t, err)
			assert.Equal(t, tc.expected.String(), string(text))
		})
	}
	assert.False(t, Policy(17).Valid())
	assert.Equal(t, "unknown", Policy(17).String())
}

func TestSelect(t *testing.T) {
	// Admission order is the job id order.
	specs := []struct {
		arrival float64
		size    int64
		run     int64
	}{
		{arrival: 0, size: 6, run: 3},
		{arrival: 1, size: 3, run: 0},
		{arrival: 1, size: 5, run: 2},
		{arrival: 2, size: 4, run: 1},
	}
	tests := map[string]struct {
		selector   Selector
		expectedId int
	}{
		"fcfs picks earliest arrival": {
			selector:   FCFS{},
			expectedId: 0,
		},
		"srpt breaks remaining time ties by arrival": {
			// Jobs 0, 1, 2 and 3 have 3, 3, 3 and 3 units remaining.
			selector:   SRPT{},
			expectedId: 0,
		},
		"rmlf picks head of lowest level": {
			// Jobs 0 and 2 have left level 0, where job 1 is ahead of job 3.
			selector:   RMLF{},
			expectedId: 1,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			m := mlf.New(mlf.DefaultConfig(), rand.New(rand.NewSource(0)))
			for i, spec := range specs {
				job := mlf.NewJob(i, spec.arrival, spec.size)
				m.Insert(job)
				m.IncreaseBy(job, spec.run)
			}
			selected := tc.selector.Select(m)
			require.NotNil(t, selected)
			assert.Equal(t, tc.expectedId, selected.Id())
		})
	}
}

func TestSelect_SRPTTieBreaks(t *testing.T) {
	m := mlf.New(mlf.DefaultConfig(), rand.New(rand.NewSource(0)))
	m.Insert(mlf.NewJob(0, 2, 3))
	m.Insert(mlf.NewJob(1, 1, 3))
	m.Insert(mlf.NewJob(2, 1, 3))
	m.Insert(mlf.NewJob(3, 0, 4))
	assert.Equal(t, 1, SRPT{}.Select(m).Id())
	assert.Equal(t, 3, FCFS{}.Select(m).Id())
}

func TestSelect_Empty(t *testing.T) {
	m := mlf.New(mlf.DefaultConfig(), rand.New(rand.NewSource(0)))
	for _, policy := range []Policy{PolicyFCFS, PolicySRPT, PolicyRMLF} {
		assert.Nil(t, New(policy).Select(m))
		assert.Nil(t, NewIndexed(0).Select(policy, m))
	}
}

func TestSelect_SkipsCompletedJobs(t *testing.T) {
	m := mlf.New(mlf.DefaultConfig(), rand.New(rand.NewSource(0)))
	done := mlf.NewJob(0, 0, 1)
	m.Insert(done)
	m.Insert(mlf.NewJob(1, 1, 5))
	m.Increase(done)
	require.True(t, done.IsCompleted())
	for _, policy := range []Policy{PolicyFCFS, PolicySRPT, PolicyRMLF} {
		assert.Equal(t, 1, New(policy).Select(m).Id(), policy.String())
	}

	m = mlf.New(mlf.DefaultConfig(), rand.New(rand.NewSource(0)))
	only := mlf.NewJob(0, 0, 1)
	m.Insert(only)
	m.Increase(only)
	assert.Nil(t, RMLF{}.Select(m))
}

func TestIndexed_MatchesLinearSelection(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for config := 0; config < 1000; config++ {
		m := mlf.New(mlf.DefaultConfig(), rand.New(rand.NewSource(int64(config))))
		ix := NewIndexed(0)
		nextId := 0
		numOps := 1 + r.Intn(60)
		for op := 0; op < numOps; op++ {
			if m.Len() == 0 || r.Intn(3) == 0 {
				// Few distinct arrival times and sizes so that ties are common.
				job := mlf.NewJob(nextId, float64(r.Intn(5))/2, 1+r.Int63n(8))
				nextId++
				m.Insert(job)
				ix.Admitted(job)
			} else {
				policy := Policy(r.Intn(3))
				job := ix.Select(policy, m)
				require.NotNil(t, job)
				units := 1 + r.Int63n(job.RemainingTime())
				m.IncreaseBy(job, units)
				ix.Executed(job)
				if job.IsCompleted() {
					require.NoError(t, m.Remove(job))
					ix.Removed(job)
				}
			}
			require.Same(t, SRPT{}.Select(m), ix.Select(PolicySRPT, m), "config %d op %d", config, op)
			require.Same(t, FCFS{}.Select(m), ix.Select(PolicyFCFS, m), "config %d op %d", config, op)
			require.Same(t, bruteForceRMLF(m), RMLF{}.Select(m), "config %d op %d", config, op)
		}
	}
}

func TestIndexed_UsesLinearScanBelowThreshold(t *testing.T) {
	m := mlf.New(mlf.DefaultConfig(), rand.New(rand.NewSource(0)))
	ix := NewIndexed(DefaultHeapThreshold)
	job := mlf.NewJob(0, 0, 3)
	m.Insert(job)
	// Not admitted to the index, so only a linear scan can find it.
	assert.Same(t, job, ix.Select(PolicySRPT, m))
}

func bruteForceRMLF(m *mlf.MultiLevelFeedback) *mlf.Job {
	var selected *mlf.Job
	selectedLevel, selectedPos := 0, 0
	m.ForEachActive(func(job *mlf.Job) {
		if job.IsCompleted() {
			return
		}
		level := job.CurrentQueue()
		pos := -1
		for i, j := range m.Queues()[level].Jobs() {
			if j == job {
				pos = i
			}
		}
		if selected == nil || level < selectedLevel || (level == selectedLevel && pos < selectedPos) {
			selected, selectedLevel, selectedPos = job, level, pos
		}
	})
	return selected
}

package simulator

import (
	"math/rand"

	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/scoring"
	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/selector"
	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/workload"
)

// ThreeJobWorkload returns jobs arriving at 0, 1 and 2 with sizes 4, 2 and 1.
func ThreeJobWorkload() []workload.JobSpec {
	return []workload.JobSpec{
		{ArrivalTime: 0, Size: 4},
		{ArrivalTime: 1, Size: 2},
		{ArrivalTime: 2, Size: 1},
	}
}

// StaticConfig returns a deterministic config running policy for the whole simulation.
func StaticConfig(policy selector.Policy, clock ClockMode) Config {
	config := DefaultConfig()
	config.Name = policy.String()
	config.Policy = policy.String()
	config.Clock = clock
	config.Seed = 1
	return config
}

// DynamicConfig returns a deterministic config switching between FCFS and RMLF every checkpoint ticks.
func DynamicConfig(clock ClockMode, decisionMode scoring.DecisionMode, checkpoint int64) Config {
	config := DefaultConfig()
	config.Name = "dynamic-" + decisionMode.String()
	config.Clock = clock
	config.DecisionMode = decisionMode
	config.Checkpoint = checkpoint
	config.Seed = 1
	return config
}

// RandomWorkload returns numJobs jobs with arrivals spread over roughly numJobs ticks, some of them fractional.
func RandomWorkload(rng *rand.Rand, numJobs int, maxSize int64) []workload.JobSpec {
	jobs := make([]workload.JobSpec, numJobs)
	for i := range jobs {
		arrival := float64(rng.Intn(numJobs + 1))
		if rng.Intn(4) == 0 {
			arrival += 0.5
		}
		jobs[i] = workload.JobSpec{
			ArrivalTime: arrival,
			Size:        1 + rng.Int63n(maxSize),
		}
	}
	return jobs
}

// WithClock returns a copy of config using the given clock.
func WithClock(config Config, clock ClockMode) Config {
	config.Clock = clock
	return config
}

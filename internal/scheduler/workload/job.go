package workload

import (
	"fmt"
	"math"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/exp/slices"

	"github.com/Enuma3lish/ultimus-sub000/internal/common/simerrors"
)

// JobSpec is a job as it appears in a workload, before admission.
type JobSpec struct {
	ArrivalTime float64 `mapstructure:"arrivalTime"`
	Size        int64   `mapstructure:"size"`
}

type validateOptions struct {
	requireJobs bool
}

type ValidateOption func(*validateOptions)

// RequireJobs makes Validate reject a workload with no jobs.
func RequireJobs() ValidateOption {
	return func(o *validateOptions) {
		o.requireJobs = true
	}
}

// Validate returns an error describing every invalid job, or nil if all jobs are valid.
func Validate(jobs []JobSpec, opts ...ValidateOption) error {
	var options validateOptions
	for _, opt := range opts {
		opt(&options)
	}
	var result *multierror.Error
	if options.requireJobs && len(jobs) == 0 {
		result = multierror.Append(result, &simerrors.ErrInvalidArgument{
			Name:    "jobs",
			Value:   len(jobs),
			Message: "workload contains no jobs",
		})
	}
	for i, job := range jobs {
		if math.IsNaN(job.ArrivalTime) || math.IsInf(job.ArrivalTime, 0) || job.ArrivalTime < 0 {
			result = multierror.Append(result, &simerrors.ErrInvalidArgument{
				Name:    fmt.Sprintf("jobs[%d].arrivalTime", i),
				Value:   job.ArrivalTime,
				Message: "must be a finite non-negative number",
			})
		}
		if job.Size <= 0 {
			result = multierror.Append(result, &simerrors.ErrInvalidArgument{
				Name:    fmt.Sprintf("jobs[%d].size", i),
				Value:   job.Size,
				Message: "must be positive",
			})
		}
	}
	return result.ErrorOrNil()
}

// Sorted returns a copy of jobs ordered by arrival time. Jobs arriving together keep their input order.
func Sorted(jobs []JobSpec) []JobSpec {
	rv := slices.Clone(jobs)
	slices.SortStableFunc(rv, func(a, b JobSpec) bool {
		return a.ArrivalTime < b.ArrivalTime
	})
	return rv
}

// TotalWork returns the sum of the sizes of jobs.
func TotalWork(jobs []JobSpec) int64 {
	var rv int64
	for _, job := range jobs {
		rv += job.Size
	}
	return rv
}

package workload

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Enuma3lish/ultimus-sub000/internal/common/simerrors"
)

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		jobs           []JobSpec
		opts           []ValidateOption
		expectedErrors int
	}{
		"empty with jobs required": {
			jobs:           []JobSpec{},
			opts:           []ValidateOption{RequireJobs()},
			expectedErrors: 1,
		},
		"jobs required and present": {
			jobs: []JobSpec{{ArrivalTime: 0, Size: 1}},
			opts: []ValidateOption{RequireJobs()},
		},
		"invalid job with jobs required": {
			jobs:           []JobSpec{{ArrivalTime: 0, Size: -1}},
			opts:           []ValidateOption{RequireJobs()},
			expectedErrors: 1,
		},
		"valid": {
			jobs: []JobSpec{{ArrivalTime: 0, Size: 1}, {ArrivalTime: 2.5, Size: 3}},
		},
		"empty": {
			jobs: nil,
		},
		"zero size": {
			jobs:           []JobSpec{{ArrivalTime: 0, Size: 0}},
			expectedErrors: 1,
		},
		"negative arrival and size": {
			jobs:           []JobSpec{{ArrivalTime: 1, Size: 1}, {ArrivalTime: -1, Size: -2}},
			expectedErrors: 2,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := Validate(tc.jobs, tc.opts...)
			if tc.expectedErrors == 0 {
				assert.NoError(t, err)
				return
			}
			var merr *multierror.Error
			require.ErrorAs(t, err, &merr)
			assert.Len(t, merr.Errors, tc.expectedErrors)
			assert.True(t, simerrors.IsInvalidArgument(err))
		})
	}
}

func TestSorted_IsStable(t *testing.T) {
	jobs := []JobSpec{
		{ArrivalTime: 2, Size: 1},
		{ArrivalTime: 1, Size: 2},
		{ArrivalTime: 2, Size: 3},
		{ArrivalTime: 1, Size: 4},
	}
	assert.Equal(
		t,
		[]JobSpec{
			{ArrivalTime: 1, Size: 2},
			{ArrivalTime: 1, Size: 4},
			{ArrivalTime: 2, Size: 1},
			{ArrivalTime: 2, Size: 3},
		},
		Sorted(jobs),
	)
	// The input is left untouched.
	assert.Equal(t, int64(1), jobs[0].Size)
	assert.Equal(t, int64(10), TotalWork(jobs))
}

func TestReadCSV(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected []JobSpec
		isValid  bool
	}{
		"with header": {
			input:    "arrival_time,job_size\n0,4\n1.5,2\n",
			expected: []JobSpec{{ArrivalTime: 0, Size: 4}, {ArrivalTime: 1.5, Size: 2}},
			isValid:  true,
		},
		"without header and whole float sizes": {
			input:    "0, 4.0\n2, 1\n",
			expected: []JobSpec{{ArrivalTime: 0, Size: 4}, {ArrivalTime: 2, Size: 1}},
			isValid:  true,
		},
		"fractional size": {
			input:   "0,1.5\n",
			isValid: false,
		},
		"missing column": {
			input:   "0\n",
			isValid: false,
		},
		"bad arrival after first line": {
			input:   "0,1\nsoon,2\n",
			isValid: false,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			jobs, err := ReadCSV(strings.NewReader(tc.input))
			if !tc.isValid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, jobs)
		})
	}
}

func TestGenerate(t *testing.T) {
	tests := map[string]GeneratorSpec{
		"exponential": {NumJobs: 200, MeanInterArrival: 3, SizeDistribution: SizeExponential, MeanSize: 5, Seed: 1},
		"pareto":      {NumJobs: 200, MeanInterArrival: 1, SizeDistribution: SizePareto, ParetoScale: 1, ParetoShape: 1.5, Seed: 2},
		"uniform":     {NumJobs: 200, MeanInterArrival: 1, SizeDistribution: SizeUniform, MinSize: 2, MaxSize: 6, IntegerArrivals: true, Seed: 3},
	}
	for name, spec := range tests {
		t.Run(name, func(t *testing.T) {
			jobs, err := Generate(spec)
			require.NoError(t, err)
			require.Len(t, jobs, spec.NumJobs)
			require.NoError(t, Validate(jobs))
			assert.Equal(t, jobs, Sorted(jobs))
			if spec.IntegerArrivals {
				for _, job := range jobs {
					assert.Equal(t, float64(int64(job.ArrivalTime)), job.ArrivalTime)
				}
			}

			again, err := Generate(spec)
			require.NoError(t, err)
			assert.Equal(t, jobs, again)
		})
	}
}

func TestGenerate_InvalidSpec(t *testing.T) {
	_, err := Generate(GeneratorSpec{NumJobs: 0, MeanInterArrival: 1, SizeDistribution: SizeUniform})
	assert.Error(t, err)
	_, err = Generate(GeneratorSpec{NumJobs: 1, MeanInterArrival: 1, SizeDistribution: "normal"})
	assert.Error(t, err)
}

func TestSpecFromFilePath(t *testing.T) {
	spec, err := SpecFromFilePath(filepath.Join("testdata", "inline.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "three-jobs", spec.Name)
	jobs, err := spec.Load()
	require.NoError(t, err)
	assert.Equal(t, []JobSpec{{ArrivalTime: 0, Size: 4}, {ArrivalTime: 1, Size: 2}, {ArrivalTime: 2, Size: 1}}, jobs)
}

func TestSpecFromFilePath_Mixed(t *testing.T) {
	spec, err := SpecFromFilePath(filepath.Join("testdata", "mixed.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "mixed", spec.Name)
	jobs, err := spec.Load()
	require.NoError(t, err)
	require.Len(t, jobs, 7)
	assert.Equal(t, []JobSpec{{ArrivalTime: 0.5, Size: 3}, {ArrivalTime: 3, Size: 2}, {ArrivalTime: 1.5, Size: 4}}, jobs[:3])
	require.NoError(t, Validate(jobs))
}

func TestSpecsFromPattern(t *testing.T) {
	specs, err := SpecsFromPattern(filepath.Join("testdata", "*"))
	require.NoError(t, err)
	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = spec.Name
	}
	assert.ElementsMatch(t, []string{"three-jobs", "mixed", "jobs"}, names)

	csvSpec, err := SpecFromFilePath(filepath.Join("testdata", "jobs.csv"))
	require.NoError(t, err)
	jobs, err := csvSpec.Load()
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
}

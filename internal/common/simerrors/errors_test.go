package simerrors

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsFatal(t *testing.T) {
	tests := map[string]struct {
		err      error
		expected bool
	}{
		"divergence": {
			err:      &ErrSimulationDivergence{Round: 3, Time: 10, Bound: 9, Outstanding: 2},
			expected: true,
		},
		"wrapped selector miss": {
			err:      errors.WithMessage(&ErrSelectorMiss{Policy: "rmlf"}, "foo"),
			expected: true,
		},
		"invalid argument": {
			err:      &ErrInvalidArgument{Name: "checkpoint", Value: 0},
			expected: false,
		},
		"nil": {
			err:      nil,
			expected: false,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsFatal(tc.err))
		})
	}
}

func TestIsInvalidArgument_MultiError(t *testing.T) {
	var result *multierror.Error
	result = multierror.Append(result, &ErrInvalidArgument{Name: "size", Value: 0})
	result = multierror.Append(result, &ErrInvalidArgument{Name: "arrivalTime", Value: -1})
	assert.True(t, IsInvalidArgument(result.ErrorOrNil()))
	assert.False(t, IsInvalidArgument(errors.New("foo")))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(
		t,
		`value 0 is invalid for field "checkpoint"; must be positive`,
		(&ErrInvalidArgument{Name: "checkpoint", Value: 0, Message: "must be positive"}).Error(),
	)
	assert.Equal(
		t,
		`resource "7" of type "job" does not exist`,
		(&ErrNotFound{Type: "job", Value: "7"}).Error(),
	)
	assert.Equal(
		t,
		"simulated time 11 exceeds bound 10 in round 4 with 2 jobs outstanding",
		(&ErrSimulationDivergence{Round: 4, Time: 11, Bound: 10, Outstanding: 2}).Error(),
	)
	assert.Equal(
		t,
		"srpt selector returned no job at time 5 in round 1 with 3 active jobs",
		(&ErrSelectorMiss{Policy: "srpt", Round: 1, Time: 5, Outstanding: 3}).Error(),
	)
}

// Package simerrors contains the typed errors returned by the simulator.
//
// Callers inspect errors with errors.As rather than comparing messages. When several
// inputs are invalid at once (e.g., several jobs in a workload), the function reporting
// them returns a *multierror.Error from github.com/hashicorp/go-multierror wrapping the
// individual errors.
package simerrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidArgument is returned when an input is rejected before a simulation starts.
// Message is optional and is omitted from the error message if not provided.
type ErrInvalidArgument struct {
	Name    string      // Name of the field referred to, e.g., "checkpoint"
	Value   interface{} // The invalid value that was provided
	Message string      // An optional message explaining why the value is invalid
}

func (err *ErrInvalidArgument) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("value %v is invalid for field %q", err.Value, err.Name)
	} else {
		return fmt.Sprintf("value %v is invalid for field %q; %s", err.Value, err.Name, err.Message)
	}
}

// ErrNotFound is returned whenever some resource isn't found.
// Type and Message are optional and are omitted from the error message if not provided.
type ErrNotFound struct {
	Type    string
	Value   string
	Message string
}

func (err *ErrNotFound) Error() (s string) {
	if err.Type != "" {
		s = fmt.Sprintf("resource %q of type %q does not exist", err.Value, err.Type)
	} else {
		s = fmt.Sprintf("resource %q does not exist", err.Value)
	}
	if err.Message != "" {
		return s + fmt.Sprintf("; %s", err.Message)
	} else {
		return s
	}
}

// ErrSimulationDivergence is returned when simulated time passes the configured bound
// before every job has completed.
type ErrSimulationDivergence struct {
	Round       int
	Time        int64
	Bound       int64
	Outstanding int
}

func (err *ErrSimulationDivergence) Error() string {
	return fmt.Sprintf(
		"simulated time %d exceeds bound %d in round %d with %d jobs outstanding",
		err.Time, err.Bound, err.Round, err.Outstanding,
	)
}

// ErrSelectorMiss is returned when a selector finds no job although active jobs exist.
// This means the queues and the active set have diverged.
type ErrSelectorMiss struct {
	Policy      string
	Round       int
	Time        int64
	Outstanding int
}

func (err *ErrSelectorMiss) Error() string {
	return fmt.Sprintf(
		"%s selector returned no job at time %d in round %d with %d active jobs",
		err.Policy, err.Time, err.Round, err.Outstanding,
	)
}

// IsFatal returns true if err, or any error in its chain, aborts a simulation run.
func IsFatal(err error) bool {
	var divergence *ErrSimulationDivergence
	if errors.As(err, &divergence) {
		return true
	}
	var miss *ErrSelectorMiss
	return errors.As(err, &miss)
}

// IsInvalidArgument returns true if err, or any error in its chain, is an *ErrInvalidArgument.
func IsInvalidArgument(err error) bool {
	var invalid *ErrInvalidArgument
	return errors.As(err, &invalid)
}

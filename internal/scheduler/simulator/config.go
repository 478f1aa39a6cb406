package simulator

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	commonconfig "github.com/Enuma3lish/ultimus-sub000/internal/common/config"
	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/mlf"
	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/scoring"
	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/selector"
)

// PolicyDynamic switches between the baseline and adaptive policies at every checkpoint.
const PolicyDynamic = "dynamic"

// ClockMode determines how simulated time advances.
type ClockMode int

const (
	// Advance to the next arrival, checkpoint, completion or promotion.
	ClockEvent ClockMode = iota
	// Advance one tick per iteration.
	ClockTick
)

var clockNames = map[ClockMode]string{
	ClockEvent: "event",
	ClockTick:  "tick",
}

func (c ClockMode) String() string {
	if name, ok := clockNames[c]; ok {
		return name
	}
	return "unknown"
}

func (c ClockMode) Valid() bool {
	_, ok := clockNames[c]
	return ok
}

func (c *ClockMode) UnmarshalText(text []byte) error {
	for mode, name := range clockNames {
		if strings.EqualFold(strings.TrimSpace(string(text)), name) {
			*c = mode
			return nil
		}
	}
	return errors.Errorf("unknown clock %q", string(text))
}

func (c ClockMode) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, errors.Errorf("unknown clock %d", int(c))
	}
	return []byte(c.String()), nil
}

// Config captures everything that determines the outcome of a simulation apart from the workload.
type Config struct {
	Name string
	// Either dynamic or the name of a policy to run for the whole simulation. Case-insensitive.
	Policy string
	// Policy run in the first round of a dynamic simulation. Wins ties.
	Baseline selector.Policy
	// Policy run in the second round of a dynamic simulation.
	Adaptive     selector.Policy
	DecisionMode scoring.DecisionMode
	// Number of ticks per round.
	Checkpoint     int64   `validate:"gt=0"`
	DiscountFactor float64 `validate:"gt=0,lt=1"`
	MLF            mlf.Config
	Clock          ClockMode
	// Active-set size above which FCFS and SRPT selection uses heaps.
	HeapThreshold int `validate:"gte=0"`
	// Simulated time after which the run is aborted. If zero, the bound is derived from the workload.
	MaxSimulatedTime int64 `validate:"gte=0"`
	// Seeds beta generation. If zero, the local time is used.
	Seed int64
}

func DefaultConfig() Config {
	return Config{
		Name:           "default",
		Policy:         PolicyDynamic,
		Baseline:       selector.PolicyFCFS,
		Adaptive:       selector.PolicyRMLF,
		DecisionMode:   scoring.ModeSqrtWindow,
		Checkpoint:     100,
		DiscountFactor: 0.9,
		MLF:            mlf.DefaultConfig(),
		Clock:          ClockEvent,
		HeapThreshold:  selector.DefaultHeapThreshold,
	}
}

// Validate returns a *simerrors.ErrInvalidArgument for every invalid field, combined with go-multierror.
func (c Config) Validate() error {
	return commonconfig.InvalidArguments(commonconfig.Validate(c, configValidation, Config{}))
}

func configValidation(sl validator.StructLevel) {
	c := sl.Current().Interface().(Config)
	if !c.isDynamic() {
		if _, err := selector.ParsePolicy(c.Policy); err != nil {
			sl.ReportError(c.Policy, "Policy", "Policy", "oneof", "dynamic fcfs srpt rmlf")
		}
	}
	if !c.Baseline.Valid() {
		sl.ReportError(c.Baseline, "Baseline", "Baseline", "policy", "")
	}
	if !c.Adaptive.Valid() {
		sl.ReportError(c.Adaptive, "Adaptive", "Adaptive", "policy", "")
	}
	if c.Baseline == c.Adaptive {
		sl.ReportError(c.Adaptive, "Adaptive", "Adaptive", "nefield", "Baseline")
	}
	if !c.DecisionMode.Valid() {
		sl.ReportError(c.DecisionMode, "DecisionMode", "DecisionMode", "decisionmode", "")
	}
	if !c.Clock.Valid() {
		sl.ReportError(c.Clock, "Clock", "Clock", "clock", "")
	}
}

// staticPolicy returns the policy to run for the whole simulation, or false for dynamic simulations.
func (c Config) staticPolicy() (selector.Policy, bool) {
	if c.isDynamic() {
		return 0, false
	}
	p, err := selector.ParsePolicy(c.Policy)
	if err != nil {
		return 0, false
	}
	return p, true
}

func (c Config) isDynamic() bool {
	return strings.EqualFold(strings.TrimSpace(c.Policy), PolicyDynamic)
}

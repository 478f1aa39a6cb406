package scoring

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"

	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/selector"
)

// DecisionMode determines which part of the score history is compared when choosing a policy.
type DecisionMode int

const (
	// Mean of the scores recorded from round 2 onwards.
	ModeAllButFirst DecisionMode = iota
	// Mean of the last ceil(sqrt(round)) scores.
	ModeSqrtWindow
	// Mean of the last ceil(round/2) scores, from round 4 onwards.
	ModeHalfWindow
	// Latest score only.
	ModeInstant
)

var modeNames = map[DecisionMode]string{
	ModeAllButFirst: "all-but-first",
	ModeSqrtWindow:  "sqrt-window",
	ModeHalfWindow:  "half-window",
	ModeInstant:     "instant",
}

func (m DecisionMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

func (m DecisionMode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

func ParseDecisionMode(s string) (DecisionMode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return m, nil
		}
	}
	return 0, errors.Errorf("unknown decision mode %q", s)
}

func (m DecisionMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, errors.Errorf("unknown decision mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *DecisionMode) UnmarshalText(text []byte) error {
	parsed, err := ParseDecisionMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

type ScoreReader interface {
	Score(policy selector.Policy) float64
	History(policy selector.Policy) []float64
}

// Decide returns the policy to run after round roundIndex has completed, given one recorded score per round
// for each policy. The result depends only on its arguments.
// Ties go to baseline. If either policy has no finite score to compare the latest scores are compared.
func Decide(mode DecisionMode, roundIndex int, baseline, adaptive selector.Policy, scores ScoreReader) selector.Policy {
	if mode == ModeInstant {
		return choose(baseline, scores.Score(baseline), adaptive, scores.Score(adaptive))
	}
	baselineWindow := window(mode, roundIndex, scores.History(baseline))
	adaptiveWindow := window(mode, roundIndex, scores.History(adaptive))
	if len(baselineWindow) == 0 || len(adaptiveWindow) == 0 {
		return choose(baseline, scores.Score(baseline), adaptive, scores.Score(adaptive))
	}
	return choose(baseline, mean(baselineWindow), adaptive, mean(adaptiveWindow))
}

// window returns the scores compared under mode. Entries recorded before a policy first ran are +Inf and
// are never compared. Windows longer than the remaining scores fall back to all of them.
func window(mode DecisionMode, roundIndex int, history []float64) []float64 {
	if mode == ModeAllButFirst {
		if len(history) == 0 {
			return nil
		}
		return finite(history[1:])
	}
	scores := finite(history)
	switch mode {
	case ModeSqrtWindow:
		w := int(math.Ceil(math.Sqrt(float64(roundIndex))))
		if len(scores) >= w {
			return scores[len(scores)-w:]
		}
	case ModeHalfWindow:
		w := int(math.Ceil(float64(roundIndex) / 2))
		if roundIndex >= 4 && len(scores) >= w {
			return scores[len(scores)-w:]
		}
	}
	return scores
}

func finite(xs []float64) []float64 {
	rv := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsInf(x, 0) && !math.IsNaN(x) {
			rv = append(rv, x)
		}
	}
	return rv
}

func choose(baseline selector.Policy, baselineScore float64, adaptive selector.Policy, adaptiveScore float64) selector.Policy {
	if adaptiveScore < baselineScore {
		return adaptive
	}
	return baseline
}

func mean[T constraints.Integer | constraints.Float](xs []T) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += float64(x)
	}
	return sum / float64(len(xs))
}

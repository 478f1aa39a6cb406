package scoring

import (
	"math"

	"golang.org/x/exp/slices"

	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/selector"
)

// Scorer tracks a discounted moving average of the normalised round cost of each policy.
// Lower scores are better. A policy that has not completed a round has score +Inf.
type Scorer struct {
	discountFactor float64
	scores         map[selector.Policy]float64
	// Score of each recorded policy at the end of every round, oldest first.
	history map[selector.Policy][]float64
}

func NewScorer(discountFactor float64) *Scorer {
	return &Scorer{
		discountFactor: discountFactor,
		scores:         make(map[selector.Policy]float64),
		history:        make(map[selector.Policy][]float64),
	}
}

// Update folds the normalised cost of a round run under policy into its score and returns the new score.
// The scores of other policies are left unchanged.
func (s *Scorer) Update(policy selector.Policy, normalisedCost float64) float64 {
	score, ok := s.scores[policy]
	if !ok {
		score = normalisedCost
	} else {
		score = score*s.discountFactor + normalisedCost
	}
	s.scores[policy] = score
	return score
}

// Record appends the current score of each of policies to its history, closing a round.
// Policies without a score yet record +Inf. Repeated policies are recorded once.
func (s *Scorer) Record(policies ...selector.Policy) {
	seen := make(map[selector.Policy]bool, len(policies))
	for _, policy := range policies {
		if seen[policy] {
			continue
		}
		seen[policy] = true
		s.history[policy] = append(s.history[policy], s.Score(policy))
	}
}

func (s *Scorer) Score(policy selector.Policy) float64 {
	if score, ok := s.scores[policy]; ok {
		return score
	}
	return math.Inf(1)
}

// History returns a copy of the scores recorded for policy, one per round.
func (s *Scorer) History(policy selector.Policy) []float64 {
	return slices.Clone(s.history[policy])
}

package simulator

import (
	"math"

	"github.com/Enuma3lish/ultimus-sub000/internal/common/simcontext"
	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/scoring"
	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/selector"
)

// endRound scores the round that has just finished under the current policy and chooses the policy of the next round.
func (s *Simulator) endRound(ctx *simcontext.Context) error {
	normalisedCost := s.round.cost / math.Max(float64(s.round.completed+1), 1)
	s.scorer.Update(s.policy, normalisedCost)
	s.scorer.Record(s.config.Baseline, s.config.Adaptive, s.policy)
	next := s.nextPolicy()
	record := RoundRecord{
		RoundIndex:     s.round.index,
		Policy:         s.policy,
		StartTime:      s.round.startTime,
		EndTime:        s.time,
		RoundCost:      s.round.cost,
		NormalisedCost: normalisedCost,
		JobsCompleted:  s.round.completed,
		Levels:         s.mlf.NumLevels(),
		BaselineScore:  s.scorer.Score(s.config.Baseline),
		AdaptiveScore:  s.scorer.Score(s.config.Adaptive),
		NextPolicy:     next,
	}
	simcontext.WithLogField(ctx, "round", record.RoundIndex).Debugf(
		"Round %d ran %s: cost %g over %d completions; scores %s=%g %s=%g; next %s; %d jobs seen over %d levels",
		record.RoundIndex, record.Policy, record.RoundCost, record.JobsCompleted,
		s.config.Baseline, record.BaselineScore, s.config.Adaptive, record.AdaptiveScore, next,
		s.mlf.TotalJobsSeen(), record.Levels,
	)
	s.rounds = append(s.rounds, record)
	if err := s.metrics.OnRoundEnd(record); err != nil {
		return err
	}
	if err := s.sink.OnRoundEnd(record); err != nil {
		return err
	}

	s.policy = next
	s.round = round{index: s.round.index + 1, startTime: s.time}
	if s.pending > 0 || s.mlf.Len() > 0 {
		s.pushEvent(s.time+s.config.Checkpoint, checkpointEvent{})
	}
	return nil
}

// nextPolicy returns the policy of the round following the one just completed. Round 1 of a dynamic
// simulation runs the baseline and round 2 the adaptive policy so that both have a score before any comparison.
func (s *Simulator) nextPolicy() selector.Policy {
	if s.static != nil {
		return *s.static
	}
	if s.round.index == 1 {
		return s.config.Adaptive
	}
	return scoring.Decide(s.config.DecisionMode, s.round.index, s.config.Baseline, s.config.Adaptive, s.scorer)
}

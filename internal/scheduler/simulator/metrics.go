package simulator

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/selector"
)

// MetricsCollector derives flow time metrics from the records of completed jobs.
// It implements Sink.
type MetricsCollector struct {
	flowTimes      []float64
	roundsByPolicy map[selector.Policy]int
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		roundsByPolicy: make(map[selector.Policy]int),
	}
}

func (mc *MetricsCollector) OnRoundEnd(record RoundRecord) error {
	mc.roundsByPolicy[record.Policy]++
	return nil
}

func (mc *MetricsCollector) OnJobCompleted(record JobRecord) error {
	if record.Done {
		mc.flowTimes = append(mc.flowTimes, record.FlowTime())
	}
	return nil
}

// AverageFlowTime returns the mean flow time of completed jobs, or 0 if no job has completed.
func (mc *MetricsCollector) AverageFlowTime() float64 {
	if len(mc.flowTimes) == 0 {
		return 0
	}
	return stat.Mean(mc.flowTimes, nil)
}

// L2NormFlowTime returns the euclidean norm of the flow times of completed jobs, or 0 if no job has completed.
func (mc *MetricsCollector) L2NormFlowTime() float64 {
	if len(mc.flowTimes) == 0 {
		return 0
	}
	return floats.Norm(mc.flowTimes, 2)
}

func (mc *MetricsCollector) Metrics() Metrics {
	m := Metrics{
		NumCompleted:    len(mc.flowTimes),
		AverageFlowTime: mc.AverageFlowTime(),
		L2NormFlowTime:  mc.L2NormFlowTime(),
		RoundsByPolicy:  maps.Clone(mc.roundsByPolicy),
	}
	if len(mc.flowTimes) > 0 {
		m.MaxFlowTime = floats.Max(mc.flowTimes)
	}
	return m
}

func (mc *MetricsCollector) String() string {
	return mc.Metrics().String()
}

type Metrics struct {
	NumCompleted    int
	AverageFlowTime float64
	L2NormFlowTime  float64
	MaxFlowTime     float64
	RoundsByPolicy  map[selector.Policy]int
}

func (m Metrics) String() string {
	policies := maps.Keys(m.RoundsByPolicy)
	slices.Sort(policies)
	rounds := make([]string, len(policies))
	for i, p := range policies {
		rounds[i] = fmt.Sprintf("%s: %d", p, m.RoundsByPolicy[p])
	}
	return fmt.Sprintf(
		"{NumCompleted: %d, AverageFlowTime: %.4f, L2NormFlowTime: %.4f, MaxFlowTime: %.4f, Rounds: {%s}}",
		m.NumCompleted, m.AverageFlowTime, m.L2NormFlowTime, m.MaxFlowTime, strings.Join(rounds, ", "),
	)
}

package sink

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/simulator"
)

const metricPrefix = "simulator_"

// PrometheusMetrics exposes the progress of simulations as prometheus metrics labelled by run.
type PrometheusMetrics struct {
	roundsTotal   *prometheus.CounterVec
	jobsCompleted *prometheus.CounterVec
	flowTime      *prometheus.HistogramVec
	policyScore   *prometheus.GaugeVec
}

func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		roundsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rounds_total",
				Help: "Number of completed rounds by the policy that ran them",
			},
			[]string{"run", "policy"},
		),
		jobsCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "jobs_completed_total",
				Help: "Number of completed jobs",
			},
			[]string{"run"},
		),
		flowTime: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "job_flow_time",
				Help:    "Simulated time between arrival and completion of a job",
				Buckets: prometheus.ExponentialBuckets(1, 2, 20),
			},
			[]string{"run"},
		),
		policyScore: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "policy_score",
				Help: "Discounted score of the baseline and adaptive policies after the latest round. Lower is better",
			},
			[]string{"run", "role"},
		),
	}
}

// ForRun returns a sink recording metrics under the given run label.
func (m *PrometheusMetrics) ForRun(run string) simulator.Sink {
	return &runMetrics{metrics: m, run: run}
}

type runMetrics struct {
	metrics *PrometheusMetrics
	run     string
}

func (r *runMetrics) OnRoundEnd(record simulator.RoundRecord) error {
	r.metrics.roundsTotal.WithLabelValues(r.run, record.Policy.String()).Inc()
	r.metrics.policyScore.WithLabelValues(r.run, "baseline").Set(record.BaselineScore)
	r.metrics.policyScore.WithLabelValues(r.run, "adaptive").Set(record.AdaptiveScore)
	return nil
}

func (r *runMetrics) OnJobCompleted(record simulator.JobRecord) error {
	if !record.Done {
		return nil
	}
	r.metrics.jobsCompleted.WithLabelValues(r.run).Inc()
	r.metrics.flowTime.WithLabelValues(r.run).Observe(record.FlowTime())
	return nil
}

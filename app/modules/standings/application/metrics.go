package standingsservice

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records standings service activity.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation, group string)
	RecordOperationSuccess(ctx context.Context, operation, group string)
	RecordOperationFailure(ctx context.Context, operation, group string)
	RecordOperationDuration(ctx context.Context, operation string, d time.Duration)
	RecordTeamsRanked(ctx context.Context, group string, teams int)
}

// PrometheusMetrics implements Metrics on a prometheus registry.
type PrometheusMetrics struct {
	attempts    *prometheus.CounterVec
	successes   *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	teamsRanked *prometheus.CounterVec
}

// NewPrometheusMetrics registers the standings collectors on reg.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "standings_operation_attempts_total",
			Help: "Total number of standings operations started",
		}, []string{"operation", "group"}),
		successes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "standings_operation_success_total",
			Help: "Total number of standings operations that completed",
		}, []string{"operation", "group"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "standings_operation_failures_total",
			Help: "Total number of standings operations that returned an error",
		}, []string{"operation", "group"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "standings_operation_duration_seconds",
			Help:    "Duration of standings operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		teamsRanked: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "standings_teams_ranked_total",
			Help: "Total number of team rows produced for ranking tables",
		}, []string{"group"}),
	}
}

func (m *PrometheusMetrics) RecordOperationAttempt(_ context.Context, operation, group string) {
	m.attempts.WithLabelValues(operation, group).Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(_ context.Context, operation, group string) {
	m.successes.WithLabelValues(operation, group).Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(_ context.Context, operation, group string) {
	m.failures.WithLabelValues(operation, group).Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(_ context.Context, operation string, d time.Duration) {
	m.duration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *PrometheusMetrics) RecordTeamsRanked(_ context.Context, group string, teams int) {
	m.teamsRanked.WithLabelValues(group).Add(float64(teams))
}

// NoOpMetrics discards everything.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordOperationAttempt(context.Context, string, string)         {}
func (NoOpMetrics) RecordOperationSuccess(context.Context, string, string)         {}
func (NoOpMetrics) RecordOperationFailure(context.Context, string, string)         {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoOpMetrics) RecordTeamsRanked(context.Context, string, int)                 {}

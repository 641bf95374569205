package instrumentation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric label keys. Labels stay low-cardinality: tool names and the
// success/error status only, never resource ids or search tokens.
const (
	labelTool   = "tool"
	labelStatus = "status"
)

// Metrics records the Prometheus metrics of the server: tool invocation
// counts and latencies, database query failures and activity API calls.
type Metrics struct {
	toolInvocationsTotal *prometheus.CounterVec
	toolDuration         *prometheus.HistogramVec

	dbQueryErrorsTotal prometheus.Counter

	activityRequestsTotal *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance and registers all collectors with
// the given registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		toolInvocationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tool_invocations_total",
				Help: "Total number of MCP tool invocations.",
			},
			[]string{labelTool, labelStatus},
		),
		toolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tool_duration_seconds",
				Help:    "MCP tool invocation duration in seconds.",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{labelTool},
		),
		dbQueryErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "db_query_errors_total",
				Help: "Total number of failed database queries.",
			},
		),
		activityRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "activity_api_requests_total",
				Help: "Total number of activity API submissions.",
			},
			[]string{labelStatus},
		),
	}

	collectors := []prometheus.Collector{
		m.toolInvocationsTotal,
		m.toolDuration,
		m.dbQueryErrorsTotal,
		m.activityRequestsTotal,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordToolInvocation records one completed tool invocation.
func (m *Metrics) RecordToolInvocation(tool, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.toolInvocationsTotal.WithLabelValues(tool, status).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordDBQueryError records one failed database query.
func (m *Metrics) RecordDBQueryError() {
	if m == nil {
		return
	}
	m.dbQueryErrorsTotal.Inc()
}

// RecordActivityRequest records one activity API submission.
func (m *Metrics) RecordActivityRequest(status string) {
	if m == nil {
		return
	}
	m.activityRequestsTotal.WithLabelValues(status).Inc()
}

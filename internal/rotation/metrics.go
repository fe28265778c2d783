package rotation

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	swapAttemptsTotal *prometheus.CounterVec
	swapFailuresTotal *prometheus.CounterVec
	passesTotal       prometheus.Counter
	queueSize         *prometheus.GaugeVec

	metricsOnce sync.Once
)

// Metrics records rotation metrics. Methods are no-ops until InitMetrics
// has run, so callers never need to know whether metrics are enabled.
type Metrics struct{}

// NewMetrics creates a Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// InitMetrics registers all Prometheus metrics. Call once at startup when
// the metrics listener is enabled.
func InitMetrics() {
	metricsOnce.Do(func() {
		swapAttemptsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sarotate_swap_attempts_total",
				Help: "Total number of credential swap commands issued",
			},
			[]string{"remote"},
		)

		swapFailuresTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sarotate_swap_failures_total",
				Help: "Total number of credential swap commands that failed",
			},
			[]string{"remote"},
		)

		passesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sarotate_passes_total",
				Help: "Total number of completed rotation passes",
			},
		)

		queueSize = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sarotate_queue_size",
				Help: "Number of credentials in a group's rotation queue",
			},
			[]string{"group"},
		)
	})
}

// RecordSwapAttempt increments the attempt counter for a remote.
func (m *Metrics) RecordSwapAttempt(remote string) {
	if swapAttemptsTotal != nil {
		swapAttemptsTotal.WithLabelValues(remote).Inc()
	}
}

// RecordSwapFailure increments the failure counter for a remote.
func (m *Metrics) RecordSwapFailure(remote string) {
	if swapFailuresTotal != nil {
		swapFailuresTotal.WithLabelValues(remote).Inc()
	}
}

// RecordPass increments the completed-pass counter.
func (m *Metrics) RecordPass() {
	if passesTotal != nil {
		passesTotal.Inc()
	}
}

// RecordQueueSize sets the queue depth gauge for a group.
func (m *Metrics) RecordQueueSize(group string, size int) {
	if queueSize != nil {
		queueSize.WithLabelValues(group).Set(float64(size))
	}
}

package resilience

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"carpeta/pkg/platform/circuit"
)

// Metrics tracks outbound call outcomes per dependency.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	CallsTotal     *prometheus.CounterVec
	RetriesTotal   *prometheus.CounterVec
	FallbacksTotal *prometheus.CounterVec
	BreakerState   *prometheus.GaugeVec
	CallDuration   *prometheus.HistogramVec
}

// NewMetrics registers the resilience metrics with the default registry.
// Call once per process.
func NewMetrics() *Metrics {
	return &Metrics{
		CallsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "carpeta_dependency_calls_total",
			Help: "Outbound dependency calls by outcome (success, failure, rejected)",
		}, []string{"dependency", "outcome"}),

		RetriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "carpeta_dependency_retries_total",
			Help: "Retry attempts issued against a dependency",
		}, []string{"dependency"}),

		FallbacksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "carpeta_dependency_fallbacks_total",
			Help: "Fallback responses served by reason (circuit_open, exhausted)",
		}, []string{"dependency", "reason"}),

		BreakerState: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "carpeta_dependency_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half_open)",
		}, []string{"dependency"}),

		CallDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "carpeta_dependency_call_duration_seconds",
			Help:    "Duration of a protected call including retries",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"dependency"}),
	}
}

func (m *Metrics) recordCall(dependency, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.CallsTotal.WithLabelValues(dependency, outcome).Inc()
	m.CallDuration.WithLabelValues(dependency).Observe(seconds)
}

func (m *Metrics) recordRetry(dependency string) {
	if m == nil {
		return
	}
	m.RetriesTotal.WithLabelValues(dependency).Inc()
}

func (m *Metrics) recordFallback(dependency, reason string) {
	if m == nil {
		return
	}
	m.FallbacksTotal.WithLabelValues(dependency, reason).Inc()
}

func (m *Metrics) setState(dependency string, state circuit.State) {
	if m == nil {
		return
	}
	m.BreakerState.WithLabelValues(dependency).Set(float64(state))
}

// Package metrics provides Prometheus metrics for the registration saga.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records saga outcomes. A nil *Metrics is a no-op.
type Metrics struct {
	OperationsTotal          *prometheus.CounterVec   // by operation and outcome
	OperationDurationSeconds *prometheus.HistogramVec // by operation
	FolderProvisioningTotal  *prometheus.CounterVec   // by outcome
	ActiveRegistrations      prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		OperationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "carpeta_registry_operations_total",
			Help: "Registration saga operations by operation and outcome",
		}, []string{"operation", "outcome"}),

		OperationDurationSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "carpeta_registry_operation_duration_seconds",
			Help:    "Duration of registration saga operations",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),

		FolderProvisioningTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "carpeta_registry_folder_provisioning_total",
			Help: "Folder provisioning attempts by outcome",
		}, []string{"outcome"}),

		ActiveRegistrations: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "carpeta_registry_active_registrations",
			Help: "Registrations created minus deregistrations since process start",
		}),
	}
}

// ObserveOperation records one saga operation.
func (m *Metrics) ObserveOperation(operation, outcome string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(operation, outcome).Inc()
	m.OperationDurationSeconds.WithLabelValues(operation).Observe(durationSeconds)
}

func (m *Metrics) IncrementFolderProvisioning(outcome string) {
	if m == nil {
		return
	}
	m.FolderProvisioningTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementActive() {
	if m == nil {
		return
	}
	m.ActiveRegistrations.Inc()
}

func (m *Metrics) DecrementActive() {
	if m == nil {
		return
	}
	m.ActiveRegistrations.Dec()
}

// Package metrics provides Prometheus metrics for folders and documents.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records document traffic. A nil *Metrics is a no-op.
type Metrics struct {
	UploadsTotal       *prometheus.CounterVec // by outcome
	UploadedBytesTotal prometheus.Counter
	PageSize           prometheus.Histogram
	DownloadURLsTotal  *prometheus.CounterVec // by outcome
	FoldersCreated     prometheus.Counter
	StateChangesTotal  *prometheus.CounterVec // by new state
}

func New() *Metrics {
	return &Metrics{
		UploadsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "carpeta_documents_uploads_total",
			Help: "Document uploads by outcome",
		}, []string{"outcome"}),

		UploadedBytesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "carpeta_documents_uploaded_bytes_total",
			Help: "Bytes of document content accepted",
		}),

		PageSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "carpeta_documents_page_items",
			Help:    "Items returned per document listing page",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		}),

		DownloadURLsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "carpeta_documents_download_urls_total",
			Help: "Presigned download URL requests by outcome",
		}, []string{"outcome"}),

		FoldersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "carpeta_folders_created_total",
			Help: "Folders provisioned",
		}),

		StateChangesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "carpeta_documents_state_changes_total",
			Help: "Document state changes by new state",
		}, []string{"state"}),
	}
}

func (m *Metrics) ObserveUpload(outcome string, bytes int64) {
	if m == nil {
		return
	}
	m.UploadsTotal.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		m.UploadedBytesTotal.Add(float64(bytes))
	}
}

func (m *Metrics) ObservePage(items int) {
	if m == nil {
		return
	}
	m.PageSize.Observe(float64(items))
}

func (m *Metrics) IncrementDownloadURL(outcome string) {
	if m == nil {
		return
	}
	m.DownloadURLsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementFolderCreated() {
	if m == nil {
		return
	}
	m.FoldersCreated.Inc()
}

func (m *Metrics) IncrementStateChange(state string) {
	if m == nil {
		return
	}
	m.StateChangesTotal.WithLabelValues(state).Inc()
}

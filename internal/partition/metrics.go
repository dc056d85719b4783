package partition

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records partition store latency and errors per backend.
type Metrics struct {
	OpDurationSeconds *prometheus.HistogramVec
	OpErrorsTotal     *prometheus.CounterVec
}

// NewMetrics registers the partition store metrics. Call once per process.
func NewMetrics() *Metrics {
	return &Metrics{
		OpDurationSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "carpeta_partition_op_duration_seconds",
			Help:    "Duration of partition store operations by backend and operation",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}, []string{"backend", "op"}),

		OpErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "carpeta_partition_op_errors_total",
			Help: "Partition store operations that failed, excluding not-found and condition failures",
		}, []string{"backend", "op"}),
	}
}

// Instrumented decorates a Store with metrics.
type Instrumented struct {
	next    Store
	backend string
	metrics *Metrics
}

// WithMetrics wraps store. A nil metrics returns store unchanged.
func WithMetrics(store Store, backend string, metrics *Metrics) Store {
	if metrics == nil {
		return store
	}
	return &Instrumented{next: store, backend: backend, metrics: metrics}
}

func (s *Instrumented) observe(op string, start time.Time, err error) {
	s.metrics.OpDurationSeconds.WithLabelValues(s.backend, op).Observe(time.Since(start).Seconds())
	if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrConditionFailed) {
		s.metrics.OpErrorsTotal.WithLabelValues(s.backend, op).Inc()
	}
}

func (s *Instrumented) Put(ctx context.Context, table string, item Item) (err error) {
	defer func(start time.Time) { s.observe("put", start, err) }(time.Now())
	return s.next.Put(ctx, table, item)
}

func (s *Instrumented) PutIfAbsent(ctx context.Context, table string, item Item) (err error) {
	defer func(start time.Time) { s.observe("put_if_absent", start, err) }(time.Now())
	return s.next.PutIfAbsent(ctx, table, item)
}

func (s *Instrumented) Get(ctx context.Context, table, partitionKey, sortKey string) (item Item, err error) {
	defer func(start time.Time) { s.observe("get", start, err) }(time.Now())
	return s.next.Get(ctx, table, partitionKey, sortKey)
}

func (s *Instrumented) Delete(ctx context.Context, table, partitionKey, sortKey string) (err error) {
	defer func(start time.Time) { s.observe("delete", start, err) }(time.Now())
	return s.next.Delete(ctx, table, partitionKey, sortKey)
}

func (s *Instrumented) Query(ctx context.Context, table, partitionKey string, opts QueryOptions) (items []Item, err error) {
	defer func(start time.Time) { s.observe("query", start, err) }(time.Now())
	return s.next.Query(ctx, table, partitionKey, opts)
}

func (s *Instrumented) QueryIndex(ctx context.Context, table, indexKey string) (items []Item, err error) {
	defer func(start time.Time) { s.observe("query_index", start, err) }(time.Now())
	return s.next.QueryIndex(ctx, table, indexKey)
}

var _ Store = (*Instrumented)(nil)

package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"carpeta/internal/platform/middleware"
	"carpeta/internal/platform/privacy"
)

// Publisher appends records to the trail. Audit writes are best-effort: a
// failed append is logged and never fails the business operation.
type Publisher struct {
	store  Store
	events chan *Record
	wg     sync.WaitGroup
	logger *slog.Logger
	async  bool
	now    func() time.Time
}

// PublisherOption configures the Publisher.
type PublisherOption func(*Publisher)

// WithAsyncBuffer enables async processing with the specified buffer size.
// Records are queued and persisted in a background goroutine.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan *Record, size)
			p.async = true
		}
	}
}

// WithPublisherLogger sets the logger used to report failed appends.
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithPublisherClock overrides the record timestamp source.
func WithPublisherClock(now func() time.Time) PublisherOption {
	return func(p *Publisher) {
		p.now = now
	}
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{store: store, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	if p.async {
		p.wg.Add(1)
		go p.processEvents()
	}
	return p
}

func (p *Publisher) processEvents() {
	defer p.wg.Done()
	for record := range p.events {
		p.persist(context.Background(), record)
	}
}

// Close shuts down the async publisher and waits for pending records to drain.
func (p *Publisher) Close() {
	if p.async && p.events != nil {
		close(p.events)
		p.wg.Wait()
	}
}

// Emit stamps and appends a record. It never returns an error to the caller.
func (p *Publisher) Emit(ctx context.Context, record Record) {
	if record.Timestamp.IsZero() {
		record.Timestamp = p.now()
	}
	if record.OperatorID == "" {
		record.OperatorID = SystemActor
	}
	if record.RequestID == "" {
		record.RequestID = middleware.GetRequestID(ctx)
	}
	if p.async {
		// Non-blocking send; drop the record if the buffer is full
		select {
		case p.events <- &record:
		default:
			if p.logger != nil {
				p.logger.WarnContext(ctx, "audit buffer full, record dropped",
					"action", record.Action,
					"citizen_id", privacy.MaskCitizenID(record.CitizenID),
				)
			}
		}
		return
	}
	p.persist(ctx, &record)
}

func (p *Publisher) persist(ctx context.Context, record *Record) {
	if err := p.store.Append(ctx, record); err != nil && p.logger != nil {
		p.logger.ErrorContext(ctx, "failed to persist audit record",
			"error", err,
			"action", record.Action,
			"citizen_id", privacy.MaskCitizenID(record.CitizenID),
		)
	}
}

// List returns the citizen's trail, most recent first.
func (p *Publisher) List(ctx context.Context, citizenID string) ([]*Record, error) {
	return p.store.ListByCitizen(ctx, citizenID)
}

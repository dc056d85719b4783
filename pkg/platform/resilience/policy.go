package resilience

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"carpeta/pkg/platform/circuit"
)

// ErrCircuitOpen is handed to the fallback when the breaker rejects a call.
var ErrCircuitOpen = errors.New("circuit open")

// Policy guards calls to one dependency: a retry loop with backoff nested
// inside that dependency's circuit breaker, with a fallback for rejected or
// exhausted calls.
type Policy struct {
	breaker *circuit.Breaker
	backoff BackoffConfig
	timeout time.Duration
	metrics *Metrics
	logger  *slog.Logger
}

// Option configures a Policy.
type Option func(*Policy)

// WithBackoff overrides the retry schedule.
func WithBackoff(cfg BackoffConfig) Option {
	return func(p *Policy) {
		p.backoff = cfg
	}
}

// WithTimeout bounds each individual attempt. Default is 30s.
func WithTimeout(d time.Duration) Option {
	return func(p *Policy) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithMetrics records call outcomes.
func WithMetrics(m *Metrics) Option {
	return func(p *Policy) {
		p.metrics = m
	}
}

// WithLogger logs breaker transitions and fallbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Policy) {
		p.logger = logger
	}
}

// NewPolicy wraps the given breaker.
func NewPolicy(breaker *circuit.Breaker, opts ...Option) *Policy {
	p := &Policy{
		breaker: breaker,
		backoff: DefaultBackoff(),
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Name returns the dependency name of the underlying breaker.
func (p *Policy) Name() string {
	return p.breaker.Name()
}

// Breaker exposes the underlying breaker for health reporting.
func (p *Policy) Breaker() *circuit.Breaker {
	return p.breaker
}

// Execute runs call under p. Each attempt gets its own timeout; a timeout
// counts as a failure. The breaker records one outcome per Execute. When the
// breaker rejects the call or every attempt fails, fallback receives the cause
// and its value is returned instead.
func Execute[T any](ctx context.Context, p *Policy, call func(context.Context) (T, error), fallback func(error) T) T {
	name := p.breaker.Name()
	start := time.Now()

	allowed, change := p.breaker.Allow()
	p.observe(ctx, change)
	if !allowed {
		p.metrics.recordCall(name, "rejected", time.Since(start).Seconds())
		p.metrics.recordFallback(name, "circuit_open")
		p.logFallback(ctx, "circuit_open", ErrCircuitOpen)
		return fallback(ErrCircuitOpen)
	}

	var result T
	err := Retry(ctx, p.backoff, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		r, err := call(callCtx)
		if err != nil {
			return err
		}
		result = r
		return nil
	}, func(attempt int, err error) {
		p.metrics.recordRetry(name)
		if p.logger != nil {
			p.logger.DebugContext(ctx, "retrying dependency call",
				"dependency", name,
				"attempt", attempt,
				"error", err,
			)
		}
	})

	if err != nil {
		p.observe(ctx, p.breaker.RecordFailure())
		p.metrics.recordCall(name, "failure", time.Since(start).Seconds())
		p.metrics.recordFallback(name, "exhausted")
		p.logFallback(ctx, "exhausted", err)
		return fallback(err)
	}

	p.observe(ctx, p.breaker.RecordSuccess())
	p.metrics.recordCall(name, "success", time.Since(start).Seconds())
	return result
}

func (p *Policy) observe(ctx context.Context, change circuit.StateChange) {
	if !change.Changed() {
		return
	}
	p.metrics.setState(p.breaker.Name(), change.To)
	if p.logger != nil {
		p.logger.WarnContext(ctx, "circuit breaker state changed",
			"dependency", p.breaker.Name(),
			"from", change.From.String(),
			"to", change.To.String(),
		)
	}
}

func (p *Policy) logFallback(ctx context.Context, reason string, err error) {
	if p.logger == nil {
		return
	}
	p.logger.WarnContext(ctx, "dependency call served by fallback",
		"dependency", p.breaker.Name(),
		"reason", reason,
		"error", err,
	)
}

// Registry hands out one Policy per dependency name so every caller of a
// dependency shares the same breaker.
type Registry struct {
	mu             sync.Mutex
	policies       map[string]*Policy
	breakerOptions []circuit.Option
	policyOptions  []Option
}

// NewRegistry creates a registry applying the given options to every policy it creates.
func NewRegistry(breakerOpts []circuit.Option, policyOpts ...Option) *Registry {
	return &Registry{
		policies:       make(map[string]*Policy),
		breakerOptions: breakerOpts,
		policyOptions:  policyOpts,
	}
}

// Policy returns the policy for name, creating it on first use.
func (r *Registry) Policy(name string) *Policy {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.policies[name]; ok {
		return p
	}
	p := NewPolicy(circuit.New(name, r.breakerOptions...), r.policyOptions...)
	r.policies[name] = p
	return p
}

// States reports the breaker state of every known dependency.
func (r *Registry) States() map[string]circuit.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]circuit.State, len(r.policies))
	for name, p := range r.policies {
		out[name] = p.breaker.State()
	}
	return out
}

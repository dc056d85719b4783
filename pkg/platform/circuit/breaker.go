// Package circuit provides a circuit breaker for calls to downstream dependencies.
package circuit

import (
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means the circuit is healthy and requests flow normally.
	StateClosed State = iota
	// StateOpen means the circuit has tripped and requests should use fallback.
	StateOpen
	// StateHalfOpen lets a bounded number of probe requests through after the cooldown.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// StateChange represents a circuit breaker state transition.
// From equals To when nothing changed.
type StateChange struct {
	From State
	To   State
}

// Changed reports whether a transition happened.
func (c StateChange) Changed() bool { return c.From != c.To }

// Breaker tracks the failure rate over a count-based sliding window.
//
// Closed: outcomes are recorded in the window. Once at least MinCalls outcomes
// are present and the failure rate reaches the threshold, the circuit opens.
// Open: Allow rejects every call until the cooldown has elapsed, then the
// circuit half-opens. Half-open: up to HalfOpenProbes calls are admitted; all
// of them succeeding closes the circuit, any failure reopens it.
type Breaker struct {
	mu    sync.Mutex
	name  string
	state State

	window   []bool // ring buffer, true marks a failure
	next     int
	count    int
	failures int

	windowSize     int
	minCalls       int
	failureRate    float64
	cooldown       time.Duration
	halfOpenProbes int

	openedAt       time.Time
	probesAdmitted int
	probeSuccesses int

	now func() time.Time
}

// Option configures a Breaker instance.
type Option func(*Breaker)

// WithWindowSize sets the number of most recent outcomes considered. Default is 10.
func WithWindowSize(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.windowSize = n
		}
	}
}

// WithMinCalls sets the number of outcomes required before the rate is evaluated.
// Default is 5.
func WithMinCalls(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.minCalls = n
		}
	}
}

// WithFailureRate sets the failure ratio (0,1] that opens the circuit. Default is 0.5.
func WithFailureRate(rate float64) Option {
	return func(b *Breaker) {
		if rate > 0 && rate <= 1 {
			b.failureRate = rate
		}
	}
}

// WithCooldown sets how long the circuit stays open before probing. Default is 30s.
func WithCooldown(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.cooldown = d
		}
	}
}

// WithHalfOpenProbes sets how many probe calls are admitted while half-open.
// Default is 3.
func WithHalfOpenProbes(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.halfOpenProbes = n
		}
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		if now != nil {
			b.now = now
		}
	}
}

// New creates a circuit breaker with the given name and options.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:           name,
		state:          StateClosed,
		windowSize:     10,
		minCalls:       5,
		failureRate:    0.5,
		cooldown:       30 * time.Second,
		halfOpenProbes: 3,
		now:            time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	if b.minCalls > b.windowSize {
		b.minCalls = b.windowSize
	}
	b.window = make([]bool, b.windowSize)
	return b
}

// Name returns the circuit breaker's name for logging/metrics.
func (b *Breaker) Name() string {
	return b.name
}

// IsOpen returns true if the circuit is open (tripped).
func (b *Breaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state == StateOpen
}

// State returns the current circuit state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Allow reports whether a call may proceed. An open circuit whose cooldown
// has elapsed moves to half-open here.
func (b *Breaker) Allow() (bool, StateChange) {
	b.mu.Lock()
	defer b.mu.Unlock()

	change := StateChange{From: b.state, To: b.state}
	if b.state == StateOpen {
		if b.now().Sub(b.openedAt) < b.cooldown {
			return false, change
		}
		change = b.transition(StateHalfOpen)
	}

	if b.state == StateHalfOpen {
		if b.probesAdmitted >= b.halfOpenProbes {
			return false, change
		}
		b.probesAdmitted++
	}
	return true, change
}

// RecordFailure records a failed operation.
func (b *Breaker) RecordFailure() StateChange {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateHalfOpen:
		return b.transition(StateOpen)
	case StateClosed:
		b.push(true)
		if b.count >= b.minCalls && float64(b.failures)/float64(b.count) >= b.failureRate {
			return b.transition(StateOpen)
		}
	}
	return StateChange{From: b.state, To: b.state}
}

// RecordSuccess records a successful operation.
func (b *Breaker) RecordSuccess() StateChange {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateHalfOpen:
		b.probeSuccesses++
		if b.probeSuccesses >= b.halfOpenProbes {
			return b.transition(StateClosed)
		}
	case StateClosed:
		b.push(false)
	}
	return StateChange{From: b.state, To: b.state}
}

// Reset resets the circuit breaker to closed state with an empty window.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transition(StateClosed)
}

// transition moves to the target state and clears the counters that belong
// to the state being left. Callers hold b.mu.
func (b *Breaker) transition(to State) StateChange {
	change := StateChange{From: b.state, To: to}
	b.state = to
	b.probesAdmitted = 0
	b.probeSuccesses = 0

	switch to {
	case StateOpen:
		b.openedAt = b.now()
	case StateClosed:
		b.clearWindow()
	}
	return change
}

func (b *Breaker) push(failed bool) {
	if b.count == b.windowSize {
		if b.window[b.next] {
			b.failures--
		}
	} else {
		b.count++
	}
	b.window[b.next] = failed
	if failed {
		b.failures++
	}
	b.next = (b.next + 1) % b.windowSize
}

func (b *Breaker) clearWindow() {
	for i := range b.window {
		b.window[i] = false
	}
	b.next = 0
	b.count = 0
	b.failures = 0
}

package resilience

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"carpeta/pkg/platform/circuit"
)

var fastBackoff = BackoffConfig{
	InitialDelay: time.Millisecond,
	MaxDelay:     2 * time.Millisecond,
	MaxRetries:   2,
	Multiplier:   2,
}

type outcome struct {
	status int
}

func unavailable(error) outcome { return outcome{status: 503} }

func TestRetry(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		var calls int
		var retries []int
		err := Retry(context.Background(), fastBackoff, func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("connection reset")
			}
			return nil
		}, func(attempt int, _ error) { retries = append(retries, attempt) })

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []int{1, 2}, retries)
	})

	t.Run("returns last error when budget is spent", func(t *testing.T) {
		var calls int
		err := Retry(context.Background(), fastBackoff, func(context.Context) error {
			calls++
			return errors.New("still down")
		}, nil)

		require.EqualError(t, err, "still down")
		assert.Equal(t, 3, calls, "first attempt plus MaxRetries")
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		var calls int
		cause := errors.New("bad payload")
		err := Retry(context.Background(), fastBackoff, func(context.Context) error {
			calls++
			return Permanent(cause)
		}, nil)

		require.ErrorIs(t, err, cause)
		assert.True(t, IsPermanent(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("honors cancellation between attempts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		slow := BackoffConfig{InitialDelay: time.Hour, MaxDelay: time.Hour, MaxRetries: 3, Multiplier: 2}
		var calls int
		err := Retry(ctx, slow, func(context.Context) error {
			calls++
			cancel()
			return errors.New("timeout")
		}, nil)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

type PolicySuite struct {
	suite.Suite
	now    time.Time
	policy *Policy
}

func TestPolicySuite(t *testing.T) {
	suite.Run(t, new(PolicySuite))
}

func (s *PolicySuite) SetupTest() {
	s.now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	breaker := circuit.New("registry-api",
		circuit.WithWindowSize(4),
		circuit.WithMinCalls(2),
		circuit.WithFailureRate(0.5),
		circuit.WithCooldown(time.Minute),
		circuit.WithHalfOpenProbes(1),
		circuit.WithClock(func() time.Time { return s.now }),
	)
	s.policy = NewPolicy(breaker, WithBackoff(fastBackoff), WithTimeout(time.Second))
}

func (s *PolicySuite) TestReturnsCallResultOnSuccess() {
	got := Execute(context.Background(), s.policy, func(context.Context) (outcome, error) {
		return outcome{status: 201}, nil
	}, unavailable)

	s.Equal(201, got.status)
	s.Equal(circuit.StateClosed, s.policy.Breaker().State())
}

func (s *PolicySuite) TestFallbackAfterRetriesExhausted() {
	var calls int32
	got := Execute(context.Background(), s.policy, func(context.Context) (outcome, error) {
		atomic.AddInt32(&calls, 1)
		return outcome{}, errors.New("dial tcp: connection refused")
	}, unavailable)

	s.Equal(503, got.status)
	s.Equal(int32(3), atomic.LoadInt32(&calls))
}

func (s *PolicySuite) TestOpenCircuitSkipsNetworkCall() {
	failing := func(context.Context) (outcome, error) { return outcome{}, errors.New("down") }
	Execute(context.Background(), s.policy, failing, unavailable)
	Execute(context.Background(), s.policy, failing, unavailable)
	s.Require().True(s.policy.Breaker().IsOpen())

	var called bool
	var cause error
	got := Execute(context.Background(), s.policy, func(context.Context) (outcome, error) {
		called = true
		return outcome{status: 200}, nil
	}, func(err error) outcome {
		cause = err
		return outcome{status: 503}
	})

	s.False(called, "open circuit must not reach the network")
	s.Equal(503, got.status)
	s.ErrorIs(cause, ErrCircuitOpen)
}

func (s *PolicySuite) TestHalfOpenProbeClosesCircuit() {
	failing := func(context.Context) (outcome, error) { return outcome{}, errors.New("down") }
	Execute(context.Background(), s.policy, failing, unavailable)
	Execute(context.Background(), s.policy, failing, unavailable)
	s.Require().True(s.policy.Breaker().IsOpen())

	s.now = s.now.Add(time.Minute)
	got := Execute(context.Background(), s.policy, func(context.Context) (outcome, error) {
		return outcome{status: 204}, nil
	}, unavailable)

	s.Equal(204, got.status)
	s.Equal(circuit.StateClosed, s.policy.Breaker().State())
}

func (s *PolicySuite) TestAttemptTimeoutCountsAsFailure() {
	policy := NewPolicy(circuit.New("folder-api"),
		WithBackoff(BackoffConfig{InitialDelay: time.Millisecond, MaxRetries: 0}),
		WithTimeout(5*time.Millisecond),
	)
	got := Execute(context.Background(), policy, func(ctx context.Context) (outcome, error) {
		<-ctx.Done()
		return outcome{}, ctx.Err()
	}, unavailable)

	s.Equal(503, got.status)
}

func (s *PolicySuite) TestRegistrySharesPolicyPerName() {
	reg := NewRegistry(nil)
	a := reg.Policy("registry-api")
	b := reg.Policy("registry-api")
	c := reg.Policy("folder-api")

	s.Same(a, b)
	s.NotSame(a, c)
	s.Len(reg.States(), 2)
}

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"carpeta/pkg/platform/circuit"
	"carpeta/pkg/platform/resilience"
)

type failingDoer struct {
	calls atomic.Int32
}

func (d *failingDoer) Do(*http.Request) (*http.Response, error) {
	d.calls.Add(1)
	return nil, errors.New("connection refused")
}

func fastPolicy(name string, opts ...circuit.Option) *resilience.Policy {
	return resilience.NewPolicy(circuit.New(name, opts...),
		resilience.WithBackoff(resilience.BackoffConfig{
			InitialDelay: time.Millisecond,
			MaxDelay:     time.Millisecond,
			MaxRetries:   2,
		}),
		resilience.WithTimeout(time.Second),
	)
}

type RegistryClientSuite struct {
	suite.Suite
	ctx      context.Context
	mux      *http.ServeMux
	server   *httptest.Server
	client   *RegistryClient
	lastBody map[string]any
	hits     atomic.Int32
}

func TestRegistryClientSuite(t *testing.T) {
	suite.Run(t, new(RegistryClientSuite))
}

func (s *RegistryClientSuite) SetupTest() {
	s.ctx = context.Background()
	s.mux = http.NewServeMux()
	s.server = httptest.NewServer(s.mux)
	s.hits.Store(0)
	s.lastBody = nil
	s.client = NewRegistryClient(s.server.URL, fastPolicy(DependencyRegistry),
		WithAPIKey("secret"),
		WithAnswerStatus(http.StatusNotImplemented),
	)
}

func (s *RegistryClientSuite) TearDownTest() {
	s.server.Close()
}

func (s *RegistryClientSuite) handle(pattern string, status int, body string) {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		s.Equal("secret", r.Header.Get("X-API-Key"))
		if r.Body != nil {
			raw, _ := io.ReadAll(r.Body)
			if len(raw) > 0 {
				s.NoError(json.Unmarshal(raw, &s.lastBody))
			}
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func (s *RegistryClientSuite) TestValidate() {
	s.Run("200 is success", func() {
		s.SetupTest()
		s.handle("GET /apis/validateCitizen/{id}", http.StatusOK, "citizen available\n")
		resp := s.client.Validate(s.ctx, "1234567")
		s.True(resp.Success)
		s.Equal(http.StatusOK, resp.StatusCode)
		s.Equal("citizen available", resp.Message)
	})

	s.Run("204 is success", func() {
		s.SetupTest()
		s.handle("GET /apis/validateCitizen/{id}", http.StatusNoContent, "")
		resp := s.client.Validate(s.ctx, "1234567")
		s.True(resp.Success)
		s.Equal(http.StatusNoContent, resp.StatusCode)
	})

	s.Run("4xx is an answer, not retried", func() {
		s.SetupTest()
		s.handle("GET /apis/validateCitizen/{id}", http.StatusNotFound, "unknown")
		resp := s.client.Validate(s.ctx, "1234567")
		s.False(resp.Success)
		s.Equal(http.StatusNotFound, resp.StatusCode)
		s.Equal(int32(1), s.hits.Load())
	})

	s.Run("5xx is retried then served by fallback", func() {
		s.SetupTest()
		s.handle("GET /apis/validateCitizen/{id}", http.StatusInternalServerError, "boom")
		resp := s.client.Validate(s.ctx, "1234567")
		s.False(resp.Success)
		s.True(resp.IsFallback())
		s.Equal(http.StatusServiceUnavailable, resp.StatusCode)
		s.Equal(int32(3), s.hits.Load())
	})
}

func (s *RegistryClientSuite) TestRegister() {
	s.Run("201 is success and body is sent", func() {
		s.SetupTest()
		s.handle("POST /apis/registerCitizen", http.StatusCreated, "registered")
		resp := s.client.Register(s.ctx, RegisterRequest{
			CitizenID:    "1234567",
			FullName:     "Ana Maria",
			Address:      "Calle 1",
			Email:        "ana.maria.1234567@carpetacolombia.co",
			OperatorID:   "OP1",
			OperatorName: "Operador Uno",
		})
		s.True(resp.Success)
		s.Equal("1234567", s.lastBody["id"])
		s.Equal("Ana Maria", s.lastBody["name"])
		s.Equal("OP1", s.lastBody["operatorId"])
	})

	s.Run("already registered status is reported as is", func() {
		s.SetupTest()
		s.handle("POST /apis/registerCitizen", http.StatusNotImplemented, "already registered")
		resp := s.client.Register(s.ctx, RegisterRequest{CitizenID: "1234567"})
		s.False(resp.Success)
		s.Equal(http.StatusNotImplemented, resp.StatusCode)
		s.Equal("already registered", resp.Message)
		s.Equal(int32(1), s.hits.Load())
	})

	s.Run("conflict is a definitive failure", func() {
		s.SetupTest()
		s.handle("POST /apis/registerCitizen", http.StatusConflict, "exists")
		resp := s.client.Register(s.ctx, RegisterRequest{CitizenID: "1234567"})
		s.False(resp.Success)
		s.Equal(http.StatusConflict, resp.StatusCode)
	})
}

func (s *RegistryClientSuite) TestDeregister() {
	for _, status := range []int{http.StatusOK, http.StatusCreated, http.StatusNoContent} {
		s.SetupTest()
		s.handle("DELETE /apis/unregisterCitizen", status, "")
		resp := s.client.Deregister(s.ctx, DeregisterRequest{CitizenID: "1234567", OperatorID: "OP1"})
		s.True(resp.Success, "status %d", status)
		s.Equal("1234567", s.lastBody["id"])
	}
}

func TestTransportFailureNeverEscapes(t *testing.T) {
	doer := &failingDoer{}
	client := NewRegistryClient("http://registry.invalid", fastPolicy(DependencyRegistry), WithHTTPClient(doer))

	resp := client.Validate(context.Background(), "1234567")

	if !resp.IsFallback() || resp.Success {
		t.Fatalf("expected fallback response, got %+v", resp)
	}
	if got := doer.calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestOpenBreakerShortCircuits(t *testing.T) {
	doer := &failingDoer{}
	policy := fastPolicy(DependencyRegistry,
		circuit.WithWindowSize(2),
		circuit.WithMinCalls(2),
		circuit.WithCooldown(time.Hour),
	)
	client := NewRegistryClient("http://registry.invalid", policy, WithHTTPClient(doer))

	client.Validate(context.Background(), "1")
	client.Validate(context.Background(), "2")
	if !policy.Breaker().IsOpen() {
		t.Fatal("expected breaker to open after two failed calls")
	}

	before := doer.calls.Load()
	resp := client.Validate(context.Background(), "3")
	if !resp.IsFallback() {
		t.Fatalf("expected fallback, got %+v", resp)
	}
	if doer.calls.Load() != before {
		t.Fatal("open breaker must not reach the network")
	}
}

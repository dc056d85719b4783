package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"carpeta/internal/registry/tracer"
	"carpeta/pkg/platform/resilience"
)

const (
	defaultConnectTimeout = 10 * time.Second
	maxResponseBytes      = 1 << 20
)

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures an HTTP gateway client.
type Option func(*httpCaller)

// WithHTTPClient injects the HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *httpCaller) {
		if doer != nil {
			c.doer = doer
		}
	}
}

// WithAPIKey sends the key in the X-API-Key header.
func WithAPIKey(key string) Option {
	return func(c *httpCaller) {
		c.apiKey = key
	}
}

// WithAnswerStatus treats the given 5xx statuses as definitive answers
// instead of retryable failures.
func WithAnswerStatus(codes ...int) Option {
	return func(c *httpCaller) {
		c.answers = append(c.answers, codes...)
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(c *httpCaller) {
		if t != nil {
			c.tracer = t
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *httpCaller) {
		c.logger = logger
	}
}

// serverError marks a 5xx reply so the policy retries it and the breaker counts it.
type serverError struct {
	status int
	body   string
}

func (e *serverError) Error() string {
	return fmt.Sprintf("downstream returned %d: %s", e.status, e.body)
}

type httpCaller struct {
	baseURL string
	apiKey  string
	answers statusSet
	doer    HTTPDoer
	policy  *resilience.Policy
	tracer  tracer.Tracer
	logger  *slog.Logger
}

func newHTTPCaller(baseURL string, policy *resilience.Policy, opts ...Option) *httpCaller {
	c := &httpCaller{
		baseURL: strings.TrimRight(baseURL, "/"),
		policy:  policy,
		tracer:  tracer.NewNoop(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.doer == nil {
		c.doer = defaultHTTPClient()
	}
	return c
}

// defaultHTTPClient bounds connection setup only; the policy bounds each attempt.
func defaultHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: defaultConnectTimeout}).DialContext
	return &http.Client{Transport: transport}
}

// do performs one attempt. Transport errors and 5xx replies not listed in
// answers are returned as errors; any other status is a definitive answer.
func (c *httpCaller) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, resilience.Permanent(fmt.Errorf("marshal request: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, resilience.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusInternalServerError && !c.answers.has(resp.StatusCode) {
		return resp.StatusCode, payload, &serverError{status: resp.StatusCode, body: strings.TrimSpace(string(payload))}
	}
	return resp.StatusCode, payload, nil
}

// span starts a gateway span and returns a finisher recording the outcome.
func (c *httpCaller) span(ctx context.Context, name, citizenID string) (context.Context, func(Response)) {
	ctx, span := c.tracer.Start(ctx, name,
		tracer.String(tracer.AttrDependency, c.policy.Name()),
		tracer.String(tracer.AttrCitizenID, tracer.HashCitizenID(citizenID)),
	)
	return ctx, func(r Response) {
		span.SetAttributes(
			tracer.Int(tracer.AttrStatusCode, r.StatusCode),
			tracer.Bool(tracer.AttrSuccess, r.Success),
			tracer.Bool(tracer.AttrFallback, r.IsFallback()),
		)
		span.End(nil)
	}
}

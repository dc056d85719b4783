package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"carpeta/internal/registry/tracer"
	"carpeta/pkg/platform/resilience"
)

// RegistryClient talks to the external citizen registry.
type RegistryClient struct {
	*httpCaller
}

// NewRegistryClient creates a client for the registry at baseURL guarded by policy.
func NewRegistryClient(baseURL string, policy *resilience.Policy, opts ...Option) *RegistryClient {
	return &RegistryClient{httpCaller: newHTTPCaller(baseURL, policy, opts...)}
}

// Validate asks whether the citizen can register with this operator.
func (c *RegistryClient) Validate(ctx context.Context, citizenID string) Response {
	ctx, finish := c.span(ctx, tracer.SpanValidate, citizenID)
	resp := c.exchange(ctx, http.MethodGet, "/apis/validateCitizen/"+url.PathEscape(citizenID), nil, validateSuccess)
	finish(resp)
	return resp
}

func (c *RegistryClient) Register(ctx context.Context, req RegisterRequest) Response {
	ctx, finish := c.span(ctx, tracer.SpanRegister, req.CitizenID)
	resp := c.exchange(ctx, http.MethodPost, "/apis/registerCitizen", req, registerSuccess)
	finish(resp)
	return resp
}

func (c *RegistryClient) Deregister(ctx context.Context, req DeregisterRequest) Response {
	ctx, finish := c.span(ctx, tracer.SpanDeregister, req.CitizenID)
	resp := c.exchange(ctx, http.MethodDelete, "/apis/unregisterCitizen", req, deregisterSuccess)
	finish(resp)
	return resp
}

func (c *RegistryClient) exchange(ctx context.Context, method, path string, body any, success statusSet) Response {
	return resilience.Execute(ctx, c.policy, func(ctx context.Context) (Response, error) {
		status, payload, err := c.do(ctx, method, path, body)
		if err != nil {
			return Response{}, err
		}
		return Response{
			StatusCode: status,
			Success:    success.has(status),
			Message:    strings.TrimSpace(string(payload)),
		}, nil
	}, func(err error) Response {
		c.logger.WarnContext(ctx, "registry call failed, using fallback",
			"method", method,
			"path", path,
			"error", err,
		)
		return Unavailable()
	})
}

var _ Registry = (*RegistryClient)(nil)

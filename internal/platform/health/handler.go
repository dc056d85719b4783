// Package health serves liveness, readiness and status probes for carpeta.
// Readiness covers the storage backend, blob bucket and Kafka; circuit
// breakers only show up in the status report.
package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"carpeta/pkg/platform/httputil"
)

// CheckTimeout bounds each readiness check.
const CheckTimeout = 3 * time.Second

// Version is set at build time via ldflags.
var Version = "dev"

// CheckFunc returns nil when the dependency is reachable.
type CheckFunc func(ctx context.Context) error

type Handler struct {
	startTime   time.Time
	environment string

	mu       sync.RWMutex
	checks   map[string]CheckFunc
	breakers func() map[string]string
}

func New(environment string) *Handler {
	return &Handler{
		startTime:   time.Now(),
		environment: environment,
		checks:      make(map[string]CheckFunc),
	}
}

// RegisterCheck adds a readiness check. Re-registering a name replaces it.
func (h *Handler) RegisterCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// ReportBreakers sets the source of breaker states for /health. An open
// breaker marks the service degraded but never fails readiness; the
// registration flow answers with its fallback instead.
func (h *Handler) ReportBreakers(states func() map[string]string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.breakers = states
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleStatus)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}

type LivenessResponse struct {
	Status string `json:"status"`
}

func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, LivenessResponse{Status: "alive"})
}

type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HandleReadiness runs every check in parallel, each under CheckTimeout,
// and answers 503 when any of them fails.
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	results := h.runChecks(r.Context())

	response := ReadinessResponse{Status: "ready", Checks: results}
	status := http.StatusOK
	for _, result := range results {
		if result != "up" {
			response.Status = "not_ready"
			status = http.StatusServiceUnavailable
			break
		}
	}
	httputil.WriteJSON(w, status, response)
}

func (h *Handler) runChecks(ctx context.Context) map[string]string {
	h.mu.RLock()
	names := make([]string, 0, len(h.checks))
	checks := make([]CheckFunc, 0, len(h.checks))
	for name, check := range h.checks {
		names = append(names, name)
		checks = append(checks, check)
	}
	h.mu.RUnlock()

	outcomes := make([]string, len(checks))
	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Go(func() {
			checkCtx, cancel := context.WithTimeout(ctx, CheckTimeout)
			defer cancel()
			if err := check(checkCtx); err != nil {
				outcomes[i] = "down: " + err.Error()
				return
			}
			outcomes[i] = "up"
		})
	}
	wg.Wait()

	results := make(map[string]string, len(names))
	for i, name := range names {
		results[name] = outcomes[i]
	}
	return results
}

type StatusResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Environment   string `json:"environment"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Timestamp     string `json:"timestamp"`

	CircuitBreakers map[string]string `json:"circuit_breakers,omitempty"`
}

// HandleStatus reports version, uptime and breaker states. The status is
// "degraded" while any breaker is not closed.
func (h *Handler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	breakers := h.breakers
	h.mu.RUnlock()

	resp := StatusResponse{
		Status:        "healthy",
		Version:       Version,
		Environment:   h.environment,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
	if breakers != nil {
		resp.CircuitBreakers = breakers()
		for _, state := range resp.CircuitBreakers {
			if state != "closed" {
				resp.Status = "degraded"
			}
		}
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.Register(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReadiness(t *testing.T) {
	t.Run("ready when every check passes", func(t *testing.T) {
		h := New("test")
		h.RegisterCheck("postgres", func(context.Context) error { return nil })

		rec := serve(h, "/health/ready")
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp ReadinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "up", resp.Checks["postgres"])
	})

	t.Run("not ready when a check fails", func(t *testing.T) {
		h := New("test")
		h.RegisterCheck("postgres", func(context.Context) error { return nil })
		h.RegisterCheck("minio", func(context.Context) error { return errors.New("bucket unreachable") })

		rec := serve(h, "/health/ready")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var resp ReadinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "not_ready", resp.Status)
		assert.Equal(t, "down: bucket unreachable", resp.Checks["minio"])
	})

	t.Run("checks receive a deadline", func(t *testing.T) {
		h := New("test")
		h.RegisterCheck("redis", func(ctx context.Context) error {
			if _, ok := ctx.Deadline(); !ok {
				return errors.New("no deadline")
			}
			return nil
		})
		assert.Equal(t, http.StatusOK, serve(h, "/health/ready").Code)
	})
}

func TestStatusReportsBreakers(t *testing.T) {
	h := New("test")
	h.ReportBreakers(func() map[string]string {
		return map[string]string{"registry-api": "open"}
	})

	rec := serve(h, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "open", resp.CircuitBreakers["registry-api"])
	assert.Equal(t, "test", resp.Environment)
}

func TestStatusHealthyWhenBreakersClosed(t *testing.T) {
	h := New("test")
	h.ReportBreakers(func() map[string]string {
		return map[string]string{"registry-api": "closed", "folder-api": "closed"}
	})

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(serve(h, "/health").Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}

func TestReadinessRunsChecksConcurrently(t *testing.T) {
	h := New("test")
	release := make(chan struct{})
	started := make(chan struct{}, 2)
	for _, name := range []string{"postgres", "kafka"} {
		h.RegisterCheck(name, func(ctx context.Context) error {
			started <- struct{}{}
			select {
			case <-release:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}
	go func() {
		<-started
		<-started
		close(release)
	}()

	assert.Equal(t, http.StatusOK, serve(h, "/health/ready").Code)
}

func TestLiveness(t *testing.T) {
	assert.Equal(t, http.StatusOK, serve(New("test"), "/health/live").Code)
}

package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"carpeta/internal/platform/metrics"
	"carpeta/internal/platform/middleware"
	"carpeta/pkg/platform/validation"
)

// BlobPrefix is where the in-memory blob backend serves presigned downloads.
const BlobPrefix = "/blobs"

// Registrar mounts a feature's routes.
type Registrar interface {
	Register(r chi.Router)
}

// Routes collects the handlers and cross-cutting settings of the public API.
type Routes struct {
	Logger         *slog.Logger
	Metrics        *metrics.HTTP
	RequestTimeout time.Duration
	CORSOrigins    []string

	Health        Registrar
	Registrations Registrar
	Folders       Registrar
	// Blobs is nil unless downloads are served by this process.
	Blobs http.Handler
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(rt Routes) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(rt.Logger))
	r.Use(middleware.Logger(rt.Logger))
	r.Use(middleware.Latency(rt.Metrics))
	r.Use(middleware.CORS(rt.CORSOrigins))

	rt.Health.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if rt.RequestTimeout > 0 {
			r.Use(middleware.Timeout(rt.RequestTimeout))
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.BodyLimit(validation.MaxBodySize))
			rt.Registrations.Register(r)
		})

		// uploads enforce their own multipart limit
		rt.Folders.Register(r)

		if rt.Blobs != nil {
			r.Handle(BlobPrefix+"/*", rt.Blobs)
		}
	})

	return r
}

// Package service implements the citizen registration saga: validation and
// registration against the external registry, folder provisioning, and
// deregistration, with every step recorded in the audit trail.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"log/slog"
	"time"

	"carpeta/internal/audit"
	"carpeta/internal/registry/gateway"
	"carpeta/internal/registry/metrics"
	"carpeta/internal/registry/models"
	"carpeta/internal/registry/tracer"
	dErrors "carpeta/pkg/domain-errors"
)

var (
	ErrAlreadyRegistered = dErrors.New(dErrors.CodeConflict, "citizen already registered")
	ErrNotRegistered     = dErrors.New(dErrors.CodeNotFound, "no active registration for citizen")
)

// RegistrationStore persists registrations keyed by citizen ID.
type RegistrationStore interface {
	// Create fails with a conflict error if a record exists for the citizen.
	Create(ctx context.Context, reg *models.Registration) error
	Save(ctx context.Context, reg *models.Registration) error
	FindByCitizen(ctx context.Context, citizenID string) (*models.Registration, error)
	FindActiveByOperator(ctx context.Context, operatorID string) ([]*models.Registration, error)
}

// RegistryGateway is the external citizen registry.
type RegistryGateway interface {
	Validate(ctx context.Context, citizenID string) gateway.Response
	Register(ctx context.Context, req gateway.RegisterRequest) gateway.Response
	Deregister(ctx context.Context, req gateway.DeregisterRequest) gateway.Response
}

// FolderGateway provisions citizen folders.
type FolderGateway interface {
	CreateFolder(ctx context.Context, req gateway.FolderRequest) gateway.FolderResponse
	FindByCitizen(ctx context.Context, citizenID string) gateway.FolderResponse
}

// AuditPublisher appends to the audit trail. Emit is best-effort.
type AuditPublisher interface {
	Emit(ctx context.Context, record audit.Record)
	List(ctx context.Context, citizenID string) ([]*audit.Record, error)
}

// Config holds saga settings.
type Config struct {
	// AlreadyRegisteredStatus is the registry status meaning "registered elsewhere".
	AlreadyRegisteredStatus int
	// SystemOperatorID is sent as the operator of system-initiated folder creation.
	SystemOperatorID   string
	SystemOperatorName string
}

func DefaultConfig() Config {
	return Config{
		AlreadyRegisteredStatus: 501,
		SystemOperatorID:        "SISTEMA_REGISTRO",
		SystemOperatorName:      "Sistema de Registro",
	}
}

// Service orchestrates the registration saga.
type Service struct {
	store    RegistrationStore
	registry RegistryGateway
	folders  FolderGateway
	auditor  AuditPublisher
	cfg      Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   tracer.Tracer
	now      func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

func WithConfig(cfg Config) Option {
	return func(s *Service) {
		s.cfg = cfg
	}
}

// WithClock overrides the time source (for tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(store RegistrationStore, registry RegistryGateway, folders FolderGateway, auditor AuditPublisher, opts ...Option) *Service {
	s := &Service{
		store:    store,
		registry: registry,
		folders:  folders,
		auditor:  auditor,
		cfg:      DefaultConfig(),
		logger:   slog.Default(),
		tracer:   tracer.NewNoop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// startOperation opens the orchestration span and returns a finisher that
// records metrics and ends the span with the operation's error.
func (s *Service) startOperation(ctx context.Context, operation, citizenID string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanOrchestration,
		tracer.String(tracer.AttrOperation, operation),
		tracer.String(tracer.AttrCitizenID, tracer.HashCitizenID(citizenID)),
	)
	return ctx, func(err error) {
		outcome := "success"
		if err != nil {
			outcome = string(dErrors.CodeOf(err))
		}
		s.metrics.ObserveOperation(operation, outcome, time.Since(start).Seconds())
		span.End(err)
	}
}

func (s *Service) emit(ctx context.Context, record audit.Record) {
	if s.auditor == nil {
		return
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = s.now()
	}
	s.auditor.Emit(ctx, record)
}

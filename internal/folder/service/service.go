// Package service implements the folder and document store: folder
// provisioning, hashed uploads bound to blob storage, cursor listings,
// presigned downloads and the per-folder access history.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"log/slog"
	"time"

	"carpeta/internal/blob"
	"carpeta/internal/folder/metrics"
	"carpeta/internal/folder/models"
	platformsync "carpeta/pkg/platform/sync"
)

// SystemActor is recorded when no caller identity is supplied.
const SystemActor = "SYSTEM"

// FolderStore persists folders, documents and access records.
type FolderStore interface {
	CreateFolder(ctx context.Context, folder *models.Folder) error
	SaveFolder(ctx context.Context, folder *models.Folder) error
	FindFolder(ctx context.Context, folderID string) (*models.Folder, error)
	FindFolderByCitizen(ctx context.Context, citizenID string) (*models.Folder, error)
	SaveDocument(ctx context.Context, doc *models.Document) error
	FindDocument(ctx context.Context, folderID, documentID string) (*models.Document, error)
	ListDocuments(ctx context.Context, folderID, afterID string, limit int) ([]*models.Document, error)
	AppendAccess(ctx context.Context, record *models.AccessRecord) error
	ListAccess(ctx context.Context, folderID string, limit int) ([]*models.AccessRecord, error)
}

// UploadPublisher announces uploads. Delivery is best effort.
type UploadPublisher interface {
	PublishDocumentUploaded(ctx context.Context, event models.DocumentUploaded) error
}

// Service owns folders and their documents.
type Service struct {
	store      FolderStore
	blobs      blob.Store
	publisher  UploadPublisher
	presignTTL time.Duration
	logger     *slog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
	// owners serializes folder creation per citizen.
	owners *platformsync.ShardedMutex
	// folders serializes folder read-modify-write per folder ID.
	folders *platformsync.ShardedMutex
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

// WithPublisher enables upload announcements.
func WithPublisher(p UploadPublisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithPresignTTL sets the lifetime of download URLs.
func WithPresignTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.presignTTL = ttl
		}
	}
}

// WithClock overrides the time source (for tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(store FolderStore, blobs blob.Store, opts ...Option) *Service {
	s := &Service{
		store:      store,
		blobs:      blobs,
		presignTTL: blob.DefaultPresignTTL,
		logger:     slog.Default(),
		now:        time.Now,
		owners:     platformsync.NewShardedMutex(0),
		folders:    platformsync.NewShardedMutex(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// recordAccess appends to the access history. Failures are logged, never returned.
func (s *Service) recordAccess(ctx context.Context, record models.AccessRecord) {
	if record.Actor == "" {
		record.Actor = SystemActor
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = s.now()
	}
	if err := s.store.AppendAccess(ctx, &record); err != nil {
		s.logger.WarnContext(ctx, "failed to record folder access",
			"error", err,
			"folder_id", record.FolderID,
			"document_id", record.DocumentID,
			"kind", record.Kind,
		)
	}
}

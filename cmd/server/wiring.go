package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"carpeta/internal/blob"
	"carpeta/internal/folder/events"
	folderservice "carpeta/internal/folder/service"
	"carpeta/internal/partition"
	"carpeta/internal/platform/config"
	"carpeta/internal/platform/database"
	"carpeta/internal/platform/health"
	"carpeta/internal/platform/kafka"
	"carpeta/internal/platform/kafka/consumer"
	"carpeta/internal/platform/kafka/producer"
	"carpeta/internal/platform/redis"
	"carpeta/pkg/platform/circuit"
	"carpeta/pkg/platform/resilience"
)

const (
	redisKeyPrefix   = "carpeta"
	consumerBackoff  = 2 * time.Second
	bootstrapTimeout = 30 * time.Second
)

// storage is the selected partition backend plus whatever must be closed on exit.
type storage struct {
	backend partition.Store
	redis   *redis.Client
	closers []func() error
}

func (s *storage) close() {
	for _, c := range s.closers {
		_ = c() //nolint:errcheck // shutdown path
	}
}

func openStorage(ctx context.Context, cfg config.Storage, checks *health.Handler) (*storage, error) {
	s := &storage{}
	var store partition.Store

	switch cfg.Backend {
	case config.StoragePostgres:
		pool, err := database.Open(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pool.Close)
		checks.RegisterCheck("postgres", pool.Health)
		store = partition.NewPostgresStore(pool.DB())

	case config.StorageSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db.Close)
		if err := partition.EnsureSQLiteSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		checks.RegisterCheck("sqlite", pingDB(db))
		store = partition.NewSQLiteStore(db)

	case config.StorageRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		s.redis = client
		s.closers = append(s.closers, client.Close)
		checks.RegisterCheck("redis", client.Health)
		store = partition.NewRedisStore(client.Client, redisKeyPrefix)

	default:
		store = partition.NewInMemoryStore()
	}

	s.backend = partition.WithMetrics(store, cfg.Backend, partition.NewMetrics())
	return s, nil
}

func pingDB(db *sql.DB) health.CheckFunc {
	return func(ctx context.Context) error {
		return db.PingContext(ctx)
	}
}

// blobs is the document content backend. downloads is set when presigned
// links point back at this process.
type blobs struct {
	store     blob.Store
	downloads http.Handler
}

func openBlobs(ctx context.Context, cfg config.Blob, checks *health.Handler) (*blobs, error) {
	if cfg.Backend != config.BlobMinio {
		mem := blob.NewInMemoryStore(cfg.Secret, blob.WithBaseURL(cfg.BaseURL))
		return &blobs{store: mem, downloads: blob.DownloadHandler(mem)}, nil
	}

	store, err := blob.NewMinioStore(cfg.Minio)
	if err != nil {
		return nil, err
	}
	bootCtx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
	defer cancel()
	if err := store.EnsureBucket(bootCtx); err != nil {
		return nil, err
	}
	checks.RegisterCheck("minio", store.Health)
	return &blobs{store: store}, nil
}

// eventBus holds the Kafka side of the document store. Every field stays nil
// when no brokers are configured.
type eventBus struct {
	cfg       kafka.Config
	producer  *producer.Producer
	publisher folderservice.UploadPublisher
	consumer  *consumer.Consumer
}

func openEvents(ctx context.Context, cfg kafka.Config, log *slog.Logger, checks *health.Handler) (*eventBus, error) {
	bus := &eventBus{cfg: cfg}
	if !cfg.Enabled() {
		return bus, nil
	}

	bootCtx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
	defer cancel()
	if err := kafka.EnsureTopics(bootCtx, cfg, kafka.TopicDocumentsUploaded, kafka.TopicDocumentsAuthenticated); err != nil {
		return nil, err
	}

	p, err := producer.New(producer.Config{
		Brokers:         cfg.Brokers,
		ClientID:        cfg.ClientID,
		Acks:            cfg.Acks,
		Retries:         cfg.Retries,
		DeliveryTimeout: cfg.DeliveryTimeout,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	bus.producer = p
	bus.publisher = events.NewPublisher(p)
	checks.RegisterCheck("kafka", kafka.TopicsCheck(cfg, kafka.TopicDocumentsUploaded, kafka.TopicDocumentsAuthenticated))
	return bus, nil
}

// startConsumer applies authentication results to documents. It is a no-op
// without brokers.
func (b *eventBus) startConsumer(documents events.StateUpdater, log *slog.Logger) error {
	if !b.cfg.Enabled() {
		return nil
	}
	c, err := consumer.New(consumer.Config{
		Brokers:         b.cfg.Brokers,
		GroupID:         b.cfg.GroupID,
		AutoOffsetReset: b.cfg.AutoOffsetReset,
		RetryBackoff:    consumerBackoff,
	}, events.NewAuthResultHandler(documents, log), log)
	if err != nil {
		return fmt.Errorf("create kafka consumer: %w", err)
	}
	if err := c.Subscribe([]string{kafka.TopicDocumentsAuthenticated}); err != nil {
		return err
	}
	c.Start()
	b.consumer = c
	return nil
}

func (b *eventBus) stopConsumer(ctx context.Context) error {
	if b.consumer == nil {
		return nil
	}
	return b.consumer.Stop(ctx)
}

func (b *eventBus) close() {
	if b.producer != nil {
		_ = b.producer.Close() //nolint:errcheck // shutdown path
	}
}

func newPolicies(cfg config.Resilience, log *slog.Logger) *resilience.Registry {
	return resilience.NewRegistry(
		[]circuit.Option{
			circuit.WithWindowSize(cfg.WindowSize),
			circuit.WithMinCalls(cfg.MinCalls),
			circuit.WithFailureRate(cfg.FailureRate),
			circuit.WithCooldown(cfg.Cooldown),
			circuit.WithHalfOpenProbes(cfg.HalfOpenProbes),
		},
		resilience.WithBackoff(resilience.BackoffConfig{
			InitialDelay: cfg.InitialDelay,
			MaxDelay:     cfg.MaxDelay,
			MaxRetries:   cfg.MaxRetries,
		}),
		resilience.WithTimeout(cfg.CallTimeout),
		resilience.WithMetrics(resilience.NewMetrics()),
		resilience.WithLogger(log),
	)
}

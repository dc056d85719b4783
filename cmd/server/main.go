package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"carpeta/internal/audit"
	folderhandler "carpeta/internal/folder/handler"
	foldermetrics "carpeta/internal/folder/metrics"
	folderservice "carpeta/internal/folder/service"
	folderstore "carpeta/internal/folder/store"
	"carpeta/internal/platform/config"
	"carpeta/internal/platform/health"
	"carpeta/internal/platform/logger"
	"carpeta/internal/platform/metrics"
	"carpeta/internal/registry/gateway"
	registryhandler "carpeta/internal/registry/handler"
	registrymetrics "carpeta/internal/registry/metrics"
	registryservice "carpeta/internal/registry/service"
	registrystore "carpeta/internal/registry/store"
	"carpeta/internal/registry/tracer"
	httptransport "carpeta/internal/transport/http"
)

const (
	auditBufferSize   = 1024
	poolStatsInterval = 15 * time.Second
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Server.LogLevel)

	log.Info("initializing carpeta",
		"addr", cfg.Server.Addr,
		"environment", cfg.Server.Environment,
		"storage_backend", cfg.Storage.Backend,
		"blob_backend", cfg.Blob.Backend,
		"kafka_enabled", cfg.Kafka.Enabled(),
		"in_process_folders", cfg.InProcessFolders(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	healthHandler := health.New(cfg.Server.Environment)

	storage, err := openStorage(ctx, cfg.Storage, healthHandler)
	if err != nil {
		return err
	}
	defer storage.close()

	blobs, err := openBlobs(ctx, cfg.Blob, healthHandler)
	if err != nil {
		return err
	}

	bus, err := openEvents(ctx, cfg.Kafka, log, healthHandler)
	if err != nil {
		return err
	}
	defer bus.close()

	folderOpts := []folderservice.Option{
		folderservice.WithLogger(log),
		folderservice.WithMetrics(foldermetrics.New()),
		folderservice.WithPresignTTL(cfg.Blob.PresignTTL),
	}
	if bus.publisher != nil {
		folderOpts = append(folderOpts, folderservice.WithPublisher(bus.publisher))
	}
	folders := folderservice.New(folderstore.New(storage.backend), blobs.store, folderOpts...)

	policies := newPolicies(cfg.Resilience, log)
	healthHandler.ReportBreakers(func() map[string]string {
		states := make(map[string]string)
		for name, state := range policies.States() {
			states[name] = state.String()
		}
		return states
	})

	otel := tracer.NewOTel()
	registry := gateway.NewRegistryClient(cfg.Registration.Registry.BaseURL,
		policies.Policy(gateway.DependencyRegistry),
		gateway.WithAPIKey(cfg.Registration.Registry.APIKey),
		gateway.WithAnswerStatus(cfg.Registration.AlreadyRegisteredStatus),
		gateway.WithTracer(otel),
		gateway.WithLogger(log),
	)

	var provisioner registryservice.FolderGateway
	if cfg.InProcessFolders() {
		provisioner = gateway.NewLocalFolders(folders, policies.Policy(gateway.DependencyFolder))
	} else {
		provisioner = gateway.NewFolderClient(cfg.Registration.Folders.BaseURL,
			policies.Policy(gateway.DependencyFolder),
			gateway.WithAPIKey(cfg.Registration.Folders.APIKey),
			gateway.WithTracer(otel),
			gateway.WithLogger(log),
		)
	}

	auditOpts := []audit.PublisherOption{audit.WithPublisherLogger(log)}
	if cfg.Registration.AsyncAudit {
		auditOpts = append(auditOpts, audit.WithAsyncBuffer(auditBufferSize))
	}
	auditor := audit.NewPublisher(audit.NewPartitionStore(storage.backend), auditOpts...)
	defer auditor.Close()

	registrations := registryservice.New(registrystore.New(storage.backend), registry, provisioner, auditor,
		registryservice.WithLogger(log),
		registryservice.WithMetrics(registrymetrics.New()),
		registryservice.WithTracer(otel),
		registryservice.WithConfig(registryservice.Config{
			AlreadyRegisteredStatus: cfg.Registration.AlreadyRegisteredStatus,
			SystemOperatorID:        cfg.Registration.SystemOperatorID,
			SystemOperatorName:      cfg.Registration.SystemOperatorName,
		}),
	)

	router := httptransport.NewRouter(httptransport.Routes{
		Logger:         log,
		Metrics:        metrics.NewHTTP(),
		RequestTimeout: cfg.Server.RequestTimeout,
		CORSOrigins:    cfg.Server.CORSOrigins,
		Health:         healthHandler,
		Registrations:  registryhandler.New(registrations, log),
		Folders:        folderhandler.New(folders, log),
		Blobs:          blobs.downloads,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := bus.startConsumer(folders, log); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return bus.stopConsumer(shutdownCtx)
	})

	if storage.redis != nil {
		g.Go(func() error {
			return storage.redis.ReportPoolStats(gctx, poolStatsInterval)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", "error", err)
		return err
	}
	log.Info("server stopped")
	return nil
}

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

	"vitaledge/internal/audit"
	"vitaledge/internal/platform/config"
	"vitaledge/internal/platform/httpserver"
	"vitaledge/internal/platform/kafka"
	"vitaledge/internal/platform/logger"
	"vitaledge/internal/platform/metrics"
	platformredis "vitaledge/internal/platform/redis"
	httptransport "vitaledge/internal/transport/http"
	"vitaledge/internal/vitals/handler"
	"vitaledge/internal/vitals/service"
	"vitaledge/internal/vitals/store"
	memorystore "vitaledge/internal/vitals/store/memory"
	postgresstore "vitaledge/internal/vitals/store/postgres"
	redisstore "vitaledge/internal/vitals/store/redis"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	vitalStore, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		log.Error("failed to build store", "backend", cfg.StoreBackend, "error", err.Error())
		os.Exit(1)
	}
	defer cleanup()

	producer, err := kafka.NewProducer(cfg.Audit)
	if err != nil {
		log.Error("failed to build kafka producer", "error", err.Error())
		os.Exit(1)
	}
	defer producer.Close()

	m := metrics.New()
	auditPublisher := audit.NewPublisher(cfg.Audit.BufferSize, m)
	var auditSink audit.Sink
	if producer != nil {
		auditSink = producer
	}
	auditWorker := audit.NewWorker(audit.NewInMemoryStore(), auditSink, auditPublisher.Inbox(), log)

	vitals := service.New(vitalStore, auditPublisher, m, log)
	router := httptransport.NewRouter(handler.New(vitals, log, m))
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting vitaledge", "addr", cfg.Addr, "store", cfg.StoreBackend)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := auditWorker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err.Error())
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// buildStore selects the persistence backend from config.
func buildStore(ctx context.Context, cfg config.Config) (store.VitalStore, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return memorystore.New(), func() {}, nil
	case config.StoreRedis:
		client, err := platformredis.New(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		if client == nil {
			return nil, nil, fmt.Errorf("redis store selected but VITALEDGE_REDIS_URL is empty")
		}
		return redisstore.New(client.Client), func() { _ = client.Close() }, nil
	case config.StorePostgres:
		if cfg.PostgresDSN == "" {
			return nil, nil, fmt.Errorf("postgres store selected but VITALEDGE_POSTGRES_DSN is empty")
		}
		pg, err := postgresstore.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

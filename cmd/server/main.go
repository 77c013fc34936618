package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"rotunda/internal/app"
	"rotunda/internal/district"
	dservice "rotunda/internal/district/service"
	"rotunda/internal/district/store"
	"rotunda/internal/legislation"
	"rotunda/internal/platform/config"
	"rotunda/internal/platform/httpserver"
	"rotunda/internal/platform/logger"
	"rotunda/internal/platform/metrics"
	"rotunda/internal/platform/postgres"
	platformredis "rotunda/internal/platform/redis"
	"rotunda/internal/platform/tracing"
	"rotunda/internal/ratelimit"
	"rotunda/internal/ratelimit/ports"
	"rotunda/internal/ratelimit/store/bucket"
	httptransport "rotunda/internal/transport/http"
	"rotunda/internal/upstream"
	"rotunda/internal/upstream/cache"
	"rotunda/pkg/platform/middleware/metadata"
)

const cacheSweepInterval = time.Minute

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "rotunda: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, log)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	reg := prometheus.DefaultRegisterer
	health := map[string]httptransport.HealthCheck{}

	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	var responseCache upstream.Cache
	var sharedBuckets ports.BucketStore
	if redisClient != nil {
		defer redisClient.Close()
		health["redis"] = redisClient.Health
		responseCache = cache.NewRedisCache(redisClient.Client)
		sharedBuckets = bucket.NewRedisBucketStore(redisClient.Client)
		log.Info("using redis for response cache and rate limits")
	} else {
		mem := cache.NewInMemoryCache()
		go mem.RunSweeper(ctx, cacheSweepInterval)
		responseCache = mem
	}

	history, closeDB, err := openHistory(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer closeDB()
	if pg, ok := history.(*store.PostgresHistory); ok {
		health["postgres"] = pg.Ping
	}

	clients, err := app.NewClients(cfg, app.Options{
		Cache:   responseCache,
		Metrics: upstream.NewMetrics(reg),
		Logger:  log,
	})
	if err != nil {
		return err
	}
	svcs := app.NewServices(cfg, clients, history, log, reg)

	limiter, err := ratelimit.New(ctx, cfg.RateLimit, sharedBuckets, log, reg)
	if err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	proxies, err := metadata.ParsePrefixes(cfg.Server.TrustedProxies)
	if err != nil {
		return fmt.Errorf("trusted proxies: %w", err)
	}

	router := httptransport.NewRouter(httptransport.Dependencies{
		Logger:         log,
		Metrics:        metrics.New(reg),
		RateLimiter:    limiter,
		Legislation:    legislation.NewHandler(svcs.Legislation, log),
		District:       district.NewHandler(svcs.District, log),
		Health:         health,
		TrustedProxies: proxies,
	})

	srv := httpserver.New(cfg.Server.Addr, router)
	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting rotunda", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// openHistory returns the Postgres history when DATABASE_URL is set and the
// in-memory ring otherwise.
func openHistory(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (dservice.HistoryStore, func(), error) {
	db, err := postgres.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if db == nil {
		return store.NewInMemoryHistory(store.DefaultCapacity), func() {}, nil
	}
	pg := store.NewPostgresHistory(db)
	if err := pg.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("history schema: %w", err)
	}
	log.Info("recording lookup history in postgres")
	return pg, func() { _ = db.Close() }, nil
}

// Package ratelimit protects the shared upstream API keys with per-IP
// sliding window limits.
package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	platformconfig "rotunda/internal/platform/config"
	"rotunda/internal/ratelimit/config"
	"rotunda/internal/ratelimit/metrics"
	"rotunda/internal/ratelimit/middleware"
	"rotunda/internal/ratelimit/ports"
	"rotunda/internal/ratelimit/service/requestlimit"
	"rotunda/internal/ratelimit/store/bucket"
	"rotunda/pkg/platform/circuit"
)

// Middleware applies rate limits per endpoint class.
type Middleware = middleware.Middleware

const sweepInterval = time.Minute

// New assembles the rate limiting middleware. shared is a cross-replica
// store such as Redis and may be nil, in which case counts live in memory.
// With a shared store the in-memory store serves as fallback while the
// shared one fails. The in-memory sweeper runs until ctx is done.
func New(ctx context.Context, cfg platformconfig.RateLimitConfig, shared ports.BucketStore, logger *slog.Logger, reg prometheus.Registerer) (*Middleware, error) {
	limits := config.PerMinute(cfg.LookupPerMinute, cfg.ReadPerMinute)
	m := metrics.New(reg)

	local := bucket.New()
	go local.RunSweeper(ctx, sweepInterval)

	primary := ports.BucketStore(local)
	limiterOpts := []middleware.LimiterOption{
		middleware.WithLimiterLogger(logger),
		middleware.WithLimiterMetrics(m),
	}
	if shared != nil {
		primary = shared
		fallback := middleware.NewFallbackLimiter(local, limits, logger)
		limiterOpts = append(limiterOpts, middleware.WithFallback(fallback, circuit.New("ratelimit")))
	}

	requests, err := requestlimit.New(primary,
		requestlimit.WithConfig(limits),
		requestlimit.WithLogger(logger),
		requestlimit.WithMetrics(m),
	)
	if err != nil {
		return nil, err
	}

	return middleware.New(middleware.NewLimiter(requests, limiterOpts...), logger, middleware.WithDisabled(cfg.Disabled)), nil
}

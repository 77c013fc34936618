package middleware

import (
	"context"
	"log/slog"

	"rotunda/internal/ratelimit/config"
	"rotunda/internal/ratelimit/models"
	"rotunda/internal/ratelimit/service/requestlimit"
	"rotunda/internal/ratelimit/store/bucket"
)

// fallbackLimiter rate limits in process memory while the primary store is
// unavailable.
type fallbackLimiter struct {
	requests *requestlimit.Service
}

// NewFallbackLimiter creates a fallback limiter over store. Returns nil if
// store or cfg is nil, logging an error if a logger is provided.
func NewFallbackLimiter(store *bucket.InMemoryBucketStore, cfg *config.Config, logger *slog.Logger) RateLimiter {
	if store == nil || cfg == nil {
		if logger != nil {
			logger.Error("fallback limiter requires an in-memory store and config")
		}
		return nil
	}
	opts := []requestlimit.Option{requestlimit.WithConfig(cfg)}
	if logger != nil {
		opts = append(opts, requestlimit.WithLogger(logger))
	}
	requests, err := requestlimit.New(store, opts...)
	if err != nil {
		if logger != nil {
			logger.Error("failed to initialize fallback rate limiter", "error", err)
		}
		return nil
	}
	return &fallbackLimiter{requests: requests}
}

func (f *fallbackLimiter) CheckIPRateLimit(ctx context.Context, ip string, class models.EndpointClass) (*models.RateLimitResult, error) {
	return f.requests.CheckIP(ctx, ip, class)
}

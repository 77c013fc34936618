package middleware

import (
	"context"
	"log/slog"

	"rotunda/internal/ratelimit/metrics"
	"rotunda/internal/ratelimit/models"
	"rotunda/internal/ratelimit/service/requestlimit"
	"rotunda/pkg/platform/circuit"
)

// Limiter checks the primary store and switches to an in-memory fallback
// when the store errors. After repeated errors the breaker opens and the
// primary is skipped until the cooldown elapses; results served by the
// fallback are marked Degraded.
type Limiter struct {
	primary  *requestlimit.Service
	fallback RateLimiter
	breaker  *circuit.Breaker
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type LimiterOption func(*Limiter)

// WithFallback enables degraded mode using fallback and breaker.
func WithFallback(fallback RateLimiter, breaker *circuit.Breaker) LimiterOption {
	return func(l *Limiter) {
		l.fallback = fallback
		l.breaker = breaker
	}
}

func WithLimiterLogger(logger *slog.Logger) LimiterOption {
	return func(l *Limiter) {
		l.logger = logger
	}
}

func WithLimiterMetrics(m *metrics.Metrics) LimiterOption {
	return func(l *Limiter) {
		l.metrics = m
	}
}

// NewLimiter wraps the primary request limiting service.
func NewLimiter(primary *requestlimit.Service, opts ...LimiterOption) *Limiter {
	l := &Limiter{
		primary: primary,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.fallback != nil && l.breaker == nil {
		l.breaker = circuit.New("ratelimit")
	}
	return l
}

func (l *Limiter) CheckIPRateLimit(ctx context.Context, ip string, class models.EndpointClass) (*models.RateLimitResult, error) {
	if l.fallback == nil {
		return l.primary.CheckIP(ctx, ip, class)
	}
	if !l.breaker.Allow() {
		return l.degraded(ctx, ip, class)
	}

	result, err := l.primary.CheckIP(ctx, ip, class)
	if err != nil {
		_, change := l.breaker.RecordFailure()
		if change.Opened {
			l.metrics.RecordBreakerTransition("open")
			l.logger.WarnContext(ctx, "rate limit store circuit opened, using in-memory fallback", "error", err)
		} else {
			l.logger.WarnContext(ctx, "rate limit store error, using in-memory fallback", "error", err)
		}
		return l.degraded(ctx, ip, class)
	}

	if _, change := l.breaker.RecordSuccess(); change.Closed {
		l.metrics.RecordBreakerTransition("closed")
		l.logger.InfoContext(ctx, "rate limit store circuit closed")
	}
	return result, nil
}

func (l *Limiter) degraded(ctx context.Context, ip string, class models.EndpointClass) (*models.RateLimitResult, error) {
	result, err := l.fallback.CheckIPRateLimit(ctx, ip, class)
	if err != nil {
		return nil, err
	}
	l.metrics.RecordDegraded(string(class))
	result.Degraded = true
	return result, nil
}

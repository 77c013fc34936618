package requestlimit

import (
	"context"
	"errors"
	"log/slog"

	"rotunda/internal/ratelimit/config"
	"rotunda/internal/ratelimit/metrics"
	"rotunda/internal/ratelimit/models"
	"rotunda/internal/ratelimit/ports"
	dErrors "rotunda/pkg/domain-errors"
	"rotunda/pkg/platform/privacy"
	"rotunda/pkg/requestcontext"
)

type BucketStore = ports.BucketStore

// Service applies per-IP sliding window limits by endpoint class.
type Service struct {
	buckets BucketStore
	logger  *slog.Logger
	config  *config.Config
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(buckets BucketStore, opts ...Option) (*Service, error) {
	if buckets == nil {
		return nil, errors.New("buckets store is required")
	}

	svc := &Service{
		buckets: buckets,
		config:  config.DefaultConfig(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// CheckIP records one request from ip against the limit for class.
// A class without a configured limit is denied.
func (s *Service) CheckIP(ctx context.Context, ip string, class models.EndpointClass) (*models.RateLimitResult, error) {
	requestsPerWindow, window, ok := s.config.GetIPLimit(class)
	if !ok {
		s.logger.ErrorContext(ctx, "rate limit config missing",
			"endpoint_class", class,
			"ip_prefix", privacy.AnonymizeIP(ip),
		)
		return &models.RateLimitResult{
			Allowed:    false,
			ResetAt:    requestcontext.Now(ctx),
			RetryAfter: 60,
		}, nil
	}

	key := models.NewRateLimitKey(models.KeyPrefixIP, ip, class)
	result, err := s.buckets.Allow(ctx, key.String(), requestsPerWindow, window)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check rate limit")
	}

	s.metrics.RecordCheck(string(class), result.Allowed)
	if !result.Allowed {
		s.logger.InfoContext(ctx, "ip rate limit exceeded",
			"ip_prefix", privacy.AnonymizeIP(ip),
			"endpoint_class", class,
			"limit", requestsPerWindow,
			"window_seconds", int(window.Seconds()),
		)
	}
	return result, nil
}

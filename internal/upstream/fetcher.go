// Package upstream performs cached, circuit-broken JSON GETs against the
// remote civic and legislative APIs.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rotunda/pkg/platform/circuit"
	"rotunda/pkg/platform/sentinel"
)

const maxBodyBytes = 8 << 20

// Cache stores raw response bodies. Get returns sentinel.ErrNotFound on miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
}

// Fetcher issues GET requests for one provider.
type Fetcher struct {
	provider string
	baseURL  *url.URL
	keyParam string
	apiKey   string
	defaults url.Values

	client  *http.Client
	timeout time.Duration
	cache   Cache
	ttl     time.Duration
	breaker *circuit.Breaker
	metrics *Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

const tracerName = "rotunda/internal/upstream"

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithAPIKey sets the query parameter name and value used to authenticate.
// The key never appears in cache keys or logs.
func WithAPIKey(param, key string) Option {
	return func(f *Fetcher) {
		f.keyParam = param
		f.apiKey = key
	}
}

// WithDefaultQuery adds a query parameter to every request (e.g. format=json).
func WithDefaultQuery(name, value string) Option {
	return func(f *Fetcher) { f.defaults.Set(name, value) }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// WithCache enables response caching for ttl.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(f *Fetcher) {
		f.cache = c
		f.ttl = ttl
	}
}

// WithBreaker guards the provider with a circuit breaker.
func WithBreaker(b *circuit.Breaker) Option {
	return func(f *Fetcher) { f.breaker = b }
}

// WithMetrics records latency and cache metrics.
func WithMetrics(m *Metrics) Option {
	return func(f *Fetcher) { f.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// WithTracerProvider takes spans from tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(f *Fetcher) { f.tracer = tp.Tracer(tracerName) }
}

// NewFetcher builds a Fetcher for provider rooted at baseURL.
func NewFetcher(provider, baseURL string, opts ...Option) (*Fetcher, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse %s base url: %w", provider, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s base url must be absolute: %q", provider, baseURL)
	}
	f := &Fetcher{
		provider: provider,
		baseURL:  u,
		defaults: url.Values{},
		client:   http.DefaultClient,
		timeout:  10 * time.Second,
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Provider returns the provider name used in errors and metrics.
func (f *Fetcher) Provider() string { return f.provider }

// GetJSON fetches baseURL+path with query and decodes the JSON body into out.
func (f *Fetcher) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	q := url.Values{}
	for k, vs := range f.defaults {
		q[k] = append([]string(nil), vs...)
	}
	for k, vs := range query {
		q[k] = append([]string(nil), vs...)
	}
	cacheKey := f.provider + ":" + path + "?" + q.Encode()

	if body, ok := f.fromCache(ctx, cacheKey); ok {
		if err := json.Unmarshal(body, out); err == nil {
			return nil
		}
		// A corrupt cache entry is treated as a miss.
	}

	body, err := f.fetch(ctx, path, q)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return NewError(CategoryBadData, f.provider, "decode response", err)
	}
	f.toCache(ctx, cacheKey, body)
	return nil
}

func (f *Fetcher) fetch(ctx context.Context, path string, q url.Values) ([]byte, error) {
	if f.breaker != nil && !f.breaker.Allow() {
		return nil, NewError(CategoryOutage, f.provider, "circuit open", sentinel.ErrUnavailable)
	}

	ctx, span := f.tracer.Start(ctx, f.provider+" GET "+path, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("rotunda.provider", f.provider),
		attribute.String("url.path", path),
	)

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	start := time.Now()
	body, status, err := f.do(ctx, path, q)
	elapsed := time.Since(start)
	span.SetAttributes(attribute.Int("http.response.status_code", status))

	if err != nil {
		var ue *Error
		if !errors.As(err, &ue) {
			ue = NewError(CategoryInternal, f.provider, "request failed", err)
		}
		ue.StatusCode = status
		f.metrics.observeRequest(f.provider, string(ue.Category), elapsed)
		f.recordOutcome(ctx, ue.Category)
		span.RecordError(ue)
		span.SetStatus(codes.Error, string(ue.Category))
		f.logger.WarnContext(ctx, "upstream request failed",
			"provider", f.provider,
			"path", path,
			"status", status,
			"category", ue.Category,
			"duration_ms", elapsed.Milliseconds(),
		)
		return nil, ue
	}

	f.metrics.observeRequest(f.provider, "ok", elapsed)
	f.recordOutcome(ctx, "")
	f.logger.DebugContext(ctx, "upstream request",
		"provider", f.provider,
		"path", path,
		"status", status,
		"duration_ms", elapsed.Milliseconds(),
	)
	return body, nil
}

func (f *Fetcher) do(ctx context.Context, path string, q url.Values) ([]byte, int, error) {
	u := *f.baseURL
	u.Path = f.baseURL.Path + "/" + strings.TrimLeft(path, "/")
	withKey := url.Values{}
	for k, vs := range q {
		withKey[k] = vs
	}
	if f.keyParam != "" && f.apiKey != "" {
		withKey.Set(f.keyParam, f.apiKey)
	}
	u.RawQuery = withKey.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, NewError(CategoryInternal, f.provider, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, categorizeTransport(ctx, f.provider, redactKey(err, f.apiKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, categorizeTransport(ctx, f.provider, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, NewError(CategoryForStatus(resp.StatusCode), f.provider,
			fmt.Sprintf("status %d", resp.StatusCode), apiMessage(body))
	}
	return body, resp.StatusCode, nil
}

func (f *Fetcher) recordOutcome(ctx context.Context, category Category) {
	if f.breaker == nil {
		return
	}
	if countsAgainstBreaker(category) {
		if _, change := f.breaker.RecordFailure(); change.Opened {
			f.metrics.recordBreakerOpened(f.provider)
			f.logger.WarnContext(ctx, "upstream circuit opened", "provider", f.provider)
		}
		return
	}
	if _, change := f.breaker.RecordSuccess(); change.Closed {
		f.logger.InfoContext(ctx, "upstream circuit closed", "provider", f.provider)
	}
}

func (f *Fetcher) fromCache(ctx context.Context, key string) ([]byte, bool) {
	if f.cache == nil || f.ttl <= 0 {
		return nil, false
	}
	body, err := f.cache.Get(ctx, key)
	switch {
	case err == nil:
		f.metrics.recordCache(f.provider, "hit")
		return body, true
	case errors.Is(err, sentinel.ErrNotFound):
		f.metrics.recordCache(f.provider, "miss")
	default:
		f.metrics.recordCache(f.provider, "error")
		f.logger.WarnContext(ctx, "upstream cache read failed", "provider", f.provider, "error", err)
	}
	return nil, false
}

func (f *Fetcher) toCache(ctx context.Context, key string, body []byte) {
	if f.cache == nil || f.ttl <= 0 {
		return
	}
	if err := f.cache.Set(ctx, key, body, f.ttl); err != nil {
		f.logger.WarnContext(ctx, "upstream cache write failed", "provider", f.provider, "error", err)
	}
}

// apiMessage extracts the provider's error message from a JSON error body.
// Both APIs use {"error": {"message": ...}}.
func apiMessage(body []byte) error {
	var env struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		return errors.New(env.Error.Message)
	}
	return nil
}

// redactKey strips the API key from transport errors, which embed the URL.
func redactKey(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), key, "REDACTED"))
}

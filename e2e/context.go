// Package e2e runs the Gherkin acceptance scenarios against the full HTTP
// stack, with Congress.gov and Google Civic replaced by canned fixtures.
package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rotunda/internal/app"
	"rotunda/internal/district"
	"rotunda/internal/district/store"
	"rotunda/internal/legislation"
	"rotunda/internal/platform/config"
	"rotunda/internal/platform/logger"
	"rotunda/internal/platform/metrics"
	"rotunda/internal/ratelimit"
	httptransport "rotunda/internal/transport/http"
	"rotunda/internal/upstream"
)

// proxyNet holds httptest's default RemoteAddr, so requests look like they
// arrive through a trusted load balancer.
var proxyNet = netip.MustParsePrefix("192.0.2.0/24")

// TestContext holds one scenario's server and the last response.
type TestContext struct {
	upstream  *fakeAPIs
	cfg       config.Config
	handler   http.Handler
	cancel    context.CancelFunc
	clientIP  string
	lastResp  *httptest.ResponseRecorder
	lastBody  []byte
	lastJSON  any
	responses []int
}

func newTestContext() *TestContext {
	fake := newFakeAPIs()
	cfg := config.Default()
	cfg.Congress.BaseURL = fake.URL()
	cfg.Congress.APIKey = "e2e-congress-key"
	cfg.Civic.BaseURL = fake.URL()
	cfg.Civic.APIKey = "e2e-civic-key"
	cfg.Cache.TTL = 0
	return &TestContext{upstream: fake, cfg: cfg, clientIP: "203.0.113.10"}
}

// SetRateLimits overrides the per-minute limits. The server is rebuilt on
// the next request.
func (tc *TestContext) SetRateLimits(lookup, read int) {
	tc.cfg.RateLimit = config.RateLimitConfig{LookupPerMinute: lookup, ReadPerMinute: read}
	tc.stopServer()
}

// SetClientIP changes the address the in-process proxy reports through
// X-Forwarded-For.
func (tc *TestContext) SetClientIP(ip string) {
	tc.clientIP = ip
}

func (tc *TestContext) server() (http.Handler, error) {
	if tc.handler != nil {
		return tc.handler, nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	reg := prometheus.NewRegistry()
	log := logger.Discard()

	clients, err := app.NewClients(tc.cfg, app.Options{Metrics: upstream.NewMetrics(reg), Logger: log})
	if err != nil {
		cancel()
		return nil, err
	}
	svcs := app.NewServices(tc.cfg, clients, store.NewInMemoryHistory(store.DefaultCapacity), log, reg)
	limiter, err := ratelimit.New(ctx, tc.cfg.RateLimit, nil, log, reg)
	if err != nil {
		cancel()
		return nil, err
	}

	tc.cancel = cancel
	tc.handler = httptransport.NewRouter(httptransport.Dependencies{
		Logger:         log,
		Metrics:        metrics.New(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		RateLimiter:    limiter,
		Legislation:    legislation.NewHandler(svcs.Legislation, log),
		District:       district.NewHandler(svcs.District, log),
		TrustedProxies: []netip.Prefix{proxyNet},
	})
	return tc.handler, nil
}

func (tc *TestContext) stopServer() {
	if tc.cancel != nil {
		tc.cancel()
	}
	tc.cancel = nil
	tc.handler = nil
}

// Close releases the scenario's server and fixtures.
func (tc *TestContext) Close() {
	tc.stopServer()
	tc.upstream.Close()
}

// GET issues a request against the in-process router.
func (tc *TestContext) GET(path string, headers map[string]string) error {
	h, err := tc.server()
	if err != nil {
		return err
	}
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "192.0.2.1:1234"
	req.Header.Set("X-Forwarded-For", tc.clientIP)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	tc.lastResp = rec
	tc.lastBody = rec.Body.Bytes()
	tc.lastJSON = nil
	tc.responses = append(tc.responses, rec.Code)
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(tc.lastBody, &tc.lastJSON); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (tc *TestContext) GetLastResponseStatus() int {
	if tc.lastResp == nil {
		return 0
	}
	return tc.lastResp.Code
}

func (tc *TestContext) GetLastResponseBody() []byte { return tc.lastBody }

func (tc *TestContext) GetResponseHeader(name string) string {
	if tc.lastResp == nil {
		return ""
	}
	return tc.lastResp.Header().Get(name)
}

// StatusHistory lists the status of every response in the scenario.
func (tc *TestContext) StatusHistory() []int { return tc.responses }

// UpstreamCalls counts requests served by the fixture APIs.
func (tc *TestContext) UpstreamCalls() int64 { return tc.upstream.calls.Load() }

// GetResponseField resolves a dotted path such as "items.0.title" in the
// last JSON body.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	if tc.lastJSON == nil {
		return nil, fmt.Errorf("no JSON response")
	}
	cur := tc.lastJSON
	for _, part := range strings.Split(field, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %q not found", field)
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("index %q out of range in %q", part, field)
			}
			cur = node[i]
		default:
			return nil, fmt.Errorf("field %q not found", field)
		}
	}
	return cur, nil
}

// ResponseContains reports whether field resolves in the last JSON body.
func (tc *TestContext) ResponseContains(field string) bool {
	_, err := tc.GetResponseField(field)
	return err == nil
}

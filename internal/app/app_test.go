package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rotunda/internal/platform/config"
	"rotunda/internal/platform/logger"
	"rotunda/internal/upstream/cache"
)

type recordedQuery struct {
	mu      sync.Mutex
	queries map[string]url.Values
}

func (r *recordedQuery) get(path string) url.Values {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.queries[path]
}

func newUpstream(t *testing.T, body string) (*httptest.Server, *recordedQuery) {
	t.Helper()
	rec := &recordedQuery{queries: map[string]url.Values{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		rec.queries[r.URL.Path] = r.URL.Query()
		rec.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func testConfig(congressURL, civicURL string) config.Config {
	cfg := config.Default()
	cfg.Congress.BaseURL = congressURL
	cfg.Congress.APIKey = "congress-key"
	cfg.Civic.BaseURL = civicURL
	cfg.Civic.APIKey = "civic-key"
	return cfg
}

func TestNewClientsUsesProviderKeyParams(t *testing.T) {
	congressSrv, congressRec := newUpstream(t, `{"bills":[]}`)
	civicSrv, civicRec := newUpstream(t, `{"divisions":{},"offices":[],"officials":[]}`)

	clients, err := NewClients(testConfig(congressSrv.URL, civicSrv.URL), Options{
		Cache:  cache.NewInMemoryCache(),
		Logger: logger.Discard(),
	})
	require.NoError(t, err)

	_, err = clients.Congress.ListBills(context.Background(), 5)
	require.NoError(t, err)
	_, err = clients.Civic.Representatives(context.Background(), "1 Main St")
	require.NoError(t, err)

	q := congressRec.get("/bill")
	assert.Equal(t, "congress-key", q.Get("api_key"))
	assert.Equal(t, "json", q.Get("format"))
	assert.Equal(t, "5", q.Get("limit"))

	q = civicRec.get("/representatives")
	assert.Equal(t, "civic-key", q.Get("key"))
	assert.Empty(t, q.Get("format"))
	assert.Equal(t, "1 Main St", q.Get("address"))
}

func TestNewClientsRejectsRelativeBaseURL(t *testing.T) {
	_, err := NewClients(testConfig("api.congress.gov", "https://civic.example"), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "congress")
}

func TestNewServicesWithoutHistory(t *testing.T) {
	clients, err := NewClients(testConfig("https://congress.example", "https://civic.example"), Options{})
	require.NoError(t, err)

	svcs := NewServices(config.Default(), clients, nil, logger.Discard(), nil)
	require.NotNil(t, svcs.Legislation)
	require.NotNil(t, svcs.District)

	recent, err := svcs.District.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

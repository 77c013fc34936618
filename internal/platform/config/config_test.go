package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) lookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 9, cfg.Feed.PageSize)
	assert.Equal(t, 118, cfg.Feed.DefaultCongress)
	assert.Equal(t, "https://api.congress.gov/v3", cfg.Congress.BaseURL)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(envMap(map[string]string{
		"ROTUNDA_ADDR":        ":9090",
		"CONGRESS_API_KEY":    "ck",
		"CIVIC_API_KEY":       "gk",
		"UPSTREAM_TIMEOUT":    "3s",
		"PAGE_SIZE":           "12",
		"RATE_LIMIT_DISABLED": "true",
		"REDIS_URL":           "  ",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "ck", cfg.Congress.APIKey)
	assert.Equal(t, "gk", cfg.Civic.APIKey)
	assert.Equal(t, 3*time.Second, cfg.Congress.Timeout)
	assert.Equal(t, 3*time.Second, cfg.Civic.Timeout)
	assert.Equal(t, 12, cfg.Feed.PageSize)
	assert.True(t, cfg.RateLimit.Disabled)
	assert.Empty(t, cfg.Redis.URL, "blank env values are ignored")
}

func TestApplyEnvReportsMalformedValues(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(envMap(map[string]string{
		"PAGE_SIZE": "nine",
		"CACHE_TTL": "soon",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAGE_SIZE")
	assert.Contains(t, err.Error(), "CACHE_TTL")
}

func TestLoadMergesYAMLUnderEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rotunda.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":7070"
feed:
  page_size: 6
congress:
  api_key: from-file
`), 0o600))

	t.Setenv("CONGRESS_API_KEY", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 6, cfg.Feed.PageSize)
	assert.Equal(t, "from-env", cfg.Congress.APIKey)
	assert.Equal(t, 250, cfg.Feed.FetchLimit, "absent keys keep defaults")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONGRESS_API_KEY")
	assert.Contains(t, err.Error(), "CIVIC_API_KEY")

	cfg.Congress.APIKey = "ck"
	cfg.Civic.APIKey = "gk"
	assert.NoError(t, cfg.Validate())

	cfg.Feed.FetchLimit = 500
	assert.Error(t, cfg.Validate())
}

func TestValidateRateLimits(t *testing.T) {
	cfg := Default()
	cfg.Congress.APIKey = "ck"
	cfg.Civic.APIKey = "gk"
	cfg.RateLimit.LookupPerMinute = 0
	assert.Error(t, cfg.Validate())

	cfg.RateLimit.Disabled = true
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnvTracingAndProxies(t *testing.T) {
	cfg := Default()
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "rotunda", cfg.Tracing.ServiceName)

	err := cfg.applyEnv(envMap(map[string]string{
		"OTEL_ENABLED":                "true",
		"OTEL_EXPORTER_OTLP_ENDPOINT": "collector:4318",
		"OTEL_SAMPLER_RATIO":          "0.5",
		"TRUSTED_PROXIES":             "10.0.0.0/8, ,192.168.1.1/32",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "collector:4318", cfg.Tracing.Endpoint)
	assert.Equal(t, 0.5, cfg.Tracing.SampleRatio)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.1/32"}, cfg.Server.TrustedProxies)
}

func TestValidateTracingAndProxies(t *testing.T) {
	cfg := Default()
	cfg.Congress.APIKey = "ck"
	cfg.Civic.APIKey = "gk"

	cfg.Tracing.SampleRatio = 1.5
	assert.ErrorContains(t, cfg.Validate(), "sample_ratio")

	cfg.Tracing.SampleRatio = 1
	cfg.Server.TrustedProxies = []string{"10.0.0.1"}
	assert.ErrorContains(t, cfg.Validate(), "trusted_proxies")

	cfg.Server.TrustedProxies = []string{"10.0.0.0/8"}
	assert.NoError(t, cfg.Validate())
}

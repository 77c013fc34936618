package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full rotunda configuration. Values come from defaults, then
// an optional YAML file, then environment variables (highest precedence).
type Config struct {
	Server    Server          `yaml:"server"`
	Congress  UpstreamConfig  `yaml:"congress"`
	Civic     UpstreamConfig  `yaml:"civic"`
	Feed      FeedConfig      `yaml:"feed"`
	Cache     CacheConfig     `yaml:"cache"`
	Redis     RedisConfig     `yaml:"redis"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// TrustedProxies are CIDRs whose X-Forwarded-For / X-Real-IP headers are
	// believed. Requests from anywhere else are keyed by their socket address.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// UpstreamConfig configures one remote API.
type UpstreamConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
	// BreakerFailures is the number of consecutive outages that open the circuit.
	BreakerFailures int           `yaml:"breaker_failures"`
	BreakerCooldown time.Duration `yaml:"breaker_cooldown"`
}

// FeedConfig controls the legislation feeds.
type FeedConfig struct {
	// FetchLimit is how many items are requested from the Congress API per feed.
	FetchLimit      int `yaml:"fetch_limit"`
	PageSize        int `yaml:"page_size"`
	DefaultCongress int `yaml:"default_congress"`
	// LegislationLimit bounds sponsored/cosponsored lists on the district page.
	LegislationLimit int `yaml:"legislation_limit"`
}

// CacheConfig controls the upstream response cache.
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// RedisConfig configures the optional Redis response cache.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig configures the optional Postgres lookup history.
type DatabaseConfig struct {
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RateLimitConfig holds per-IP request budgets per minute.
type RateLimitConfig struct {
	Disabled        bool `yaml:"disabled"`
	LookupPerMinute int  `yaml:"lookup_per_minute"`
	ReadPerMinute   int  `yaml:"read_per_minute"`
}

// TracingConfig controls OpenTelemetry tracing. Spans go to an OTLP/HTTP
// collector when Endpoint is set, otherwise to stdout.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// Default returns a Config with the production defaults.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Congress: UpstreamConfig{
			BaseURL:         "https://api.congress.gov/v3",
			Timeout:         10 * time.Second,
			BreakerFailures: 5,
			BreakerCooldown: 30 * time.Second,
		},
		Civic: UpstreamConfig{
			BaseURL:         "https://www.googleapis.com/civicinfo/v2",
			Timeout:         10 * time.Second,
			BreakerFailures: 5,
			BreakerCooldown: 30 * time.Second,
		},
		Feed: FeedConfig{
			FetchLimit:       250,
			PageSize:         9,
			DefaultCongress:  118,
			LegislationLimit: 20,
		},
		Cache: CacheConfig{TTL: 10 * time.Minute},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		RateLimit: RateLimitConfig{
			LookupPerMinute: 30,
			ReadPerMinute:   120,
		},
		Tracing: TracingConfig{
			ServiceName: "rotunda",
			SampleRatio: 0.1,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// non-empty) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables alone, honouring
// ROTUNDA_CONFIG as the YAML file path.
func FromEnv() (Config, error) {
	return Load(os.Getenv("ROTUNDA_CONFIG"))
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	// Decoding into the populated struct keeps defaults for absent keys.
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	e := envReader{lookup: lookup}
	e.str("ROTUNDA_ADDR", &c.Server.Addr)
	e.str("CONGRESS_API_KEY", &c.Congress.APIKey)
	e.str("CONGRESS_BASE_URL", &c.Congress.BaseURL)
	e.str("CIVIC_API_KEY", &c.Civic.APIKey)
	e.str("CIVIC_BASE_URL", &c.Civic.BaseURL)
	e.duration("UPSTREAM_TIMEOUT", &c.Congress.Timeout)
	e.duration("UPSTREAM_TIMEOUT", &c.Civic.Timeout)
	e.duration("CACHE_TTL", &c.Cache.TTL)
	e.integer("FEED_FETCH_LIMIT", &c.Feed.FetchLimit)
	e.integer("PAGE_SIZE", &c.Feed.PageSize)
	e.integer("DEFAULT_CONGRESS", &c.Feed.DefaultCongress)
	e.integer("LEGISLATION_LIMIT", &c.Feed.LegislationLimit)
	e.str("REDIS_URL", &c.Redis.URL)
	e.str("DATABASE_URL", &c.Database.URL)
	e.str("LOG_LEVEL", &c.Log.Level)
	e.str("LOG_FORMAT", &c.Log.Format)
	e.boolean("RATE_LIMIT_DISABLED", &c.RateLimit.Disabled)
	e.integer("RATE_LIMIT_LOOKUP_PER_MIN", &c.RateLimit.LookupPerMinute)
	e.integer("RATE_LIMIT_READ_PER_MIN", &c.RateLimit.ReadPerMinute)
	e.list("TRUSTED_PROXIES", &c.Server.TrustedProxies)
	e.boolean("OTEL_ENABLED", &c.Tracing.Enabled)
	e.str("OTEL_SERVICE_NAME", &c.Tracing.ServiceName)
	e.str("OTEL_EXPORTER_OTLP_ENDPOINT", &c.Tracing.Endpoint)
	e.boolean("OTEL_EXPORTER_OTLP_INSECURE", &c.Tracing.Insecure)
	e.float("OTEL_SAMPLER_RATIO", &c.Tracing.SampleRatio)
	return errors.Join(e.errs...)
}

// Validate checks settings required to serve traffic.
func (c Config) Validate() error {
	var errs []error
	if c.Congress.APIKey == "" {
		errs = append(errs, errors.New("CONGRESS_API_KEY is required"))
	}
	if c.Civic.APIKey == "" {
		errs = append(errs, errors.New("CIVIC_API_KEY is required"))
	}
	if c.Feed.PageSize <= 0 {
		errs = append(errs, errors.New("feed.page_size must be positive"))
	}
	if c.Feed.FetchLimit <= 0 || c.Feed.FetchLimit > 250 {
		errs = append(errs, errors.New("feed.fetch_limit must be between 1 and 250"))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, errors.New("cache.ttl must not be negative"))
	}
	if !c.RateLimit.Disabled && (c.RateLimit.LookupPerMinute <= 0 || c.RateLimit.ReadPerMinute <= 0) {
		errs = append(errs, errors.New("rate limits must be positive unless RATE_LIMIT_DISABLED is set"))
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, errors.New("tracing.sample_ratio must be between 0 and 1"))
	}
	for _, cidr := range c.Server.TrustedProxies {
		if _, err := netip.ParsePrefix(cidr); err != nil {
			errs = append(errs, fmt.Errorf("server.trusted_proxies: %w", err))
		}
	}
	return errors.Join(errs...)
}

type envReader struct {
	lookup lookupFunc
	errs   []error
}

func (e *envReader) get(key string) (string, bool) {
	v, ok := e.lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (e *envReader) str(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e *envReader) integer(key string, dst *int) {
	if v, ok := e.get(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = n
	}
}

func (e *envReader) duration(key string, dst *time.Duration) {
	if v, ok := e.get(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = d
	}
}

func (e *envReader) boolean(key string, dst *bool) {
	if v, ok := e.get(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = b
	}
}

func (e *envReader) float(key string, dst *float64) {
	if v, ok := e.get(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = f
	}
}

// list reads a comma-separated value, dropping blank entries.
func (e *envReader) list(key string, dst *[]string) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

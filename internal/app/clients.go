// Package app builds the upstream clients and feature services shared by
// the HTTP server and the terminal client.
package app

import (
	"fmt"
	"log/slog"

	"rotunda/internal/civic"
	"rotunda/internal/congress"
	"rotunda/internal/platform/config"
	"rotunda/internal/upstream"
	"rotunda/pkg/platform/circuit"
)

// Clients holds the typed API clients.
type Clients struct {
	Congress *congress.Client
	Civic    *civic.Client
}

// Options carries the optional collaborators of the upstream fetchers.
type Options struct {
	Cache   upstream.Cache
	Metrics *upstream.Metrics
	Logger  *slog.Logger
}

// NewClients builds one fetcher per provider, each with its own breaker.
// Congress.gov takes the key as api_key, Google Civic as key.
func NewClients(cfg config.Config, opts Options) (Clients, error) {
	congressFetcher, err := newFetcher(congress.Provider, cfg.Congress, "api_key", cfg.Cache, opts,
		upstream.WithDefaultQuery("format", "json"))
	if err != nil {
		return Clients{}, err
	}
	civicFetcher, err := newFetcher(civic.Provider, cfg.Civic, "key", cfg.Cache, opts)
	if err != nil {
		return Clients{}, err
	}
	return Clients{
		Congress: congress.New(congressFetcher),
		Civic:    civic.New(civicFetcher),
	}, nil
}

func newFetcher(provider string, uc config.UpstreamConfig, keyParam string, cc config.CacheConfig, opts Options, extra ...upstream.Option) (*upstream.Fetcher, error) {
	fopts := []upstream.Option{
		upstream.WithAPIKey(keyParam, uc.APIKey),
		upstream.WithMetrics(opts.Metrics),
	}
	if uc.Timeout > 0 {
		fopts = append(fopts, upstream.WithTimeout(uc.Timeout))
	}
	if uc.BreakerFailures > 0 {
		bopts := []circuit.Option{circuit.WithFailureThreshold(uc.BreakerFailures)}
		if uc.BreakerCooldown > 0 {
			bopts = append(bopts, circuit.WithCooldown(uc.BreakerCooldown))
		}
		fopts = append(fopts, upstream.WithBreaker(circuit.New(provider, bopts...)))
	}
	if opts.Cache != nil && cc.TTL > 0 {
		fopts = append(fopts, upstream.WithCache(opts.Cache, cc.TTL))
	}
	if opts.Logger != nil {
		fopts = append(fopts, upstream.WithLogger(opts.Logger))
	}
	fopts = append(fopts, extra...)

	f, err := upstream.NewFetcher(provider, uc.BaseURL, fopts...)
	if err != nil {
		return nil, fmt.Errorf("build %s fetcher: %w", provider, err)
	}
	return f, nil
}

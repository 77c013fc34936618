package app

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"rotunda/internal/district"
	dmetrics "rotunda/internal/district/metrics"
	dservice "rotunda/internal/district/service"
	"rotunda/internal/legislation"
	lmetrics "rotunda/internal/legislation/metrics"
	lservice "rotunda/internal/legislation/service"
	"rotunda/internal/platform/config"
)

// Services are the feature services behind both front ends.
type Services struct {
	Legislation *legislation.Service
	District    *district.Service
}

// NewServices builds the feature services. history may be nil; reg may be
// nil to skip metrics.
func NewServices(cfg config.Config, clients Clients, history dservice.HistoryStore, logger *slog.Logger, reg prometheus.Registerer) Services {
	lopts := []lservice.Option{lservice.WithLogger(logger)}
	dopts := []dservice.Option{
		dservice.WithLogger(logger),
		dservice.WithLegislationLimit(cfg.Feed.LegislationLimit),
	}
	if reg != nil {
		lopts = append(lopts, lservice.WithMetrics(lmetrics.New(reg)))
		dopts = append(dopts, dservice.WithMetrics(dmetrics.New(reg)))
	}

	return Services{
		Legislation: legislation.NewService(clients.Congress, lservice.Config{
			FetchLimit:      cfg.Feed.FetchLimit,
			PageSize:        cfg.Feed.PageSize,
			DefaultCongress: cfg.Feed.DefaultCongress,
		}, lopts...),
		District: district.NewService(clients.Civic, clients.Congress, history, dopts...),
	}
}

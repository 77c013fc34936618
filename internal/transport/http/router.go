// Package httptransport assembles the public HTTP surface: middleware chain,
// health and metrics endpoints, and the feature handlers.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"net/netip"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"rotunda/internal/platform/metrics"
	platformmw "rotunda/internal/platform/middleware"
	rlmodels "rotunda/internal/ratelimit/models"
	dErrors "rotunda/pkg/domain-errors"
	"rotunda/pkg/platform/httputil"
	"rotunda/pkg/platform/middleware/metadata"
	"rotunda/pkg/platform/middleware/requestid"
	"rotunda/pkg/platform/middleware/requesttime"
)

// HealthCheck reports whether one backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Registrar mounts a feature's routes.
type Registrar interface {
	Register(r chi.Router)
}

// DistrictRoutes mounts the lookup endpoint and the recent-lookups listing
// separately so they can sit behind different rate limits.
type DistrictRoutes interface {
	Registrar
	RegisterRecent(r chi.Router)
}

// RateLimiter supplies per-class rate limiting middleware.
type RateLimiter interface {
	RateLimit(class rlmodels.EndpointClass) func(http.Handler) http.Handler
}

type Dependencies struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
	RateLimiter    RateLimiter
	Legislation    Registrar
	District       DistrictRoutes
	// Health maps dependency names ("redis", "postgres") to their checks.
	Health map[string]HealthCheck
	// TrustedProxies may set the client IP through forwarding headers.
	TrustedProxies []netip.Prefix
}

// HealthResponse is the /healthz body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// NewRouter wires every public endpoint.
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.NewClientMetadata(deps.TrustedProxies))
	r.Use(platformmw.AccessLog(logger))
	r.Use(platformmw.Recover(logger))
	r.Use(deps.Metrics.Middleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.ErrorResponse{
			Error:            "method_not_allowed",
			ErrorDescription: "method not allowed",
		})
	})

	r.Get("/healthz", healthHandler(deps.Health))
	metricsHandler := deps.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = metrics.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.RateLimit(rlmodels.ClassRead))
		}
		if deps.Legislation != nil {
			deps.Legislation.Register(r)
		}
		if deps.District != nil {
			deps.District.RegisterRecent(r)
		}
	})

	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.RateLimit(rlmodels.ClassLookup))
		}
		if deps.District != nil {
			deps.District.Register(r)
		}
	})

	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := HealthResponse{Status: "ok"}
		status := http.StatusOK
		if len(names) > 0 {
			resp.Checks = make(map[string]string, len(names))
		}
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}

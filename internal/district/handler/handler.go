package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rotunda/internal/district/models"
	dErrors "rotunda/pkg/domain-errors"
	"rotunda/pkg/platform/httputil"
	"rotunda/pkg/requestcontext"
)

// Service defines the district operations served over HTTP.
type Service interface {
	Lookup(ctx context.Context, address string) (*models.LookupResult, error)
	Recent(ctx context.Context, limit int) ([]models.HistoryEntry, error)
}

// Handler wires the district endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a district handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the lookup endpoint. Recent lookups are mounted separately
// so the router can rate limit them as reads.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/district", h.HandleLookup)
}

// RegisterRecent mounts the recent lookups endpoint.
func (h *Handler) RegisterRecent(r chi.Router) {
	r.Get("/api/district/recent", h.HandleRecent)
}

// HandleLookup handles GET /api/district?address=.
func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	result, err := h.service.Lookup(ctx, r.URL.Query().Get("address"))
	if err != nil {
		if de, ok := dErrors.As(err); ok && de.Code != dErrors.CodeInternal &&
			de.Code != dErrors.CodeUnavailable && de.Code != dErrors.CodeTimeout {
			h.logger.WarnContext(ctx, "district lookup rejected",
				"request_id", requestID,
				"code", de.Code,
			)
		} else {
			h.logger.ErrorContext(ctx, "district lookup failed",
				"request_id", requestID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleRecent handles GET /api/district/recent?limit=.
func (h *Handler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, err := httputil.QueryInt(r, "limit", 0)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entries, err := h.service.Recent(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "recent lookups failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, RecentResponse{Lookups: entries})
}

// RecentResponse lists recent lookups.
type RecentResponse struct {
	Lookups []models.HistoryEntry `json:"lookups"`
}

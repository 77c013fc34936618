package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"rotunda/internal/legislation/models"
	dErrors "rotunda/pkg/domain-errors"
	"rotunda/pkg/platform/httputil"
	"rotunda/pkg/requestcontext"
)

// Service defines the legislation operations served over HTTP.
type Service interface {
	Activity(ctx context.Context, q models.FeedQuery) (models.Page[models.FeedItem], error)
	Laws(ctx context.Context, q models.FeedQuery) (models.Page[models.FeedItem], error)
	BillDetail(ctx context.Context, congress int, billType, number string) (*models.BillDetail, error)
}

// Handler wires the feed and bill detail endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a legislation handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the legislation endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/bills", h.HandleActivity)
	r.Get("/api/laws", h.HandleLaws)
	r.Get("/api/bills/{congress}/{billType}/{number}", h.HandleBillDetail)
}

// HandleActivity handles GET /api/bills?chamber=&page=.
func (h *Handler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q, err := parseFeedQuery(r, false)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	page, err := h.service.Activity(ctx, q)
	if err != nil {
		h.logFailure(ctx, "bill activity failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FeedResponse{Page: page, Chamber: q.Chamber})
}

// HandleLaws handles GET /api/laws?congress=&chamber=&page=.
func (h *Handler) HandleLaws(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q, err := parseFeedQuery(r, true)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	page, err := h.service.Laws(ctx, q)
	if err != nil {
		h.logFailure(ctx, "law feed failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FeedResponse{Page: page, Chamber: q.Chamber, Congress: q.Congress})
}

// HandleBillDetail handles GET /api/bills/{congress}/{billType}/{number}.
func (h *Handler) HandleBillDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	congress, err := strconv.Atoi(chi.URLParam(r, "congress"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "congress must be a number"))
		return
	}
	billType := chi.URLParam(r, "billType")
	number := chi.URLParam(r, "number")

	detail, err := h.service.BillDetail(ctx, congress, billType, number)
	if err != nil {
		h.logFailure(ctx, "bill detail failed", err,
			"congress", congress, "bill_type", billType, "number", number)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "bill detail served",
		"request_id", requestcontext.RequestID(ctx),
		"bill", detail.DisplayNumber,
		"summary_exists", detail.SummaryExists,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, detail)
}

// logFailure logs client errors at warn and everything else at error.
func (h *Handler) logFailure(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "request_id", requestcontext.RequestID(ctx), "error", err)
	de, ok := dErrors.As(err)
	if ok && (de.Code == dErrors.CodeValidation || de.Code == dErrors.CodeNotFound || de.Code == dErrors.CodeBadRequest) {
		h.logger.WarnContext(ctx, msg, args...)
		return
	}
	h.logger.ErrorContext(ctx, msg, args...)
}

func parseFeedQuery(r *http.Request, withCongress bool) (models.FeedQuery, error) {
	chamber, err := models.ParseChamber(r.URL.Query().Get("chamber"))
	if err != nil {
		return models.FeedQuery{}, err
	}
	page, err := httputil.QueryInt(r, "page", 1)
	if err != nil {
		return models.FeedQuery{}, err
	}
	q := models.FeedQuery{Chamber: chamber, Page: page}
	if withCongress {
		congress, err := httputil.QueryInt(r, "congress", 0)
		if err != nil {
			return models.FeedQuery{}, err
		}
		q.Congress = congress
	}
	return q, nil
}

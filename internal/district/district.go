package district

import (
	"log/slog"

	"rotunda/internal/district/handler"
	"rotunda/internal/district/service"
)

// Service resolves addresses to representatives.
type Service = service.Service

// Handler wires HTTP endpoints to the district service.
type Handler = handler.Handler

// NewService constructs the district service.
func NewService(civicClient service.CivicClient, congressClient service.CongressClient, history service.HistoryStore, opts ...service.Option) *Service {
	return service.New(civicClient, congressClient, history, opts...)
}

// NewHandler constructs the HTTP handler for district routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}

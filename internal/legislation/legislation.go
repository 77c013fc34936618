package legislation

import (
	"log/slog"

	"rotunda/internal/legislation/handler"
	"rotunda/internal/legislation/service"
)

// Service serves the bill activity feed, the law feed and bill details.
type Service = service.Service

// Handler wires HTTP endpoints to the legislation service.
type Handler = handler.Handler

// NewService constructs the legislation service.
func NewService(client service.CongressClient, cfg service.Config, opts ...service.Option) *Service {
	return service.New(client, cfg, opts...)
}

// NewHandler constructs the HTTP handler for the feed and detail routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}

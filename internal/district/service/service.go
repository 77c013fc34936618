// Package service resolves an address to its congressional district, the
// sitting representative and their recent legislation.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"rotunda/internal/civic"
	"rotunda/internal/congress"
	"rotunda/internal/district/metrics"
	"rotunda/internal/district/models"
	"rotunda/internal/upstream"
	dErrors "rotunda/pkg/domain-errors"
	platformstrings "rotunda/pkg/platform/strings"
	"rotunda/pkg/requestcontext"
)

const (
	defaultLegislationLimit = 20
	defaultRecentLimit      = 10
	maxRecentLimit          = 100
	maxAddressLength        = 512
)

// CivicClient resolves addresses.
type CivicClient interface {
	Representatives(ctx context.Context, address string) (civic.RepresentativesResponse, error)
}

// CongressClient looks up members and their legislation.
type CongressClient interface {
	MembersByDistrict(ctx context.Context, state string, district int) ([]congress.Member, error)
	SponsoredLegislation(ctx context.Context, bioguideID string, limit int) ([]congress.SponsoredItem, error)
	CosponsoredLegislation(ctx context.Context, bioguideID string, limit int) ([]congress.SponsoredItem, error)
}

// HistoryStore persists successful lookups.
type HistoryStore interface {
	Record(ctx context.Context, entry models.HistoryEntry) error
	Recent(ctx context.Context, limit int) ([]models.HistoryEntry, error)
}

// Service runs district lookups.
type Service struct {
	civic            CivicClient
	congress         CongressClient
	history          HistoryStore
	legislationLimit int
	logger           *slog.Logger
	metrics          *metrics.Metrics
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLegislationLimit bounds the sponsored and cosponsored lists.
func WithLegislationLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.legislationLimit = n
		}
	}
}

// New creates the district Service. history may be nil to disable recording.
func New(civicClient CivicClient, congressClient CongressClient, history HistoryStore, opts ...Option) *Service {
	s := &Service{
		civic:            civicClient,
		congress:         congressClient,
		history:          history,
		legislationLimit: defaultLegislationLimit,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup resolves address to its representative and their legislation.
func (s *Service) Lookup(ctx context.Context, address string) (result *models.LookupResult, err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = string(dErrors.CodeInternal)
			if de, ok := dErrors.As(err); ok {
				outcome = string(de.Code)
			}
		}
		s.metrics.ObserveLookup(outcome, start)
	}()

	address = platformstrings.CollapseSpace(address)
	if address == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "address is required")
	}
	if len(address) > maxAddressLength {
		return nil, dErrors.New(dErrors.CodeValidation, "address is too long")
	}

	reps, err := s.civic.Representatives(ctx, address)
	if err != nil {
		switch upstream.CategoryOf(err) {
		case upstream.CategoryBadRequest, upstream.CategoryNotFound:
			return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "could not resolve address")
		}
		s.logger.ErrorContext(ctx, "civic lookup failed", "error", err)
		return nil, upstream.ToDomain(err)
	}

	state := strings.ToUpper(strings.TrimSpace(reps.NormalizedInput.State))
	if state == "" {
		return nil, dErrors.New(dErrors.CodeNotFound, "no state found for address")
	}
	district, ok := civic.DistrictFromDivisions(reps.Divisions)
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "no congressional district found for address")
	}

	members, err := s.congress.MembersByDistrict(ctx, state, district)
	if err != nil {
		if upstream.CategoryOf(err) == upstream.CategoryNotFound {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, fmt.Sprintf("no members found for %s-%d", state, district))
		}
		s.logger.ErrorContext(ctx, "member lookup failed", "state", state, "district", district, "error", err)
		return nil, upstream.ToDomain(err)
	}
	member, ok := congress.CurrentMember(members, district)
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("no sitting representative for %s-%d", state, district))
	}

	normalized := FormatAddress(reps.NormalizedInput)
	if normalized == "" {
		normalized = address
	}
	result = &models.LookupResult{
		Address:  normalized,
		State:    state,
		District: district,
	}

	official, ok := civic.Representative(reps)
	if !ok {
		result.Warnings = append(result.Warnings, "contact details unavailable")
	}
	result.Profile = ProfileFrom(member, ContactFrom(official))

	sponsored, cosponsored, warnings := s.legislation(ctx, member.BioguideID)
	result.Sponsored = sponsored
	result.Cosponsored = cosponsored
	result.Warnings = append(result.Warnings, warnings...)

	s.record(ctx, result)

	s.logger.InfoContext(ctx, "district resolved",
		"request_id", requestcontext.RequestID(ctx),
		"state", state,
		"district", district,
		"bioguide_id", member.BioguideID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// legislation fetches both lists concurrently. A failed list is returned
// empty with a warning rather than failing the lookup.
func (s *Service) legislation(ctx context.Context, bioguideID string) (sponsored, cosponsored []models.LegislationItem, warnings []string) {
	var (
		g                  errgroup.Group
		sponErr, cosponErr error
		spon, cospon       []congress.SponsoredItem
	)
	g.Go(func() error {
		spon, sponErr = s.congress.SponsoredLegislation(ctx, bioguideID, s.legislationLimit)
		return nil
	})
	g.Go(func() error {
		cospon, cosponErr = s.congress.CosponsoredLegislation(ctx, bioguideID, s.legislationLimit)
		return nil
	})
	_ = g.Wait()

	if sponErr != nil {
		s.logger.WarnContext(ctx, "sponsored legislation unavailable", "bioguide_id", bioguideID, "error", sponErr)
		s.metrics.IncrementLegislationFailure("sponsored")
		warnings = append(warnings, "sponsored legislation unavailable")
		spon = nil
	}
	if cosponErr != nil {
		s.logger.WarnContext(ctx, "cosponsored legislation unavailable", "bioguide_id", bioguideID, "error", cosponErr)
		s.metrics.IncrementLegislationFailure("cosponsored")
		warnings = append(warnings, "cosponsored legislation unavailable")
		cospon = nil
	}
	return LegislationItems(spon), LegislationItems(cospon), warnings
}

func (s *Service) record(ctx context.Context, result *models.LookupResult) {
	if s.history == nil {
		return
	}
	entry := models.HistoryEntry{
		ID:         uuid.New(),
		Address:    result.Address,
		State:      result.State,
		District:   result.District,
		BioguideID: result.Profile.BioguideID,
		Name:       result.Profile.Name,
		LookedUpAt: requestcontext.Now(ctx),
	}
	if err := s.history.Record(ctx, entry); err != nil {
		s.metrics.IncrementHistoryFailure()
		s.logger.WarnContext(ctx, "failed to record lookup", "error", err)
	}
}

// Recent lists recent successful lookups, newest first. Non-positive limits
// use the default and large limits are capped.
func (s *Service) Recent(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	if s.history == nil {
		return []models.HistoryEntry{}, nil
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	limit = min(limit, maxRecentLimit)
	entries, err := s.history.Recent(ctx, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list recent lookups", "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list recent lookups")
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	return entries, nil
}

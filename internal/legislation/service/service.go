// Package service assembles the bill activity feed, the enacted-law feed and
// bill detail views from the Congress.gov client.
package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"rotunda/internal/congress"
	"rotunda/internal/legislation/metrics"
	"rotunda/internal/legislation/models"
	"rotunda/internal/upstream"
	dErrors "rotunda/pkg/domain-errors"
)

// CongressClient is the subset of the Congress.gov client the service uses.
type CongressClient interface {
	ListBills(ctx context.Context, limit int) ([]congress.Bill, error)
	ListLaws(ctx context.Context, congressNum, limit int) ([]congress.Bill, error)
	GetBill(ctx context.Context, congressNum int, billType, number string) (congress.BillDetail, error)
	BillTextVersions(ctx context.Context, congressNum int, billType, number string) ([]congress.TextVersion, error)
	BillSummaries(ctx context.Context, congressNum int, billType, number string) ([]congress.Summary, error)
}

// Config holds feed sizing.
type Config struct {
	FetchLimit      int
	PageSize        int
	DefaultCongress int
}

// Service serves the legislation views.
type Service struct {
	client    CongressClient
	cfg       Config
	converter *SummaryConverter
	logger    *slog.Logger
	metrics   *metrics.Metrics
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

// New creates a legislation Service.
func New(client CongressClient, cfg Config, opts ...Option) *Service {
	if cfg.PageSize <= 0 {
		cfg.PageSize = models.DefaultPageSize
	}
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = congress.MaxLimit
	}
	if cfg.DefaultCongress <= 0 {
		cfg.DefaultCongress = 118
	}
	s := &Service{
		client:    client,
		cfg:       cfg,
		converter: NewSummaryConverter(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Activity returns a page of recently active bills.
func (s *Service) Activity(ctx context.Context, q models.FeedQuery) (models.Page[models.FeedItem], error) {
	start := time.Now()
	bills, err := s.client.ListBills(ctx, s.cfg.FetchLimit)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch bill activity", "error", err)
		return models.Page[models.FeedItem]{}, upstream.ToDomain(err)
	}
	s.metrics.ObserveFeed("activity", start, len(bills))
	return s.feedPage(bills, q), nil
}

// Laws returns a page of bills of a congress that became law.
func (s *Service) Laws(ctx context.Context, q models.FeedQuery) (models.Page[models.FeedItem], error) {
	if q.Congress < 0 {
		return models.Page[models.FeedItem]{}, dErrors.New(dErrors.CodeValidation, "congress must be positive")
	}
	if q.Congress == 0 {
		q.Congress = s.cfg.DefaultCongress
	}
	start := time.Now()
	bills, err := s.client.ListLaws(ctx, q.Congress, s.cfg.FetchLimit)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch laws", "congress", q.Congress, "error", err)
		return models.Page[models.FeedItem]{}, upstream.ToDomain(err)
	}
	s.metrics.ObserveFeed("laws", start, len(bills))
	return s.feedPage(bills, q), nil
}

func (s *Service) feedPage(bills []congress.Bill, q models.FeedQuery) models.Page[models.FeedItem] {
	items := make([]models.FeedItem, 0, len(bills))
	for _, b := range bills {
		if !q.Chamber.Matches(b.OriginChamber) {
			continue
		}
		items = append(items, toFeedItem(b))
	}
	return models.Paginate(items, q.Page, s.cfg.PageSize)
}

func toFeedItem(b congress.Bill) models.FeedItem {
	action, date := ActionText(b.LatestAction)
	return models.FeedItem{
		Congress:         b.Congress,
		Type:             b.Type,
		Number:           b.Number,
		DisplayNumber:    DisplayNumber(b.Type, b.OriginChamberCode, b.Number),
		Title:            b.Title,
		OriginChamber:    b.OriginChamber,
		LatestAction:     action,
		LatestActionDate: date,
		Laws:             LawLabels(b.Laws),
	}
}

var billNumberRe = regexp.MustCompile(`^[0-9]{1,6}$`)

// BillDetail assembles the detail view of one bill. Text versions and the
// summary are fetched concurrently; failures there degrade to warnings.
func (s *Service) BillDetail(ctx context.Context, congressNum int, billType, number string) (*models.BillDetail, error) {
	if congressNum <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "congress must be positive")
	}
	if !IsBillType(billType) {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown bill type")
	}
	if !billNumberRe.MatchString(number) {
		return nil, dErrors.New(dErrors.CodeValidation, "bill number must be numeric")
	}
	billType = strings.ToLower(billType)

	start := time.Now()
	defer s.metrics.ObserveDetail(start)

	bill, err := s.client.GetBill(ctx, congressNum, billType, number)
	if err != nil {
		if upstream.CategoryOf(err) == upstream.CategoryNotFound {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "bill not found")
		}
		s.logger.ErrorContext(ctx, "failed to fetch bill", "congress", congressNum, "type", billType, "number", number, "error", err)
		return nil, upstream.ToDomain(err)
	}

	detail := toBillDetail(bill)

	var (
		versions  []congress.TextVersion
		summaries []congress.Summary
		textErr   error
		sumErr    error
	)
	var g errgroup.Group
	g.Go(func() error {
		versions, textErr = s.client.BillTextVersions(ctx, congressNum, billType, number)
		return nil
	})
	if bill.Summaries != nil {
		g.Go(func() error {
			summaries, sumErr = s.client.BillSummaries(ctx, congressNum, billType, number)
			return nil
		})
	}
	_ = g.Wait()

	if textErr != nil {
		s.logger.WarnContext(ctx, "bill text unavailable", "congress", congressNum, "type", billType, "number", number, "error", textErr)
		detail.Warnings = append(detail.Warnings, "full text unavailable")
	}
	detail.TextURL = textURL(versions)

	if sumErr != nil {
		s.logger.WarnContext(ctx, "bill summary unavailable", "congress", congressNum, "type", billType, "number", number, "error", sumErr)
		detail.Warnings = append(detail.Warnings, "summary unavailable")
	}
	if len(summaries) > 0 {
		detail.SummaryExists = true
		detail.Summary = CleanSummary(summaries[0].Text)
		markdown, err := s.converter.Markdown(summaries[0].Text)
		if err != nil {
			s.logger.WarnContext(ctx, "summary markdown conversion failed", "error", err)
		}
		detail.SummaryMarkdown = markdown
	} else {
		s.metrics.IncrementSummaryMissing()
	}
	return detail, nil
}

func toBillDetail(b congress.BillDetail) *models.BillDetail {
	display := DisplayNumber(b.Type, b.OriginChamberCode, b.Number)
	action, date := ActionText(b.LatestAction)
	d := &models.BillDetail{
		Congress:         b.Congress,
		Type:             b.Type,
		Number:           b.Number,
		DisplayNumber:    display,
		Heading:          display + ": " + b.Title,
		Title:            b.Title,
		OriginChamber:    b.OriginChamber,
		IntroducedDate:   b.IntroducedDate,
		Sponsor:          models.Sponsor{Name: "N/A", PartyColor: PartyColor("")},
		PolicyArea:       "No category given",
		LatestAction:     action,
		LatestActionDate: date,
		Laws:             LawLabels(b.Laws),
	}
	if len(b.Sponsors) > 0 {
		sp := b.Sponsors[0]
		if sp.FullName != "" {
			d.Sponsor.Name = sp.FullName
		}
		d.Sponsor.BioguideID = sp.BioguideID
		d.Sponsor.Party = sp.Party
		d.Sponsor.PartyColor = PartyColor(sp.Party)
	}
	if b.PolicyArea != nil && b.PolicyArea.Name != "" {
		d.PolicyArea = b.PolicyArea.Name
	}
	return d
}

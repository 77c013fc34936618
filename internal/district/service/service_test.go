package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"

	"rotunda/internal/civic"
	"rotunda/internal/congress"
	"rotunda/internal/district/metrics"
	"rotunda/internal/district/models"
	"rotunda/internal/district/store"
	"rotunda/internal/platform/logger"
	"rotunda/internal/upstream"
	dErrors "rotunda/pkg/domain-errors"
	"rotunda/pkg/requestcontext"
)

type fakeCivic struct {
	resp civic.RepresentativesResponse
	err  error
}

func (f *fakeCivic) Representatives(context.Context, string) (civic.RepresentativesResponse, error) {
	return f.resp, f.err
}

type fakeCongress struct {
	members     []congress.Member
	membersErr  error
	sponsored   []congress.SponsoredItem
	cosponsored []congress.SponsoredItem
	sponErr     error
	cosponErr   error
	delay       time.Duration
	inFlight    atomic.Int32
	maxInFlight atomic.Int32

	gotState    string
	gotDistrict int
}

func (f *fakeCongress) MembersByDistrict(_ context.Context, state string, district int) ([]congress.Member, error) {
	f.gotState, f.gotDistrict = state, district
	return f.members, f.membersErr
}

func (f *fakeCongress) track() func() {
	n := f.inFlight.Add(1)
	for {
		cur := f.maxInFlight.Load()
		if n <= cur || f.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}
	time.Sleep(f.delay)
	return func() { f.inFlight.Add(-1) }
}

func (f *fakeCongress) SponsoredLegislation(context.Context, string, int) ([]congress.SponsoredItem, error) {
	defer f.track()()
	return f.sponsored, f.sponErr
}

func (f *fakeCongress) CosponsoredLegislation(context.Context, string, int) ([]congress.SponsoredItem, error) {
	defer f.track()()
	return f.cosponsored, f.cosponErr
}

type failingHistory struct{}

func (failingHistory) Record(context.Context, models.HistoryEntry) error {
	return errors.New("db down")
}

func (failingHistory) Recent(context.Context, int) ([]models.HistoryEntry, error) {
	return nil, errors.New("db down")
}

type LookupSuite struct {
	suite.Suite
	civic    *fakeCivic
	congress *fakeCongress
	history  *store.InMemoryHistory
	metrics  *metrics.Metrics
	service  *Service
	ctx      context.Context
	now      time.Time
}

func TestLookupSuite(t *testing.T) {
	defer goleak.VerifyNone(t)
	suite.Run(t, new(LookupSuite))
}

func sittingMember() congress.Member {
	m := congress.Member{
		BioguideID: "L000551",
		Name:       "Barbara Lee",
		PartyName:  "Democratic",
		State:      "California",
		District:   12,
		Depiction:  &congress.Depiction{ImageURL: "https://www.congress.gov/img/member/l000551.jpg"},
	}
	m.Terms.Item = []congress.Term{{Chamber: "House of Representatives", StartYear: 1998}}
	return m
}

func (s *LookupSuite) SetupTest() {
	s.civic = &fakeCivic{resp: civic.RepresentativesResponse{
		NormalizedInput: civic.Address{Line1: "1 Frank H Ogawa Plz", City: "Oakland", State: "CA", Zip: "94612"},
		Divisions: map[string]civic.Division{
			"ocd-division/country:us":                {},
			"ocd-division/country:us/state:ca":       {},
			"ocd-division/country:us/state:ca/cd:12": {},
		},
		Offices: []civic.Office{{Name: civic.RepresentativeOffice, OfficialIndices: []int{0}}},
		Officials: []civic.Official{{
			Name:    "Barbara Lee",
			Address: []civic.Address{{Line1: "2470 Rayburn House Office Building", City: "Washington", State: "DC", Zip: "20515"}},
			Phones:  []string{"(202) 225-2661"},
			URLs:    []string{"https://lee.house.gov/"},
		}},
	}}
	s.congress = &fakeCongress{
		members: []congress.Member{sittingMember()},
		sponsored: []congress.SponsoredItem{{
			Congress: 118, Number: "9000", Type: "HR", Title: "Housing Act", IntroducedDate: "2024-07-01",
			LatestAction: &congress.LatestAction{Text: "Referred to the House Committee on Financial Services.", ActionDate: "2024-07-01"},
		}},
		cosponsored: []congress.SponsoredItem{{Congress: 118, AmendmentNumber: "2131", Type: "SAMDT"}},
	}
	s.history = store.NewInMemoryHistory(10)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.service = New(s.civic, s.congress, s.history,
		WithLogger(logger.Discard()), WithMetrics(s.metrics), WithLegislationLimit(20))
	s.now = time.Date(2024, 11, 5, 9, 30, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *LookupSuite) TestLookupResolvesFullChain() {
	result, err := s.service.Lookup(s.ctx, "  1 Frank H Ogawa Plz, Oakland, CA ")
	s.Require().NoError(err)

	s.Equal("CA", s.congress.gotState)
	s.Equal(12, s.congress.gotDistrict)

	s.Equal("1 Frank H Ogawa Plz, Oakland, CA 94612", result.Address)
	s.Equal(12, result.District)

	p := result.Profile
	s.Equal("BL", p.Initials)
	s.Equal("1998-Present", p.Serving)
	s.Equal("blue", p.PartyColor)
	s.Equal("2470 Rayburn House Office Building, Washington, DC 20515", p.Contact.Address)
	s.Equal("(202) 225-2661", p.Contact.Phone)
	s.Equal("N/A", p.Contact.Email)
	s.Equal("https://lee.house.gov/", p.Contact.Website)

	s.Require().Len(result.Sponsored, 1)
	s.Equal("H.R. 9000", result.Sponsored[0].DisplayNumber)
	s.Equal("Referred", result.Sponsored[0].LastAction)
	s.Require().Len(result.Cosponsored, 1)
	s.Equal("Amendment 2131", result.Cosponsored[0].Title)
	s.Equal("S.Amdt. 2131", result.Cosponsored[0].DisplayNumber)
	s.Equal("N/A", result.Cosponsored[0].LastAction)
	s.Empty(result.Warnings)

	recent, err := s.service.Recent(s.ctx, 5)
	s.Require().NoError(err)
	s.Require().Len(recent, 1)
	s.Equal("L000551", recent[0].BioguideID)
	s.Equal(s.now, recent[0].LookedUpAt)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Lookups.WithLabelValues("ok")))
}

func (s *LookupSuite) TestLegislationFetchedConcurrently() {
	s.congress.delay = 50 * time.Millisecond

	_, err := s.service.Lookup(s.ctx, "1 Frank H Ogawa Plz, Oakland, CA")
	s.Require().NoError(err)
	s.Equal(int32(2), s.congress.maxInFlight.Load())
}

func (s *LookupSuite) TestLegislationFailureIsNonFatal() {
	s.congress.cosponErr = upstream.NewError(upstream.CategoryOutage, "congress", "status 503", nil)

	result, err := s.service.Lookup(s.ctx, "1 Frank H Ogawa Plz, Oakland, CA")
	s.Require().NoError(err)
	s.Len(result.Sponsored, 1)
	s.Empty(result.Cosponsored)
	s.NotNil(result.Cosponsored)
	s.Equal([]string{"cosponsored legislation unavailable"}, result.Warnings)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.LegislationFailures.WithLabelValues("cosponsored")))
}

func (s *LookupSuite) TestBlankAddress() {
	_, err := s.service.Lookup(s.ctx, "   ")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Lookups.WithLabelValues(string(dErrors.CodeValidation))))
}

func (s *LookupSuite) TestUnresolvableAddress() {
	s.civic.err = upstream.NewError(upstream.CategoryBadRequest, "civic", "status 400", errors.New("Failed to parse address"))

	_, err := s.service.Lookup(s.ctx, "asdf")
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	de, _ := dErrors.As(err)
	s.Equal("could not resolve address", de.Message)
}

func (s *LookupSuite) TestCivicOutage() {
	s.civic.err = upstream.NewError(upstream.CategoryTimeout, "civic", "request timed out", context.DeadlineExceeded)

	_, err := s.service.Lookup(s.ctx, "1 Main St")
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
}

func (s *LookupSuite) TestMissingState() {
	s.civic.resp.NormalizedInput.State = ""

	_, err := s.service.Lookup(s.ctx, "somewhere")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *LookupSuite) TestAtLargeDistrict() {
	s.civic.resp.NormalizedInput.State = "WY"
	s.civic.resp.Divisions = map[string]civic.Division{"ocd-division/country:us/state:wy": {}}
	m := sittingMember()
	m.District = 0
	s.congress.members = []congress.Member{m}

	result, err := s.service.Lookup(s.ctx, "Cheyenne, WY")
	s.Require().NoError(err)
	s.Equal(0, s.congress.gotDistrict)
	s.Equal(0, result.District)
}

func (s *LookupSuite) TestNoSittingMember() {
	end := 2023
	m := sittingMember()
	m.Terms.Item[0].EndYear = &end
	s.congress.members = []congress.Member{m}

	_, err := s.service.Lookup(s.ctx, "1 Frank H Ogawa Plz, Oakland, CA")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	recent, _ := s.service.Recent(s.ctx, 5)
	s.Empty(recent, "failed lookups are not recorded")
}

func (s *LookupSuite) TestMissingRepresentativeOfficeWarns() {
	s.civic.resp.Offices = nil

	result, err := s.service.Lookup(s.ctx, "1 Frank H Ogawa Plz, Oakland, CA")
	s.Require().NoError(err)
	s.Equal("N/A", result.Profile.Contact.Phone)
	s.Contains(result.Warnings, "contact details unavailable")
}

func (s *LookupSuite) TestHistoryFailureIsNonFatal() {
	svc := New(s.civic, s.congress, failingHistory{}, WithLogger(logger.Discard()), WithMetrics(s.metrics))

	_, err := svc.Lookup(s.ctx, "1 Frank H Ogawa Plz, Oakland, CA")
	s.Require().NoError(err)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.HistoryFailures))

	_, err = svc.Recent(s.ctx, 5)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *LookupSuite) TestRecentWithoutHistory() {
	svc := New(s.civic, s.congress, nil, WithLogger(logger.Discard()))
	got, err := svc.Recent(s.ctx, 5)
	s.Require().NoError(err)
	s.Empty(got)
}

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dmodels "rotunda/internal/district/models"
	lmodels "rotunda/internal/legislation/models"
	"rotunda/internal/platform/config"
	dErrors "rotunda/pkg/domain-errors"
)

type fakeLegislation struct {
	lastQuery lmodels.FeedQuery
	lastLaws  bool
	lastBill  []any
	page      lmodels.Page[lmodels.FeedItem]
	detail    *lmodels.BillDetail
	detailErr error
}

func (f *fakeLegislation) Activity(_ context.Context, q lmodels.FeedQuery) (lmodels.Page[lmodels.FeedItem], error) {
	f.lastQuery = q
	return f.page, nil
}

func (f *fakeLegislation) Laws(_ context.Context, q lmodels.FeedQuery) (lmodels.Page[lmodels.FeedItem], error) {
	f.lastQuery = q
	f.lastLaws = true
	return f.page, nil
}

func (f *fakeLegislation) BillDetail(_ context.Context, congress int, billType, number string) (*lmodels.BillDetail, error) {
	f.lastBill = []any{congress, billType, number}
	return f.detail, f.detailErr
}

type fakeDistrict struct {
	address string
	result  *dmodels.LookupResult
}

func (f *fakeDistrict) Lookup(_ context.Context, address string) (*dmodels.LookupResult, error) {
	f.address = address
	return f.result, nil
}

func execute(t *testing.T, leg *fakeLegislation, dist *fakeDistrict, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ROTUNDA_CONFIG", "")
	var gotCivic bool
	cmd := newRootCmd(func(_ config.Config, needCivic bool) (services, error) {
		gotCivic = needCivic
		return services{legislation: leg, district: dist}, nil
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil && len(args) > 0 && args[0] == "district" {
		assert.True(t, gotCivic, "district lookups need the civic key")
	}
	return out.String(), err
}

func TestDistrictCommandJoinsAddressArgs(t *testing.T) {
	dist := &fakeDistrict{result: &dmodels.LookupResult{
		Address:  "1 Frank H Ogawa Plz, Oakland, CA 94612",
		State:    "CA",
		District: 12,
		Profile: dmodels.Profile{
			Name: "Barbara Lee", Initials: "BL", PartyName: "Democratic", PartyColor: "blue",
			Serving: "1998-Present",
			Contact: dmodels.Contact{Address: "N/A", Phone: "(202) 225-2661", Email: "N/A"},
		},
		Sponsored: []dmodels.LegislationItem{{DisplayNumber: "H.R. 1234", Title: "Housing Act", LastAction: "Referred"}},
		Warnings:  []string{"cosponsored legislation unavailable"},
	}}

	out, err := execute(t, &fakeLegislation{}, dist, "district", "1", "Frank", "H", "Ogawa", "Plz,", "Oakland,", "CA")

	require.NoError(t, err)
	assert.Equal(t, "1 Frank H Ogawa Plz, Oakland, CA", dist.address)
	assert.Contains(t, out, "Barbara Lee")
	assert.Contains(t, out, "CA-12")
	assert.Contains(t, out, "H.R. 1234")
	assert.Contains(t, out, "None found.")
	assert.Contains(t, out, "cosponsored legislation unavailable")
}

func TestBillsCommandPassesFilters(t *testing.T) {
	leg := &fakeLegislation{page: lmodels.Page[lmodels.FeedItem]{
		Items: []lmodels.FeedItem{{DisplayNumber: "S. 4361", Title: "A bill", OriginChamber: "Senate", LatestAction: "Read twice"}},
		Page:  2, Total: 10, From: 10, To: 10,
	}}

	out, err := execute(t, leg, &fakeDistrict{}, "bills", "--chamber", "SENATE", "--page", "2")

	require.NoError(t, err)
	assert.Equal(t, lmodels.FeedQuery{Chamber: lmodels.ChamberSenate, Page: 2}, leg.lastQuery)
	assert.Contains(t, out, "Bill activity · Senate")
	assert.Contains(t, out, "S. 4361")
	assert.Contains(t, out, "Showing 10-10 of 10")
}

func TestBillsCommandRejectsUnknownChamber(t *testing.T) {
	_, err := execute(t, &fakeLegislation{}, &fakeDistrict{}, "bills", "--chamber", "lords")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestLawsCommand(t *testing.T) {
	leg := &fakeLegislation{}

	out, err := execute(t, leg, &fakeDistrict{}, "laws", "--congress", "117")

	require.NoError(t, err)
	assert.True(t, leg.lastLaws)
	assert.Equal(t, 117, leg.lastQuery.Congress)
	assert.Contains(t, out, "Enacted laws of the 117th Congress")
	assert.Contains(t, out, "No bills on this page.")
}

func TestBillCommand(t *testing.T) {
	t.Run("renders the detail", func(t *testing.T) {
		leg := &fakeLegislation{detail: &lmodels.BillDetail{
			Heading:         "H.R. 815: Making emergency supplemental appropriations",
			Sponsor:         lmodels.Sponsor{Name: "Rep. McCaul, Michael T.", PartyColor: "red"},
			PolicyArea:      "International Affairs",
			SummaryExists:   true,
			SummaryMarkdown: "This bill provides **emergency** funding.",
		}}

		out, err := execute(t, leg, &fakeDistrict{}, "bill", "118", "hr", "815", "--theme", "light")

		require.NoError(t, err)
		assert.Equal(t, []any{118, "hr", "815"}, leg.lastBill)
		assert.Contains(t, out, "H.R. 815")
		assert.Contains(t, out, "International Affairs")
		assert.Contains(t, out, "emergency")
	})

	t.Run("non numeric congress", func(t *testing.T) {
		_, err := execute(t, &fakeLegislation{}, &fakeDistrict{}, "bill", "one", "hr", "815")
		require.Error(t, err)
		assert.Equal(t, "congress must be a number", describe(err))
	})

	t.Run("service error is described", func(t *testing.T) {
		leg := &fakeLegislation{detailErr: dErrors.New(dErrors.CodeNotFound, "bill not found")}
		_, err := execute(t, leg, &fakeDistrict{}, "bill", "118", "hr", "999999")
		require.Error(t, err)
		assert.Equal(t, "bill not found", describe(err))
	})
}

func TestUnknownThemeRejected(t *testing.T) {
	_, err := execute(t, &fakeLegislation{}, &fakeDistrict{}, "bills", "--theme", "solarized")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown theme")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, &fakeLegislation{}, &fakeDistrict{}, "version")
	require.NoError(t, err)
	assert.Equal(t, "rotunda dev\n", out)
}

func TestDefaultServicesRequiresKeys(t *testing.T) {
	_, err := defaultServices(config.Default(), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONGRESS_API_KEY")
	assert.Contains(t, err.Error(), "CIVIC_API_KEY")

	cfg := config.Default()
	cfg.Congress.APIKey = "k"
	_, err = defaultServices(cfg, false)
	require.NoError(t, err)
}

func TestOrdinal(t *testing.T) {
	for n, want := range map[int]string{1: "1st", 2: "2nd", 3: "3rd", 11: "11th", 112: "112th", 118: "118th", 121: "121st"} {
		assert.Equal(t, want, ordinal(n))
	}
}

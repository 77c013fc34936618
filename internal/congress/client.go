// Package congress is a client for the Congress.gov v3 API.
package congress

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Provider is the name used for metrics, cache keys and errors.
const Provider = "congress"

// MaxLimit is the largest page size the API accepts.
const MaxLimit = 250

// Getter performs a JSON GET. *upstream.Fetcher implements it.
type Getter interface {
	GetJSON(ctx context.Context, path string, query url.Values, out any) error
}

// Client issues typed Congress.gov requests.
type Client struct {
	getter Getter
}

// New wraps a Getter configured for api.congress.gov.
func New(g Getter) *Client {
	return &Client{getter: g}
}

// ListBills returns the most recently updated bills.
func (c *Client) ListBills(ctx context.Context, limit int) ([]Bill, error) {
	var resp struct {
		Bills []Bill `json:"bills"`
	}
	if err := c.getter.GetJSON(ctx, "/bill", limitQuery(limit), &resp); err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	return resp.Bills, nil
}

// ListLaws returns bills of congress that became law.
func (c *Client) ListLaws(ctx context.Context, congress, limit int) ([]Bill, error) {
	var resp struct {
		Bills []Bill `json:"bills"`
	}
	path := "/law/" + strconv.Itoa(congress)
	if err := c.getter.GetJSON(ctx, path, limitQuery(limit), &resp); err != nil {
		return nil, fmt.Errorf("list laws of congress %d: %w", congress, err)
	}
	return resp.Bills, nil
}

// GetBill returns a single bill.
func (c *Client) GetBill(ctx context.Context, congress int, billType, number string) (BillDetail, error) {
	var resp struct {
		Bill BillDetail `json:"bill"`
	}
	if err := c.getter.GetJSON(ctx, billPath(congress, billType, number), nil, &resp); err != nil {
		return BillDetail{}, fmt.Errorf("get bill %d/%s/%s: %w", congress, billType, number, err)
	}
	return resp.Bill, nil
}

// BillTextVersions returns the published text versions of a bill, newest first.
func (c *Client) BillTextVersions(ctx context.Context, congress int, billType, number string) ([]TextVersion, error) {
	var resp struct {
		TextVersions []TextVersion `json:"textVersions"`
	}
	if err := c.getter.GetJSON(ctx, billPath(congress, billType, number)+"/text", nil, &resp); err != nil {
		return nil, fmt.Errorf("bill text %d/%s/%s: %w", congress, billType, number, err)
	}
	return resp.TextVersions, nil
}

// BillSummaries returns the CRS summaries of a bill.
func (c *Client) BillSummaries(ctx context.Context, congress int, billType, number string) ([]Summary, error) {
	var resp struct {
		Summaries []Summary `json:"summaries"`
	}
	if err := c.getter.GetJSON(ctx, billPath(congress, billType, number)+"/summaries", nil, &resp); err != nil {
		return nil, fmt.Errorf("bill summaries %d/%s/%s: %w", congress, billType, number, err)
	}
	return resp.Summaries, nil
}

// MembersByDistrict returns every member who has represented state/district.
func (c *Client) MembersByDistrict(ctx context.Context, state string, district int) ([]Member, error) {
	var resp struct {
		Members []Member `json:"members"`
	}
	path := "/member/" + url.PathEscape(strings.ToUpper(state)) + "/" + strconv.Itoa(district)
	if err := c.getter.GetJSON(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("members of %s-%d: %w", state, district, err)
	}
	return resp.Members, nil
}

// SponsoredLegislation returns legislation sponsored by the member.
func (c *Client) SponsoredLegislation(ctx context.Context, bioguideID string, limit int) ([]SponsoredItem, error) {
	var resp struct {
		Items []SponsoredItem `json:"sponsoredLegislation"`
	}
	path := "/member/" + url.PathEscape(bioguideID) + "/sponsored-legislation"
	if err := c.getter.GetJSON(ctx, path, limitQuery(limit), &resp); err != nil {
		return nil, fmt.Errorf("sponsored legislation of %s: %w", bioguideID, err)
	}
	return resp.Items, nil
}

// CosponsoredLegislation returns legislation cosponsored by the member.
func (c *Client) CosponsoredLegislation(ctx context.Context, bioguideID string, limit int) ([]SponsoredItem, error) {
	var resp struct {
		Items []SponsoredItem `json:"cosponsoredLegislation"`
	}
	path := "/member/" + url.PathEscape(bioguideID) + "/cosponsored-legislation"
	if err := c.getter.GetJSON(ctx, path, limitQuery(limit), &resp); err != nil {
		return nil, fmt.Errorf("cosponsored legislation of %s: %w", bioguideID, err)
	}
	return resp.Items, nil
}

// CurrentMember picks the sitting member for district: the first member whose
// first listed term has no end year and whose district matches.
func CurrentMember(members []Member, district int) (Member, bool) {
	for _, m := range members {
		if len(m.Terms.Item) == 0 {
			continue
		}
		if m.Terms.Item[0].EndYear == nil && m.District == district {
			return m, true
		}
	}
	return Member{}, false
}

func billPath(congress int, billType, number string) string {
	return "/bill/" + strconv.Itoa(congress) + "/" + url.PathEscape(strings.ToLower(billType)) + "/" + url.PathEscape(number)
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return url.Values{"limit": {strconv.Itoa(limit)}}
}

// Package civic is a client for the Google Civic Information API.
package civic

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Provider is the name used for metrics, cache keys and errors.
const Provider = "civic"

// RepresentativeOffice is the office name of a House member.
const RepresentativeOffice = "U.S. Representative"

// Getter performs a JSON GET. *upstream.Fetcher implements it.
type Getter interface {
	GetJSON(ctx context.Context, path string, query url.Values, out any) error
}

// Client issues typed Civic Information requests.
type Client struct {
	getter Getter
}

// New wraps a Getter configured for the civicinfo v2 base URL.
func New(g Getter) *Client {
	return &Client{getter: g}
}

// Representatives resolves address to its divisions, offices and officials.
func (c *Client) Representatives(ctx context.Context, address string) (RepresentativesResponse, error) {
	var resp RepresentativesResponse
	if err := c.getter.GetJSON(ctx, "/representatives", url.Values{"address": {address}}, &resp); err != nil {
		return RepresentativesResponse{}, fmt.Errorf("representatives: %w", err)
	}
	return resp, nil
}

// DistrictFromDivisions returns the congressional district number among the
// division ids. Ids are scanned in sorted order; the first containing "/cd:"
// wins and its fourth ":"-separated segment is the district. A state division
// without any "/cd:" division means the state is at-large (district 0).
func DistrictFromDivisions(divisions map[string]Division) (int, bool) {
	ids := make([]string, 0, len(divisions))
	for id := range divisions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	hasState := false
	for _, id := range ids {
		if strings.Contains(id, "/cd:") {
			parts := strings.Split(id, ":")
			if len(parts) < 4 {
				continue
			}
			n, err := strconv.Atoi(parts[3])
			if err != nil || n < 0 {
				continue
			}
			return n, true
		}
		if strings.Contains(id, "/state:") {
			hasState = true
		}
	}
	if hasState {
		return 0, true
	}
	return 0, false
}

// Representative returns the first official holding the U.S. Representative office.
func Representative(resp RepresentativesResponse) (Official, bool) {
	for _, office := range resp.Offices {
		if office.Name != RepresentativeOffice || len(office.OfficialIndices) == 0 {
			continue
		}
		idx := office.OfficialIndices[0]
		if idx < 0 || idx >= len(resp.Officials) {
			return Official{}, false
		}
		return resp.Officials[idx], true
	}
	return Official{}, false
}

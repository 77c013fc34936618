package models

// DefaultPageSize is the number of feed items per page.
const DefaultPageSize = 9

// FeedQuery selects a page of the activity or law feed.
// Congress is ignored by the activity feed; zero selects the default congress.
type FeedQuery struct {
	Congress int
	Chamber  Chamber
	Page     int
}

// FeedItem is one bill or law card.
type FeedItem struct {
	Congress         int      `json:"congress"`
	Type             string   `json:"type"`
	Number           string   `json:"number"`
	DisplayNumber    string   `json:"display_number"`
	Title            string   `json:"title"`
	OriginChamber    string   `json:"origin_chamber"`
	LatestAction     string   `json:"latest_action"`
	LatestActionDate string   `json:"latest_action_date,omitempty"`
	Laws             []string `json:"laws,omitempty"`
}

// Sponsor is the primary sponsor shown on a bill detail.
type Sponsor struct {
	Name       string `json:"name"`
	BioguideID string `json:"bioguide_id,omitempty"`
	Party      string `json:"party,omitempty"`
	PartyColor string `json:"party_color"`
}

// BillDetail is the summary dialog of a bill.
type BillDetail struct {
	Congress         int      `json:"congress"`
	Type             string   `json:"type"`
	Number           string   `json:"number"`
	DisplayNumber    string   `json:"display_number"`
	Heading          string   `json:"heading"`
	Title            string   `json:"title"`
	OriginChamber    string   `json:"origin_chamber"`
	IntroducedDate   string   `json:"introduced_date,omitempty"`
	Sponsor          Sponsor  `json:"sponsor"`
	PolicyArea       string   `json:"policy_area"`
	LatestAction     string   `json:"latest_action,omitempty"`
	LatestActionDate string   `json:"latest_action_date,omitempty"`
	Laws             []string `json:"laws,omitempty"`
	SummaryExists    bool     `json:"summary_exists"`
	Summary          []string `json:"summary,omitempty"`
	SummaryMarkdown  string   `json:"summary_markdown,omitempty"`
	TextURL          string   `json:"text_url,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`
}

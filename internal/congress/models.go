package congress

// LatestAction is the most recent recorded action on a bill.
type LatestAction struct {
	ActionDate string `json:"actionDate"`
	Text       string `json:"text"`
}

// LawRef identifies the public or private law a bill became.
type LawRef struct {
	Number string `json:"number"`
	Type   string `json:"type"`
}

// Bill is a list entry from /bill and /law/{congress}.
type Bill struct {
	Congress          int           `json:"congress"`
	Number            string        `json:"number"`
	Type              string        `json:"type"`
	Title             string        `json:"title"`
	OriginChamber     string        `json:"originChamber"`
	OriginChamberCode string        `json:"originChamberCode"`
	LatestAction      *LatestAction `json:"latestAction,omitempty"`
	UpdateDate        string        `json:"updateDate"`
	URL               string        `json:"url"`
	Laws              []LawRef      `json:"laws,omitempty"`
}

// Sponsor is a member credited as a bill sponsor.
type Sponsor struct {
	BioguideID string `json:"bioguideId"`
	FullName   string `json:"fullName"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Party      string `json:"party"`
	State      string `json:"state"`
}

// PolicyArea is the primary subject assigned by the Congressional Research Service.
type PolicyArea struct {
	Name string `json:"name"`
}

// ResourceRef points at a sub-resource and its item count.
type ResourceRef struct {
	Count int    `json:"count"`
	URL   string `json:"url"`
}

// BillDetail is the payload of /bill/{congress}/{type}/{number}.
type BillDetail struct {
	Congress          int           `json:"congress"`
	Number            string        `json:"number"`
	Type              string        `json:"type"`
	Title             string        `json:"title"`
	IntroducedDate    string        `json:"introducedDate"`
	OriginChamber     string        `json:"originChamber"`
	OriginChamberCode string        `json:"originChamberCode"`
	Sponsors          []Sponsor     `json:"sponsors"`
	PolicyArea        *PolicyArea   `json:"policyArea,omitempty"`
	Summaries         *ResourceRef  `json:"summaries,omitempty"`
	TextVersions      *ResourceRef  `json:"textVersions,omitempty"`
	LatestAction      *LatestAction `json:"latestAction,omitempty"`
	Laws              []LawRef      `json:"laws,omitempty"`
}

// TextFormat is one rendition (PDF, HTML, XML) of a text version.
type TextFormat struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// TextVersion is a published version of a bill's text.
type TextVersion struct {
	Date    string       `json:"date"`
	Type    string       `json:"type"`
	Formats []TextFormat `json:"formats"`
}

// Summary is a CRS summary. Text is HTML.
type Summary struct {
	ActionDate  string `json:"actionDate"`
	ActionDesc  string `json:"actionDesc"`
	Text        string `json:"text"`
	UpdateDate  string `json:"updateDate"`
	VersionCode string `json:"versionCode"`
}

// Term is one term of service. EndYear is nil for the current term.
type Term struct {
	Chamber   string `json:"chamber"`
	StartYear int    `json:"startYear"`
	EndYear   *int   `json:"endYear,omitempty"`
}

// Depiction holds the member portrait.
type Depiction struct {
	ImageURL    string `json:"imageUrl"`
	Attribution string `json:"attribution"`
}

// Member is an entry of /member/{state}/{district}.
type Member struct {
	BioguideID string     `json:"bioguideId"`
	Name       string     `json:"name"`
	PartyName  string     `json:"partyName"`
	State      string     `json:"state"`
	District   int        `json:"district"`
	Depiction  *Depiction `json:"depiction,omitempty"`
	Terms      struct {
		Item []Term `json:"item"`
	} `json:"terms"`
}

// ImageURL returns the portrait URL or "".
func (m Member) ImageURL() string {
	if m.Depiction == nil {
		return ""
	}
	return m.Depiction.ImageURL
}

// SponsoredItem is an entry of a member's sponsored or cosponsored
// legislation. Amendments carry AmendmentNumber and usually no title.
type SponsoredItem struct {
	Congress        int           `json:"congress"`
	Number          string        `json:"number"`
	Type            string        `json:"type"`
	Title           string        `json:"title"`
	AmendmentNumber string        `json:"amendmentNumber"`
	IntroducedDate  string        `json:"introducedDate"`
	LatestAction    *LatestAction `json:"latestAction,omitempty"`
	URL             string        `json:"url"`
}

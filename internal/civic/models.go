package civic

// Address is a postal address as returned by the API.
type Address struct {
	LocationName string `json:"locationName,omitempty"`
	Line1        string `json:"line1"`
	Line2        string `json:"line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
}

// Division is an Open Civic Data division containing the address.
type Division struct {
	Name          string `json:"name"`
	OfficeIndices []int  `json:"officeIndices,omitempty"`
}

// Office is an elected office; OfficialIndices index into Officials.
type Office struct {
	Name            string   `json:"name"`
	DivisionID      string   `json:"divisionId"`
	Levels          []string `json:"levels,omitempty"`
	Roles           []string `json:"roles,omitempty"`
	OfficialIndices []int    `json:"officialIndices"`
}

// Channel is a social media account.
type Channel struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Official is an office holder.
type Official struct {
	Name     string    `json:"name"`
	Address  []Address `json:"address,omitempty"`
	Party    string    `json:"party,omitempty"`
	Phones   []string  `json:"phones,omitempty"`
	URLs     []string  `json:"urls,omitempty"`
	Emails   []string  `json:"emails,omitempty"`
	PhotoURL string    `json:"photoUrl,omitempty"`
	Channels []Channel `json:"channels,omitempty"`
}

// RepresentativesResponse is the payload of /representatives.
type RepresentativesResponse struct {
	NormalizedInput Address             `json:"normalizedInput"`
	Divisions       map[string]Division `json:"divisions"`
	Offices         []Office            `json:"offices"`
	Officials       []Official          `json:"officials"`
}

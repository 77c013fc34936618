package e2e

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
)

// fakeAPIs serves Congress.gov and Civic Information fixtures from one
// server; the two APIs use disjoint paths.
type fakeAPIs struct {
	server *httptest.Server
	calls  atomic.Int64
}

func newFakeAPIs() *fakeAPIs {
	f := &fakeAPIs{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /bill", f.json(billsFixture))
	mux.HandleFunc("GET /law/118", f.json(lawsFixture(10)))
	mux.HandleFunc("GET /bill/118/hr/815", f.json(billDetailFixture))
	mux.HandleFunc("GET /bill/118/hr/815/text", f.json(textFixture))
	mux.HandleFunc("GET /bill/118/hr/815/summaries", f.json(summariesFixture))
	mux.HandleFunc("GET /bill/118/hr/999", f.status(http.StatusNotFound, `{"error":"Unknown resource"}`))
	mux.HandleFunc("GET /representatives", f.representatives)
	mux.HandleFunc("GET /member/CA/12", f.json(membersFixture))
	mux.HandleFunc("GET /member/L000551/sponsored-legislation", f.json(sponsoredFixture))
	mux.HandleFunc("GET /member/L000551/cosponsored-legislation", f.status(http.StatusInternalServerError, `{"error":"boom"}`))
	f.server = httptest.NewServer(mux)
	return f
}

func (f *fakeAPIs) URL() string { return f.server.URL }

func (f *fakeAPIs) Close() { f.server.Close() }

func (f *fakeAPIs) json(body string) http.HandlerFunc {
	return f.status(http.StatusOK, body)
}

func (f *fakeAPIs) status(code int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		f.calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = io.WriteString(w, body)
	}
}

func (f *fakeAPIs) representatives(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(strings.ToLower(r.URL.Query().Get("address")), "nowhere") {
		f.status(http.StatusBadRequest, `{"error":{"code":400,"message":"Failed to parse address"}}`)(w, r)
		return
	}
	f.json(representativesFixture)(w, r)
}

const billsFixture = `{"bills":[
	{"congress":118,"number":"815","type":"HR","title":"Making emergency supplemental appropriations","originChamber":"House","originChamberCode":"H","latestAction":{"actionDate":"2024-04-24","text":"Became Public Law No: 118-50."}},
	{"congress":118,"number":"4361","type":"S","title":"A bill to amend title 38","originChamber":"Senate","originChamberCode":"S","latestAction":{"actionDate":"2024-04-20","text":"Read twice and referred to the Committee on Veterans' Affairs."}},
	{"congress":118,"number":"8070","type":"HR","title":"Servicemember Quality of Life Improvement Act","originChamber":"House","originChamberCode":"H","latestAction":{"actionDate":"2024-04-18","text":"Referred to the House Committee on Armed Services."}}
]}`

func lawsFixture(n int) string {
	items := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, fmt.Sprintf(
			`{"congress":118,"number":"%d","type":"HR","title":"Law number %d","originChamber":"House","originChamberCode":"H","latestAction":{"actionDate":"2024-03-%02d","text":"Became Public Law No: 118-%d."},"laws":[{"number":"118-%d","type":"Public Law"}]}`,
			100+i, i, i, i, i))
	}
	return `{"bills":[` + strings.Join(items, ",") + `]}`
}

const billDetailFixture = `{"bill":{
	"congress":118,"number":"815","type":"HR",
	"title":"Making emergency supplemental appropriations for the fiscal year ending September 30, 2024",
	"introducedDate":"2023-02-03","originChamber":"House","originChamberCode":"H",
	"sponsors":[{"bioguideId":"M001157","fullName":"Rep. McCaul, Michael T. [R-TX-10]","party":"R","state":"TX"}],
	"policyArea":{"name":"Economics and Public Finance"},
	"summaries":{"count":1,"url":"https://api.congress.gov/v3/bill/118/hr/815/summaries"},
	"textVersions":{"count":1,"url":"https://api.congress.gov/v3/bill/118/hr/815/text"},
	"latestAction":{"actionDate":"2024-04-24","text":"Became Public Law No: 118-50."},
	"laws":[{"number":"118-50","type":"Public Law"}]
}}`

const textFixture = `{"textVersions":[{"date":"2024-04-24","type":"Public Law","formats":[
	{"type":"Formatted Text","url":"https://www.congress.gov/118/plaws/publ50/PLAW-118publ50.htm"},
	{"type":"PDF","url":"https://www.congress.gov/118/plaws/publ50/PLAW-118publ50.pdf"}
]}]}`

const summariesFixture = `{"summaries":[{"actionDate":"2024-04-24","actionDesc":"Public Law","versionCode":"49",
	"text":"<p><strong>Making emergency supplemental appropriations</strong></p><p>This act provides funds for Ukraine &amp; Israel.<br>It also funds humanitarian aid.</p>"}]}`

const representativesFixture = `{
	"normalizedInput":{"line1":"1 Frank H Ogawa Plz","city":"Oakland","state":"CA","zip":"94612"},
	"divisions":{
		"ocd-division/country:us":{"name":"United States","officeIndices":[0]},
		"ocd-division/country:us/state:ca":{"name":"California","officeIndices":[1]},
		"ocd-division/country:us/state:ca/cd:12":{"name":"California's 12th congressional district","officeIndices":[2]}
	},
	"offices":[
		{"name":"President of the United States","divisionId":"ocd-division/country:us","officialIndices":[0]},
		{"name":"U.S. Senator","divisionId":"ocd-division/country:us/state:ca","officialIndices":[1]},
		{"name":"U.S. Representative","divisionId":"ocd-division/country:us/state:ca/cd:12","officialIndices":[2]}
	],
	"officials":[
		{"name":"Joseph R. Biden"},
		{"name":"Alex Padilla"},
		{"name":"Barbara Lee","party":"Democratic Party","phones":["(202) 225-2661"],"urls":["https://lee.house.gov/"],
		 "address":[{"line1":"2470 Rayburn House Office Building","city":"Washington","state":"DC","zip":"20515"}]}
	]
}`

const membersFixture = `{"members":[
	{"bioguideId":"D000000","name":"Dellums, Ronald","partyName":"Democratic","state":"California","district":12,"terms":{"item":[{"chamber":"House of Representatives","startYear":1971,"endYear":1998}]}},
	{"bioguideId":"L000551","name":"Lee, Barbara","partyName":"Democratic","state":"California","district":12,
	 "depiction":{"imageUrl":"https://www.congress.gov/img/member/l000551.jpg"},
	 "terms":{"item":[{"chamber":"House of Representatives","startYear":1998}]}}
]}`

const sponsoredFixture = `{"sponsoredLegislation":[
	{"congress":118,"number":"1234","type":"HR","title":"Housing Is a Human Right Act","introducedDate":"2023-03-01","latestAction":{"actionDate":"2023-03-01","text":"Referred to the Committee on Financial Services."}},
	{"congress":118,"amendmentNumber":"55","type":"HAMDT","introducedDate":"2023-07-13","latestAction":{"actionDate":"2023-07-13","text":"Amendment failed."}}
]}`

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rotunda/internal/congress"
)

func TestDisplayNumber(t *testing.T) {
	tests := []struct {
		billType, chamber, number, want string
	}{
		{"HR", "H", "815", "H.R. 815"},
		{"hr", "", "1", "H.R. 1"},
		{"S", "S", "4638", "S. 4638"},
		{"HRES", "H", "9", "H.Res. 9"},
		{"SRES", "S", "9", "S.Res. 9"},
		{"HJRES", "H", "7", "H.J.Res. 7"},
		{"SJRES", "S", "7", "S.J.Res. 7"},
		{"HCONRES", "H", "3", "H.Con.Res. 3"},
		{"SCONRES", "S", "3", "S.Con.Res. 3"},
		{"", "H", "12", "H.R. 12"},
		{"XYZ", "S", "12", "S. 12"},
		{"", "", "12", "S. 12"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayNumber(tt.billType, tt.chamber, tt.number), "%s/%s", tt.billType, tt.chamber)
	}
}

func TestActionText(t *testing.T) {
	text, date := ActionText(&congress.LatestAction{Text: "Became Public Law No: 117-108.", ActionDate: "2022-04-06"})
	assert.Equal(t, "Became Public Law No: 117-108", text)
	assert.Equal(t, "2022-04-06", date)

	text, _ = ActionText(&congress.LatestAction{Text: "Referred to the Committee on Finance"})
	assert.Equal(t, "Referred to the Committee on Finance", text)

	text, date = ActionText(nil)
	assert.Empty(t, text)
	assert.Empty(t, date)
}

func TestPartyColor(t *testing.T) {
	assert.Equal(t, "red", PartyColor("R"))
	assert.Equal(t, "blue", PartyColor("D"))
	assert.Equal(t, "gray", PartyColor("I"))
	assert.Equal(t, "gray", PartyColor(""))
}

func TestTextURL(t *testing.T) {
	assert.Empty(t, textURL(nil))
	assert.Empty(t, textURL([]congress.TextVersion{{}}))

	pdfSecond := []congress.TextVersion{{Formats: []congress.TextFormat{
		{Type: "Formatted Text", URL: "https://www.congress.gov/bill.htm"},
		{Type: "PDF", URL: "https://www.congress.gov/bill.pdf"},
	}}}
	assert.Equal(t, "https://www.congress.gov/bill.pdf", textURL(pdfSecond))

	noPDF := []congress.TextVersion{{Formats: []congress.TextFormat{
		{Type: "Formatted XML", URL: "https://www.congress.gov/bill.xml"},
	}}}
	assert.Equal(t, "https://www.congress.gov/bill.xml", textURL(noPDF))
}

func TestLawLabels(t *testing.T) {
	assert.Nil(t, LawLabels(nil))
	assert.Equal(t, []string{"Public Law 117-108"}, LawLabels([]congress.LawRef{{Type: "Public Law", Number: "117-108"}}))
	assert.Equal(t, []string{"Public Law 118-5", "Private Law 118-1"}, LawLabels([]congress.LawRef{
		{Type: "Public Law", Number: "118-5"},
		{Type: "Public Law", Number: "118-5"},
		{Type: "Private Law", Number: "118-1"},
	}))
}

package service

import (
	"strconv"
	"strings"

	"rotunda/internal/civic"
	"rotunda/internal/congress"
	"rotunda/internal/district/models"
	legislation "rotunda/internal/legislation/service"
)

const notAvailable = "N/A"

var amendmentPrefixes = map[string]string{
	"HAMDT":  "H.Amdt.",
	"SAMDT":  "S.Amdt.",
	"SUAMDT": "S.Up.Amdt.",
}

// Initials returns the first letter of each space-separated word of name.
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r := []rune(word)
		b.WriteRune(r[0])
	}
	return b.String()
}

// FirstWord returns the first word of an action text, or "N/A".
func FirstWord(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return notAvailable
	}
	return fields[0]
}

// partyCode maps a party name to the one-letter code used for colors.
func partyCode(partyName string) string {
	switch {
	case strings.HasPrefix(partyName, "Democrat"):
		return "D"
	case strings.HasPrefix(partyName, "Republican"):
		return "R"
	default:
		return ""
	}
}

// FormatAddress renders "line1, city, state zip".
func FormatAddress(a civic.Address) string {
	if a.Line1 == "" && a.City == "" && a.State == "" && a.Zip == "" {
		return ""
	}
	return strings.TrimSpace(a.Line1 + ", " + a.City + ", " + a.State + " " + a.Zip)
}

// ContactFrom extracts contact details from the civic official record.
func ContactFrom(o civic.Official) models.Contact {
	c := models.Contact{Address: notAvailable, Phone: notAvailable, Email: notAvailable}
	if len(o.Address) > 0 {
		if addr := FormatAddress(o.Address[0]); addr != "" {
			c.Address = addr
		}
	}
	if len(o.Phones) > 0 && o.Phones[0] != "" {
		c.Phone = o.Phones[0]
	}
	if len(o.Emails) > 0 && o.Emails[0] != "" {
		c.Email = o.Emails[0]
	}
	if len(o.URLs) > 0 {
		c.Website = o.URLs[0]
	}
	return c
}

// ProfileFrom builds the representative profile.
func ProfileFrom(m congress.Member, contact models.Contact) models.Profile {
	p := models.Profile{
		BioguideID: m.BioguideID,
		Name:       m.Name,
		Initials:   Initials(m.Name),
		State:      m.State,
		District:   m.District,
		PartyName:  m.PartyName,
		PartyColor: legislation.PartyColor(partyCode(m.PartyName)),
		ImageURL:   m.ImageURL(),
		Contact:    contact,
		Serving:    "Present",
	}
	if len(m.Terms.Item) > 0 && m.Terms.Item[0].StartYear > 0 {
		p.StartYear = m.Terms.Item[0].StartYear
		p.Serving = strconv.Itoa(p.StartYear) + "-Present"
	}
	return p
}

// LegislationItems converts sponsored or cosponsored entries.
func LegislationItems(items []congress.SponsoredItem) []models.LegislationItem {
	out := make([]models.LegislationItem, 0, len(items))
	for _, it := range items {
		text, date := legislation.ActionText(it.LatestAction)
		li := models.LegislationItem{
			Congress:         it.Congress,
			Type:             it.Type,
			Number:           it.Number,
			Title:            it.Title,
			IntroducedDate:   it.IntroducedDate,
			LastAction:       FirstWord(text),
			LatestAction:     text,
			LatestActionDate: date,
		}
		if it.AmendmentNumber != "" {
			li.Amendment = true
			li.Number = it.AmendmentNumber
			prefix, ok := amendmentPrefixes[strings.ToUpper(it.Type)]
			if !ok {
				prefix = "Amdt."
			}
			li.DisplayNumber = prefix + " " + it.AmendmentNumber
			if li.Title == "" {
				li.Title = "Amendment " + it.AmendmentNumber
			}
		} else {
			li.DisplayNumber = legislation.DisplayNumber(it.Type, "", it.Number)
		}
		out = append(out, li)
	}
	return out
}

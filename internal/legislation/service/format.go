package service

import (
	"strings"

	"rotunda/internal/congress"
	platformstrings "rotunda/pkg/platform/strings"
)

var displayPrefixes = map[string]string{
	"HR":      "H.R.",
	"S":       "S.",
	"HRES":    "H.Res.",
	"SRES":    "S.Res.",
	"HJRES":   "H.J.Res.",
	"SJRES":   "S.J.Res.",
	"HCONRES": "H.Con.Res.",
	"SCONRES": "S.Con.Res.",
}

// IsBillType reports whether billType (any case) is a known bill type.
func IsBillType(billType string) bool {
	_, ok := displayPrefixes[strings.ToUpper(billType)]
	return ok
}

// DisplayPrefix returns the citation prefix for a bill type, falling back to
// the origin chamber code (H is H.R., anything else S.).
func DisplayPrefix(billType, originChamberCode string) string {
	if p, ok := displayPrefixes[strings.ToUpper(billType)]; ok {
		return p
	}
	if strings.EqualFold(originChamberCode, "H") {
		return "H.R."
	}
	return "S."
}

// DisplayNumber formats a citation such as "H.R. 815".
func DisplayNumber(billType, originChamberCode, number string) string {
	return DisplayPrefix(billType, originChamberCode) + " " + number
}

// ActionText returns the latest action with its trailing period removed.
func ActionText(a *congress.LatestAction) (text, date string) {
	if a == nil {
		return "", ""
	}
	return strings.TrimSuffix(strings.TrimSpace(a.Text), "."), a.ActionDate
}

// PartyColor maps a party code to the color used for the sponsor name.
func PartyColor(party string) string {
	switch party {
	case "R":
		return "red"
	case "D":
		return "blue"
	default:
		return "gray"
	}
}

// LawLabels renders law references as "Public Law 117-108", dropping repeats.
func LawLabels(laws []congress.LawRef) []string {
	if len(laws) == 0 {
		return nil
	}
	out := make([]string, 0, len(laws))
	for _, l := range laws {
		out = append(out, l.Type+" "+l.Number)
	}
	return platformstrings.DedupeAndTrim(out)
}

// textURL picks the PDF rendition of the newest text version, else its first format.
func textURL(versions []congress.TextVersion) string {
	if len(versions) == 0 || len(versions[0].Formats) == 0 {
		return ""
	}
	for _, f := range versions[0].Formats {
		if strings.EqualFold(f.Type, "PDF") {
			return f.URL
		}
	}
	return versions[0].Formats[0].URL
}

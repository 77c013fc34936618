package models

import (
	"strings"

	dErrors "rotunda/pkg/domain-errors"
)

// Chamber filters feeds by originating chamber.
type Chamber string

const (
	ChamberAll    Chamber = "All"
	ChamberHouse  Chamber = "House"
	ChamberSenate Chamber = "Senate"
)

// ParseChamber accepts all, house or senate in any case. Empty means all.
func ParseChamber(s string) (Chamber, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return ChamberAll, nil
	case "house":
		return ChamberHouse, nil
	case "senate":
		return ChamberSenate, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "chamber must be one of All, House, Senate")
	}
}

// Matches reports whether a bill with originChamber passes the filter.
func (c Chamber) Matches(originChamber string) bool {
	if c == ChamberAll || c == "" {
		return true
	}
	return originChamber == string(c)
}

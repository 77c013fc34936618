package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact holds the representative's office contact details.
// Missing values are "N/A" except Website, which is empty.
type Contact struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website,omitempty"`
}

// Profile describes the sitting representative of a district.
type Profile struct {
	BioguideID string  `json:"bioguide_id"`
	Name       string  `json:"name"`
	Initials   string  `json:"initials"`
	State      string  `json:"state"`
	District   int     `json:"district"`
	StartYear  int     `json:"start_year,omitempty"`
	Serving    string  `json:"serving"`
	PartyName  string  `json:"party_name"`
	PartyColor string  `json:"party_color"`
	ImageURL   string  `json:"image_url,omitempty"`
	Contact    Contact `json:"contact"`
}

// LegislationItem is one sponsored or cosponsored bill or amendment.
type LegislationItem struct {
	Congress         int    `json:"congress"`
	Type             string `json:"type"`
	Number           string `json:"number"`
	DisplayNumber    string `json:"display_number"`
	Title            string `json:"title"`
	IntroducedDate   string `json:"introduced_date,omitempty"`
	LastAction       string `json:"last_action"`
	LatestAction     string `json:"latest_action,omitempty"`
	LatestActionDate string `json:"latest_action_date,omitempty"`
	Amendment        bool   `json:"amendment,omitempty"`
}

// LookupResult is the outcome of resolving an address to its representative.
type LookupResult struct {
	Address     string            `json:"address"`
	State       string            `json:"state"`
	District    int               `json:"district"`
	Profile     Profile           `json:"profile"`
	Sponsored   []LegislationItem `json:"sponsored"`
	Cosponsored []LegislationItem `json:"cosponsored"`
	Warnings    []string          `json:"warnings,omitempty"`
}

// HistoryEntry records a successful lookup.
type HistoryEntry struct {
	ID         uuid.UUID `json:"id"`
	Address    string    `json:"address"`
	State      string    `json:"state"`
	District   int       `json:"district"`
	BioguideID string    `json:"bioguide_id"`
	Name       string    `json:"name"`
	LookedUpAt time.Time `json:"looked_up_at"`
}

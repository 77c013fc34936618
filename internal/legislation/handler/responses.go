package handler

import "rotunda/internal/legislation/models"

// FeedResponse is a feed page plus the filters that produced it.
type FeedResponse struct {
	models.Page[models.FeedItem]
	Chamber  models.Chamber `json:"chamber"`
	Congress int            `json:"congress,omitempty"`
}

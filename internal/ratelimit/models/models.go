package models

import "time"

// EndpointClass categorizes endpoints for differentiated rate limiting.
type EndpointClass string

const (
	// ClassLookup: district lookups. Each one fans out to both upstream APIs.
	ClassLookup EndpointClass = "lookup"
	// ClassRead: feeds, bill detail and recent lookups.
	ClassRead EndpointClass = "read"
)

// IsValid checks if the endpoint class is one of the supported enum values.
func (c EndpointClass) IsValid() bool {
	switch c {
	case ClassLookup, ClassRead:
		return true
	}
	return false
}

// RateLimitResult represents the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
	// Degraded is set when the result came from the in-memory fallback.
	Degraded bool `json:"-"`
}

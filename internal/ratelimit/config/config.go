package config

import (
	"time"

	"rotunda/internal/ratelimit/models"
)

// Limit is a request budget over a sliding window.
type Limit struct {
	RequestsPerWindow int
	Window            time.Duration
}

// Config maps endpoint classes to their per-IP limits.
type Config struct {
	IPLimits map[models.EndpointClass]Limit
}

// DefaultConfig returns 30 lookups and 120 reads per minute per IP.
func DefaultConfig() *Config {
	return PerMinute(30, 120)
}

// PerMinute builds a Config from per-minute budgets for each class.
func PerMinute(lookup, read int) *Config {
	return &Config{
		IPLimits: map[models.EndpointClass]Limit{
			models.ClassLookup: {RequestsPerWindow: lookup, Window: time.Minute},
			models.ClassRead:   {RequestsPerWindow: read, Window: time.Minute},
		},
	}
}

// GetIPLimit returns the limit for class. ok is false when the class has no
// positive budget configured.
func (c *Config) GetIPLimit(class models.EndpointClass) (requests int, window time.Duration, ok bool) {
	if c == nil {
		return 0, 0, false
	}
	l, ok := c.IPLimits[class]
	if !ok || l.RequestsPerWindow <= 0 || l.Window <= 0 {
		return 0, 0, false
	}
	return l.RequestsPerWindow, l.Window, true
}

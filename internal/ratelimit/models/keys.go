package models

import "strings"

// KeyPrefix scopes a rate limit key to the kind of identifier it counts.
type KeyPrefix string

const KeyPrefixIP KeyPrefix = "ip"

// RateLimitKey identifies one sliding window.
type RateLimitKey struct {
	Prefix     KeyPrefix
	Identifier string
	Class      EndpointClass
}

// NewRateLimitKey builds a key with a sanitized identifier.
func NewRateLimitKey(prefix KeyPrefix, identifier string, class EndpointClass) RateLimitKey {
	return RateLimitKey{Prefix: prefix, Identifier: SanitizeKeySegment(identifier), Class: class}
}

// String renders "prefix:identifier:class".
func (k RateLimitKey) String() string {
	return string(k.Prefix) + ":" + k.Identifier + ":" + string(k.Class)
}

// SanitizeKeySegment escapes delimiter characters in rate limit key segments
// so an identifier containing ':' cannot address a neighbouring bucket.
// IPv6 addresses are the common case here.
//
// Example: "2001:db8::1" becomes "2001_db8__1".
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

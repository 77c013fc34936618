package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitKey(t *testing.T) {
	t.Run("ipv4", func(t *testing.T) {
		key := NewRateLimitKey(KeyPrefixIP, "203.0.113.7", ClassLookup)
		assert.Equal(t, "ip:203.0.113.7:lookup", key.String())
	})

	t.Run("ipv6 colons cannot split the key", func(t *testing.T) {
		key := NewRateLimitKey(KeyPrefixIP, "2001:db8::1", ClassRead)
		assert.Equal(t, "ip:2001_db8__1:read", key.String())
	})
}

func TestEndpointClassIsValid(t *testing.T) {
	assert.True(t, ClassLookup.IsValid())
	assert.True(t, ClassRead.IsValid())
	assert.False(t, EndpointClass("auth").IsValid())
}

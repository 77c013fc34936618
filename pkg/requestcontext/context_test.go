package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccessorsDefaultToZeroValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))
	assert.Empty(t, ClientIP(ctx))
	assert.Empty(t, UserAgent(ctx))
	assert.WithinDuration(t, time.Now(), Now(ctx), time.Second)
}

func TestAccessorsReturnInjectedValues(t *testing.T) {
	fixed := time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithClientMetadata(ctx, "203.0.113.9", "curl/8")
	ctx = WithTime(ctx, fixed)

	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, "203.0.113.9", ClientIP(ctx))
	assert.Equal(t, "curl/8", UserAgent(ctx))
	assert.Equal(t, fixed, Now(ctx))
}

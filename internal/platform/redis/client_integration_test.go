//go:build integration

package redis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rotunda/internal/platform/config"
	platformredis "rotunda/internal/platform/redis"
	"rotunda/pkg/testutil/containers"
)

func TestClientHealth(t *testing.T) {
	rc := containers.GetManager().GetRedis(t)
	ctx := context.Background()

	client, err := platformredis.New(ctx, config.RedisConfig{URL: rc.URL, PoolSize: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, client.Health(ctx))
}

func TestNewWithoutURLReturnsNil(t *testing.T) {
	client, err := platformredis.New(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := platformredis.New(context.Background(), config.RedisConfig{URL: "not a url"})
	assert.Error(t, err)
}

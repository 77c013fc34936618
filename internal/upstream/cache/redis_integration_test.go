//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rotunda/internal/upstream/cache"
	"rotunda/pkg/platform/sentinel"
	"rotunda/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.cache = cache.NewRedisCache(s.redis.Client)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushPrefix(context.Background(), "rotunda:upstream:"))
}

func (s *RedisCacheSuite) TestRoundTrip() {
	ctx := context.Background()
	key := "congress:/bill?format=json&limit=250"

	s.Require().NoError(s.cache.Set(ctx, key, []byte(`{"bills":[{"number":"1"}]}`), time.Minute))

	body, err := s.cache.Get(ctx, key)
	s.Require().NoError(err)
	s.JSONEq(`{"bills":[{"number":"1"}]}`, string(body))

	ttl, err := s.redis.Client.TTL(ctx, "rotunda:upstream:"+key).Result()
	s.Require().NoError(err)
	s.Greater(ttl, 50*time.Second)
}

func (s *RedisCacheSuite) TestMiss() {
	_, err := s.cache.Get(context.Background(), "absent")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisCacheSuite) TestExpiry() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, "short", []byte("x"), time.Second))

	s.Eventually(func() bool {
		_, err := s.cache.Get(ctx, "short")
		return err == sentinel.ErrNotFound
	}, 5*time.Second, 100*time.Millisecond)
}

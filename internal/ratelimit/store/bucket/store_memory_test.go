package bucket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"rotunda/internal/ratelimit/models"
)

const (
	testLimit  = 10
	testWindow = time.Minute
)

type InMemoryBucketStoreSuite struct {
	suite.Suite
	store *InMemoryBucketStore
	now   time.Time
	ctx   context.Context
}

func TestInMemoryBucketStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryBucketStoreSuite))
}

func (s *InMemoryBucketStoreSuite) SetupTest() {
	s.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.store = New(WithClock(func() time.Time { return s.now }))
	s.ctx = context.Background()
}

func (s *InMemoryBucketStoreSuite) TestAllow() {
	s.Run("first request allowed", func() {
		result, err := s.store.Allow(s.ctx, "ip:first:read", testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(testLimit, result.Limit)
		s.Equal(testLimit-1, result.Remaining)
		s.Equal(s.now.Add(testWindow), result.ResetAt)
	})

	s.Run("requests up to limit allowed", func() {
		var result *models.RateLimitResult
		var err error
		for range testLimit {
			result, err = s.store.Allow(s.ctx, "ip:limit:read", testLimit, testWindow)
		}
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(0, result.Remaining)
	})

	s.Run("request over limit denied with retry after", func() {
		for range testLimit {
			_, err := s.store.Allow(s.ctx, "ip:over:read", testLimit, testWindow)
			require.NoError(s.T(), err)
		}
		s.now = s.now.Add(20 * time.Second)
		result, err := s.store.Allow(s.ctx, "ip:over:read", testLimit, testWindow)
		s.Require().NoError(err)
		s.False(result.Allowed)
		s.Equal(testLimit, result.Limit)
		s.Equal(0, result.Remaining)
		s.Equal(40, result.RetryAfter)
	})

	s.Run("after window expires requests allowed", func() {
		for range testLimit {
			_, err := s.store.Allow(s.ctx, "ip:expire:read", testLimit, testWindow)
			s.Require().NoError(err)
		}
		s.now = s.now.Add(testWindow + time.Second)

		result, err := s.store.Allow(s.ctx, "ip:expire:read", testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(testLimit-1, result.Remaining)
	})
}

func (s *InMemoryBucketStoreSuite) TestAllowN() {
	s.Run("cost of 5 consumes 5 slots", func() {
		result, err := s.store.AllowN(s.ctx, "ip:five:read", 5, testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(5, result.Remaining)
	})

	s.Run("cost greater than remaining denied", func() {
		first, err := s.store.AllowN(s.ctx, "ip:deny:read", 7, testLimit, testWindow)
		s.Require().NoError(err)
		s.Require().True(first.Allowed)

		result, err := s.store.AllowN(s.ctx, "ip:deny:read", 4, testLimit, testWindow)
		s.Require().NoError(err)
		s.False(result.Allowed)

		count, err := s.store.GetCurrentCount(s.ctx, "ip:deny:read")
		s.Require().NoError(err)
		s.Equal(7, count, "denied requests are not recorded")
	})
}

func (s *InMemoryBucketStoreSuite) TestReset() {
	_, err := s.store.AllowN(s.ctx, "ip:reset:read", 5, testLimit, testWindow)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Reset(s.ctx, "ip:reset:read"))

	result, err := s.store.AllowN(s.ctx, "ip:reset:read", testLimit, testLimit, testWindow)
	s.Require().NoError(err)
	s.True(result.Allowed)
	s.Equal(0, result.Remaining)
}

func (s *InMemoryBucketStoreSuite) TestSweep() {
	_, err := s.store.Allow(s.ctx, "ip:old:read", testLimit, testWindow)
	s.Require().NoError(err)
	s.now = s.now.Add(testWindow / 2)
	_, err = s.store.Allow(s.ctx, "ip:fresh:read", testLimit, testWindow)
	s.Require().NoError(err)

	s.now = s.now.Add(testWindow/2 + time.Second)
	s.Equal(1, s.store.Sweep())

	count, err := s.store.GetCurrentCount(s.ctx, "ip:fresh:read")
	s.Require().NoError(err)
	s.Equal(1, count)
}

func TestInMemoryBucketStoreConcurrent(t *testing.T) {
	store := New()
	limit := 100
	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for range 200 {
		wg.Go(func() {
			result, err := store.Allow(context.Background(), "ip:concurrent:read", limit, testWindow)
			require.NoError(t, err)
			if result.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		})
	}

	wg.Wait()
	require.Equal(t, limit, allowed)
}

package bucket

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"rotunda/internal/ratelimit/models"
)

const redisKeyPrefix = "rotunda:ratelimit:"

// slidingWindowScript trims the window, then admits the request if there is
// room. Returns {allowed, count, oldest_ms}.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local cost = tonumber(ARGV[4])
local member = ARGV[5]

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local allowed = 0
if count + cost <= limit then
  for i = 1, cost do
    redis.call('ZADD', key, now, member .. ':' .. i)
  end
  count = count + cost
  allowed = 1
end
redis.call('PEXPIRE', key, window)

local oldest = now
local first = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
if first[2] then
  oldest = tonumber(first[2])
end
return {allowed, count, oldest}
`)

// RedisBucketStore keeps sliding windows in Redis sorted sets so every
// replica shares the same counts.
type RedisBucketStore struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewRedisBucketStore wraps an existing client.
func NewRedisBucketStore(client redis.Cmdable) *RedisBucketStore {
	return &RedisBucketStore{client: client, now: time.Now}
}

// Allow checks if a request is allowed and records it when it is.
func (s *RedisBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	return s.AllowN(ctx, key, 1, limit, window)
}

// AllowN is Allow for a request that consumes cost slots.
func (s *RedisBucketStore) AllowN(ctx context.Context, key string, cost int, limit int, window time.Duration) (*models.RateLimitResult, error) {
	now := s.now()
	res, err := slidingWindowScript.Run(ctx, s.client,
		[]string{redisKeyPrefix + key},
		now.UnixMilli(), window.Milliseconds(), limit, cost, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("run sliding window script: %w", err)
	}
	if len(res) != 3 {
		return nil, fmt.Errorf("unexpected sliding window reply of length %d", len(res))
	}

	resetAt := time.UnixMilli(res[2]).Add(window)
	if res[0] == 1 {
		return &models.RateLimitResult{
			Allowed:   true,
			Limit:     limit,
			Remaining: max(limit-int(res[1]), 0),
			ResetAt:   resetAt,
		}, nil
	}
	return &models.RateLimitResult{
		Allowed:    false,
		Limit:      limit,
		Remaining:  0,
		ResetAt:    resetAt,
		RetryAfter: retryAfterSeconds(resetAt.Sub(now)),
	}, nil
}

// Reset clears the window for a key.
func (s *RedisBucketStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("reset rate limit key: %w", err)
	}
	return nil
}

// GetCurrentCount returns the number of requests inside the window for a key.
func (s *RedisBucketStore) GetCurrentCount(ctx context.Context, key string) (int, error) {
	n, err := s.client.ZCard(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		return 0, fmt.Errorf("count rate limit key: %w", err)
	}
	return int(n), nil
}

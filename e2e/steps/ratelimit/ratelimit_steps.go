package ratelimit

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext is the part of the scenario context the rate limit steps need.
type TestContext interface {
	GET(path string, headers map[string]string) error
	SetRateLimits(lookup, read int)
	SetClientIP(ip string)
	StatusHistory() []int
	GetResponseHeader(name string) string
}

// RegisterSteps registers per-IP rate limiting steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &ratelimitSteps{tc: tc}

	ctx.Step(`^the rate limit is (\d+) lookups? and (\d+) reads? per minute$`, steps.setLimits)
	ctx.Step(`^I am calling from IP "([^"]*)"$`, steps.callingFrom)
	ctx.Step(`^I GET "([^"]*)" (\d+) times$`, steps.getNTimes)
	ctx.Step(`^the first (\d+) responses should have status (\d+)$`, steps.firstNStatus)
	ctx.Step(`^the response should ask me to retry within (\d+) seconds$`, steps.retryWithin)
}

type ratelimitSteps struct {
	tc TestContext
}

func (s *ratelimitSteps) setLimits(ctx context.Context, lookup, read int) error {
	s.tc.SetRateLimits(lookup, read)
	return nil
}

func (s *ratelimitSteps) callingFrom(ctx context.Context, ip string) error {
	s.tc.SetClientIP(ip)
	return nil
}

func (s *ratelimitSteps) getNTimes(ctx context.Context, path string, n int) error {
	for i := 0; i < n; i++ {
		if err := s.tc.GET(path, nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *ratelimitSteps) firstNStatus(ctx context.Context, n, status int) error {
	history := s.tc.StatusHistory()
	if len(history) < n {
		return fmt.Errorf("only %d responses recorded", len(history))
	}
	for i, got := range history[:n] {
		if got != status {
			return fmt.Errorf("response %d had status %d, want %d", i+1, got, status)
		}
	}
	return nil
}

func (s *ratelimitSteps) retryWithin(ctx context.Context, seconds int) error {
	raw := s.tc.GetResponseHeader("Retry-After")
	got, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("Retry-After %q is not a number", raw)
	}
	if got < 1 || got > seconds {
		return fmt.Errorf("Retry-After %d outside 1..%d", got, seconds)
	}
	return nil
}

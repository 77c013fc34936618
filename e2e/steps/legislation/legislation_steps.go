package legislation

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext is the part of the scenario context the feed steps need.
type TestContext interface {
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (any, error)
	UpstreamCalls() int64
}

// RegisterSteps registers bill feed and bill detail steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &legislationSteps{tc: tc}

	ctx.Step(`^I open bill (\d+) "([^"]*)" "([^"]*)"$`, steps.openBill)
	ctx.Step(`^the feed should list (\d+) items?$`, steps.feedShouldList)
	ctx.Step(`^every item should originate in the "([^"]*)"$`, steps.everyItemOriginatesIn)
	ctx.Step(`^the page should show items (\d+) to (\d+) of (\d+)$`, steps.pageShouldShow)
	ctx.Step(`^the upstream should have been called$`, steps.upstreamCalled)
}

type legislationSteps struct {
	tc TestContext
}

func (s *legislationSteps) openBill(ctx context.Context, congressNum int, billType, number string) error {
	return s.tc.GET(fmt.Sprintf("/api/bills/%d/%s/%s", congressNum, billType, number), nil)
}

func (s *legislationSteps) items() ([]any, error) {
	v, err := s.tc.GetResponseField("items")
	if err != nil {
		return nil, err
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("items is %T, not a list", v)
	}
	return items, nil
}

func (s *legislationSteps) feedShouldList(ctx context.Context, n int) error {
	items, err := s.items()
	if err != nil {
		return err
	}
	if len(items) != n {
		return fmt.Errorf("expected %d items, got %d", n, len(items))
	}
	return nil
}

func (s *legislationSteps) everyItemOriginatesIn(ctx context.Context, chamber string) error {
	items, err := s.items()
	if err != nil {
		return err
	}
	for i, it := range items {
		m, _ := it.(map[string]any)
		if got := fmt.Sprint(m["origin_chamber"]); got != chamber {
			return fmt.Errorf("item %d originates in %q, want %q", i, got, chamber)
		}
	}
	return nil
}

func (s *legislationSteps) pageShouldShow(ctx context.Context, from, to, total int) error {
	for field, want := range map[string]int{"from": from, "to": to, "total": total} {
		v, err := s.tc.GetResponseField(field)
		if err != nil {
			return err
		}
		got, ok := v.(float64)
		if !ok || int(got) != want {
			return fmt.Errorf("expected %s=%d, got %v", field, want, v)
		}
	}
	return nil
}

func (s *legislationSteps) upstreamCalled(ctx context.Context) error {
	if s.tc.UpstreamCalls() == 0 {
		return fmt.Errorf("no upstream requests were made")
	}
	return nil
}

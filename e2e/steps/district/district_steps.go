package district

import (
	"context"
	"fmt"
	"net/url"

	"github.com/cucumber/godog"
)

// TestContext is the part of the scenario context the lookup steps need.
type TestContext interface {
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (any, error)
	GetLastResponseBody() []byte
}

// RegisterSteps registers district lookup steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &districtSteps{tc: tc}

	ctx.Step(`^I look up the district for "([^"]*)"$`, steps.lookUp)
	ctx.Step(`^I list recent lookups$`, steps.listRecent)
	ctx.Step(`^the representative should be "([^"]*)"$`, steps.representativeShouldBe)
	ctx.Step(`^the lookup should warn "([^"]*)"$`, steps.lookupShouldWarn)
	ctx.Step(`^the recent lookups should include "([^"]*)"$`, steps.recentShouldInclude)
}

type districtSteps struct {
	tc TestContext
}

func (s *districtSteps) lookUp(ctx context.Context, address string) error {
	return s.tc.GET("/api/district?address="+url.QueryEscape(address), nil)
}

func (s *districtSteps) listRecent(ctx context.Context) error {
	return s.tc.GET("/api/district/recent", nil)
}

func (s *districtSteps) representativeShouldBe(ctx context.Context, name string) error {
	v, err := s.tc.GetResponseField("profile.name")
	if err != nil {
		return fmt.Errorf("%w: %s", err, s.tc.GetLastResponseBody())
	}
	if v != name {
		return fmt.Errorf("expected representative %q, got %v", name, v)
	}
	return nil
}

func (s *districtSteps) lookupShouldWarn(ctx context.Context, warning string) error {
	return s.listIncludes("warnings", "", warning)
}

func (s *districtSteps) recentShouldInclude(ctx context.Context, name string) error {
	return s.listIncludes("lookups", "name", name)
}

// listIncludes looks for want in the list at field, comparing key of each
// element, or the element itself when key is empty.
func (s *districtSteps) listIncludes(field, key, want string) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	list, _ := v.([]any)
	for _, el := range list {
		if key != "" {
			m, _ := el.(map[string]any)
			el = m[key]
		}
		if el == want {
			return nil
		}
	}
	return fmt.Errorf("%s does not include %q: %v", field, want, list)
}

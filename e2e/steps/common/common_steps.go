package common

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext is the part of the scenario context the shared steps need.
type TestContext interface {
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (any, error)
	ResponseContains(field string) bool
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	GetResponseHeader(name string) string
}

// RegisterSteps registers request and generic assertion steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^I GET "([^"]*)"$`, steps.get)

	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the error code should be "([^"]*)"$`, steps.errorCodeShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should contain "([^"]*)"$`, steps.fieldShouldContain)
	ctx.Step(`^the response should contain "([^"]*)"$`, steps.responseShouldContain)
	ctx.Step(`^the response should not contain "([^"]*)"$`, steps.responseShouldNotContain)
	ctx.Step(`^the response header "([^"]*)" should be "([^"]*)"$`, steps.headerShouldBe)
	ctx.Step(`^the response header "([^"]*)" should be present$`, steps.headerShouldBePresent)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) get(ctx context.Context, path string) error {
	return s.tc.GET(path, nil)
}

func (s *commonSteps) statusShouldBe(ctx context.Context, want int) error {
	if got := s.tc.GetLastResponseStatus(); got != want {
		return fmt.Errorf("expected status %d, got %d: %s", want, got, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *commonSteps) errorCodeShouldBe(ctx context.Context, code string) error {
	return s.fieldShouldBe(ctx, "error", code)
}

func (s *commonSteps) fieldShouldBe(ctx context.Context, field, want string) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(v); got != want {
		return fmt.Errorf("expected %s to be %q, got %q", field, want, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldContain(ctx context.Context, field, want string) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(v); !strings.Contains(got, want) {
		return fmt.Errorf("expected %s to contain %q, got %q", field, want, got)
	}
	return nil
}

func (s *commonSteps) responseShouldContain(ctx context.Context, field string) error {
	if !s.tc.ResponseContains(field) {
		return fmt.Errorf("response has no field %q: %s", field, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *commonSteps) responseShouldNotContain(ctx context.Context, field string) error {
	if s.tc.ResponseContains(field) {
		return fmt.Errorf("response unexpectedly has field %q", field)
	}
	return nil
}

func (s *commonSteps) headerShouldBe(ctx context.Context, name, want string) error {
	if got := s.tc.GetResponseHeader(name); got != want {
		return fmt.Errorf("expected header %s to be %q, got %q", name, want, got)
	}
	return nil
}

func (s *commonSteps) headerShouldBePresent(ctx context.Context, name string) error {
	if s.tc.GetResponseHeader(name) == "" {
		return fmt.Errorf("expected header %s to be set", name)
	}
	return nil
}

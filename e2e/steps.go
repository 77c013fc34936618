package e2e

import (
	"github.com/cucumber/godog"

	"rotunda/e2e/steps/common"
	"rotunda/e2e/steps/district"
	"rotunda/e2e/steps/legislation"
	"rotunda/e2e/steps/ratelimit"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	legislation.RegisterSteps(ctx, tc)
	district.RegisterSteps(ctx, tc)
	ratelimit.RegisterSteps(ctx, tc)
}

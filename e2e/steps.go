package e2e

import (
	"github.com/cucumber/godog"

	"almoner/e2e/steps/common"
	"almoner/e2e/steps/ledger"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (background, generic requests, assertions)
	common.RegisterSteps(ctx, tc)

	// Register ledger-specific steps (centers, donations, transfers, withdrawals)
	ledger.RegisterSteps(ctx, tc)
}

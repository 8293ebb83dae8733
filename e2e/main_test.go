package e2e

import (
	"os"
	"testing"

	"github.com/cucumber/godog"
)

// TestFeatures runs the Gherkin suite against a live server. Start one with
// `go run ./cmd/server` (memory storage is enough) and point
// ALMONER_E2E_BASE_URL at it.
func TestFeatures(t *testing.T) {
	if os.Getenv("ALMONER_E2E_BASE_URL") == "" {
		t.Skip("set ALMONER_E2E_BASE_URL to run the end-to-end features")
	}

	suite := godog.TestSuite{
		Name: "almoner",
		ScenarioInitializer: func(ctx *godog.ScenarioContext) {
			// A fresh context per scenario: saved centers and identities do
			// not leak between scenarios.
			RegisterSteps(ctx, NewTestContext())
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("end-to-end feature failures")
	}
}

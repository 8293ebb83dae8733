package common

import (
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (interface{}, error)
	ResponseContains(field string) bool
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// RegisterSteps registers background and generic assertion step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	// Background
	ctx.Step(`^the ledger API is running$`, steps.apiIsRunning)

	// Response assertions
	ctx.Step(`^the response status should be (\d+)$`, steps.responseStatusShouldBe)
	ctx.Step(`^the response should contain field "([^"]*)"$`, steps.responseShouldContainField)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.responseFieldShouldBeString)
	ctx.Step(`^the response field "([^"]*)" should be (\d+)$`, steps.responseFieldShouldBeNumber)
	ctx.Step(`^the response error code should be "([^"]*)"$`, steps.responseErrorCodeShouldBe)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) apiIsRunning() error {
	if err := s.tc.GET("/healthz", nil); err != nil {
		return err
	}
	if s.tc.GetLastResponseStatus() != 200 {
		return fmt.Errorf("health check returned %d", s.tc.GetLastResponseStatus())
	}
	return nil
}

func (s *commonSteps) responseStatusShouldBe(expected int) error {
	if got := s.tc.GetLastResponseStatus(); got != expected {
		return fmt.Errorf("expected status %d, got %d: %s",
			expected, got, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *commonSteps) responseShouldContainField(field string) error {
	if !s.tc.ResponseContains(field) {
		return fmt.Errorf("response missing field %q: %s", field, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *commonSteps) responseFieldShouldBeString(field, expected string) error {
	value, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	got, ok := value.(string)
	if !ok {
		return fmt.Errorf("field %q is %T, not a string", field, value)
	}
	if got != expected {
		return fmt.Errorf("field %q: expected %q, got %q", field, expected, got)
	}
	return nil
}

func (s *commonSteps) responseFieldShouldBeNumber(field string, expected int) error {
	value, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	// encoding/json decodes numbers into float64
	got, ok := value.(float64)
	if !ok {
		return fmt.Errorf("field %q is %T, not a number", field, value)
	}
	if int(got) != expected {
		return fmt.Errorf("field %q: expected %d, got %v", field, expected, got)
	}
	return nil
}

func (s *commonSteps) responseErrorCodeShouldBe(expected string) error {
	return s.responseFieldShouldBeString("error", expected)
}

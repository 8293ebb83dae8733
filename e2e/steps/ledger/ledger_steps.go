package ledger

import (
	"fmt"

	"github.com/cucumber/godog"
)

// headerCapabilityToken authorizes transfers and withdrawals. The value is
// the token disclosed once when the center was created.
const headerCapabilityToken = "X-Capability-Token"

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	POSTWithHeaders(path string, body interface{}, headers map[string]string) error
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (interface{}, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	ActAsDonor(donor string) error
	ClearIdentity()
	SaveCenter(alias, id, token string)
	CenterID(alias string) (string, error)
	CapabilityToken(alias string) (string, error)
}

// RegisterSteps registers ledger-specific step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &ledgerSteps{tc: tc}

	// Setup steps
	ctx.Step(`^a center named "([^"]*)"$`, steps.centerNamed)
	ctx.Step(`^I am acting as donor "([^"]*)"$`, steps.actingAsDonor)
	ctx.Step(`^I am an anonymous caller$`, steps.anonymousCaller)

	// Money movement steps
	ctx.Step(`^I donate (\d+) to "([^"]*)"$`, steps.donate)
	ctx.Step(`^I transfer (\d+) from "([^"]*)" to "([^"]*)" using the capability of "([^"]*)"$`, steps.transferWithCapability)
	ctx.Step(`^I transfer (\d+) from "([^"]*)" to "([^"]*)" without a capability$`, steps.transferWithoutCapability)
	ctx.Step(`^I withdraw (\d+) from "([^"]*)" for "([^"]*)" using the capability of "([^"]*)"$`, steps.withdrawWithCapability)
	ctx.Step(`^I withdraw (\d+) from "([^"]*)" for "([^"]*)" without a capability$`, steps.withdrawWithoutCapability)

	// Read steps
	ctx.Step(`^I fetch the center "([^"]*)"$`, steps.fetchCenter)
	ctx.Step(`^I list the credits of center "([^"]*)"$`, steps.listCenterCredits)
	ctx.Step(`^I list the credits of donor "([^"]*)"$`, steps.listDonorCredits)

	// Ledger assertions
	ctx.Step(`^the center "([^"]*)" should have balance (\d+)$`, steps.centerShouldHaveBalance)
	ctx.Step(`^the center "([^"]*)" should have credit supply (\d+)$`, steps.centerShouldHaveCreditSupply)
}

type ledgerSteps struct {
	tc TestContext
}

func (s *ledgerSteps) centerNamed(name string) error {
	if err := s.tc.POST("/v1/centers", map[string]interface{}{"name": name}); err != nil {
		return err
	}
	if s.tc.GetLastResponseStatus() != 201 {
		return fmt.Errorf("create center returned %d: %s",
			s.tc.GetLastResponseStatus(), s.tc.GetLastResponseBody())
	}

	centerID, err := s.responseString("center.id")
	if err != nil {
		return err
	}
	capabilityID, err := s.responseString("capability.id")
	if err != nil {
		return err
	}
	secret, err := s.responseString("capability.secret")
	if err != nil {
		return err
	}

	s.tc.SaveCenter(name, centerID, capabilityID+"."+secret)
	return nil
}

func (s *ledgerSteps) actingAsDonor(donor string) error {
	return s.tc.ActAsDonor(donor)
}

func (s *ledgerSteps) anonymousCaller() error {
	s.tc.ClearIdentity()
	return nil
}

func (s *ledgerSteps) donate(amount int, alias string) error {
	centerID, err := s.tc.CenterID(alias)
	if err != nil {
		return err
	}
	body := map[string]interface{}{"amount": amount}
	return s.tc.POST(fmt.Sprintf("/v1/centers/%s/donations", centerID), body)
}

func (s *ledgerSteps) transferWithCapability(amount int, fromAlias, toAlias, capabilityAlias string) error {
	token, err := s.tc.CapabilityToken(capabilityAlias)
	if err != nil {
		return err
	}
	return s.transfer(amount, fromAlias, toAlias, map[string]string{headerCapabilityToken: token})
}

func (s *ledgerSteps) transferWithoutCapability(amount int, fromAlias, toAlias string) error {
	return s.transfer(amount, fromAlias, toAlias, nil)
}

func (s *ledgerSteps) transfer(amount int, fromAlias, toAlias string, headers map[string]string) error {
	fromID, err := s.tc.CenterID(fromAlias)
	if err != nil {
		return err
	}
	toID, err := s.tc.CenterID(toAlias)
	if err != nil {
		return err
	}
	body := map[string]interface{}{
		"from_center_id": fromID,
		"to_center_id":   toID,
		"amount":         amount,
	}
	return s.tc.POSTWithHeaders("/v1/transfers", body, headers)
}

func (s *ledgerSteps) withdrawWithCapability(amount int, alias, recipient, capabilityAlias string) error {
	token, err := s.tc.CapabilityToken(capabilityAlias)
	if err != nil {
		return err
	}
	return s.withdraw(amount, alias, recipient, map[string]string{headerCapabilityToken: token})
}

func (s *ledgerSteps) withdrawWithoutCapability(amount int, alias, recipient string) error {
	return s.withdraw(amount, alias, recipient, nil)
}

func (s *ledgerSteps) withdraw(amount int, alias, recipient string, headers map[string]string) error {
	centerID, err := s.tc.CenterID(alias)
	if err != nil {
		return err
	}
	body := map[string]interface{}{
		"center_id": centerID,
		"amount":    amount,
		"recipient": recipient,
	}
	return s.tc.POSTWithHeaders("/v1/withdrawals", body, headers)
}

func (s *ledgerSteps) fetchCenter(alias string) error {
	centerID, err := s.tc.CenterID(alias)
	if err != nil {
		return err
	}
	return s.tc.GET(fmt.Sprintf("/v1/centers/%s", centerID), nil)
}

func (s *ledgerSteps) listCenterCredits(alias string) error {
	centerID, err := s.tc.CenterID(alias)
	if err != nil {
		return err
	}
	return s.tc.GET(fmt.Sprintf("/v1/centers/%s/credits", centerID), nil)
}

func (s *ledgerSteps) listDonorCredits(donor string) error {
	return s.tc.GET(fmt.Sprintf("/v1/donors/%s/credits", donor), nil)
}

func (s *ledgerSteps) centerShouldHaveBalance(alias string, expected int) error {
	return s.fetchAndCompare(alias, "balance", expected)
}

func (s *ledgerSteps) centerShouldHaveCreditSupply(alias string, expected int) error {
	return s.fetchAndCompare(alias, "credit_supply", expected)
}

func (s *ledgerSteps) fetchAndCompare(alias, field string, expected int) error {
	if err := s.fetchCenter(alias); err != nil {
		return err
	}
	if s.tc.GetLastResponseStatus() != 200 {
		return fmt.Errorf("fetch center %q returned %d: %s",
			alias, s.tc.GetLastResponseStatus(), s.tc.GetLastResponseBody())
	}
	value, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	got, ok := value.(float64)
	if !ok {
		return fmt.Errorf("field %q is %T, not a number", field, value)
	}
	if int(got) != expected {
		return fmt.Errorf("center %q: expected %s %d, got %v", alias, field, expected, got)
	}
	return nil
}

func (s *ledgerSteps) responseString(field string) (string, error) {
	value, err := s.tc.GetResponseField(field)
	if err != nil {
		return "", err
	}
	str, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("field %q is %T, not a string", field, value)
	}
	return str, nil
}

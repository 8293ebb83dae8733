package models

import (
	"time"

	id "almoner/pkg/domain"
	dErrors "almoner/pkg/domain-errors"
)

// Credit is the contribution token issued for one donation.
//
// Invariants:
//   - Quantity equals the donation amount that minted it, always
//   - Credits are permanent: nothing burns, transfers, or revalues them
//   - CenterID is the center that received the donation; later fund
//     transfers never reassign it
//
// Credits confer no spending power. They are proof of contribution, nothing
// more, which is why issuance needs no capability.
type Credit struct {
	ID       id.CreditID  `json:"id"`
	CenterID id.CenterID  `json:"center_id"`
	Donor    id.Principal `json:"donor"`
	Quantity id.Amount    `json:"quantity"`
	IssuedAt time.Time    `json:"issued_at"`
}

// IssueCredit mints the contribution token for one donation.
func IssueCredit(creditID id.CreditID, centerID id.CenterID, donor id.Principal, quantity id.Amount, now time.Time) (*Credit, error) {
	if centerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "credit requires a center")
	}
	if quantity.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidAmount, "credit quantity must be positive")
	}
	return &Credit{
		ID:       creditID,
		CenterID: centerID,
		Donor:    donor.OrAnonymous(),
		Quantity: quantity,
		IssuedAt: now,
	}, nil
}

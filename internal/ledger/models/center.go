package models

import (
	"strings"
	"time"

	id "almoner/pkg/domain"
	dErrors "almoner/pkg/domain-errors"
)

// Center is the aggregate root for one pooled fund.
//
// Invariants:
//   - Balance never goes negative: every debit checks available funds first
//   - TotalContributions only grows, and only by donation amounts; transfers
//     in do not touch it
//   - CreditSupply only grows, one issuance per donation
//   - Amounts are smallest-currency-unit integers; zero is never a valid
//     operation amount
//   - CreatedAt is immutable after construction
//
// # Authorization Boundary
//
// Balance-reducing operations (transfer out, withdrawal) require the caller
// to present the capability bound to this center. That check lives at the
// service layer, before any Can*/Apply* pair runs; the model never sees
// capabilities. Donations and reads are deliberately open to any principal.
type Center struct {
	ID                 id.CenterID `json:"id"`
	Name               string      `json:"name"`
	Balance            id.Amount   `json:"balance"`
	TotalContributions id.Amount   `json:"total_contributions"`
	CreditSupply       id.Amount   `json:"credit_supply"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

func NewCenter(centerID id.CenterID, name string, now time.Time) (*Center, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "center name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "center name must be 128 characters or less")
	}
	return &Center{
		ID:        centerID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CanReceive checks whether a donation of amount can enter the pool.
// Use with ApplyDonation in Execute callbacks.
func (c *Center) CanReceive(amount id.Amount) error {
	if amount.IsZero() {
		return dErrors.New(dErrors.CodeInvalidAmount, "donation amount must be positive")
	}
	if _, ok := c.Balance.Add(amount); !ok {
		return dErrors.New(dErrors.CodeInvariantViolation, "donation would overflow center balance")
	}
	if _, ok := c.TotalContributions.Add(amount); !ok {
		return dErrors.New(dErrors.CodeInvariantViolation, "donation would overflow total contributions")
	}
	return nil
}

// ApplyDonation adds amount to the pool and the lifetime contribution total.
// Call CanReceive first.
func (c *Center) ApplyDonation(amount id.Amount, now time.Time) {
	c.Balance, _ = c.Balance.Add(amount)
	c.TotalContributions, _ = c.TotalContributions.Add(amount)
	c.UpdatedAt = now
}

// CanMint checks whether a credit issuance of quantity can be recorded
// against the supply. Use with ApplyMint in Execute callbacks.
func (c *Center) CanMint(quantity id.Amount) error {
	if quantity.IsZero() {
		return dErrors.New(dErrors.CodeInvalidAmount, "credit quantity must be positive")
	}
	if _, ok := c.CreditSupply.Add(quantity); !ok {
		return dErrors.New(dErrors.CodeInvariantViolation, "issuance would overflow credit supply")
	}
	return nil
}

// ApplyMint adds quantity to the issued credit supply.
// Call CanMint first.
func (c *Center) ApplyMint(quantity id.Amount, now time.Time) {
	c.CreditSupply, _ = c.CreditSupply.Add(quantity)
	c.UpdatedAt = now
}

// CanDebit checks whether amount can leave the pool.
// Use with ApplyDebit in Execute callbacks.
func (c *Center) CanDebit(amount id.Amount) error {
	if amount.IsZero() {
		return dErrors.New(dErrors.CodeInvalidAmount, "debit amount must be positive")
	}
	if _, ok := c.Balance.Sub(amount); !ok {
		return dErrors.New(dErrors.CodeInsufficientFunds, "center balance is insufficient")
	}
	return nil
}

// ApplyDebit removes amount from the pool.
// Call CanDebit first.
func (c *Center) ApplyDebit(amount id.Amount, now time.Time) {
	c.Balance, _ = c.Balance.Sub(amount)
	c.UpdatedAt = now
}

// CanDeposit checks whether transferred funds of amount can enter the pool.
// Unlike donations, deposits do not count toward TotalContributions.
// Use with ApplyDeposit in Execute callbacks.
func (c *Center) CanDeposit(amount id.Amount) error {
	if amount.IsZero() {
		return dErrors.New(dErrors.CodeInvalidAmount, "deposit amount must be positive")
	}
	if _, ok := c.Balance.Add(amount); !ok {
		return dErrors.New(dErrors.CodeInvariantViolation, "deposit would overflow center balance")
	}
	return nil
}

// ApplyDeposit adds transferred funds to the pool.
// Call CanDeposit first.
func (c *Center) ApplyDeposit(amount id.Amount, now time.Time) {
	c.Balance, _ = c.Balance.Add(amount)
	c.UpdatedAt = now
}

package models

import (
	"time"

	id "almoner/pkg/domain"
	dErrors "almoner/pkg/domain-errors"
)

// Capability is the bearer credential that authorizes balance-reducing
// operations on exactly one center.
//
// Invariants:
//   - CenterID is bound at mint time and never changes
//   - SecretHash never serializes; the plaintext secret exists only in the
//     mint response
//   - Authorization is identity: a capability authorizes its own center and
//     nothing else, with no notion of roles or scopes
//
// There is no revocation, delegation, or expiry. Losing the capability
// permanently locks the center's funds against debits; the pool can still
// receive donations and be read.
type Capability struct {
	ID         id.CapabilityID `json:"id"`
	CenterID   id.CenterID     `json:"center_id"`
	SecretHash string          `json:"-"`
	CreatedAt  time.Time       `json:"created_at"`
}

// MintCapability binds a new capability to the given center.
func MintCapability(capabilityID id.CapabilityID, centerID id.CenterID, secretHash string, now time.Time) (*Capability, error) {
	if centerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "capability requires a center")
	}
	if secretHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "capability requires a secret hash")
	}
	return &Capability{
		ID:         capabilityID,
		CenterID:   centerID,
		SecretHash: secretHash,
		CreatedAt:  now,
	}, nil
}

// Authorizes reports whether this capability permits debits from the given
// center. A nil or unbound capability authorizes nothing.
func (c *Capability) Authorizes(centerID id.CenterID) bool {
	if c == nil || c.CenterID.IsNil() || centerID.IsNil() {
		return false
	}
	return c.CenterID == centerID
}

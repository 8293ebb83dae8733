// Package audit defines the immutable records emitted for every completed
// ledger mutation and the fail-closed emitter that persists them.
//
// Records are write-once: stores append them with a monotonically increasing
// sequence and nothing in the system ever updates or deletes one. The ledger
// never reads records back to make decisions.
package audit

import (
	"fmt"
	"time"

	id "almoner/pkg/domain"
)

// Kind identifies which ledger mutation a record describes.
type Kind string

const (
	// KindDonationReceived records funds entering a center's pool.
	KindDonationReceived Kind = "donation_received"
	// KindTokensMinted records a contribution credit issued for a donation.
	KindTokensMinted Kind = "tokens_minted"
	// KindFundsTransferred records funds moving between two centers.
	KindFundsTransferred Kind = "funds_transferred"
	// KindFundsWithdrawn records funds leaving the ledger to an external
	// recipient.
	KindFundsWithdrawn Kind = "funds_withdrawn"
)

// Record is one immutable audit entry. A single flat shape carries all four
// kinds; Validate enforces which fields each kind requires.
//
// Epoch is the logical timestamp supplied by the operation's execution
// context. Within one operation, emission order is deterministic and the
// store sequence reflects it; across operations, ordering is whatever the
// epoch source provides.
type Record struct {
	ID   id.RecordID `json:"id"`
	Kind Kind        `json:"kind"`

	// Seq is assigned by the store on append and is zero until persisted.
	Seq   uint64 `json:"seq,omitempty"`
	Epoch uint64 `json:"epoch"`

	// Actor is the principal whose call produced the record. For donations
	// and mints this is the donor.
	Actor id.Principal `json:"actor"`
	// Recipient is the external destination of withdrawn funds. Only set for
	// funds_withdrawn.
	Recipient string `json:"recipient,omitempty"`

	Amount   id.Amount   `json:"amount"`
	CenterID id.CenterID `json:"center_id"`
	// ToCenterID is the destination center. Only set for funds_transferred.
	ToCenterID id.CenterID `json:"to_center_id,omitempty"`
	// CreditID references the issued credit. Only set for tokens_minted.
	CreditID id.CreditID `json:"credit_id,omitempty"`

	RequestID  string    `json:"request_id,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Validate checks the record carries everything its kind requires.
// The emitter refuses to persist invalid records, which fails the business
// operation that produced them.
func (r Record) Validate() error {
	if r.Amount.IsZero() {
		return fmt.Errorf("audit record requires a positive amount")
	}
	if r.CenterID.IsNil() {
		return fmt.Errorf("audit record requires a center id")
	}
	if r.Actor.IsEmpty() {
		return fmt.Errorf("audit record requires an actor")
	}

	switch r.Kind {
	case KindDonationReceived:
		// Donor identity is the actor; nothing further required.
	case KindTokensMinted:
		if r.CreditID.IsNil() {
			return fmt.Errorf("tokens_minted record requires a credit id")
		}
	case KindFundsTransferred:
		if r.ToCenterID.IsNil() {
			return fmt.Errorf("funds_transferred record requires a destination center id")
		}
		if r.ToCenterID == r.CenterID {
			return fmt.Errorf("funds_transferred record requires distinct centers")
		}
	case KindFundsWithdrawn:
		if r.Recipient == "" {
			return fmt.Errorf("funds_withdrawn record requires a recipient")
		}
	default:
		return fmt.Errorf("unknown audit record kind %q", r.Kind)
	}
	return nil
}

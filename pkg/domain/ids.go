// Package domain holds the typed identifiers and value types shared across
// the ledger. Wrapping uuid.UUID in distinct types keeps a CapabilityID from
// ever standing in for a CenterID at compile time; the capability check in
// particular must compare center identities, not raw UUID strings.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "almoner/pkg/domain-errors"
)

type (
	// CenterID identifies a community center's fund record.
	CenterID uuid.UUID
	// CapabilityID identifies an authorization capability.
	CapabilityID uuid.UUID
	// CreditID identifies a contribution credit issuance.
	CreditID uuid.UUID
	// RecordID identifies an audit record.
	RecordID uuid.UUID
)

func (id CenterID) String() string     { return uuid.UUID(id).String() }
func (id CapabilityID) String() string { return uuid.UUID(id).String() }
func (id CreditID) String() string     { return uuid.UUID(id).String() }
func (id RecordID) String() string     { return uuid.UUID(id).String() }

func (id CenterID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id CapabilityID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id CreditID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id RecordID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

func (id CenterID) MarshalText() ([]byte, error)     { return marshalID(uuid.UUID(id)) }
func (id CapabilityID) MarshalText() ([]byte, error) { return marshalID(uuid.UUID(id)) }
func (id CreditID) MarshalText() ([]byte, error)     { return marshalID(uuid.UUID(id)) }
func (id RecordID) MarshalText() ([]byte, error)     { return marshalID(uuid.UUID(id)) }

func (id *CenterID) UnmarshalText(text []byte) error {
	parsed, err := ParseCenterID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *CapabilityID) UnmarshalText(text []byte) error {
	parsed, err := ParseCapabilityID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *CreditID) UnmarshalText(text []byte) error {
	parsed, err := ParseCreditID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *RecordID) UnmarshalText(text []byte) error {
	parsed, err := ParseRecordID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseCenterID validates and parses a center ID from external input.
func ParseCenterID(raw string) (CenterID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return CenterID{}, err
	}
	return CenterID(parsed), nil
}

// ParseCapabilityID validates and parses a capability ID from external input.
func ParseCapabilityID(raw string) (CapabilityID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return CapabilityID{}, err
	}
	return CapabilityID(parsed), nil
}

// ParseCreditID validates and parses a credit ID from external input.
func ParseCreditID(raw string) (CreditID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return CreditID{}, err
	}
	return CreditID(parsed), nil
}

// ParseRecordID validates and parses an audit record ID from external input.
func ParseRecordID(raw string) (RecordID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return RecordID{}, err
	}
	return RecordID(parsed), nil
}

// parseUUID enforces the trust-boundary invariant shared by every ID type:
// IDs must be valid, non-empty, non-nil UUIDs.
func parseUUID(raw string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return parsed, nil
}

func marshalID(u uuid.UUID) ([]byte, error) {
	return []byte(u.String()), nil
}

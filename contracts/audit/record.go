// Package audit is the wire contract for the ledger's audit stream.
//
// The ledger publishes one JSON-encoded Record per committed mutation to
// Topic. Consumers outside this repository import only this module; it has
// no dependencies and changes only additively. Version the topic, not the
// struct: breaking changes mean a new topic and a new SchemaVersion.
package audit

import (
	"encoding/json"
	"fmt"
	"time"
)

// Topic is the Kafka topic carrying ledger audit records.
const Topic = "almoner.audit.v1.records"

// SchemaVersion identifies the payload layout for consumers that archive
// records long-term.
const SchemaVersion = 1

// Record kinds mirrored from the ledger core.
const (
	KindDonationReceived = "donation_received"
	KindTokensMinted     = "tokens_minted"
	KindFundsTransferred = "funds_transferred"
	KindFundsWithdrawn   = "funds_withdrawn"
)

// Record is the published form of one audit record. IDs are UUID strings;
// amounts are smallest-currency-unit integers; RecordedAt is RFC 3339.
type Record struct {
	SchemaVersion int    `json:"schema_version"`
	ID            string `json:"id"`
	Kind          string `json:"kind"`
	Seq           uint64 `json:"seq"`
	Epoch         uint64 `json:"epoch"`

	Actor     string `json:"actor"`
	Recipient string `json:"recipient,omitempty"`

	Amount     uint64    `json:"amount"`
	CenterID   string    `json:"center_id"`
	ToCenterID string    `json:"to_center_id,omitempty"`
	CreditID   string    `json:"credit_id,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Marshal encodes the record for publishing, stamping the schema version.
func (r Record) Marshal() ([]byte, error) {
	r.SchemaVersion = SchemaVersion
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal audit record: %w", err)
	}
	return payload, nil
}

// Unmarshal decodes a published record.
func Unmarshal(payload []byte) (Record, error) {
	var record Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return Record{}, fmt.Errorf("unmarshal audit record: %w", err)
	}
	if record.ID == "" || record.Kind == "" {
		return Record{}, fmt.Errorf("audit record payload missing id or kind")
	}
	return record, nil
}

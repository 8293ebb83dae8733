// Package memory provides the in-memory audit store used by tests and
// development mode. It mirrors the Postgres store's contract: append-only,
// store-assigned sequence, and an outbox flag per record for relay publishing.
package memory

import (
	"context"
	"sync"

	id "almoner/pkg/domain"
	audit "almoner/pkg/platform/audit"
	"almoner/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu        sync.RWMutex
	records   []audit.Record
	published map[id.RecordID]bool
	nextSeq   uint64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{published: make(map[id.RecordID]bool), nextSeq: 1}
}

// Clear drops all records. Test helper.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.published = make(map[id.RecordID]bool)
	s.nextSeq = 1
}

// Append assigns the next sequence number and stores the record.
func (s *InMemoryStore) Append(_ context.Context, record audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.ID.IsNil() {
		return sentinel.ErrInvalidState
	}
	record.Seq = s.nextSeq
	s.nextSeq++
	s.records = append(s.records, record)
	return nil
}

// ListByCenter returns records touching the given center as source or
// destination, in sequence order.
func (s *InMemoryStore) ListByCenter(_ context.Context, centerID id.CenterID) ([]audit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []audit.Record
	for _, r := range s.records {
		if r.CenterID == centerID || r.ToCenterID == centerID {
			out = append(out, r)
		}
	}
	return out, nil
}

// ListAll returns every record in sequence order.
func (s *InMemoryStore) ListAll(_ context.Context) ([]audit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Record{}, s.records...), nil
}

// ListUnpublished returns up to limit records not yet handed to the relay,
// oldest first.
func (s *InMemoryStore) ListUnpublished(_ context.Context, limit int) ([]audit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []audit.Record
	for _, r := range s.records {
		if s.published[r.ID] {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// MarkPublished flags records as delivered to the external stream.
func (s *InMemoryStore) MarkPublished(_ context.Context, ids []id.RecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, recordID := range ids {
		s.published[recordID] = true
	}
	return nil
}

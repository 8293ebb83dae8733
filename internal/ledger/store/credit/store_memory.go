// Package credit persists contribution credits. Credits are write-once:
// minted on donation, never merged, burned, or reassigned.
package credit

import (
	"context"
	"fmt"
	"sync"

	"almoner/internal/ledger/models"
	id "almoner/pkg/domain"
	"almoner/pkg/platform/sentinel"
)

// InMemory stores credits in issuance order for tests and development mode.
type InMemory struct {
	mu      sync.RWMutex
	credits []*models.Credit
	byID    map[id.CreditID]*models.Credit
}

// NewInMemory constructs an empty in-memory credit store.
func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[id.CreditID]*models.Credit)}
}

func (s *InMemory) Create(_ context.Context, credit *models.Credit) error {
	if credit == nil || credit.ID.IsNil() {
		return fmt.Errorf("credit is required: %w", sentinel.ErrInvalidState)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[credit.ID]; exists {
		return fmt.Errorf("credit %s: %w", credit.ID, sentinel.ErrConflict)
	}
	clone := *credit
	s.credits = append(s.credits, &clone)
	s.byID[clone.ID] = &clone
	return nil
}

func (s *InMemory) ListByCenter(_ context.Context, centerID id.CenterID) ([]*models.Credit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Credit
	for _, credit := range s.credits {
		if credit.CenterID == centerID {
			clone := *credit
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *InMemory) ListByDonor(_ context.Context, donor id.Principal) ([]*models.Credit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Credit
	for _, credit := range s.credits {
		if credit.Donor == donor {
			clone := *credit
			out = append(out, &clone)
		}
	}
	return out, nil
}

// SupplyByCenter sums issued quantities for one center from the persisted
// credits. Lets callers verify the center's recorded supply independently.
func (s *InMemory) SupplyByCenter(_ context.Context, centerID id.CenterID) (id.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total id.Amount
	for _, credit := range s.credits {
		if credit.CenterID != centerID {
			continue
		}
		sum, ok := total.Add(credit.Quantity)
		if !ok {
			return 0, fmt.Errorf("credit supply overflow for center %s: %w", centerID, sentinel.ErrInvalidState)
		}
		total = sum
	}
	return total, nil
}

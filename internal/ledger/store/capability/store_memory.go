// Package capability persists minted capabilities. Capabilities are
// write-once: created at center creation, never updated or deleted.
package capability

import (
	"context"
	"fmt"
	"sync"

	"almoner/internal/ledger/models"
	id "almoner/pkg/domain"
	"almoner/pkg/platform/sentinel"
)

// InMemory stores capabilities in a map for tests and development mode.
type InMemory struct {
	mu           sync.RWMutex
	capabilities map[id.CapabilityID]*models.Capability
}

// NewInMemory constructs an empty in-memory capability store.
func NewInMemory() *InMemory {
	return &InMemory{capabilities: make(map[id.CapabilityID]*models.Capability)}
}

func (s *InMemory) Create(_ context.Context, capability *models.Capability) error {
	if capability == nil || capability.ID.IsNil() {
		return fmt.Errorf("capability is required: %w", sentinel.ErrInvalidState)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.capabilities[capability.ID]; exists {
		return fmt.Errorf("capability %s: %w", capability.ID, sentinel.ErrConflict)
	}
	clone := *capability
	s.capabilities[capability.ID] = &clone
	return nil
}

func (s *InMemory) FindByID(_ context.Context, capabilityID id.CapabilityID) (*models.Capability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	capability, ok := s.capabilities[capabilityID]
	if !ok {
		return nil, fmt.Errorf("capability %s: %w", capabilityID, sentinel.ErrNotFound)
	}
	clone := *capability
	return &clone, nil
}

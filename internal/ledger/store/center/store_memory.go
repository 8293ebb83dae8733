// Package center persists the center aggregate.
//
// Error Contract:
// All store methods follow this error pattern:
// - Return ErrNotFound when the requested center does not exist
// - Return ErrConflict when a create collides with an existing center
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures
package center

import (
	"context"
	"fmt"
	"sync"

	"almoner/internal/ledger/models"
	id "almoner/pkg/domain"
	"almoner/pkg/platform/sentinel"
)

// InMemory stores centers in a map for tests and development mode.
// Execute and ExecutePair hold the write lock across both validation and
// mutation, making each a single mutually exclusive unit per operation.
type InMemory struct {
	mu      sync.RWMutex
	centers map[id.CenterID]*models.Center
}

// NewInMemory constructs an empty in-memory center store.
func NewInMemory() *InMemory {
	return &InMemory{centers: make(map[id.CenterID]*models.Center)}
}

func (s *InMemory) Create(_ context.Context, center *models.Center) error {
	if center == nil || center.ID.IsNil() {
		return fmt.Errorf("center is required: %w", sentinel.ErrInvalidState)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.centers[center.ID]; exists {
		return fmt.Errorf("center %s: %w", center.ID, sentinel.ErrConflict)
	}
	clone := *center
	s.centers[center.ID] = &clone
	return nil
}

func (s *InMemory) FindByID(_ context.Context, centerID id.CenterID) (*models.Center, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	center, ok := s.centers[centerID]
	if !ok {
		return nil, fmt.Errorf("center %s: %w", centerID, sentinel.ErrNotFound)
	}
	clone := *center
	return &clone, nil
}

// Execute runs validate then mutate against the live record while holding
// the write lock. Returns a snapshot of the mutated center.
func (s *InMemory) Execute(_ context.Context, centerID id.CenterID,
	validate func(*models.Center) error,
	mutate func(*models.Center)) (*models.Center, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	center, ok := s.centers[centerID]
	if !ok {
		return nil, fmt.Errorf("center %s: %w", centerID, sentinel.ErrNotFound)
	}
	if err := validate(center); err != nil {
		return nil, err
	}
	mutate(center)

	clone := *center
	return &clone, nil
}

// ExecutePair runs validate then mutate against two centers under one lock
// acquisition, so transfers see and change both records atomically.
func (s *InMemory) ExecutePair(_ context.Context, firstID, secondID id.CenterID,
	validate func(first, second *models.Center) error,
	mutate func(first, second *models.Center)) (*models.Center, *models.Center, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	first, ok := s.centers[firstID]
	if !ok {
		return nil, nil, fmt.Errorf("center %s: %w", firstID, sentinel.ErrNotFound)
	}
	second, ok := s.centers[secondID]
	if !ok {
		return nil, nil, fmt.Errorf("center %s: %w", secondID, sentinel.ErrNotFound)
	}

	if err := validate(first, second); err != nil {
		return nil, nil, err
	}
	mutate(first, second)

	firstClone, secondClone := *first, *second
	return &firstClone, &secondClone, nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.centers), nil
}

package capability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"almoner/internal/ledger/models"
	id "almoner/pkg/domain"
	"almoner/pkg/platform/sentinel"
)

type CapabilityStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *CapabilityStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestCapabilityStoreSuite(t *testing.T) {
	suite.Run(t, new(CapabilityStoreSuite))
}

func (s *CapabilityStoreSuite) newCapability() *models.Capability {
	capability, err := models.MintCapability(
		id.CapabilityID(uuid.New()),
		id.CenterID(uuid.New()),
		"$2a$10$fakehashfortests",
		time.Now(),
	)
	s.Require().NoError(err)
	return capability
}

func (s *CapabilityStoreSuite) TestCreateAndFind() {
	s.Run("creates and finds capability", func() {
		capability := s.newCapability()
		s.Require().NoError(s.store.Create(s.ctx, capability))

		found, err := s.store.FindByID(s.ctx, capability.ID)
		s.Require().NoError(err)
		s.Equal(capability.CenterID, found.CenterID)
		s.Equal(capability.SecretHash, found.SecretHash)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, id.CapabilityID(uuid.New()))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejects duplicate ID", func() {
		capability := s.newCapability()
		s.Require().NoError(s.store.Create(s.ctx, capability))
		s.Require().ErrorIs(s.store.Create(s.ctx, capability), sentinel.ErrConflict)
	})

	s.Run("stored capability is immutable from outside", func() {
		capability := s.newCapability()
		s.Require().NoError(s.store.Create(s.ctx, capability))

		found, err := s.store.FindByID(s.ctx, capability.ID)
		s.Require().NoError(err)
		found.CenterID = id.CenterID(uuid.New())

		again, err := s.store.FindByID(s.ctx, capability.ID)
		s.Require().NoError(err)
		s.Equal(capability.CenterID, again.CenterID)
	})
}

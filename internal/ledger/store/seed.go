// Package store seeds development data into the in-memory stores.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"almoner/internal/ledger/models"
	"almoner/internal/ledger/store/capability"
	"almoner/internal/ledger/store/center"
	id "almoner/pkg/domain"
	"almoner/pkg/secrets"
)

// SeededCenter is one demo center plus the cleartext capability secret, so a
// developer can exercise transfers and withdrawals without fishing secrets
// out of create responses.
type SeededCenter struct {
	Center     *models.Center
	Capability *models.Capability
	Secret     string
}

// SeedDemoCenters creates a pair of demo centers with capabilities. Dev-only;
// the cleartext secrets are returned for logging and never stored.
func SeedDemoCenters(centers *center.InMemory, capabilities *capability.InMemory) ([]SeededCenter, error) {
	now := time.Now().UTC()
	seeded := make([]SeededCenter, 0, 2)

	for _, name := range []string{"Harbor Relief Fund", "Northside Food Bank"} {
		c, err := models.NewCenter(id.CenterID(uuid.New()), name, now)
		if err != nil {
			return nil, err
		}

		secret, err := secrets.Generate()
		if err != nil {
			return nil, err
		}
		hash, err := secrets.Hash(secret)
		if err != nil {
			return nil, err
		}
		minted, err := models.MintCapability(id.CapabilityID(uuid.New()), c.ID, hash, now)
		if err != nil {
			return nil, err
		}

		if err := centers.Create(context.Background(), c); err != nil {
			return nil, err
		}
		if err := capabilities.Create(context.Background(), minted); err != nil {
			return nil, err
		}
		seeded = append(seeded, SeededCenter{Center: c, Capability: minted, Secret: secret})
	}
	return seeded, nil
}

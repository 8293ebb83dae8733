package capability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"almoner/internal/ledger/models"
	id "almoner/pkg/domain"
	"almoner/pkg/platform/sentinel"
	txcontext "almoner/pkg/platform/tx"
)

// Postgres persists capabilities in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed capability store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, capability *models.Capability) error {
	if capability == nil || capability.ID.IsNil() {
		return fmt.Errorf("capability is required: %w", sentinel.ErrInvalidState)
	}

	q := txcontext.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO capabilities (id, center_id, secret_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.UUID(capability.ID), uuid.UUID(capability.CenterID), capability.SecretHash, capability.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("capability %s: %w", capability.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("create capability: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, capabilityID id.CapabilityID) (*models.Capability, error) {
	q := txcontext.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT id, center_id, secret_hash, created_at
		FROM capabilities
		WHERE id = $1
	`, uuid.UUID(capabilityID))

	var (
		rowID      uuid.UUID
		centerID   uuid.UUID
		secretHash string
		createdAt  time.Time
	)
	if err := row.Scan(&rowID, &centerID, &secretHash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("capability %s: %w", capabilityID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find capability: %w", err)
	}

	return &models.Capability{
		ID:         id.CapabilityID(rowID),
		CenterID:   id.CenterID(centerID),
		SecretHash: secretHash,
		CreatedAt:  createdAt,
	}, nil
}

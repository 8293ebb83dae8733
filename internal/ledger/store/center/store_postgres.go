package center

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"almoner/internal/ledger/models"
	id "almoner/pkg/domain"
	"almoner/pkg/platform/sentinel"
	txcontext "almoner/pkg/platform/tx"
)

const selectColumns = `id, name, balance, total_contributions, credit_supply, created_at, updated_at`

// Postgres persists centers in PostgreSQL. Every method resolves its querier
// from context, so calls made inside a ledger operation join the operation's
// transaction. Execute and ExecutePair require that transaction: row locks
// taken outside one would release immediately.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed center store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, center *models.Center) error {
	if center == nil || center.ID.IsNil() {
		return fmt.Errorf("center is required: %w", sentinel.ErrInvalidState)
	}
	balance, contributions, supply, err := storableAmounts(center)
	if err != nil {
		return err
	}

	q := txcontext.QuerierFrom(ctx, s.db)
	_, err = q.ExecContext(ctx, `
		INSERT INTO centers (id, name, balance, total_contributions, credit_supply, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.UUID(center.ID), center.Name, balance, contributions, supply, center.CreatedAt, center.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("center %s: %w", center.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("create center: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, centerID id.CenterID) (*models.Center, error) {
	q := txcontext.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM centers WHERE id = $1`,
		uuid.UUID(centerID))

	center, err := scanCenter(row)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, fmt.Errorf("center %s: %w", centerID, sentinel.ErrNotFound)
		}
		return nil, err
	}
	return center, nil
}

// Execute locks the center row FOR UPDATE, runs validate then mutate, and
// writes the result back. The lock is held by the surrounding transaction
// until it commits or rolls back.
func (s *Postgres) Execute(ctx context.Context, centerID id.CenterID,
	validate func(*models.Center) error,
	mutate func(*models.Center)) (*models.Center, error) {

	q := txcontext.QuerierFrom(ctx, s.db)

	center, err := s.lockRow(ctx, q, centerID)
	if err != nil {
		return nil, err
	}
	if err := validate(center); err != nil {
		return nil, err
	}
	mutate(center)

	if err := s.update(ctx, q, center); err != nil {
		return nil, err
	}
	return center, nil
}

// ExecutePair locks both center rows FOR UPDATE in deterministic ID order,
// so concurrent transfers crossing the same pair cannot deadlock.
func (s *Postgres) ExecutePair(ctx context.Context, firstID, secondID id.CenterID,
	validate func(first, second *models.Center) error,
	mutate func(first, second *models.Center)) (*models.Center, *models.Center, error) {

	q := txcontext.QuerierFrom(ctx, s.db)

	lockOrder := []id.CenterID{firstID, secondID}
	a, b := uuid.UUID(firstID), uuid.UUID(secondID)
	if bytes.Compare(a[:], b[:]) > 0 {
		lockOrder[0], lockOrder[1] = secondID, firstID
	}

	locked := make(map[id.CenterID]*models.Center, 2)
	for _, centerID := range lockOrder {
		center, err := s.lockRow(ctx, q, centerID)
		if err != nil {
			return nil, nil, err
		}
		locked[centerID] = center
	}

	first, second := locked[firstID], locked[secondID]
	if err := validate(first, second); err != nil {
		return nil, nil, err
	}
	mutate(first, second)

	if err := s.update(ctx, q, first); err != nil {
		return nil, nil, err
	}
	if err := s.update(ctx, q, second); err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

func (s *Postgres) Count(ctx context.Context) (int, error) {
	q := txcontext.QuerierFrom(ctx, s.db)
	var count int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM centers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count centers: %w", err)
	}
	return count, nil
}

func (s *Postgres) lockRow(ctx context.Context, q txcontext.Querier, centerID id.CenterID) (*models.Center, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM centers WHERE id = $1 FOR UPDATE`,
		uuid.UUID(centerID))

	center, err := scanCenter(row)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, fmt.Errorf("center %s: %w", centerID, sentinel.ErrNotFound)
		}
		return nil, err
	}
	return center, nil
}

func (s *Postgres) update(ctx context.Context, q txcontext.Querier, center *models.Center) error {
	balance, contributions, supply, err := storableAmounts(center)
	if err != nil {
		return err
	}

	result, err := q.ExecContext(ctx, `
		UPDATE centers
		SET name = $2, balance = $3, total_contributions = $4, credit_supply = $5, updated_at = $6
		WHERE id = $1
	`, uuid.UUID(center.ID), center.Name, balance, contributions, supply, center.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update center: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update center: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("center %s: %w", center.ID, sentinel.ErrNotFound)
	}
	return nil
}

func scanCenter(row *sql.Row) (*models.Center, error) {
	var (
		centerID      uuid.UUID
		name          string
		balance       int64
		contributions int64
		supply        int64
		createdAt     time.Time
		updatedAt     time.Time
	)
	if err := row.Scan(&centerID, &name, &balance, &contributions, &supply, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan center: %w", err)
	}
	if balance < 0 || contributions < 0 || supply < 0 {
		return nil, fmt.Errorf("center %s row has negative amounts: %w", centerID, sentinel.ErrInvalidState)
	}
	return &models.Center{
		ID:                 id.CenterID(centerID),
		Name:               name,
		Balance:            id.Amount(balance),
		TotalContributions: id.Amount(contributions),
		CreditSupply:       id.Amount(supply),
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
	}, nil
}

func storableAmounts(center *models.Center) (int64, int64, int64, error) {
	values := [3]id.Amount{center.Balance, center.TotalContributions, center.CreditSupply}
	var out [3]int64
	for i, v := range values {
		if uint64(v) > math.MaxInt64 {
			return 0, 0, 0, fmt.Errorf("center amount exceeds storage range: %w", sentinel.ErrInvalidState)
		}
		out[i] = int64(v)
	}
	return out[0], out[1], out[2], nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

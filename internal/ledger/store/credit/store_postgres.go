package credit

import (
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

// Postgres persists credits in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed credit store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, credit *models.Credit) error {
	if credit == nil || credit.ID.IsNil() {
		return fmt.Errorf("credit is required: %w", sentinel.ErrInvalidState)
	}
	if uint64(credit.Quantity) > math.MaxInt64 {
		return fmt.Errorf("credit quantity exceeds storage range: %w", sentinel.ErrInvalidState)
	}

	q := txcontext.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO credits (id, center_id, donor, quantity, issued_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.UUID(credit.ID), uuid.UUID(credit.CenterID), string(credit.Donor), int64(credit.Quantity), credit.IssuedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("credit %s: %w", credit.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("create credit: %w", err)
	}
	return nil
}

func (s *Postgres) ListByCenter(ctx context.Context, centerID id.CenterID) ([]*models.Credit, error) {
	q := txcontext.QuerierFrom(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
		SELECT id, center_id, donor, quantity, issued_at
		FROM credits
		WHERE center_id = $1
		ORDER BY issued_at, id
	`, uuid.UUID(centerID))
	if err != nil {
		return nil, fmt.Errorf("list credits by center: %w", err)
	}
	defer rows.Close()
	return scanCredits(rows)
}

func (s *Postgres) ListByDonor(ctx context.Context, donor id.Principal) ([]*models.Credit, error) {
	q := txcontext.QuerierFrom(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
		SELECT id, center_id, donor, quantity, issued_at
		FROM credits
		WHERE donor = $1
		ORDER BY issued_at, id
	`, string(donor))
	if err != nil {
		return nil, fmt.Errorf("list credits by donor: %w", err)
	}
	defer rows.Close()
	return scanCredits(rows)
}

// SupplyByCenter sums issued quantities for one center from the persisted
// credits. Lets callers verify the center's recorded supply independently.
func (s *Postgres) SupplyByCenter(ctx context.Context, centerID id.CenterID) (id.Amount, error) {
	q := txcontext.QuerierFrom(ctx, s.db)
	var total int64
	err := q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(quantity), 0)
		FROM credits
		WHERE center_id = $1
	`, uuid.UUID(centerID)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum credits by center: %w", err)
	}
	if total < 0 {
		return 0, fmt.Errorf("credit supply for center %s is negative: %w", centerID, sentinel.ErrInvalidState)
	}
	return id.Amount(total), nil
}

func scanCredits(rows *sql.Rows) ([]*models.Credit, error) {
	var out []*models.Credit
	for rows.Next() {
		var (
			creditID uuid.UUID
			centerID uuid.UUID
			donor    string
			quantity int64
			issuedAt time.Time
		)
		if err := rows.Scan(&creditID, &centerID, &donor, &quantity, &issuedAt); err != nil {
			return nil, fmt.Errorf("scan credit: %w", err)
		}
		if quantity < 0 {
			return nil, fmt.Errorf("credit %s row has negative quantity: %w", creditID, sentinel.ErrInvalidState)
		}
		out = append(out, &models.Credit{
			ID:       id.CreditID(creditID),
			CenterID: id.CenterID(centerID),
			Donor:    id.Principal(donor),
			Quantity: id.Amount(quantity),
			IssuedAt: issuedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credits: %w", err)
	}
	return out, nil
}

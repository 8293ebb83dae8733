// Package postgres persists audit records in an append-only table with a
// transactional outbox column. Records written inside a ledger operation
// join the operation's transaction via pkg/platform/tx, so a rolled-back
// operation leaves no record behind. The relay drains rows whose
// published_at is NULL into the external stream.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "almoner/pkg/domain"
	audit "almoner/pkg/platform/audit"
	txcontext "almoner/pkg/platform/tx"
)

// Store implements audit.Store plus the outbox listing the relay consumes.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts one audit record. The seq column is BIGSERIAL; insertion
// order within a transaction fixes intra-operation ordering.
func (s *Store) Append(ctx context.Context, record audit.Record) error {
	if record.Amount > math.MaxInt64 {
		return fmt.Errorf("audit record amount %d exceeds storable range", record.Amount)
	}

	query := `
		INSERT INTO audit_records (
			id, kind, epoch, actor, recipient, amount,
			center_id, to_center_id, credit_id, request_id, recorded_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := txcontext.QuerierFrom(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(record.ID),
		string(record.Kind),
		int64(record.Epoch),
		record.Actor.String(),
		record.Recipient,
		int64(record.Amount),
		uuid.UUID(record.CenterID),
		nullableID(uuid.UUID(record.ToCenterID)),
		nullableID(uuid.UUID(record.CreditID)),
		record.RequestID,
		record.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

// ListByCenter returns records touching the center as source or destination,
// in sequence order.
func (s *Store) ListByCenter(ctx context.Context, centerID id.CenterID) ([]audit.Record, error) {
	query := selectColumns + `
		FROM audit_records
		WHERE center_id = $1 OR to_center_id = $1
		ORDER BY seq
	`
	rows, err := txcontext.QuerierFrom(ctx, s.db).QueryContext(ctx, query, uuid.UUID(centerID))
	if err != nil {
		return nil, fmt.Errorf("query audit records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ListAll returns every record in sequence order.
func (s *Store) ListAll(ctx context.Context) ([]audit.Record, error) {
	query := selectColumns + `
		FROM audit_records
		ORDER BY seq
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query audit records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ListUnpublished returns up to limit unrelayed records, oldest first.
func (s *Store) ListUnpublished(ctx context.Context, limit int) ([]audit.Record, error) {
	query := selectColumns + `
		FROM audit_records
		WHERE published_at IS NULL
		ORDER BY seq
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query unpublished audit records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// MarkPublished stamps published_at on the given records.
func (s *Store) MarkPublished(ctx context.Context, ids []id.RecordID) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]uuid.UUID, len(ids))
	for i, recordID := range ids {
		raw[i] = uuid.UUID(recordID)
	}
	query := `
		UPDATE audit_records
		SET published_at = $1
		WHERE id = ANY($2) AND published_at IS NULL
	`
	if _, err := s.db.ExecContext(ctx, query, time.Now(), pq.Array(raw)); err != nil {
		return fmt.Errorf("mark audit records published: %w", err)
	}
	return nil
}

const selectColumns = `
	SELECT seq, id, kind, epoch, actor, recipient, amount,
	       center_id, to_center_id, credit_id, request_id, recorded_at
`

func scanRecords(rows *sql.Rows) ([]audit.Record, error) {
	var records []audit.Record

	for rows.Next() {
		var (
			record     audit.Record
			seq        int64
			recordID   uuid.UUID
			kind       string
			epoch      int64
			actor      string
			amount     int64
			centerID   uuid.UUID
			toCenterID *uuid.UUID
			creditID   *uuid.UUID
		)

		err := rows.Scan(
			&seq,
			&recordID,
			&kind,
			&epoch,
			&actor,
			&record.Recipient,
			&amount,
			&centerID,
			&toCenterID,
			&creditID,
			&record.RequestID,
			&record.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}

		record.Seq = uint64(seq)
		record.ID = id.RecordID(recordID)
		record.Kind = audit.Kind(kind)
		record.Epoch = uint64(epoch)
		record.Actor = id.Principal(actor)
		record.Amount = id.Amount(amount)
		record.CenterID = id.CenterID(centerID)
		if toCenterID != nil {
			record.ToCenterID = id.CenterID(*toCenterID)
		}
		if creditID != nil {
			record.CreditID = id.CreditID(*creditID)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit records: %w", err)
	}
	return records, nil
}

// nullableID maps the nil UUID onto SQL NULL so optional references stay
// queryable.
func nullableID(u uuid.UUID) any {
	if u == uuid.Nil {
		return nil
	}
	return u
}

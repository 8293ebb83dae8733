//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// schema is the full ledger schema. The container applies it on start so
// store tests run against the same shapes production uses.
const schema = `
CREATE TABLE IF NOT EXISTS centers (
	id                  UUID PRIMARY KEY,
	name                TEXT NOT NULL,
	balance             BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
	total_contributions BIGINT NOT NULL DEFAULT 0 CHECK (total_contributions >= 0),
	credit_supply       BIGINT NOT NULL DEFAULT 0 CHECK (credit_supply >= 0),
	created_at          TIMESTAMPTZ NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS capabilities (
	id          UUID PRIMARY KEY,
	center_id   UUID NOT NULL REFERENCES centers(id) ON DELETE CASCADE,
	secret_hash TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_capabilities_center ON capabilities (center_id);

CREATE TABLE IF NOT EXISTS credits (
	id        UUID PRIMARY KEY,
	center_id UUID NOT NULL REFERENCES centers(id) ON DELETE CASCADE,
	donor     TEXT NOT NULL,
	quantity  BIGINT NOT NULL CHECK (quantity > 0),
	issued_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_credits_center ON credits (center_id);
CREATE INDEX IF NOT EXISTS idx_credits_donor ON credits (donor);

CREATE TABLE IF NOT EXISTS audit_records (
	seq          BIGSERIAL PRIMARY KEY,
	id           UUID NOT NULL UNIQUE,
	kind         TEXT NOT NULL,
	epoch        BIGINT NOT NULL,
	actor        TEXT NOT NULL,
	recipient    TEXT NOT NULL DEFAULT '',
	amount       BIGINT NOT NULL,
	center_id    UUID NOT NULL,
	to_center_id UUID,
	credit_id    UUID,
	request_id   TEXT NOT NULL DEFAULT '',
	recorded_at  TIMESTAMPTZ NOT NULL,
	published_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_audit_records_center ON audit_records (center_id, seq);
CREATE INDEX IF NOT EXISTS idx_audit_records_unpublished ON audit_records (seq) WHERE published_at IS NULL;
`

// PostgresContainer wraps a testcontainers PostgreSQL instance with the
// ledger schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DB        *sql.DB
	DSN       string
}

// NewPostgresContainer starts PostgreSQL and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("almoner_test"),
		tcpostgres.WithUsername("almoner"),
		tcpostgres.WithPassword("almoner"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	// No t.Cleanup: the container is shared across suites via the Manager
	// and reaped by Ryuk after the run.

	return &PostgresContainer{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}
}

// TruncateTables empties the given tables and resets their sequences. Use
// between tests for isolation.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	quoted := make([]string, len(tables))
	for i, table := range tables {
		quoted[i] = pq.QuoteIdentifier(table)
	}
	query := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(quoted, ", "))
	if _, err := p.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}

package tx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Runner runs one database transaction per ledger operation. The transaction
// rides the context; every store the operation touches picks it up through
// QuerierFrom, so mutations and audit records commit or roll back together.
type Runner struct {
	db *sql.DB
}

// NewRunner wraps the database handle.
func NewRunner(db *sql.DB) *Runner {
	return &Runner{db: db}
}

// RunInTx executes fn inside a transaction. Any error from fn rolls the
// transaction back and is returned unchanged so domain-error codes survive.
func (r *Runner) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(WithTx(ctx, dbTx)); err != nil {
		if rbErr := dbTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

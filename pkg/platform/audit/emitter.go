package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	id "almoner/pkg/domain"
	"almoner/pkg/requestcontext"
)

// Store persists audit records. Append must be atomic with respect to the
// surrounding ledger operation: transactional stores read the operation's
// transaction from context.
type Store interface {
	Append(ctx context.Context, record Record) error
}

// Emitter writes audit records with fail-closed semantics. The caller blocks
// until the record is persisted; if persistence fails, the calling operation
// MUST fail and roll back its mutations.
type Emitter struct {
	store   Store
	logger  *slog.Logger
	metrics *Metrics
	clock   func() time.Time
}

// Option configures the Emitter.
type Option func(*Emitter)

// WithLogger sets a logger for failure reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Emitter) {
		e.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(e *Emitter) {
		e.metrics = m
	}
}

// WithClock injects the time source used to stamp RecordedAt.
// Tests use this to make wall-clock fields deterministic.
func WithClock(clock func() time.Time) Option {
	return func(e *Emitter) {
		e.clock = clock
	}
}

// NewEmitter creates a fail-closed emitter backed by the given store.
func NewEmitter(store Store, opts ...Option) *Emitter {
	e := &Emitter{
		store: store,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Emit validates, enriches, and synchronously persists one record.
//
// Enrichment fills what the caller's execution context provides: the record
// ID, RecordedAt from the emitter clock, and RequestID from context when the
// caller left it empty. Epoch and all business fields must already be set.
func (e *Emitter) Emit(ctx context.Context, record Record) error {
	start := e.clock()

	record.Actor = record.Actor.OrAnonymous()
	if err := record.Validate(); err != nil {
		return fmt.Errorf("audit record rejected: %w", err)
	}

	if record.ID.IsNil() {
		record.ID = id.RecordID(uuid.New())
	}
	if record.RecordedAt.IsZero() {
		record.RecordedAt = start
	}
	if record.RequestID == "" {
		record.RequestID = requestcontext.RequestID(ctx)
	}

	// Synchronous write - this is the critical path.
	if err := e.store.Append(ctx, record); err != nil {
		if e.metrics != nil {
			e.metrics.IncPersistFailures()
		}
		if e.logger != nil {
			e.logger.ErrorContext(ctx, "CRITICAL: audit record persistence failed",
				"kind", record.Kind,
				"center_id", record.CenterID,
				"error", err,
			)
		}
		return fmt.Errorf("audit record persistence failed: %w", err)
	}

	if e.metrics != nil {
		e.metrics.ObservePersistDuration(e.clock().Sub(start).Seconds())
		e.metrics.IncRecordsEmitted()
	}
	return nil
}

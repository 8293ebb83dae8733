// Package relay drains committed audit records from the outbox to the
// external observable stream. Delivery is at-least-once: records are marked
// published only after the producer accepts them, and the ledger tables
// remain the system of record.
package relay

import (
	"context"
	"log/slog"
	"time"

	contracts "almoner/contracts/audit"
	id "almoner/pkg/domain"
	audit "almoner/pkg/platform/audit"
)

// Store is the outbox side of the audit store.
type Store interface {
	ListUnpublished(ctx context.Context, limit int) ([]audit.Record, error)
	MarkPublished(ctx context.Context, ids []id.RecordID) error
}

// Producer publishes one payload to the audit stream. Key is the partition
// key; records for the same center share a key so per-center order survives
// partitioning.
type Producer interface {
	Produce(ctx context.Context, key string, payload []byte) error
}

// Relay periodically publishes unrelayed records.
type Relay struct {
	store    Store
	producer Producer
	logger   *slog.Logger
	breaker  *CircuitBreaker
	metrics  *Metrics

	interval  time.Duration
	batchSize int
}

// Option configures the Relay.
type Option func(*Relay)

// WithLogger sets the relay logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(r *Relay) {
		r.metrics = m
	}
}

// WithInterval sets how often the outbox is polled.
func WithInterval(interval time.Duration) Option {
	return func(r *Relay) {
		r.interval = interval
	}
}

// WithBatchSize caps how many records one drain pass publishes.
func WithBatchSize(n int) Option {
	return func(r *Relay) {
		r.batchSize = n
	}
}

// WithBreaker replaces the default circuit breaker.
func WithBreaker(cb *CircuitBreaker) Option {
	return func(r *Relay) {
		r.breaker = cb
	}
}

// New creates a relay. Defaults: 1s poll interval, 100-record batches, a
// breaker opening after 5 consecutive failures with a 30s cooldown.
func New(store Store, producer Producer, opts ...Option) *Relay {
	r := &Relay{
		store:     store,
		producer:  producer,
		breaker:   NewCircuitBreaker(5, 30*time.Second),
		interval:  time.Second,
		batchSize: 100,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run polls the outbox until the context is cancelled. Publish failures are
// logged and retried on later passes; nothing is dropped, records just stay
// in the outbox.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n, err := r.DrainOnce(ctx); err != nil {
				if r.logger != nil {
					r.logger.WarnContext(ctx, "audit relay drain failed",
						"published", n,
						"error", err,
					)
				}
			}
		}
	}
}

// DrainOnce publishes one batch of unrelayed records and returns how many
// were accepted. A breaker-open pass publishes nothing and is not an error.
func (r *Relay) DrainOnce(ctx context.Context) (int, error) {
	if !r.breaker.Allow() {
		if r.metrics != nil {
			r.metrics.SetBreakerState(true)
		}
		return 0, nil
	}

	records, err := r.store.ListUnpublished(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	published := make([]id.RecordID, 0, len(records))
	for _, record := range records {
		payload, err := toWire(record).Marshal()
		if err != nil {
			// A record that cannot be serialized would wedge the outbox
			// forever; surface it loudly and stop the pass.
			if r.logger != nil {
				r.logger.ErrorContext(ctx, "audit record not serializable",
					"record_id", record.ID,
					"error", err,
				)
			}
			return r.finish(ctx, published, err)
		}

		if err := r.producer.Produce(ctx, record.CenterID.String(), payload); err != nil {
			r.breaker.RecordFailure()
			if r.metrics != nil {
				r.metrics.IncPublishFailures()
				r.metrics.SetBreakerState(r.breaker.IsOpen())
			}
			return r.finish(ctx, published, err)
		}

		r.breaker.RecordSuccess()
		published = append(published, record.ID)
	}

	return r.finish(ctx, published, nil)
}

// finish marks whatever was accepted before any failure, so a partial batch
// is not republished wholesale.
func (r *Relay) finish(ctx context.Context, published []id.RecordID, cause error) (int, error) {
	if len(published) == 0 {
		return 0, cause
	}
	if err := r.store.MarkPublished(ctx, published); err != nil {
		// Records stay unpublished and will be re-sent: at-least-once, by
		// contract.
		if r.logger != nil {
			r.logger.ErrorContext(ctx, "failed to mark audit records published",
				"count", len(published),
				"error", err,
			)
		}
		if cause == nil {
			cause = err
		}
		return len(published), cause
	}
	if r.metrics != nil {
		r.metrics.AddPublished(len(published))
		r.metrics.SetBreakerState(r.breaker.IsOpen())
	}
	return len(published), cause
}

func toWire(record audit.Record) contracts.Record {
	wire := contracts.Record{
		ID:         record.ID.String(),
		Kind:       string(record.Kind),
		Seq:        record.Seq,
		Epoch:      record.Epoch,
		Actor:      record.Actor.String(),
		Recipient:  record.Recipient,
		Amount:     uint64(record.Amount),
		CenterID:   record.CenterID.String(),
		RequestID:  record.RequestID,
		RecordedAt: record.RecordedAt,
	}
	if !record.ToCenterID.IsNil() {
		wire.ToCenterID = record.ToCenterID.String()
	}
	if !record.CreditID.IsNil() {
		wire.CreditID = record.CreditID.String()
	}
	return wire
}

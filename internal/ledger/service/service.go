// Package service is the only mutation path into the ledger. Every operation
// runs as one indivisible unit: state changes and their audit records commit
// together or not at all.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	ledgermetrics "almoner/internal/ledger/metrics"
	"almoner/internal/ledger/models"
	id "almoner/pkg/domain"
	dErrors "almoner/pkg/domain-errors"
	audit "almoner/pkg/platform/audit"
)

// CenterStore persists center aggregates. Execute and ExecutePair hold the
// record lock (mutex or FOR UPDATE) across both validation and mutation.
type CenterStore interface {
	Create(ctx context.Context, center *models.Center) error
	FindByID(ctx context.Context, centerID id.CenterID) (*models.Center, error)
	Execute(ctx context.Context, centerID id.CenterID,
		validate func(*models.Center) error,
		mutate func(*models.Center)) (*models.Center, error)
	ExecutePair(ctx context.Context, firstID, secondID id.CenterID,
		validate func(first, second *models.Center) error,
		mutate func(first, second *models.Center)) (*models.Center, *models.Center, error)
	Count(ctx context.Context) (int, error)
}

// CapabilityStore persists minted capabilities.
type CapabilityStore interface {
	Create(ctx context.Context, capability *models.Capability) error
	FindByID(ctx context.Context, capabilityID id.CapabilityID) (*models.Capability, error)
}

// CreditStore persists contribution credits.
type CreditStore interface {
	Create(ctx context.Context, credit *models.Credit) error
	ListByCenter(ctx context.Context, centerID id.CenterID) ([]*models.Credit, error)
	ListByDonor(ctx context.Context, donor id.Principal) ([]*models.Credit, error)
	SupplyByCenter(ctx context.Context, centerID id.CenterID) (id.Amount, error)
}

// AuditEmitter persists one audit record, fail-closed.
type AuditEmitter interface {
	Emit(ctx context.Context, record audit.Record) error
}

// StoreTx runs a function as one atomic store transaction.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// Token is the parsed bearer credential presented for privileged operations.
// The transport layer splits the X-Capability-Token header into these parts.
type Token struct {
	CapabilityID id.CapabilityID
	Secret       string
}

type serviceConfig struct {
	logger  *slog.Logger
	metrics *ledgermetrics.Metrics
	tx      StoreTx
}

// Option configures the service.
type Option func(cfg *serviceConfig)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serviceConfig) {
		cfg.logger = logger
	}
}

// WithMetrics attaches the ledger metrics collector.
func WithMetrics(m *ledgermetrics.Metrics) Option {
	return func(cfg *serviceConfig) {
		cfg.metrics = m
	}
}

// WithTx replaces the default operation serializer with a store-backed
// transaction runner. Postgres deployments pass tx.NewRunner here.
func WithTx(storeTx StoreTx) Option {
	return func(cfg *serviceConfig) {
		cfg.tx = storeTx
	}
}

// LedgerService orchestrates centers, capabilities, credits, and the audit
// trail behind one operation boundary.
type LedgerService struct {
	centers      CenterStore
	capabilities CapabilityStore
	credits      CreditStore
	emitter      AuditEmitter

	logger  *slog.Logger
	metrics *ledgermetrics.Metrics
	tx      StoreTx
	tracer  trace.Tracer
}

// New constructs the ledger service. The audit emitter is a hard dependency:
// a ledger that cannot record its mutations must not perform them.
func New(centers CenterStore, capabilities CapabilityStore, credits CreditStore, emitter AuditEmitter, opts ...Option) (*LedgerService, error) {
	if centers == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "center store is required")
	}
	if capabilities == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "capability store is required")
	}
	if credits == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "credit store is required")
	}
	if emitter == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "audit emitter is required")
	}

	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	storeTx := cfg.tx
	if storeTx == nil {
		storeTx = newInMemoryStoreTx()
	}

	return &LedgerService{
		centers:      centers,
		capabilities: capabilities,
		credits:      credits,
		emitter:      emitter,
		logger:       cfg.logger,
		metrics:      cfg.metrics,
		tx:           storeTx,
		tracer:       otel.Tracer("almoner/internal/ledger/service"),
	}, nil
}

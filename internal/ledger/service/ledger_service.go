package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"almoner/internal/ledger/models"
	id "almoner/pkg/domain"
	dErrors "almoner/pkg/domain-errors"
	audit "almoner/pkg/platform/audit"
	"almoner/pkg/platform/sentinel"
	"almoner/pkg/requestcontext"
	"almoner/pkg/secrets"
)

// CreateCenter initializes an empty pool and mints its one capability.
// The cleartext bearer secret is returned exactly once; only its hash is
// stored. Creation is open to any principal and produces no audit record.
func (s *LedgerService) CreateCenter(ctx context.Context, name string) (*models.Center, *models.Capability, string, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.create_center")
	defer span.End()
	start := time.Now()

	name = strings.TrimSpace(name)

	secret, err := secrets.Generate()
	if err != nil {
		return nil, nil, "", s.finish(span, "create_center", start,
			dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate capability secret"))
	}
	secretHash, err := secrets.Hash(secret)
	if err != nil {
		return nil, nil, "", s.finish(span, "create_center", start,
			dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash capability secret"))
	}

	var (
		center *models.Center
		minted *models.Capability
	)
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		now := requestcontext.Now(txCtx)

		c, err := models.NewCenter(id.CenterID(uuid.New()), name, now)
		if err != nil {
			// Convert invariant violations to validation errors for API response
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return dErrors.New(dErrors.CodeValidation, err.Error())
			}
			return err
		}

		m, err := models.MintCapability(id.CapabilityID(uuid.New()), c.ID, secretHash, now)
		if err != nil {
			return err
		}

		if err := s.centers.Create(txCtx, c); err != nil {
			if errors.Is(err, sentinel.ErrConflict) || dErrors.HasCode(err, dErrors.CodeConflict) {
				return dErrors.New(dErrors.CodeConflict, "center already exists")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create center")
		}
		if err := s.capabilities.Create(txCtx, m); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mint capability")
		}

		center, minted = c, m
		return nil
	})
	if err != nil {
		return nil, nil, "", s.finish(span, "create_center", start, err)
	}

	s.logAudit(ctx, "center_created",
		"center_id", center.ID,
		"capability_id", minted.ID,
	)
	s.metrics.IncrementCentersCreated()
	return center, minted, secret, s.finish(span, "create_center", start, nil)
}

// GetCenter returns the center aggregate. Reads require no capability.
func (s *LedgerService) GetCenter(ctx context.Context, centerID id.CenterID) (*models.Center, error) {
	if err := requireCenterID(centerID); err != nil {
		return nil, err
	}
	center, err := s.centers.FindByID(ctx, centerID)
	if err != nil {
		return nil, wrapCenterErr(err)
	}
	return center, nil
}

// BalanceOf returns the center's current pooled balance.
func (s *LedgerService) BalanceOf(ctx context.Context, centerID id.CenterID) (id.Amount, error) {
	center, err := s.GetCenter(ctx, centerID)
	if err != nil {
		return 0, err
	}
	return center.Balance, nil
}

// TotalContributionsOf returns the center's lifetime donation total.
func (s *LedgerService) TotalContributionsOf(ctx context.Context, centerID id.CenterID) (id.Amount, error) {
	center, err := s.GetCenter(ctx, centerID)
	if err != nil {
		return 0, err
	}
	return center.TotalContributions, nil
}

// CreditSupplyOf returns the center's issued credit supply.
func (s *LedgerService) CreditSupplyOf(ctx context.Context, centerID id.CenterID) (id.Amount, error) {
	center, err := s.GetCenter(ctx, centerID)
	if err != nil {
		return 0, err
	}
	return center.CreditSupply, nil
}

// Donate accepts funds into a center's pool and mints the donor's
// contribution credit. Open to any principal; anonymous donations are
// recorded under the anonymous principal.
//
// Atomic effect: balance and lifetime contributions grow by amount, the
// credit supply grows by the same amount, one credit is persisted, and two
// audit records land in order: donation_received, then tokens_minted.
func (s *LedgerService) Donate(ctx context.Context, donor id.Principal, centerID id.CenterID, amount id.Amount) (*models.Credit, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.donate", trace.WithAttributes(
		attribute.String("center_id", centerID.String()),
		attribute.String("amount", strconv.FormatUint(uint64(amount), 10)),
	))
	defer span.End()
	start := time.Now()

	if err := requireCenterID(centerID); err != nil {
		return nil, s.finish(span, "donate", start, err)
	}

	donor = donor.OrAnonymous()
	epoch := requestcontext.Epoch(ctx)

	var credit *models.Credit
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		now := requestcontext.Now(txCtx)

		center, err := s.centers.Execute(txCtx, centerID,
			func(c *models.Center) error {
				if err := c.CanReceive(amount); err != nil {
					return err
				}
				return c.CanMint(amount)
			},
			func(c *models.Center) {
				c.ApplyDonation(amount, now)
				c.ApplyMint(amount, now)
			},
		)
		if err != nil {
			return wrapCenterErr(err)
		}

		issued, err := models.IssueCredit(id.CreditID(uuid.New()), center.ID, donor, amount, now)
		if err != nil {
			return err
		}
		if err := s.credits.Create(txCtx, issued); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist credit")
		}

		if err := s.emitter.Emit(txCtx, audit.Record{
			Kind:     audit.KindDonationReceived,
			Epoch:    epoch,
			Actor:    donor,
			Amount:   amount,
			CenterID: center.ID,
		}); err != nil {
			return err
		}
		if err := s.emitter.Emit(txCtx, audit.Record{
			Kind:     audit.KindTokensMinted,
			Epoch:    epoch,
			Actor:    donor,
			Amount:   amount,
			CenterID: center.ID,
			CreditID: issued.ID,
		}); err != nil {
			return err
		}

		credit = issued
		return nil
	})
	if err != nil {
		return nil, s.finish(span, "donate", start, err)
	}

	s.logAudit(ctx, string(audit.KindDonationReceived),
		"center_id", centerID,
		"credit_id", credit.ID,
		"donor", donor,
		"amount", uint64(amount),
	)
	s.metrics.IncrementDonations()
	return credit, s.finish(span, "donate", start, nil)
}

// Transfer moves funds between two distinct centers. Requires the capability
// bound to the source center. Conserves the summed balance of the pair.
func (s *LedgerService) Transfer(ctx context.Context, fromID, toID id.CenterID, amount id.Amount, token Token) error {
	ctx, span := s.tracer.Start(ctx, "ledger.transfer", trace.WithAttributes(
		attribute.String("from_center_id", fromID.String()),
		attribute.String("to_center_id", toID.String()),
		attribute.String("amount", strconv.FormatUint(uint64(amount), 10)),
	))
	defer span.End()
	start := time.Now()

	if err := requireCenterID(fromID); err != nil {
		return s.finish(span, "transfer", start, err)
	}
	if err := requireCenterID(toID); err != nil {
		return s.finish(span, "transfer", start, err)
	}
	if fromID == toID {
		return s.finish(span, "transfer", start,
			dErrors.New(dErrors.CodeInvalidInput, "transfer requires two distinct centers"))
	}
	if err := s.authorize(ctx, token, fromID); err != nil {
		return s.finish(span, "transfer", start, err)
	}

	actor := requestcontext.Principal(ctx).OrAnonymous()
	epoch := requestcontext.Epoch(ctx)

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		now := requestcontext.Now(txCtx)

		_, _, err := s.centers.ExecutePair(txCtx, fromID, toID,
			func(from, to *models.Center) error {
				if err := from.CanDebit(amount); err != nil {
					return err
				}
				return to.CanDeposit(amount)
			},
			func(from, to *models.Center) {
				from.ApplyDebit(amount, now)
				to.ApplyDeposit(amount, now)
			},
		)
		if err != nil {
			return wrapCenterErr(err)
		}

		return s.emitter.Emit(txCtx, audit.Record{
			Kind:       audit.KindFundsTransferred,
			Epoch:      epoch,
			Actor:      actor,
			Amount:     amount,
			CenterID:   fromID,
			ToCenterID: toID,
		})
	})
	if err != nil {
		return s.finish(span, "transfer", start, err)
	}

	s.logAudit(ctx, string(audit.KindFundsTransferred),
		"from_center_id", fromID,
		"to_center_id", toID,
		"amount", uint64(amount),
	)
	s.metrics.IncrementTransfers()
	return s.finish(span, "transfer", start, nil)
}

// Withdraw debits funds out of the ledger to an external recipient. Requires
// the capability bound to the center. The recipient is an opaque external
// reference recorded for the audit trail; no counterpart account exists.
func (s *LedgerService) Withdraw(ctx context.Context, centerID id.CenterID, amount id.Amount, recipient string, token Token) error {
	ctx, span := s.tracer.Start(ctx, "ledger.withdraw", trace.WithAttributes(
		attribute.String("center_id", centerID.String()),
		attribute.String("amount", strconv.FormatUint(uint64(amount), 10)),
	))
	defer span.End()
	start := time.Now()

	if err := requireCenterID(centerID); err != nil {
		return s.finish(span, "withdraw", start, err)
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return s.finish(span, "withdraw", start,
			dErrors.New(dErrors.CodeInvalidInput, "withdrawal recipient is required"))
	}
	if len(recipient) > 256 {
		return s.finish(span, "withdraw", start,
			dErrors.New(dErrors.CodeInvalidInput, "withdrawal recipient must be 256 characters or less"))
	}
	if err := s.authorize(ctx, token, centerID); err != nil {
		return s.finish(span, "withdraw", start, err)
	}

	actor := requestcontext.Principal(ctx).OrAnonymous()
	epoch := requestcontext.Epoch(ctx)

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		now := requestcontext.Now(txCtx)

		_, err := s.centers.Execute(txCtx, centerID,
			func(c *models.Center) error {
				return c.CanDebit(amount)
			},
			func(c *models.Center) {
				c.ApplyDebit(amount, now)
			},
		)
		if err != nil {
			return wrapCenterErr(err)
		}

		return s.emitter.Emit(txCtx, audit.Record{
			Kind:      audit.KindFundsWithdrawn,
			Epoch:     epoch,
			Actor:     actor,
			Recipient: recipient,
			Amount:    amount,
			CenterID:  centerID,
		})
	})
	if err != nil {
		return s.finish(span, "withdraw", start, err)
	}

	s.logAudit(ctx, string(audit.KindFundsWithdrawn),
		"center_id", centerID,
		"recipient", recipient,
		"amount", uint64(amount),
	)
	s.metrics.IncrementWithdrawals()
	return s.finish(span, "withdraw", start, nil)
}

// ListCreditsByCenter returns every credit minted against a center, oldest
// first, along with the summed issued quantity.
func (s *LedgerService) ListCreditsByCenter(ctx context.Context, centerID id.CenterID) ([]*models.Credit, id.Amount, error) {
	if err := requireCenterID(centerID); err != nil {
		return nil, 0, err
	}
	if _, err := s.centers.FindByID(ctx, centerID); err != nil {
		return nil, 0, wrapCenterErr(err)
	}

	credits, err := s.credits.ListByCenter(ctx, centerID)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list credits")
	}
	issued, err := s.credits.SupplyByCenter(ctx, centerID)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sum issued credits")
	}
	return credits, issued, nil
}

// ListCreditsByDonor returns every credit a donor holds across all centers.
func (s *LedgerService) ListCreditsByDonor(ctx context.Context, donor id.Principal) ([]*models.Credit, error) {
	if donor.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "donor is required")
	}
	credits, err := s.credits.ListByDonor(ctx, donor)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list credits")
	}
	return credits, nil
}

// authorize resolves the presented token and verifies it permits debits from
// centerID. Every failure collapses to unauthorized_access so callers cannot
// probe which part of the check failed; if the check cannot complete, the
// operation fails closed.
func (s *LedgerService) authorize(ctx context.Context, token Token, centerID id.CenterID) error {
	if token.CapabilityID.IsNil() || token.Secret == "" {
		return errUnauthorized()
	}

	capability, err := s.capabilities.FindByID(ctx, token.CapabilityID)
	if err != nil {
		if s.logger != nil && !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "capability lookup failed",
				"capability_id", token.CapabilityID,
				"error", err,
			)
		}
		return errUnauthorized()
	}
	if err := secrets.Verify(token.Secret, capability.SecretHash); err != nil {
		return errUnauthorized()
	}
	if !capability.Authorizes(centerID) {
		return errUnauthorized()
	}
	return nil
}

func errUnauthorized() error {
	return dErrors.New(dErrors.CodeUnauthorizedAccess, "capability does not authorize this operation")
}

func requireCenterID(centerID id.CenterID) error {
	if centerID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "center id is required")
	}
	return nil
}

func wrapCenterErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "center not found")
	}
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "center store failure")
}

// finish stamps the span with the outcome, records rejection and latency
// metrics, and returns err unchanged for tail-call use.
func (s *LedgerService) finish(span trace.Span, operation string, start time.Time, err error) error {
	if err != nil {
		code := dErrors.CodeOf(err)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, string(code))
		s.metrics.IncrementRejections(operation, string(code))
		return err
	}
	span.SetStatus(otelcodes.Ok, "")
	s.metrics.ObserveOperation(operation, start)
	return nil
}

func (s *LedgerService) logAudit(ctx context.Context, event string, attributes ...any) {
	if s.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}

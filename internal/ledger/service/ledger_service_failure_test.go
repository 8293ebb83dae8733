package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"almoner/internal/ledger/models"
	"almoner/internal/ledger/service/mocks"
	id "almoner/pkg/domain"
	dErrors "almoner/pkg/domain-errors"
	audit "almoner/pkg/platform/audit"
	"almoner/pkg/platform/sentinel"
	"almoner/pkg/secrets"
)

// =============================================================================
// Ledger Service Failure Path Suite
// =============================================================================
// Justification for mocked tests: the in-memory stores cannot fail on demand,
// so persistence and audit failures are simulated here to prove operations
// abort instead of committing half their effects.

type LedgerFailureSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	centers      *mocks.MockCenterStore
	capabilities *mocks.MockCapabilityStore
	credits      *mocks.MockCreditStore
	emitter      *mocks.MockAuditEmitter
	service      *LedgerService
}

func TestLedgerFailureSuite(t *testing.T) {
	suite.Run(t, new(LedgerFailureSuite))
}

func (s *LedgerFailureSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.centers = mocks.NewMockCenterStore(s.ctrl)
	s.capabilities = mocks.NewMockCapabilityStore(s.ctrl)
	s.credits = mocks.NewMockCreditStore(s.ctrl)
	s.emitter = mocks.NewMockAuditEmitter(s.ctrl)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var err error
	s.service, err = New(s.centers, s.capabilities, s.credits, s.emitter, WithLogger(logger))
	s.Require().NoError(err)
}

func (s *LedgerFailureSuite) TearDownTest() {
	s.ctrl.Finish()
}

func fixedTime() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

// fundedCenter builds a center holding the given balance.
func (s *LedgerFailureSuite) fundedCenter(balance id.Amount) *models.Center {
	center, err := models.NewCenter(id.CenterID(uuid.New()), "Harbor Relief", fixedTime())
	s.Require().NoError(err)
	if balance > 0 {
		center.ApplyDonation(balance, fixedTime())
		center.ApplyMint(balance, fixedTime())
	}
	return center
}

// grantedToken mints a capability for the center and returns the matching token.
func (s *LedgerFailureSuite) grantedToken(centerID id.CenterID) (*models.Capability, Token) {
	secret, err := secrets.Generate()
	s.Require().NoError(err)
	hash, err := secrets.Hash(secret)
	s.Require().NoError(err)
	capability, err := models.MintCapability(id.CapabilityID(uuid.New()), centerID, hash, fixedTime())
	s.Require().NoError(err)
	return capability, Token{CapabilityID: capability.ID, Secret: secret}
}

// expectExecute makes the mock run validate and mutate against the real
// aggregate, the way the stores do.
func (s *LedgerFailureSuite) expectExecute(center *models.Center) *gomock.Call {
	return s.centers.EXPECT().Execute(gomock.Any(), center.ID, gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, centerID id.CenterID, validate func(*models.Center) error, mutate func(*models.Center)) (*models.Center, error) {
			if err := validate(center); err != nil {
				return nil, err
			}
			mutate(center)
			return center, nil
		})
}

// =============================================================================
// Donate Failure Paths
// =============================================================================

func (s *LedgerFailureSuite) TestDonate_AuditFailureFailsOperation() {
	center := s.fundedCenter(0)
	emitErr := errors.New("audit store unavailable")

	s.expectExecute(center)
	s.credits.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, record audit.Record) error {
			assert.Equal(s.T(), audit.KindDonationReceived, record.Kind)
			return emitErr
		})

	credit, err := s.service.Donate(context.Background(), "donor-7", center.ID, 500)
	s.Error(err)
	s.ErrorIs(err, emitErr)
	s.Nil(credit)
}

func (s *LedgerFailureSuite) TestDonate_SecondAuditRecordFailureFailsOperation() {
	center := s.fundedCenter(0)
	emitErr := errors.New("audit store unavailable")

	s.expectExecute(center)
	s.credits.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	first := s.emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
	s.emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).After(first).DoAndReturn(
		func(ctx context.Context, record audit.Record) error {
			assert.Equal(s.T(), audit.KindTokensMinted, record.Kind)
			return emitErr
		})

	_, err := s.service.Donate(context.Background(), "donor-7", center.ID, 500)
	s.Error(err)
	s.ErrorIs(err, emitErr)
}

func (s *LedgerFailureSuite) TestDonate_CreditPersistFailureSkipsAudit() {
	center := s.fundedCenter(0)

	s.expectExecute(center)
	s.credits.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
	// No Emit expectation: a failed credit write must not reach the audit trail.

	_, err := s.service.Donate(context.Background(), "donor-7", center.ID, 500)
	s.Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *LedgerFailureSuite) TestDonate_ValidationFailureStopsBeforePersistence() {
	center := s.fundedCenter(0)

	s.expectExecute(center)
	// Neither the credit store nor the emitter may be touched.

	_, err := s.service.Donate(context.Background(), "donor-7", center.ID, 0)
	s.Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidAmount))
	s.Equal(id.Amount(0), center.Balance)
}

// =============================================================================
// Transfer Failure Paths
// =============================================================================

func (s *LedgerFailureSuite) TestTransfer_AuditFailureFailsOperation() {
	source := s.fundedCenter(1000)
	destination := s.fundedCenter(0)
	capability, token := s.grantedToken(source.ID)
	emitErr := errors.New("audit store unavailable")

	s.capabilities.EXPECT().FindByID(gomock.Any(), capability.ID).Return(capability, nil)
	s.centers.EXPECT().ExecutePair(gomock.Any(), source.ID, destination.ID, gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, firstID, secondID id.CenterID, validate func(*models.Center, *models.Center) error, mutate func(*models.Center, *models.Center)) (*models.Center, *models.Center, error) {
			if err := validate(source, destination); err != nil {
				return nil, nil, err
			}
			mutate(source, destination)
			return source, destination, nil
		})
	s.emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, record audit.Record) error {
			assert.Equal(s.T(), audit.KindFundsTransferred, record.Kind)
			assert.Equal(s.T(), source.ID, record.CenterID)
			assert.Equal(s.T(), destination.ID, record.ToCenterID)
			return emitErr
		})

	err := s.service.Transfer(context.Background(), source.ID, destination.ID, 400, token)
	s.Error(err)
	s.ErrorIs(err, emitErr)
}

func (s *LedgerFailureSuite) TestTransfer_CapabilityLookupFailsClosed() {
	source := s.fundedCenter(1000)
	destination := s.fundedCenter(0)
	_, token := s.grantedToken(source.ID)

	s.Run("capability not found", func() {
		s.capabilities.EXPECT().FindByID(gomock.Any(), token.CapabilityID).Return(nil, sentinel.ErrNotFound)

		err := s.service.Transfer(context.Background(), source.ID, destination.ID, 400, token)
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorizedAccess))
	})

	s.Run("capability store failure refuses rather than guessing", func() {
		s.capabilities.EXPECT().FindByID(gomock.Any(), token.CapabilityID).Return(nil, errors.New("db down"))

		err := s.service.Transfer(context.Background(), source.ID, destination.ID, 400, token)
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorizedAccess))
	})
}

// =============================================================================
// Withdraw Failure Paths
// =============================================================================

func (s *LedgerFailureSuite) TestWithdraw_AuditFailureFailsOperation() {
	center := s.fundedCenter(1000)
	capability, token := s.grantedToken(center.ID)
	emitErr := errors.New("audit store unavailable")

	s.capabilities.EXPECT().FindByID(gomock.Any(), capability.ID).Return(capability, nil)
	s.expectExecute(center)
	s.emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, record audit.Record) error {
			assert.Equal(s.T(), audit.KindFundsWithdrawn, record.Kind)
			assert.Equal(s.T(), "Harbor Food Bank", record.Recipient)
			return emitErr
		})

	err := s.service.Withdraw(context.Background(), center.ID, 300, "Harbor Food Bank", token)
	s.Error(err)
	s.ErrorIs(err, emitErr)
}

// =============================================================================
// CreateCenter Failure Paths
// =============================================================================

func (s *LedgerFailureSuite) TestCreateCenter_StoreConflict() {
	s.centers.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)
	// The capability must not be persisted when the center write failed.

	_, _, _, err := s.service.CreateCenter(context.Background(), "Harbor Relief")
	s.Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *LedgerFailureSuite) TestCreateCenter_CapabilityPersistFailure() {
	s.centers.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.capabilities.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	_, _, _, err := s.service.CreateCenter(context.Background(), "Harbor Relief")
	s.Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "almoner/pkg/domain"
	"almoner/pkg/platform/audit"
	"almoner/pkg/platform/audit/store/postgres"
	"almoner/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = postgres.New(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "audit_records")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) donationRecord(centerID id.CenterID, amount id.Amount) audit.Record {
	return audit.Record{
		ID:         id.RecordID(uuid.New()),
		Kind:       audit.KindDonationReceived,
		Epoch:      1,
		Actor:      "donor-1",
		Amount:     amount,
		CenterID:   centerID,
		RequestID:  "req-1",
		RecordedAt: time.Now().UTC(),
	}
}

func (s *PostgresStoreSuite) TestAppendAssignsMonotonicSequence() {
	ctx := context.Background()
	centerID := id.CenterID(uuid.New())

	for i := 0; i < 3; i++ {
		s.Require().NoError(s.store.Append(ctx, s.donationRecord(centerID, id.Amount(100+i))))
	}

	records, err := s.store.ListByCenter(ctx, centerID)
	s.Require().NoError(err)
	s.Require().Len(records, 3)
	for i, record := range records {
		s.Equal(uint64(i+1), record.Seq)
	}
}

func (s *PostgresStoreSuite) TestListByCenterIncludesTransferDestination() {
	ctx := context.Background()
	from := id.CenterID(uuid.New())
	to := id.CenterID(uuid.New())

	transfer := audit.Record{
		ID:         id.RecordID(uuid.New()),
		Kind:       audit.KindFundsTransferred,
		Epoch:      2,
		Actor:      "operator",
		Amount:     50,
		CenterID:   from,
		ToCenterID: to,
		RecordedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.store.Append(ctx, transfer))

	// The destination center's trail must show incoming transfers.
	records, err := s.store.ListByCenter(ctx, to)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(audit.KindFundsTransferred, records[0].Kind)
	s.Equal(from, records[0].CenterID)
	s.Equal(to, records[0].ToCenterID)
}

func (s *PostgresStoreSuite) TestOutboxFlow() {
	ctx := context.Background()
	centerID := id.CenterID(uuid.New())

	first := s.donationRecord(centerID, 100)
	second := s.donationRecord(centerID, 200)
	s.Require().NoError(s.store.Append(ctx, first))
	s.Require().NoError(s.store.Append(ctx, second))

	unpublished, err := s.store.ListUnpublished(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(unpublished, 2)
	s.Equal(first.ID, unpublished[0].ID)

	s.Require().NoError(s.store.MarkPublished(ctx, []id.RecordID{first.ID}))

	unpublished, err = s.store.ListUnpublished(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(unpublished, 1)
	s.Equal(second.ID, unpublished[0].ID)

	// Marking again is a no-op, not an error: the relay may retry after a
	// publish that succeeded but whose acknowledgment was lost.
	s.Require().NoError(s.store.MarkPublished(ctx, []id.RecordID{first.ID}))
}

func (s *PostgresStoreSuite) TestListUnpublishedHonorsLimit() {
	ctx := context.Background()
	centerID := id.CenterID(uuid.New())

	for i := 0; i < 5; i++ {
		s.Require().NoError(s.store.Append(ctx, s.donationRecord(centerID, id.Amount(10+i))))
	}

	unpublished, err := s.store.ListUnpublished(ctx, 3)
	s.Require().NoError(err)
	s.Len(unpublished, 3)
}

func (s *PostgresStoreSuite) TestRecordsRoundTripAllFields() {
	ctx := context.Background()

	record := audit.Record{
		ID:         id.RecordID(uuid.New()),
		Kind:       audit.KindTokensMinted,
		Epoch:      7,
		Actor:      "donor-9",
		Amount:     425,
		CenterID:   id.CenterID(uuid.New()),
		CreditID:   id.CreditID(uuid.New()),
		RequestID:  "req-42",
		RecordedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	s.Require().NoError(s.store.Append(ctx, record))

	records, err := s.store.ListAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 1)

	got := records[0]
	s.Equal(record.ID, got.ID)
	s.Equal(record.Kind, got.Kind)
	s.Equal(record.Epoch, got.Epoch)
	s.Equal(record.Actor, got.Actor)
	s.Equal(record.Amount, got.Amount)
	s.Equal(record.CenterID, got.CenterID)
	s.Equal(record.CreditID, got.CreditID)
	s.Equal(record.RequestID, got.RequestID)
	s.WithinDuration(record.RecordedAt, got.RecordedAt, time.Millisecond)
}

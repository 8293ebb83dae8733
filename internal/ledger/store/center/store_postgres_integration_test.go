//go:build integration

package center_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"almoner/internal/ledger/models"
	"almoner/internal/ledger/store/center"
	id "almoner/pkg/domain"
	"almoner/pkg/platform/sentinel"
	"almoner/pkg/platform/tx"
	"almoner/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *center.Postgres
	runner   *tx.Runner
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
	s.store = center.NewPostgres(s.postgres.DB)
	s.runner = tx.NewRunner(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "credits", "capabilities", "centers")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) newCenter(name string) *models.Center {
	c, err := models.NewCenter(id.CenterID(uuid.New()), name, time.Now().UTC())
	s.Require().NoError(err)
	return c
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	created := s.newCenter("Harbor Relief")

	s.Require().NoError(s.store.Create(ctx, created))

	found, err := s.store.FindByID(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, found.ID)
	s.Equal("Harbor Relief", found.Name)
	s.Equal(id.Amount(0), found.Balance)
	s.Equal(id.Amount(0), found.TotalContributions)
}

func (s *PostgresStoreSuite) TestFindMissingReturnsNotFound() {
	_, err := s.store.FindByID(context.Background(), id.CenterID(uuid.New()))
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *PostgresStoreSuite) TestCreateDuplicateConflicts() {
	ctx := context.Background()
	c := s.newCenter("Harbor Relief")

	s.Require().NoError(s.store.Create(ctx, c))
	err := s.store.Create(ctx, c)
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrConflict))
}

func (s *PostgresStoreSuite) TestExecuteValidateFailureLeavesRowUntouched() {
	ctx := context.Background()
	c := s.newCenter("Harbor Relief")
	s.Require().NoError(s.store.Create(ctx, c))

	boom := errors.New("rejected")
	err := s.runner.RunInTx(ctx, func(txCtx context.Context) error {
		_, execErr := s.store.Execute(txCtx, c.ID,
			func(*models.Center) error { return boom },
			func(cc *models.Center) { cc.ApplyDonation(100, time.Now()) },
		)
		return execErr
	})
	s.Require().ErrorIs(err, boom)

	found, findErr := s.store.FindByID(ctx, c.ID)
	s.Require().NoError(findErr)
	s.Equal(id.Amount(0), found.Balance)
}

// TestConcurrentExecuteSerializes runs many concurrent donations against one
// center; FOR UPDATE must serialize them so no increment is lost.
func (s *PostgresStoreSuite) TestConcurrentExecuteSerializes() {
	ctx := context.Background()
	c := s.newCenter("Busy Fund")
	s.Require().NoError(s.store.Create(ctx, c))

	const goroutines = 25
	const amount = id.Amount(10)

	var wg sync.WaitGroup
	errs := make(chan error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.runner.RunInTx(ctx, func(txCtx context.Context) error {
				_, err := s.store.Execute(txCtx, c.ID,
					func(cc *models.Center) error { return cc.CanReceive(amount) },
					func(cc *models.Center) {
						cc.ApplyDonation(amount, time.Now())
						cc.ApplyMint(amount, time.Now())
					},
				)
				return err
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	found, err := s.store.FindByID(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(id.Amount(goroutines)*amount, found.Balance)
	s.Equal(id.Amount(goroutines)*amount, found.TotalContributions)
	s.Equal(id.Amount(goroutines)*amount, found.CreditSupply)
}

// TestConcurrentOpposingTransfersDoNotDeadlock hammers ExecutePair in both
// directions across the same two rows. Deterministic lock ordering must keep
// the pair deadlock-free and conserve the combined balance.
func (s *PostgresStoreSuite) TestConcurrentOpposingTransfersDoNotDeadlock() {
	ctx := context.Background()
	a := s.newCenter("Fund A")
	b := s.newCenter("Fund B")
	s.Require().NoError(s.store.Create(ctx, a))
	s.Require().NoError(s.store.Create(ctx, b))

	fund := func(c *models.Center, amount id.Amount) {
		s.Require().NoError(s.runner.RunInTx(ctx, func(txCtx context.Context) error {
			_, err := s.store.Execute(txCtx, c.ID,
				func(cc *models.Center) error { return cc.CanReceive(amount) },
				func(cc *models.Center) { cc.ApplyDonation(amount, time.Now()) },
			)
			return err
		}))
	}
	fund(a, 10_000)
	fund(b, 10_000)

	transfer := func(fromID, toID id.CenterID, amount id.Amount) error {
		return s.runner.RunInTx(ctx, func(txCtx context.Context) error {
			_, _, err := s.store.ExecutePair(txCtx, fromID, toID,
				func(from, to *models.Center) error {
					if err := from.CanDebit(amount); err != nil {
						return err
					}
					return to.CanDeposit(amount)
				},
				func(from, to *models.Center) {
					from.ApplyDebit(amount, time.Now())
					to.ApplyDeposit(amount, time.Now())
				},
			)
			return err
		})
	}

	const rounds = 20
	var wg sync.WaitGroup
	errs := make(chan error, rounds*2)
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			errs <- transfer(a.ID, b.ID, 7)
		}()
		go func() {
			defer wg.Done()
			errs <- transfer(b.ID, a.ID, 7)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	finalA, err := s.store.FindByID(ctx, a.ID)
	s.Require().NoError(err)
	finalB, err := s.store.FindByID(ctx, b.ID)
	s.Require().NoError(err)
	s.Equal(id.Amount(20_000), finalA.Balance+finalB.Balance)
	s.Equal(id.Amount(10_000), finalA.Balance)
	s.Equal(id.Amount(10_000), finalB.Balance)
}

func (s *PostgresStoreSuite) TestCount() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.newCenter("One")))
	s.Require().NoError(s.store.Create(ctx, s.newCenter("Two")))

	count, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.Equal(2, count)
}

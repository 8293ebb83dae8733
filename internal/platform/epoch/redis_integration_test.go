//go:build integration

package epoch_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"almoner/internal/platform/epoch"
	"almoner/pkg/testutil/containers"
)

type RedisSourceSuite struct {
	suite.Suite
	redis  *containers.RedisContainer
	source *epoch.RedisSource
}

func TestRedisSourceSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisSourceSuite))
}

func (s *RedisSourceSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.source = epoch.NewRedisSource(s.redis.Client)
}

func (s *RedisSourceSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisSourceSuite) TestStartsAtOne() {
	first, err := s.source.Next(context.Background())
	s.Require().NoError(err)
	s.Equal(uint64(1), first)
}

func (s *RedisSourceSuite) TestStrictlyIncreasing() {
	ctx := context.Background()
	var last uint64
	for i := 0; i < 10; i++ {
		next, err := s.source.Next(ctx)
		s.Require().NoError(err)
		s.Greater(next, last)
		last = next
	}
}

// TestConcurrentEpochsAreDistinct verifies INCR hands out unique epochs when
// many replicas ask at once; this is the property that lets multiple API
// instances share one source.
func (s *RedisSourceSuite) TestConcurrentEpochsAreDistinct() {
	ctx := context.Background()
	const goroutines = 16
	const perGoroutine = 25

	var (
		mu   sync.Mutex
		seen = make(map[uint64]struct{}, goroutines*perGoroutine)
		wg   sync.WaitGroup
	)
	errs := make(chan error, goroutines*perGoroutine)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				next, err := s.source.Next(ctx)
				if err != nil {
					errs <- err
					return
				}
				mu.Lock()
				seen[next] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}
	s.Len(seen, goroutines*perGoroutine)
}

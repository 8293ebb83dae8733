package epoch

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterStartsAtOne(t *testing.T) {
	c := NewCounter()

	first, err := c.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first, "zero must stay reserved for unassigned epochs")
}

func TestCounterIsStrictlyIncreasing(t *testing.T) {
	c := NewCounter()
	ctx := context.Background()

	var prev uint64
	for i := 0; i < 100; i++ {
		next, err := c.Next(ctx)
		require.NoError(t, err)
		assert.Greater(t, next, prev)
		prev = next
	}
}

func TestCounterConcurrentCallersGetDistinctEpochs(t *testing.T) {
	c := NewCounter()
	ctx := context.Background()

	const goroutines = 64
	const perGoroutine = 50

	var mu sync.Mutex
	seen := make(map[uint64]bool, goroutines*perGoroutine)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				epoch, err := c.Next(ctx)
				if err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				if seen[epoch] {
					t.Errorf("epoch %d issued twice", epoch)
				}
				seen[epoch] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines*perGoroutine)
}

package service

import (
	"context"
	"sync"
)

// inMemoryStoreTx serializes whole ledger operations when the backing stores
// have no shared transaction mechanism of their own. It provides the
// all-or-nothing guarantee trivially for the in-memory substrate: operations
// never interleave, and validation runs before any mutation.
type inMemoryStoreTx struct {
	mu sync.Mutex
}

func newInMemoryStoreTx() *inMemoryStoreTx {
	return &inMemoryStoreTx{}
}

func (t *inMemoryStoreTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

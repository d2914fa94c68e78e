package testutil

import (
	"context"
	"sync"

	"github.com/roach88/spiral/internal/ir"
	"github.com/roach88/spiral/internal/store"
)

// SequenceAllocator is an in-memory id allocator.
//
// Unlike the store counters it is not transactional: ids handed to an
// operation that later aborts are not reused.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequenceAllocator struct {
	mu   sync.Mutex
	last map[ir.IDKind]uint64
}

// NewSequenceAllocator creates an allocator whose first id of every kind is 1.
func NewSequenceAllocator() *SequenceAllocator {
	return &SequenceAllocator{last: make(map[ir.IDKind]uint64)}
}

// Next increments and returns the counter for kind. The transaction is ignored.
func (a *SequenceAllocator) Next(_ context.Context, _ *store.Tx, kind ir.IDKind) (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last[kind]++
	return a.last[kind], nil
}

// Reset sets the last allocated id for kind.
func (a *SequenceAllocator) Reset(_ context.Context, _ *store.Tx, kind ir.IDKind, last uint64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last[kind] = last
	return nil
}

// Last returns the last allocated id for kind without incrementing.
func (a *SequenceAllocator) Last(_ context.Context, _ *store.Tx, kind ir.IDKind) (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last[kind], nil
}

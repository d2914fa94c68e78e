package engine

import (
	"context"

	"github.com/roach88/spiral/internal/ir"
	"github.com/roach88/spiral/internal/store"
)

// Allocator hands out monotonic ids per entity kind.
//
// Next is called inside the operation transaction; an allocator backed by
// the transaction gives the id back when the operation aborts.
type Allocator interface {
	Next(ctx context.Context, tx *store.Tx, kind ir.IDKind) (uint64, error)
	Reset(ctx context.Context, tx *store.Tx, kind ir.IDKind, last uint64) error
	Last(ctx context.Context, tx *store.Tx, kind ir.IDKind) (uint64, error)
}

// StoreAllocator keeps counters in the store's id_counters table.
type StoreAllocator struct{}

// Next returns the counter for kind incremented by one.
func (StoreAllocator) Next(ctx context.Context, tx *store.Tx, kind ir.IDKind) (uint64, error) {
	return tx.NextID(ctx, kind)
}

// Reset sets the last allocated id for kind.
func (StoreAllocator) Reset(ctx context.Context, tx *store.Tx, kind ir.IDKind, last uint64) error {
	return tx.SetLastID(ctx, kind, last)
}

// Last returns the last allocated id for kind.
func (StoreAllocator) Last(ctx context.Context, tx *store.Tx, kind ir.IDKind) (uint64, error) {
	return tx.LastID(ctx, kind)
}

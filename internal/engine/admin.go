package engine

import (
	"context"
	"fmt"

	"github.com/roach88/spiral/internal/ir"
	"github.com/roach88/spiral/internal/store"
)

// Indices holds the last allocated id of every entity kind.
type Indices struct {
	Objective uint64 `json:"objective"`
	Action    uint64 `json:"action"`
	Claim     uint64 `json:"claim"`
	Sale      uint64 `json:"sale"`
}

func (ix *Indices) field(kind ir.IDKind) *uint64 {
	switch kind {
	case ir.KindObjective:
		return &ix.Objective
	case ir.KindAction:
		return &ix.Action
	case ir.KindClaim:
		return &ix.Claim
	default:
		return &ix.Sale
	}
}

// SetIndices overwrites every id counter. Only the admin identity may call it;
// it exists for migrations and bootstrapping.
func (e *Engine) SetIndices(ctx context.Context, ix Indices) error {
	return e.transact(ctx, "set_indices", func(o *op) error {
		if err := o.requireAuth(o.e.admin); err != nil {
			return err
		}
		for _, kind := range ir.IDKinds {
			if err := o.e.allocator.Reset(o.ctx, o.tx, kind, *ix.field(kind)); err != nil {
				return o.storage(err)
			}
		}
		return nil
	})
}

// GetIndices returns the last id handed out for every kind.
func (e *Engine) GetIndices(ctx context.Context) (Indices, error) {
	var ix Indices
	err := e.store.View(ctx, func(tx *store.Tx) error {
		for _, kind := range ir.IDKinds {
			last, err := e.allocator.Last(ctx, tx, kind)
			if err != nil {
				return err
			}
			*ix.field(kind) = last
		}
		return nil
	})
	if err != nil {
		return Indices{}, fmt.Errorf("get_indices: %w", err)
	}
	return ix, nil
}

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/spiral/internal/ir"
)

func TestNextID_IndependentSequences(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	var got []uint64
	mustUpdate(t, s, func(tx *Tx) error {
		for _, k := range []ir.IDKind{ir.KindAction, ir.KindAction, ir.KindClaim, ir.KindAction} {
			id, err := tx.NextID(ctx, k)
			if err != nil {
				return err
			}
			got = append(got, id)
		}
		return nil
	})
	assert.Equal(t, []uint64{1, 2, 1, 3}, got)
}

func TestNextID_RolledBackWithTransaction(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	errAbort := errors.New("abort")
	err := s.Update(ctx, func(tx *Tx) error {
		if _, err := tx.NextID(ctx, ir.KindObjective); err != nil {
			return err
		}
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	mustUpdate(t, s, func(tx *Tx) error {
		id, err := tx.NextID(ctx, ir.KindObjective)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), id)
		return nil
	})
}

func TestSetLastID_Overrides(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	mustUpdate(t, s, func(tx *Tx) error {
		if _, err := tx.NextID(ctx, ir.KindClaim); err != nil {
			return err
		}
		if err := tx.SetLastID(ctx, ir.KindClaim, 100); err != nil {
			return err
		}
		return tx.SetLastID(ctx, ir.KindSale, 7)
	})

	require.NoError(t, s.View(ctx, func(tx *Tx) error {
		last, err := tx.LastID(ctx, ir.KindSale)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), last)

		last, err = tx.LastID(ctx, ir.KindObjective)
		require.NoError(t, err)
		assert.Zero(t, last)

		next, err := tx.NextID(ctx, ir.KindClaim)
		require.NoError(t, err)
		assert.Equal(t, uint64(101), next)
		return nil
	}))
}

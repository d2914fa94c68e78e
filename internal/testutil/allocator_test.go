package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/spiral/internal/ir"
)

func TestSequenceAllocator_PerKind(t *testing.T) {
	a := NewSequenceAllocator()
	ctx := context.Background()

	for want := uint64(1); want <= 3; want++ {
		got, err := a.Next(ctx, nil, ir.KindAction)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := a.Next(ctx, nil, ir.KindClaim)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got)

	last, err := a.Last(ctx, nil, ir.KindAction)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), last)
}

func TestSequenceAllocator_Reset(t *testing.T) {
	a := NewSequenceAllocator()
	ctx := context.Background()

	require.NoError(t, a.Reset(ctx, nil, ir.KindObjective, 41))
	got, err := a.Next(ctx, nil, ir.KindObjective)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got)
}

func TestSequenceAllocator_ThreadSafe(t *testing.T) {
	a := NewSequenceAllocator()
	const goroutines = 100

	ids := make(chan uint64, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, _ := a.Next(context.Background(), nil, ir.KindSale)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint64]bool)
	for id := range ids {
		assert.False(t, seen[id], "id %d allocated twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, goroutines)
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/spiral/internal/ir"
)

// NextID increments the counter for kind and returns the new value.
// The first id of every kind is 1. Inside an Update the increment is rolled
// back with the rest of the transaction.
func (t *Tx) NextID(ctx context.Context, kind ir.IDKind) (uint64, error) {
	var id int64
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO id_counters (kind, last_used) VALUES (?, 1)
		ON CONFLICT(kind) DO UPDATE SET last_used = last_used + 1
		RETURNING last_used
	`, string(kind)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("next id %s: %w", kind, err)
	}
	return uint64(id), nil
}

// LastID returns the last allocated id for kind, 0 if none.
func (t *Tx) LastID(ctx context.Context, kind ir.IDKind) (uint64, error) {
	var id int64
	err := t.tx.QueryRowContext(ctx, `
		SELECT last_used FROM id_counters WHERE kind = ?
	`, string(kind)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("last id %s: %w", kind, err)
	}
	return uint64(id), nil
}

// SetLastID overwrites the counter for kind.
func (t *Tx) SetLastID(ctx context.Context, kind ir.IDKind, id uint64) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO id_counters (kind, last_used) VALUES (?, ?)
		ON CONFLICT(kind) DO UPDATE SET last_used = excluded.last_used
	`, string(kind), int64(id))
	if err != nil {
		return fmt.Errorf("set last id %s: %w", kind, err)
	}
	return nil
}

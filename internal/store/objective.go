package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/spiral/internal/ir"
)

// InsertObjective stores a new objective. The id must come from the allocator.
func (t *Tx) InsertObjective(ctx context.Context, o ir.Objective) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO objectives (id, community, creator, description)
		VALUES (?, ?, ?, ?)
	`, int64(o.ID), o.Community.String(), string(o.Creator), o.Description)
	if err != nil {
		return fmt.Errorf("insert objective: %w", err)
	}
	return nil
}

// UpdateObjectiveDescription replaces an objective's description.
func (t *Tx) UpdateObjectiveDescription(ctx context.Context, id uint64, description string) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE objectives SET description = ? WHERE id = ?
	`, description, int64(id))
	if err != nil {
		return fmt.Errorf("update objective: %w", err)
	}
	return expectOneRow(res, "objective", id)
}

// GetObjective returns the objective with the given id.
func (t *Tx) GetObjective(ctx context.Context, id uint64) (ir.Objective, error) {
	var community, creator, description string
	err := t.tx.QueryRowContext(ctx, `
		SELECT community, creator, description FROM objectives WHERE id = ?
	`, int64(id)).Scan(&community, &creator, &description)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Objective{}, notFound("objective", id)
	}
	if err != nil {
		return ir.Objective{}, fmt.Errorf("get objective: %w", err)
	}

	sym, err := ir.ParseSymbol(community)
	if err != nil {
		return ir.Objective{}, fmt.Errorf("get objective: %w", err)
	}
	return ir.Objective{ID: id, Community: sym, Creator: ir.Name(creator), Description: description}, nil
}

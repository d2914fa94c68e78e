package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/spiral/internal/ir"
)

// InsertCommunity stores a new community row keyed by its symbol.
func (t *Tx) InsertCommunity(ctx context.Context, c ir.Community) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO communities
		(symbol, creator, logo, name, description, inviter_reward, invited_reward)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		c.Symbol.String(),
		string(c.Creator),
		c.Logo,
		c.Name,
		c.Description,
		c.InviterReward.String(),
		c.InvitedReward.String(),
	)
	if err != nil {
		return fmt.Errorf("insert community: %w", err)
	}
	return nil
}

// UpdateCommunity overwrites the mutable metadata of an existing community.
func (t *Tx) UpdateCommunity(ctx context.Context, c ir.Community) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE communities
		SET logo = ?, name = ?, description = ?, inviter_reward = ?, invited_reward = ?
		WHERE symbol = ?
	`,
		c.Logo,
		c.Name,
		c.Description,
		c.InviterReward.String(),
		c.InvitedReward.String(),
		c.Symbol.String(),
	)
	if err != nil {
		return fmt.Errorf("update community: %w", err)
	}
	return expectOneRow(res, "community", c.Symbol)
}

// GetCommunity returns the community with the given symbol.
func (t *Tx) GetCommunity(ctx context.Context, sym ir.Symbol) (ir.Community, error) {
	var (
		c                      ir.Community
		creator                string
		inviterRwd, invitedRwd string
	)
	err := t.tx.QueryRowContext(ctx, `
		SELECT creator, logo, name, description, inviter_reward, invited_reward
		FROM communities
		WHERE symbol = ?
	`, sym.String()).Scan(&creator, &c.Logo, &c.Name, &c.Description, &inviterRwd, &invitedRwd)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Community{}, notFound("community", sym)
	}
	if err != nil {
		return ir.Community{}, fmt.Errorf("get community: %w", err)
	}

	c.Symbol = sym
	c.Creator = ir.Name(creator)
	if c.InviterReward, err = ir.ParseAsset(inviterRwd); err != nil {
		return ir.Community{}, fmt.Errorf("get community: inviter_reward: %w", err)
	}
	if c.InvitedReward, err = ir.ParseAsset(invitedRwd); err != nil {
		return ir.Community{}, fmt.Errorf("get community: invited_reward: %w", err)
	}
	return c, nil
}

// expectOneRow converts a zero-row UPDATE/DELETE into ErrNotFound.
func expectOneRow(res sql.Result, what string, key any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", what, err)
	}
	if n == 0 {
		return notFound(what, key)
	}
	return nil
}

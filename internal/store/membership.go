package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/spiral/internal/ir"
)

// InsertMembership stores a membership edge.
// The (community, account) pair is unique; a second insert fails.
func (t *Tx) InsertMembership(ctx context.Context, m ir.Membership) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO memberships (key, community, account, invited_by)
		VALUES (?, ?, ?, ?)
	`, m.Key, m.Community.String(), string(m.Account), string(m.InvitedBy))
	if err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

// GetMembership looks up a membership edge by its derived key.
func (t *Tx) GetMembership(ctx context.Context, key string) (ir.Membership, error) {
	var community, account, invitedBy string
	err := t.tx.QueryRowContext(ctx, `
		SELECT community, account, invited_by FROM memberships WHERE key = ?
	`, key).Scan(&community, &account, &invitedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Membership{}, notFound("membership", key)
	}
	if err != nil {
		return ir.Membership{}, fmt.Errorf("get membership: %w", err)
	}

	sym, err := ir.ParseSymbol(community)
	if err != nil {
		return ir.Membership{}, fmt.Errorf("get membership: %w", err)
	}
	return ir.Membership{
		Key:       key,
		Community: sym,
		Account:   ir.Name(account),
		InvitedBy: ir.Name(invitedBy),
	}, nil
}

// HasMembership reports whether a membership edge exists for key.
func (t *Tx) HasMembership(ctx context.Context, key string) (bool, error) {
	var count int
	err := t.tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM memberships WHERE key = ?
	`, key).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("has membership: %w", err)
	}
	return count > 0, nil
}

// ListMembers returns the membership edges of a community in join order.
func (t *Tx) ListMembers(ctx context.Context, sym ir.Symbol) ([]ir.Membership, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT key, account, invited_by FROM memberships
		WHERE community = ?
		ORDER BY rowid ASC
	`, sym.String())
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []ir.Membership
	for rows.Next() {
		var key, account, invitedBy string
		if err := rows.Scan(&key, &account, &invitedBy); err != nil {
			return nil, fmt.Errorf("list members: scan: %w", err)
		}
		members = append(members, ir.Membership{
			Key:       key,
			Community: sym,
			Account:   ir.Name(account),
			InvitedBy: ir.Name(invitedBy),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

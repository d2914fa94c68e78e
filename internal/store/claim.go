package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/spiral/internal/ir"
)

// InsertClaim stores a new, unverified claim. The id must come from the allocator.
func (t *Tx) InsertClaim(ctx context.Context, c ir.Claim) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO claims (id, action_id, claimer, is_verified)
		VALUES (?, ?, ?, ?)
	`, int64(c.ID), int64(c.ActionID), string(c.Claimer), boolToInt(c.IsVerified))
	if err != nil {
		return fmt.Errorf("insert claim: %w", err)
	}
	return nil
}

// GetClaim returns the claim with the given id, without its checks.
func (t *Tx) GetClaim(ctx context.Context, id uint64) (ir.Claim, error) {
	var (
		actionID int64
		claimer  string
		verified int
	)
	err := t.tx.QueryRowContext(ctx, `
		SELECT action_id, claimer, is_verified FROM claims WHERE id = ?
	`, int64(id)).Scan(&actionID, &claimer, &verified)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Claim{}, notFound("claim", id)
	}
	if err != nil {
		return ir.Claim{}, fmt.Errorf("get claim: %w", err)
	}
	return ir.Claim{
		ID:         id,
		ActionID:   uint64(actionID),
		Claimer:    ir.Name(claimer),
		IsVerified: verified != 0,
	}, nil
}

// MarkClaimVerified flips is_verified to true. It never reverts.
func (t *Tx) MarkClaimVerified(ctx context.Context, id uint64) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE claims SET is_verified = 1 WHERE id = ? AND is_verified = 0
	`, int64(id))
	if err != nil {
		return fmt.Errorf("mark claim verified: %w", err)
	}
	return expectOneRow(res, "unverified claim", id)
}

// InsertCheck appends a vote to the ledger and returns its id.
// The UNIQUE(claim_id, validator) constraint rejects a second vote.
func (t *Tx) InsertCheck(ctx context.Context, c ir.Check) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO checks (claim_id, validator, vote) VALUES (?, ?, ?)
	`, int64(c.ClaimID), string(c.Validator), int(c.Vote))
	if err != nil {
		return 0, fmt.Errorf("insert check: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert check: last insert id: %w", err)
	}
	return id, nil
}

// ChecksByClaim returns every vote recorded for a claim in arrival order.
func (t *Tx) ChecksByClaim(ctx context.Context, claimID uint64) ([]ir.Check, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT id, validator, vote FROM checks
		WHERE claim_id = ?
		ORDER BY id ASC
	`, int64(claimID))
	if err != nil {
		return nil, fmt.Errorf("checks by claim: %w", err)
	}
	defer rows.Close()

	var checks []ir.Check
	for rows.Next() {
		var (
			c         ir.Check
			validator string
			vote      int
		)
		if err := rows.Scan(&c.ID, &validator, &vote); err != nil {
			return nil, fmt.Errorf("checks by claim: scan: %w", err)
		}
		c.ClaimID = claimID
		c.Validator = ir.Name(validator)
		c.Vote = ir.Vote(vote)
		checks = append(checks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("checks by claim: %w", err)
	}
	return checks, nil
}

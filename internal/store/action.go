package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/spiral/internal/ir"
)

// InsertAction stores a new action row. The id must come from the allocator.
func (t *Tx) InsertAction(ctx context.Context, a ir.Action) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO actions
		(id, objective_id, description, reward, verifier_reward, deadline,
		 usages, usages_left, verifications_required, verification_mode, is_completed, creator)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		int64(a.ID),
		int64(a.ObjectiveID),
		a.Description,
		a.Reward.String(),
		a.VerifierReward.String(),
		encodeDeadline(a.Deadline),
		int64(a.Usages),
		int64(a.UsagesLeft),
		int64(a.VerificationsRequired),
		string(a.Mode),
		boolToInt(a.IsCompleted),
		string(a.Creator),
	)
	if err != nil {
		return fmt.Errorf("insert action: %w", err)
	}
	return nil
}

// UpdateAction overwrites every mutable column of an existing action.
// objective_id and creator are identity columns and are left untouched.
func (t *Tx) UpdateAction(ctx context.Context, a ir.Action) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE actions
		SET description = ?, reward = ?, verifier_reward = ?, deadline = ?,
		    usages = ?, usages_left = ?, verifications_required = ?,
		    verification_mode = ?, is_completed = ?
		WHERE id = ?
	`,
		a.Description,
		a.Reward.String(),
		a.VerifierReward.String(),
		encodeDeadline(a.Deadline),
		int64(a.Usages),
		int64(a.UsagesLeft),
		int64(a.VerificationsRequired),
		string(a.Mode),
		boolToInt(a.IsCompleted),
		int64(a.ID),
	)
	if err != nil {
		return fmt.Errorf("update action: %w", err)
	}
	return expectOneRow(res, "action", a.ID)
}

// SetActionUsage records the usage counters after a verification.
func (t *Tx) SetActionUsage(ctx context.Context, id, usagesLeft uint64, completed bool) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE actions SET usages_left = ?, is_completed = ? WHERE id = ?
	`, int64(usagesLeft), boolToInt(completed), int64(id))
	if err != nil {
		return fmt.Errorf("set action usage: %w", err)
	}
	return expectOneRow(res, "action", id)
}

// GetAction returns the action with the given id, without its validators.
func (t *Tx) GetAction(ctx context.Context, id uint64) (ir.Action, error) {
	var (
		a                         ir.Action
		objectiveID               int64
		reward, verifierReward    string
		deadline                  int64
		usages, usagesLeft, verif int64
		mode, creator             string
		completed                 int
	)
	err := t.tx.QueryRowContext(ctx, `
		SELECT objective_id, description, reward, verifier_reward, deadline,
		       usages, usages_left, verifications_required, verification_mode,
		       is_completed, creator
		FROM actions WHERE id = ?
	`, int64(id)).Scan(
		&objectiveID, &a.Description, &reward, &verifierReward, &deadline,
		&usages, &usagesLeft, &verif, &mode, &completed, &creator,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Action{}, notFound("action", id)
	}
	if err != nil {
		return ir.Action{}, fmt.Errorf("get action: %w", err)
	}

	a.ID = id
	a.ObjectiveID = uint64(objectiveID)
	a.Deadline = decodeDeadline(deadline)
	a.Usages = uint64(usages)
	a.UsagesLeft = uint64(usagesLeft)
	a.VerificationsRequired = uint64(verif)
	a.Mode = ir.VerificationMode(mode)
	a.IsCompleted = completed != 0
	a.Creator = ir.Name(creator)
	if a.Reward, err = ir.ParseAsset(reward); err != nil {
		return ir.Action{}, fmt.Errorf("get action: reward: %w", err)
	}
	if a.VerifierReward, err = ir.ParseAsset(verifierReward); err != nil {
		return ir.Action{}, fmt.Errorf("get action: verifier_reward: %w", err)
	}
	return a, nil
}

// DeleteAction removes an action row. Its validators are removed by cascade.
func (t *Tx) DeleteAction(ctx context.Context, id uint64) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM actions WHERE id = ?`, int64(id))
	if err != nil {
		return fmt.Errorf("delete action: %w", err)
	}
	return expectOneRow(res, "action", id)
}

// ReplaceValidators deletes every validator row of the action and inserts
// the given set in order. An empty set leaves the action without validators.
func (t *Tx) ReplaceValidators(ctx context.Context, actionID uint64, validators []ir.Name) error {
	if _, err := t.tx.ExecContext(ctx, `
		DELETE FROM validators WHERE action_id = ?
	`, int64(actionID)); err != nil {
		return fmt.Errorf("replace validators: delete: %w", err)
	}

	for _, v := range validators {
		if _, err := t.tx.ExecContext(ctx, `
			INSERT INTO validators (action_id, validator) VALUES (?, ?)
		`, int64(actionID), string(v)); err != nil {
			return fmt.Errorf("replace validators: insert %s: %w", v, err)
		}
	}
	return nil
}

// Validators returns the allowlist of an action in insertion order.
func (t *Tx) Validators(ctx context.Context, actionID uint64) ([]ir.Name, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT validator FROM validators WHERE action_id = ? ORDER BY id ASC
	`, int64(actionID))
	if err != nil {
		return nil, fmt.Errorf("validators: %w", err)
	}
	defer rows.Close()

	var names []ir.Name
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("validators: scan: %w", err)
		}
		names = append(names, ir.Name(v))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("validators: %w", err)
	}
	return names, nil
}

// IsValidator reports whether name is on the action's allowlist.
func (t *Tx) IsValidator(ctx context.Context, actionID uint64, name ir.Name) (bool, error) {
	var count int
	err := t.tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM validators WHERE action_id = ? AND validator = ?
	`, int64(actionID), string(name)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("is validator: %w", err)
	}
	return count > 0, nil
}

// encodeDeadline stores a deadline as unix seconds, 0 meaning none.
func encodeDeadline(d time.Time) int64 {
	if d.IsZero() {
		return 0
	}
	return d.Unix()
}

func decodeDeadline(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

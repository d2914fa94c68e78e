package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/spiral/internal/ir"
	"github.com/roach88/spiral/internal/store"
)

// view runs a read-only query. store.ErrNotFound becomes a not_found *Error.
func (e *Engine) view(ctx context.Context, name string, fn func(*store.Tx) error) error {
	err := e.store.View(ctx, fn)
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return &Error{Kind: KindNotFound, Op: name, Message: err.Error()}
	}
	return fmt.Errorf("%s: %w", name, err)
}

// GetCommunity returns the community identified by sym.
func (e *Engine) GetCommunity(ctx context.Context, sym ir.Symbol) (ir.Community, error) {
	var c ir.Community
	err := e.view(ctx, "get_community", func(tx *store.Tx) (err error) {
		c, err = tx.GetCommunity(ctx, sym)
		return err
	})
	return c, err
}

// Members returns the membership edges of a community in join order.
func (e *Engine) Members(ctx context.Context, sym ir.Symbol) ([]ir.Membership, error) {
	var ms []ir.Membership
	err := e.view(ctx, "members", func(tx *store.Tx) error {
		if _, err := tx.GetCommunity(ctx, sym); err != nil {
			return err
		}
		var err error
		ms, err = tx.ListMembers(ctx, sym)
		return err
	})
	return ms, err
}

// IsMember reports whether account belongs to community.
func (e *Engine) IsMember(ctx context.Context, community ir.Symbol, account ir.Name) (bool, error) {
	key, err := ir.MembershipKey(community, account)
	if err != nil {
		return false, fmt.Errorf("is_member: %w", err)
	}
	var ok bool
	err = e.view(ctx, "is_member", func(tx *store.Tx) (err error) {
		ok, err = tx.HasMembership(ctx, key)
		return err
	})
	return ok, err
}

// GetObjective returns the objective with the given id.
func (e *Engine) GetObjective(ctx context.Context, id uint64) (ir.Objective, error) {
	var obj ir.Objective
	err := e.view(ctx, "get_objective", func(tx *store.Tx) (err error) {
		obj, err = tx.GetObjective(ctx, id)
		return err
	})
	return obj, err
}

// GetAction returns the action with the given id and its validator allowlist.
func (e *Engine) GetAction(ctx context.Context, id uint64) (ir.Action, error) {
	var a ir.Action
	err := e.view(ctx, "get_action", func(tx *store.Tx) (err error) {
		if a, err = tx.GetAction(ctx, id); err != nil {
			return err
		}
		a.Validators, err = tx.Validators(ctx, id)
		return err
	})
	return a, err
}

// GetClaim returns the claim with the given id and its votes in arrival order.
func (e *Engine) GetClaim(ctx context.Context, id uint64) (ir.Claim, error) {
	var c ir.Claim
	err := e.view(ctx, "get_claim", func(tx *store.Tx) (err error) {
		if c, err = tx.GetClaim(ctx, id); err != nil {
			return err
		}
		c.Checks, err = tx.ChecksByClaim(ctx, id)
		return err
	})
	return c, err
}

// ListIssuances returns journaled issuer calls with seq greater than afterSeq.
func (e *Engine) ListIssuances(ctx context.Context, afterSeq int64) ([]ir.Issuance, error) {
	var out []ir.Issuance
	err := e.view(ctx, "list_issuances", func(tx *store.Tx) (err error) {
		out, err = tx.ListIssuances(ctx, afterSeq)
		return err
	})
	return out, err
}

// Accounts returns the registered accounts in name order.
func (e *Engine) Accounts(ctx context.Context) ([]ir.Name, error) {
	var out []ir.Name
	err := e.view(ctx, "accounts", func(tx *store.Tx) (err error) {
		out, err = tx.ListAccounts(ctx)
		return err
	})
	return out, err
}

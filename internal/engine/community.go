package engine

import (
	"context"
	"errors"

	"github.com/roach88/spiral/internal/ir"
	"github.com/roach88/spiral/internal/store"
)

// CreateCommunity registers a community under c.Symbol and joins its creator
// to it. The self-join pays no reward and initializes no account.
func (e *Engine) CreateCommunity(ctx context.Context, c ir.Community) error {
	return e.transact(ctx, "create_community", func(o *op) error {
		if err := o.requireAuth(c.Creator); err != nil {
			return err
		}
		if err := o.requireAccount(c.Creator, "creator"); err != nil {
			return err
		}
		if !c.Symbol.Valid() {
			return o.fail(KindValidation, "invalid symbol %s", c.Symbol)
		}
		cmm, err := o.checkCommunityFields(c)
		if err != nil {
			return err
		}

		switch _, err := o.tx.GetCommunity(o.ctx, c.Symbol); {
		case err == nil:
			return o.fail(KindDuplicate, "symbol %s already exists", c.Symbol)
		case !errors.Is(err, store.ErrNotFound):
			return o.storage(err)
		}

		if err := o.tx.InsertCommunity(o.ctx, cmm); err != nil {
			return o.storage(err)
		}
		if err := o.join(cmm, cmm.Creator, cmm.Creator); err != nil {
			return err
		}
		o.notify(cmm.Creator)
		return nil
	})
}

// UpdateCommunity overwrites the logo, name, description and referral
// rewards of an existing community. Only its creator may do so.
func (e *Engine) UpdateCommunity(ctx context.Context, c ir.Community) error {
	return e.transact(ctx, "update_community", func(o *op) error {
		stored, err := o.tx.GetCommunity(o.ctx, c.Symbol)
		if err != nil {
			return o.lookup(err, "can't find any community with symbol %s", c.Symbol)
		}
		if err := o.requireAuth(stored.Creator); err != nil {
			return err
		}

		c.Creator = stored.Creator
		cmm, err := o.checkCommunityFields(c)
		if err != nil {
			return err
		}
		if err := o.tx.UpdateCommunity(o.ctx, cmm); err != nil {
			return o.storage(err)
		}
		return nil
	})
}

// checkCommunityFields validates rewards and text fields and returns c with
// its text normalized.
func (o *op) checkCommunityFields(c ir.Community) (ir.Community, error) {
	if err := o.checkReward("invited_reward", c.InvitedReward, c.Symbol); err != nil {
		return c, err
	}
	if err := o.checkReward("inviter_reward", c.InviterReward, c.Symbol); err != nil {
		return c, err
	}

	var err error
	if c.Name, err = o.checkText("name", c.Name); err != nil {
		return c, err
	}
	if c.Description, err = o.checkText("description", c.Description); err != nil {
		return c, err
	}
	if c.Logo, err = o.checkText("logo", c.Logo); err != nil {
		return c, err
	}
	return c, nil
}

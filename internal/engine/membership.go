package engine

import (
	"context"
	"slices"

	"github.com/roach88/spiral/internal/ir"
)

// AddAccount registers name in the account registry. Registering an
// existing account has no effect.
func (e *Engine) AddAccount(ctx context.Context, name ir.Name) error {
	return e.transact(ctx, "add_account", func(o *op) error {
		if err := name.Validate(); err != nil {
			return o.fail(KindValidation, "%v", err)
		}
		if err := o.tx.InsertAccount(o.ctx, name); err != nil {
			return o.storage(err)
		}
		return nil
	})
}

// Join adds newUser to community, invited by inviter.
//
// The call must be signed by inviter or by a trusted issuer. Joining twice
// is a silent no-op. When inviter and newUser differ the community's
// referral rewards are issued: inviter_reward to the inviter and
// invited_reward to the new user, or an account initialization when the
// invited reward is zero.
func (e *Engine) Join(ctx context.Context, community ir.Symbol, newUser, inviter ir.Name) error {
	return e.transact(ctx, "join", func(o *op) error {
		ok, err := o.accountExists(newUser)
		if err != nil {
			return err
		}
		if !ok {
			return o.fail(KindValidation, "new user account %q doesn't exist", newUser)
		}

		if !o.authorized(inviter) && !o.trustedIssuerSigned() {
			return o.fail(KindAuthorization, "missing authority of %s or a trusted issuer", inviter)
		}

		cmm, err := o.tx.GetCommunity(o.ctx, community)
		if err != nil {
			return o.lookup(err, "can't find any community with symbol %s", community)
		}
		return o.join(cmm, newUser, inviter)
	})
}

func (o *op) trustedIssuerSigned() bool {
	return slices.ContainsFunc(o.e.trustedIssuers, o.authorized)
}

// join inserts the membership edge and schedules referral rewards.
// Authorization has already been checked.
func (o *op) join(cmm ir.Community, newUser, inviter ir.Name) error {
	key, err := ir.MembershipKey(cmm.Symbol, newUser)
	if err != nil {
		return o.storage(err)
	}
	exists, err := o.tx.HasMembership(o.ctx, key)
	if err != nil {
		return o.storage(err)
	}
	if exists {
		return nil
	}

	if inviter != cmm.Creator {
		member, err := o.isMember(cmm.Symbol, inviter)
		if err != nil {
			return err
		}
		if !member {
			return o.fail(KindNotFound, "unknown inviter %s", inviter)
		}
	}

	err = o.tx.InsertMembership(o.ctx, ir.Membership{
		Key:       key,
		Community: cmm.Symbol,
		Account:   newUser,
		InvitedBy: inviter,
	})
	if err != nil {
		return o.storage(err)
	}
	o.notify(newUser)

	if inviter == newUser {
		return nil
	}

	if cmm.InviterReward.IsPositive() {
		o.issue(inviter, cmm.InviterReward, "Thanks for helping "+cmm.Name+" grow!")
		o.notify(inviter)
	}
	if cmm.InvitedReward.IsPositive() {
		o.issue(newUser, cmm.InvitedReward, "Welcome to "+cmm.Name+"!")
	} else {
		o.initAccount(cmm.InvitedReward.Symbol, newUser)
	}
	return nil
}

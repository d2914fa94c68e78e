package engine

import (
	"context"

	"github.com/roach88/spiral/internal/ir"
)

const (
	memoAction       = "Thanks for doing an action for your community"
	memoVerification = "Thanks for verifying an action for your community"
)

// actionScope is an action together with the community that owns it.
type actionScope struct {
	action    ir.Action
	community ir.Community
}

// loadAction resolves an action through its objective to its community.
func (o *op) loadAction(id uint64) (actionScope, error) {
	a, err := o.tx.GetAction(o.ctx, id)
	if err != nil {
		return actionScope{}, o.lookup(err, "can't find action %d", id)
	}
	obj, err := o.tx.GetObjective(o.ctx, a.ObjectiveID)
	if err != nil {
		return actionScope{}, o.lookup(err, "can't find objective %d of action %d", a.ObjectiveID, id)
	}
	cmm, err := o.tx.GetCommunity(o.ctx, obj.Community)
	if err != nil {
		return actionScope{}, o.lookup(err, "can't find community %s of action %d", obj.Community, id)
	}
	return actionScope{action: a, community: cmm}, nil
}

// requireOpen rejects completed or exhausted actions. Deadlines are checked
// only when checkDeadline is set.
func (o *op) requireOpen(a ir.Action, checkDeadline bool) error {
	if a.IsCompleted {
		return o.fail(KindState, "action %d is already completed", a.ID)
	}
	if checkDeadline && a.HasDeadline() && !o.now().Before(a.Deadline) {
		return o.fail(KindState, "deadline of action %d exceeded", a.ID)
	}
	if a.Limited() && a.UsagesLeft < 1 {
		return o.fail(KindState, "there are no usages left for action %d", a.ID)
	}
	return nil
}

// VerifyAction records that maker performed automatic action actionID,
// attested by verifier, and pays the action reward to maker.
//
// For limited actions usages_left is decremented and the action completes
// when it reaches zero. Unlimited actions are never decremented. The
// verifier is not paid.
func (e *Engine) VerifyAction(ctx context.Context, actionID uint64, maker, verifier ir.Name) error {
	return e.transact(ctx, "verify_action", func(o *op) error {
		if err := o.requireAccount(verifier, "verifier"); err != nil {
			return err
		}
		if err := o.requireAccount(maker, "maker"); err != nil {
			return err
		}
		if err := o.requireAuth(verifier); err != nil {
			return err
		}

		scope, err := o.loadAction(actionID)
		if err != nil {
			return err
		}
		a, sym := scope.action, scope.community.Symbol
		if err := o.requireMember(sym, verifier, "verifier"); err != nil {
			return err
		}
		if err := o.requireMember(sym, maker, "maker"); err != nil {
			return err
		}

		if a.Mode != ir.VerificationAutomatic {
			return o.fail(KindState, "can't verify actions that aren't automatic, open a claim instead")
		}
		if err := o.requireOpen(a, false); err != nil {
			return err
		}

		if a.Limited() {
			left := a.UsagesLeft - 1
			completed := left == 0
			if o.e.legacyAutoCompletion {
				completed = left == 1
			}
			if err := o.tx.SetActionUsage(o.ctx, a.ID, left, completed); err != nil {
				return o.storage(err)
			}
		}

		if a.Reward.IsPositive() {
			o.issue(maker, a.Reward, memoAction)
		}
		return nil
	})
}

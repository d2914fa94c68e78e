package engine

import (
	"context"

	"github.com/roach88/spiral/internal/ir"
)

// OpenClaim asserts that maker performed claimable action actionID and
// returns the new claim id. The claim starts unverified.
func (e *Engine) OpenClaim(ctx context.Context, actionID uint64, maker ir.Name) (uint64, error) {
	var id uint64
	err := e.transact(ctx, "open_claim", func(o *op) error {
		if err := o.requireAccount(maker, "maker"); err != nil {
			return err
		}
		if err := o.requireAuth(maker); err != nil {
			return err
		}

		scope, err := o.loadAction(actionID)
		if err != nil {
			return err
		}
		if err := o.requireOpen(scope.action, true); err != nil {
			return err
		}
		if scope.action.Mode != ir.VerificationClaimable {
			return o.fail(KindState, "you can only open claims in claimable actions")
		}
		if err := o.requireMember(scope.community.Symbol, maker, "maker"); err != nil {
			return err
		}

		if id, err = o.nextID(ir.KindClaim); err != nil {
			return err
		}
		err = o.tx.InsertClaim(o.ctx, ir.Claim{ID: id, ActionID: actionID, Claimer: maker})
		if err != nil {
			return o.storage(err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// CastVote records verifier's vote on a claim.
//
// Each validator on the action's allowlist votes at most once per claim.
// An accepted vote pays the action's verifier reward. A rejecting vote has
// no further effect. An approving vote that brings the number of approvals
// to verifications_required verifies the claim, pays the claimer and
// consumes one usage of the action.
func (e *Engine) CastVote(ctx context.Context, claimID uint64, verifier ir.Name, vote ir.Vote) error {
	return e.transact(ctx, "cast_vote", func(o *op) error {
		if err := o.requireAuth(verifier); err != nil {
			return err
		}
		if vote != ir.VoteReject && vote != ir.VoteApprove {
			return o.fail(KindValidation, "vote must be 0 or 1, got %d", vote)
		}

		claim, err := o.tx.GetClaim(o.ctx, claimID)
		if err != nil {
			return o.lookup(err, "can't find claim %d", claimID)
		}
		if claim.IsVerified {
			return o.fail(KindState, "can't approve already verified claim %d", claimID)
		}

		scope, err := o.loadAction(claim.ActionID)
		if err != nil {
			return err
		}
		a := scope.action
		allowed, err := o.tx.IsValidator(o.ctx, a.ID, verifier)
		if err != nil {
			return o.storage(err)
		}
		if !allowed {
			return o.fail(KindAuthorization, "%s is not in the validator list of action %d", verifier, a.ID)
		}

		if err := o.requireMember(scope.community.Symbol, verifier, "verifier"); err != nil {
			return err
		}
		if err := o.requireOpen(a, true); err != nil {
			return err
		}

		checks, err := o.tx.ChecksByClaim(o.ctx, claimID)
		if err != nil {
			return o.storage(err)
		}
		for _, c := range checks {
			if c.Validator == verifier {
				return o.fail(KindDuplicate, "%s cannot check claim %d more than once", verifier, claimID)
			}
		}

		check := ir.Check{ClaimID: claimID, Validator: verifier, Vote: vote}
		if check.ID, err = o.tx.InsertCheck(o.ctx, check); err != nil {
			return o.storage(err)
		}
		checks = append(checks, check)

		if a.VerifierReward.IsPositive() {
			o.issue(verifier, a.VerifierReward, memoVerification)
		}

		if vote == ir.VoteReject {
			return nil
		}

		var approvals uint64
		for _, c := range checks {
			if c.Vote == ir.VoteApprove {
				approvals++
			}
		}
		if approvals < a.VerificationsRequired {
			return nil
		}

		if err := o.tx.MarkClaimVerified(o.ctx, claimID); err != nil {
			return o.storage(err)
		}
		if a.Reward.IsPositive() {
			o.issue(claim.Claimer, a.Reward, memoAction)
		}
		if a.Limited() {
			left := a.UsagesLeft - 1
			if err := o.tx.SetActionUsage(o.ctx, a.ID, left, left == 0); err != nil {
				return o.storage(err)
			}
		}
		return nil
	})
}

package engine

import (
	"context"
	"time"

	"github.com/roach88/spiral/internal/ir"
)

// ActionSpec is the caller-supplied definition of an action.
//
// A zero Deadline means no deadline and Usages == 0 means unlimited.
// Validators is only read for claimable actions.
type ActionSpec struct {
	ObjectiveID           uint64
	Description           string
	Reward                ir.Asset
	VerifierReward        ir.Asset
	Deadline              time.Time
	Usages                uint64
	VerificationsRequired uint64
	Mode                  ir.VerificationMode
	Validators            []ir.Name
	Creator               ir.Name
}

// ActionUpsert is the argument of UpsertAction: either CreateAction or
// ReplaceAction.
type ActionUpsert interface {
	spec() ActionSpec
}

// CreateAction defines a new action. Its usages_left starts at Usages.
type CreateAction struct {
	ActionSpec
}

// ReplaceAction overwrites every field of action ID, including its usage
// counters, completion flag and validator allowlist. The objective and
// creator of the stored action are kept.
type ReplaceAction struct {
	ID uint64
	ActionSpec
	UsagesLeft  uint64
	IsCompleted bool
}

func (c CreateAction) spec() ActionSpec  { return c.ActionSpec }
func (r ReplaceAction) spec() ActionSpec { return r.ActionSpec }

// UpsertAction creates or fully replaces an action and rebuilds its
// validator allowlist. It returns the action id.
func (e *Engine) UpsertAction(ctx context.Context, u ActionUpsert) (uint64, error) {
	var id uint64
	err := e.transact(ctx, "upsert_action", func(o *op) error {
		spec := u.spec()
		cmm, err := o.validateActionSpec(&spec)
		if err != nil {
			return err
		}

		a := ir.Action{
			ObjectiveID:           spec.ObjectiveID,
			Description:           spec.Description,
			Reward:                spec.Reward,
			VerifierReward:        spec.VerifierReward,
			Deadline:              spec.Deadline,
			Usages:                spec.Usages,
			VerificationsRequired: spec.VerificationsRequired,
			Mode:                  spec.Mode,
			Creator:               spec.Creator,
		}

		switch u := u.(type) {
		case CreateAction:
			if a.ID, err = o.nextID(ir.KindAction); err != nil {
				return err
			}
			a.UsagesLeft = a.Usages
			if err := o.tx.InsertAction(o.ctx, a); err != nil {
				return o.storage(err)
			}

		case ReplaceAction:
			stored, err := o.tx.GetAction(o.ctx, u.ID)
			if err != nil {
				return o.lookup(err, "can't find action %d", u.ID)
			}
			if stored.ObjectiveID != spec.ObjectiveID {
				return o.fail(KindValidation, "action %d belongs to objective %d, not %d",
					u.ID, stored.ObjectiveID, spec.ObjectiveID)
			}
			if a.Limited() && u.UsagesLeft > a.Usages {
				return o.fail(KindValidation, "usages_left %d exceeds usages %d", u.UsagesLeft, a.Usages)
			}
			a.ID = u.ID
			a.Creator = stored.Creator
			a.UsagesLeft = u.UsagesLeft
			a.IsCompleted = u.IsCompleted
			if err := o.tx.UpdateAction(o.ctx, a); err != nil {
				return o.storage(err)
			}

		default:
			return o.fail(KindValidation, "unsupported action upsert %T", u)
		}

		var validators []ir.Name
		if a.Mode == ir.VerificationClaimable {
			if validators, err = o.validateValidators(cmm.Symbol, spec); err != nil {
				return err
			}
		}
		if err := o.tx.ReplaceValidators(o.ctx, a.ID, validators); err != nil {
			return o.storage(err)
		}

		id = a.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// validateActionSpec checks the fields shared by create and replace, in
// order, and normalizes the description. It returns the owning community.
func (o *op) validateActionSpec(spec *ActionSpec) (ir.Community, error) {
	if err := o.requireAccount(spec.Creator, "creator"); err != nil {
		return ir.Community{}, err
	}
	if err := o.requireAuth(spec.Creator); err != nil {
		return ir.Community{}, err
	}

	obj, err := o.tx.GetObjective(o.ctx, spec.ObjectiveID)
	if err != nil {
		return ir.Community{}, o.lookup(err, "can't find objective %d", spec.ObjectiveID)
	}
	cmm, err := o.tx.GetCommunity(o.ctx, obj.Community)
	if err != nil {
		return ir.Community{}, o.lookup(err, "can't find community %s", obj.Community)
	}
	if err := o.requireMember(cmm.Symbol, spec.Creator, "creator"); err != nil {
		return ir.Community{}, err
	}

	if err := o.checkReward("reward", spec.Reward, cmm.Symbol); err != nil {
		return ir.Community{}, err
	}
	if err := o.checkReward("verifier_reward", spec.VerifierReward, cmm.Symbol); err != nil {
		return ir.Community{}, err
	}
	if spec.Description, err = o.checkText("description", spec.Description); err != nil {
		return ir.Community{}, err
	}

	// Deadlines are stored with second precision.
	spec.Deadline = spec.Deadline.Truncate(time.Second)
	if !spec.Deadline.IsZero() && !o.now().Before(spec.Deadline) {
		return ir.Community{}, o.fail(KindValidation, "deadline must be somewhere in the future")
	}
	if spec.Usages > ir.MaxUsages {
		return ir.Community{}, o.fail(KindValidation, "you can have a maximum of %d uses", ir.MaxUsages)
	}
	if _, err := ir.ParseVerificationMode(string(spec.Mode)); err != nil {
		return ir.Community{}, o.fail(KindValidation, "%v", err)
	}
	if spec.VerificationsRequired == 1 {
		return ir.Community{}, o.fail(KindValidation, "you need at least two votes to validate an action")
	}
	return cmm, nil
}

// validateValidators checks a claimable action's allowlist.
func (o *op) validateValidators(sym ir.Symbol, spec ActionSpec) ([]ir.Name, error) {
	vs := spec.Validators
	if uint64(len(vs)) < spec.VerificationsRequired {
		return nil, o.fail(KindValidation,
			"you cannot have a bigger number of verifications than accounts in the validator list")
	}

	seen := make(map[ir.Name]bool, len(vs))
	for _, v := range vs {
		if seen[v] {
			return nil, o.fail(KindDuplicate, "you cannot add validator %s more than once to an action", v)
		}
		seen[v] = true
	}

	if len(vs) < 2 {
		return nil, o.fail(KindValidation, "you need at least two verifiers in a claimable action")
	}

	for _, v := range vs {
		if v == "" {
			return nil, o.fail(KindValidation, "account from validator list cannot be empty")
		}
		if err := o.requireAccount(v, "validator"); err != nil {
			return nil, err
		}
		if err := o.requireMember(sym, v, "validator"); err != nil {
			return nil, err
		}
	}
	return vs, nil
}

// DeleteAction removes an action and its validator allowlist. Claims on the
// action are kept. Only the admin identity may delete actions.
func (e *Engine) DeleteAction(ctx context.Context, id uint64) error {
	return e.transact(ctx, "delete_action", func(o *op) error {
		if err := o.requireAuth(o.e.admin); err != nil {
			return err
		}
		if _, err := o.tx.GetAction(o.ctx, id); err != nil {
			return o.lookup(err, "can't find action %d", id)
		}
		if err := o.tx.DeleteAction(o.ctx, id); err != nil {
			return o.storage(err)
		}
		return nil
	})
}

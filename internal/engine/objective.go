package engine

import (
	"context"

	"github.com/roach88/spiral/internal/ir"
)

// CreateObjective adds an objective to community and returns its id.
// The creator must be a member.
func (e *Engine) CreateObjective(ctx context.Context, community ir.Symbol, creator ir.Name, description string) (uint64, error) {
	var id uint64
	err := e.transact(ctx, "create_objective", func(o *op) error {
		if err := o.requireAuth(creator); err != nil {
			return err
		}
		if !community.Valid() {
			return o.fail(KindValidation, "invalid symbol name for community")
		}
		desc, err := o.checkText("description", description)
		if err != nil {
			return err
		}

		if _, err := o.tx.GetCommunity(o.ctx, community); err != nil {
			return o.lookup(err, "can't find community %s", community)
		}
		if err := o.requireMember(community, creator, "creator"); err != nil {
			return err
		}

		if id, err = o.nextID(ir.KindObjective); err != nil {
			return err
		}
		err = o.tx.InsertObjective(o.ctx, ir.Objective{
			ID:          id,
			Community:   community,
			Creator:     creator,
			Description: desc,
		})
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

// EditObjective replaces the description of an objective. The editor must
// be a member and either the objective's creator or the community's creator.
func (e *Engine) EditObjective(ctx context.Context, id uint64, editor ir.Name, description string) error {
	return e.transact(ctx, "edit_objective", func(o *op) error {
		if err := o.requireAuth(editor); err != nil {
			return err
		}
		desc, err := o.checkText("description", description)
		if err != nil {
			return err
		}

		obj, err := o.tx.GetObjective(o.ctx, id)
		if err != nil {
			return o.lookup(err, "can't find objective %d", id)
		}
		cmm, err := o.tx.GetCommunity(o.ctx, obj.Community)
		if err != nil {
			return o.lookup(err, "can't find community %s", obj.Community)
		}
		if err := o.requireMember(cmm.Symbol, editor, "editor"); err != nil {
			return err
		}
		if editor != obj.Creator && editor != cmm.Creator {
			return o.fail(KindAuthorization,
				"%s must be either the creator of the objective or the community creator to edit", editor)
		}

		if err := o.tx.UpdateObjectiveDescription(o.ctx, id, desc); err != nil {
			return o.storage(err)
		}
		return nil
	})
}

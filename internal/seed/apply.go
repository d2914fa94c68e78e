package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/spiral/internal/auth"
	"github.com/roach88/spiral/internal/engine"
	"github.com/roach88/spiral/internal/ir"
)

// Summary reports what Apply created.
type Summary struct {
	Accounts    int               `json:"accounts"`
	Communities int               `json:"communities"`
	Members     int               `json:"members"`
	Objectives  map[string]uint64 `json:"objectives"`
	Actions     []uint64          `json:"actions"`
}

// Apply executes s against e. It stops at the first rejected entry; entries
// applied before it stay committed.
func Apply(ctx context.Context, e *engine.Engine, s *Seed) (Summary, error) {
	sum := Summary{Objectives: make(map[string]uint64)}

	for i, a := range s.Accounts {
		if err := e.AddAccount(ctx, ir.Name(a)); err != nil {
			return sum, fmt.Errorf("accounts[%d]: %w", i, err)
		}
		sum.Accounts++
	}

	for i, c := range s.Communities {
		cmm, err := c.community()
		if err != nil {
			return sum, fmt.Errorf("communities[%d]: %w", i, err)
		}
		if err := e.CreateCommunity(auth.WithSigners(ctx, cmm.Creator), cmm); err != nil {
			return sum, fmt.Errorf("communities[%d] %s: %w", i, cmm.Symbol, err)
		}
		sum.Communities++

		for j, m := range c.Members {
			inviter := ir.Name(m.Inviter)
			if err := e.Join(auth.WithSigners(ctx, inviter), cmm.Symbol, ir.Name(m.Account), inviter); err != nil {
				return sum, fmt.Errorf("communities[%d].members[%d]: %w", i, j, err)
			}
			sum.Members++
		}
	}

	for i, o := range s.Objectives {
		if _, dup := sum.Objectives[o.Key]; dup {
			return sum, fmt.Errorf("objectives[%d]: duplicate key %q", i, o.Key)
		}
		sym, err := ir.ParseSymbol(o.Community)
		if err != nil {
			return sum, fmt.Errorf("objectives[%d]: %w", i, err)
		}
		creator := ir.Name(o.Creator)
		id, err := e.CreateObjective(auth.WithSigners(ctx, creator), sym, creator, o.Description)
		if err != nil {
			return sum, fmt.Errorf("objectives[%d] %s: %w", i, o.Key, err)
		}
		sum.Objectives[o.Key] = id
	}

	for i, a := range s.Actions {
		objID, ok := sum.Objectives[a.Objective]
		if !ok {
			return sum, fmt.Errorf("actions[%d]: unknown objective key %q", i, a.Objective)
		}
		spec, err := a.spec(objID)
		if err != nil {
			return sum, fmt.Errorf("actions[%d]: %w", i, err)
		}
		id, err := e.UpsertAction(auth.WithSigners(ctx, spec.Creator), engine.CreateAction{ActionSpec: spec})
		if err != nil {
			return sum, fmt.Errorf("actions[%d]: %w", i, err)
		}
		sum.Actions = append(sum.Actions, id)
	}
	return sum, nil
}

func (c Community) community() (ir.Community, error) {
	sym, err := ir.ParseSymbol(c.Symbol)
	if err != nil {
		return ir.Community{}, err
	}
	inviter, err := ir.ParseAsset(c.InviterReward)
	if err != nil {
		return ir.Community{}, err
	}
	invited, err := ir.ParseAsset(c.InvitedReward)
	if err != nil {
		return ir.Community{}, err
	}
	return ir.Community{
		Symbol:        sym,
		Creator:       ir.Name(c.Creator),
		Logo:          c.Logo,
		Name:          c.Name,
		Description:   c.Description,
		InviterReward: inviter,
		InvitedReward: invited,
	}, nil
}

func (a Action) spec(objectiveID uint64) (engine.ActionSpec, error) {
	reward, err := ir.ParseAsset(a.Reward)
	if err != nil {
		return engine.ActionSpec{}, err
	}
	verifierReward, err := ir.ParseAsset(a.VerifierReward)
	if err != nil {
		return engine.ActionSpec{}, err
	}
	mode, err := ir.ParseVerificationMode(a.Mode)
	if err != nil {
		return engine.ActionSpec{}, err
	}
	var deadline time.Time
	if a.Deadline != "" {
		if deadline, err = time.Parse(time.RFC3339, a.Deadline); err != nil {
			return engine.ActionSpec{}, fmt.Errorf("deadline: %w", err)
		}
	}
	validators := make([]ir.Name, 0, len(a.Validators))
	for _, v := range a.Validators {
		validators = append(validators, ir.Name(v))
	}
	return engine.ActionSpec{
		ObjectiveID:           objectiveID,
		Description:           a.Description,
		Reward:                reward,
		VerifierReward:        verifierReward,
		Deadline:              deadline.UTC(),
		Usages:                a.Usages,
		VerificationsRequired: a.Verifications,
		Mode:                  mode,
		Validators:            validators,
		Creator:               ir.Name(a.Creator),
	}, nil
}

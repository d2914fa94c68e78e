package harness

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/spiral/internal/engine"
	"github.com/roach88/spiral/internal/ir"
)

// opFunc runs one step against the harness engine. ctx carries the step signers.
type opFunc func(ctx context.Context, h *Harness, args map[string]any) error

var operations = map[string]opFunc{
	"add_account":      runAddAccount,
	"create_community": runCreateCommunity,
	"update_community": runUpdateCommunity,
	"join":             runJoin,
	"create_objective": runCreateObjective,
	"edit_objective":   runEditObjective,
	"create_action":    runCreateAction,
	"replace_action":   runReplaceAction,
	"delete_action":    runDeleteAction,
	"verify_action":    runVerifyAction,
	"open_claim":       runOpenClaim,
	"cast_vote":        runCastVote,
	"set_indices":      runSetIndices,
	"advance_clock":    runAdvanceClock,
}

// argError marks malformed step arguments. It aborts the run instead of
// being compared with the step's expectation.
type argError struct {
	err error
}

func (e *argError) Error() string { return "invalid args: " + e.err.Error() }
func (e *argError) Unwrap() error { return e.err }

// decodeArgs converts a step's generic args into v, rejecting unknown keys.
func decodeArgs(args map[string]any, v any) error {
	if args == nil {
		args = map[string]any{}
	}
	data, err := yaml.Marshal(args)
	if err != nil {
		return &argError{err}
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return &argError{err}
	}
	return nil
}

type communityArgs struct {
	Symbol        string `yaml:"symbol"`
	Creator       string `yaml:"creator"`
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	Logo          string `yaml:"logo"`
	InviterReward string `yaml:"inviter_reward"`
	InvitedReward string `yaml:"invited_reward"`
}

func (a communityArgs) community() (ir.Community, error) {
	sym, err := ir.ParseSymbol(a.Symbol)
	if err != nil {
		return ir.Community{}, &argError{err}
	}
	inviter, err := ir.ParseAsset(a.InviterReward)
	if err != nil {
		return ir.Community{}, &argError{err}
	}
	invited, err := ir.ParseAsset(a.InvitedReward)
	if err != nil {
		return ir.Community{}, &argError{err}
	}
	return ir.Community{
		Symbol:        sym,
		Creator:       ir.Name(a.Creator),
		Logo:          a.Logo,
		Name:          a.Name,
		Description:   a.Description,
		InviterReward: inviter,
		InvitedReward: invited,
	}, nil
}

type actionArgs struct {
	ID             uint64   `yaml:"id"`
	Objective      uint64   `yaml:"objective"`
	Description    string   `yaml:"description"`
	Reward         string   `yaml:"reward"`
	VerifierReward string   `yaml:"verifier_reward"`
	Deadline       string   `yaml:"deadline"`
	Usages         uint64   `yaml:"usages"`
	UsagesLeft     uint64   `yaml:"usages_left"`
	Verifications  uint64   `yaml:"verifications"`
	Mode           string   `yaml:"mode"`
	Validators     []string `yaml:"validators"`
	Creator        string   `yaml:"creator"`
	IsCompleted    bool     `yaml:"is_completed"`
}

func (a actionArgs) spec() (engine.ActionSpec, error) {
	reward, err := ir.ParseAsset(a.Reward)
	if err != nil {
		return engine.ActionSpec{}, &argError{err}
	}
	verifierReward, err := ir.ParseAsset(a.VerifierReward)
	if err != nil {
		return engine.ActionSpec{}, &argError{err}
	}
	var deadline time.Time
	if a.Deadline != "" {
		if deadline, err = time.Parse(time.RFC3339, a.Deadline); err != nil {
			return engine.ActionSpec{}, &argError{err}
		}
	}
	validators := make([]ir.Name, 0, len(a.Validators))
	for _, v := range a.Validators {
		validators = append(validators, ir.Name(v))
	}
	return engine.ActionSpec{
		ObjectiveID:           a.Objective,
		Description:           a.Description,
		Reward:                reward,
		VerifierReward:        verifierReward,
		Deadline:              deadline.UTC(),
		Usages:                a.Usages,
		VerificationsRequired: a.Verifications,
		Mode:                  ir.VerificationMode(a.Mode),
		Validators:            validators,
		Creator:               ir.Name(a.Creator),
	}, nil
}

func runAddAccount(ctx context.Context, h *Harness, args map[string]any) error {
	var a struct {
		Name string `yaml:"name"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	return h.engine.AddAccount(ctx, ir.Name(a.Name))
}

func runCreateCommunity(ctx context.Context, h *Harness, args map[string]any) error {
	var a communityArgs
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	c, err := a.community()
	if err != nil {
		return err
	}
	return h.engine.CreateCommunity(ctx, c)
}

func runUpdateCommunity(ctx context.Context, h *Harness, args map[string]any) error {
	var a communityArgs
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	c, err := a.community()
	if err != nil {
		return err
	}
	return h.engine.UpdateCommunity(ctx, c)
}

func runJoin(ctx context.Context, h *Harness, args map[string]any) error {
	var a struct {
		Community string `yaml:"community"`
		NewUser   string `yaml:"new_user"`
		Inviter   string `yaml:"inviter"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	sym, err := ir.ParseSymbol(a.Community)
	if err != nil {
		return &argError{err}
	}
	return h.engine.Join(ctx, sym, ir.Name(a.NewUser), ir.Name(a.Inviter))
}

func runCreateObjective(ctx context.Context, h *Harness, args map[string]any) error {
	var a struct {
		Community   string `yaml:"community"`
		Creator     string `yaml:"creator"`
		Description string `yaml:"description"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	sym, err := ir.ParseSymbol(a.Community)
	if err != nil {
		return &argError{err}
	}
	_, err = h.engine.CreateObjective(ctx, sym, ir.Name(a.Creator), a.Description)
	return err
}

func runEditObjective(ctx context.Context, h *Harness, args map[string]any) error {
	var a struct {
		ID          uint64 `yaml:"id"`
		Editor      string `yaml:"editor"`
		Description string `yaml:"description"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	return h.engine.EditObjective(ctx, a.ID, ir.Name(a.Editor), a.Description)
}

func runCreateAction(ctx context.Context, h *Harness, args map[string]any) error {
	var a actionArgs
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	spec, err := a.spec()
	if err != nil {
		return err
	}
	_, err = h.engine.UpsertAction(ctx, engine.CreateAction{ActionSpec: spec})
	return err
}

func runReplaceAction(ctx context.Context, h *Harness, args map[string]any) error {
	var a actionArgs
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	spec, err := a.spec()
	if err != nil {
		return err
	}
	_, err = h.engine.UpsertAction(ctx, engine.ReplaceAction{
		ID:          a.ID,
		ActionSpec:  spec,
		UsagesLeft:  a.UsagesLeft,
		IsCompleted: a.IsCompleted,
	})
	return err
}

func runDeleteAction(ctx context.Context, h *Harness, args map[string]any) error {
	var a struct {
		ID uint64 `yaml:"id"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	return h.engine.DeleteAction(ctx, a.ID)
}

func runVerifyAction(ctx context.Context, h *Harness, args map[string]any) error {
	var a struct {
		Action   uint64 `yaml:"action"`
		Maker    string `yaml:"maker"`
		Verifier string `yaml:"verifier"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	return h.engine.VerifyAction(ctx, a.Action, ir.Name(a.Maker), ir.Name(a.Verifier))
}

func runOpenClaim(ctx context.Context, h *Harness, args map[string]any) error {
	var a struct {
		Action uint64 `yaml:"action"`
		Maker  string `yaml:"maker"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	_, err := h.engine.OpenClaim(ctx, a.Action, ir.Name(a.Maker))
	return err
}

func runCastVote(ctx context.Context, h *Harness, args map[string]any) error {
	var a struct {
		Claim    uint64 `yaml:"claim"`
		Verifier string `yaml:"verifier"`
		Vote     uint8  `yaml:"vote"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	return h.engine.CastVote(ctx, a.Claim, ir.Name(a.Verifier), ir.Vote(a.Vote))
}

func runSetIndices(ctx context.Context, h *Harness, args map[string]any) error {
	var a struct {
		Objective uint64 `yaml:"objective"`
		Action    uint64 `yaml:"action"`
		Claim     uint64 `yaml:"claim"`
		Sale      uint64 `yaml:"sale"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	return h.engine.SetIndices(ctx, engine.Indices{
		Objective: a.Objective,
		Action:    a.Action,
		Claim:     a.Claim,
		Sale:      a.Sale,
	})
}

func runAdvanceClock(_ context.Context, h *Harness, args map[string]any) error {
	var a struct {
		By string `yaml:"by"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	d, err := time.ParseDuration(a.By)
	if err != nil {
		return &argError{fmt.Errorf("by: %w", err)}
	}
	h.clock.Advance(d)
	return nil
}

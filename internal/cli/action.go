package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/spiral/internal/engine"
	"github.com/roach88/spiral/internal/ir"
)

// actionFlags holds the action definition shared by create and replace.
type actionFlags struct {
	Objective      uint64
	Description    string
	Reward         string
	VerifierReward string
	Deadline       string
	Usages         uint64
	Verifications  uint64
	Mode           string
	Validators     []string
	Creator        string
}

func (f *actionFlags) register(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&f.Objective, "objective", 0, "objective id (required)")
	cmd.Flags().StringVar(&f.Description, "description", "", "action description")
	cmd.Flags().StringVar(&f.Reward, "reward", "", `reward paid to the maker, e.g. "10.0000 BES" (required)`)
	cmd.Flags().StringVar(&f.VerifierReward, "verifier-reward", "", "reward paid per accepted vote (required)")
	cmd.Flags().StringVar(&f.Deadline, "deadline", "", "RFC 3339 deadline (default none)")
	cmd.Flags().Uint64Var(&f.Usages, "usages", 0, "number of times the action may be rewarded, 0 for unlimited")
	cmd.Flags().Uint64Var(&f.Verifications, "verifications", 0, "approvals required to verify a claim")
	cmd.Flags().StringVar(&f.Mode, "mode", string(ir.VerificationAutomatic), "verification mode (automatic|claimable)")
	cmd.Flags().StringSliceVar(&f.Validators, "validators", nil, "validator accounts for claimable actions (comma or dash separated)")
	cmd.Flags().StringVar(&f.Creator, "creator", "", "creating member (required)")
	_ = cmd.MarkFlagRequired("objective")
	_ = cmd.MarkFlagRequired("reward")
	_ = cmd.MarkFlagRequired("verifier-reward")
	_ = cmd.MarkFlagRequired("creator")
}

func (f *actionFlags) spec() (engine.ActionSpec, error) {
	reward, err := ir.ParseAsset(f.Reward)
	if err != nil {
		return engine.ActionSpec{}, WrapExitError(ExitCommandError, "invalid --reward", err)
	}
	verifierReward, err := ir.ParseAsset(f.VerifierReward)
	if err != nil {
		return engine.ActionSpec{}, WrapExitError(ExitCommandError, "invalid --verifier-reward", err)
	}
	mode, err := ir.ParseVerificationMode(f.Mode)
	if err != nil {
		return engine.ActionSpec{}, WrapExitError(ExitCommandError, "invalid --mode", err)
	}
	var deadline time.Time
	if f.Deadline != "" {
		if deadline, err = time.Parse(time.RFC3339, f.Deadline); err != nil {
			return engine.ActionSpec{}, WrapExitError(ExitCommandError, "invalid --deadline", err)
		}
	}
	var validators []ir.Name
	for _, v := range f.Validators {
		for _, name := range strings.Split(v, "-") {
			validators = append(validators, ir.Name(name))
		}
	}
	return engine.ActionSpec{
		ObjectiveID:           f.Objective,
		Description:           f.Description,
		Reward:                reward,
		VerifierReward:        verifierReward,
		Deadline:              deadline.UTC(),
		Usages:                f.Usages,
		VerificationsRequired: f.Verifications,
		Mode:                  mode,
		Validators:            validators,
		Creator:               ir.Name(f.Creator),
	}, nil
}

// NewActionCommand creates the action command group.
func NewActionCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "action",
		Short: "Define, verify and delete actions",
	}
	cmd.AddCommand(newActionCreateCommand(opts))
	cmd.AddCommand(newActionReplaceCommand(opts))
	cmd.AddCommand(newActionVerifyCommand(opts))
	cmd.AddCommand(newActionDeleteCommand(opts))
	return cmd
}

func newActionCreateCommand(opts *RootOptions) *cobra.Command {
	var f actionFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an action under an objective",
		Long: `Create an action. The creator must sign the call and belong to the
objective's community.

Example:
  spiral action create --as alice --objective 1 --creator alice \
    --description "plant a tree" --reward "10.0000 BES" --verifier-reward "0.5000 BES" \
    --usages 5 --mode claimable --verifications 2 --validators bob,carol,dave`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := f.spec()
			if err != nil {
				return err
			}
			return opts.operation(cmd, func(ctx context.Context, e *engine.Engine) (any, error) {
				id, err := e.UpsertAction(ctx, engine.CreateAction{ActionSpec: spec})
				if err != nil {
					return nil, err
				}
				return map[string]uint64{"action_id": id}, nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newActionReplaceCommand(opts *RootOptions) *cobra.Command {
	var (
		f           actionFlags
		usagesLeft  uint64
		isCompleted bool
	)
	cmd := &cobra.Command{
		Use:   "replace <id>",
		Short: "Overwrite an existing action",
		Long: `Overwrite every field of an existing action, including its remaining
usages and completion flag. The objective and the original creator are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("action", args[0])
			if err != nil {
				return err
			}
			spec, err := f.spec()
			if err != nil {
				return err
			}
			return opts.operation(cmd, func(ctx context.Context, e *engine.Engine) (any, error) {
				_, err := e.UpsertAction(ctx, engine.ReplaceAction{
					ID:          id,
					ActionSpec:  spec,
					UsagesLeft:  usagesLeft,
					IsCompleted: isCompleted,
				})
				if err != nil {
					return nil, err
				}
				return fmt.Sprintf("replaced action %d", id), nil
			})
		},
	}
	f.register(cmd)
	cmd.Flags().Uint64Var(&usagesLeft, "usages-left", 0, "remaining usages")
	cmd.Flags().BoolVar(&isCompleted, "completed", false, "mark the action completed")
	return cmd
}

func newActionVerifyCommand(opts *RootOptions) *cobra.Command {
	var maker, verifier string
	cmd := &cobra.Command{
		Use:   "verify <id>",
		Short: "Verify an automatic action and reward its maker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("action", args[0])
			if err != nil {
				return err
			}
			return opts.operation(cmd, func(ctx context.Context, e *engine.Engine) (any, error) {
				if err := e.VerifyAction(ctx, id, ir.Name(maker), ir.Name(verifier)); err != nil {
					return nil, err
				}
				return fmt.Sprintf("verified action %d for %s", id, maker), nil
			})
		},
	}
	cmd.Flags().StringVar(&maker, "maker", "", "member who performed the action (required)")
	cmd.Flags().StringVar(&verifier, "verifier", "", "verifying member (required)")
	_ = cmd.MarkFlagRequired("maker")
	_ = cmd.MarkFlagRequired("verifier")
	return cmd
}

func newActionDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an action (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("action", args[0])
			if err != nil {
				return err
			}
			return opts.operation(cmd, func(ctx context.Context, e *engine.Engine) (any, error) {
				if err := e.DeleteAction(ctx, id); err != nil {
					return nil, err
				}
				return fmt.Sprintf("deleted action %d", id), nil
			})
		},
	}
}

package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/spiral/internal/engine"
	"github.com/roach88/spiral/internal/ir"
)

// parseVote accepts approve, reject or a numeric vote. Numeric values
// other than 0 and 1 are passed through for the engine to reject.
func parseVote(s string) (ir.Vote, error) {
	switch s {
	case "approve":
		return ir.VoteApprove, nil
	case "reject":
		return ir.VoteReject, nil
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, WrapExitError(ExitCommandError, fmt.Sprintf("invalid --vote %q: want approve, reject, 0 or 1", s), err)
	}
	return ir.Vote(n), nil
}

// NewClaimCommand creates the claim command group.
func NewClaimCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim",
		Short: "Open claims and vote on them",
	}

	var action uint64
	var maker string
	openCmd := &cobra.Command{
		Use:   "open",
		Short: "Claim a claimable action",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.operation(cmd, func(ctx context.Context, e *engine.Engine) (any, error) {
				id, err := e.OpenClaim(ctx, action, ir.Name(maker))
				if err != nil {
					return nil, err
				}
				return map[string]uint64{"claim_id": id}, nil
			})
		},
	}
	openCmd.Flags().Uint64Var(&action, "action", 0, "action id (required)")
	openCmd.Flags().StringVar(&maker, "maker", "", "claiming member (required)")
	_ = openCmd.MarkFlagRequired("action")
	_ = openCmd.MarkFlagRequired("maker")
	cmd.AddCommand(openCmd)

	var verifier, vote string
	voteCmd := &cobra.Command{
		Use:   "vote <claim-id>",
		Short: "Cast a validator's vote on a claim",
		Long: `Cast a vote on a claim. Each validator of the action votes at most once.

Example:
  spiral claim vote 1 --as carol --verifier carol --vote approve`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("claim", args[0])
			if err != nil {
				return err
			}
			v, err := parseVote(vote)
			if err != nil {
				return err
			}
			return opts.operation(cmd, func(ctx context.Context, e *engine.Engine) (any, error) {
				if err := e.CastVote(ctx, id, ir.Name(verifier), v); err != nil {
					return nil, err
				}
				return fmt.Sprintf("%s voted on claim %d", verifier, id), nil
			})
		},
	}
	voteCmd.Flags().StringVar(&verifier, "verifier", "", "voting validator (required)")
	voteCmd.Flags().StringVar(&vote, "vote", "", "approve|reject (required)")
	_ = voteCmd.MarkFlagRequired("verifier")
	_ = voteCmd.MarkFlagRequired("vote")
	cmd.AddCommand(voteCmd)

	return cmd
}

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/spiral/internal/engine"
	"github.com/roach88/spiral/internal/ir"
)

// NewShowCommand creates the read-only show command group.
func NewShowCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Inspect stored state",
	}

	bySymbol := func(use, short string, fn func(context.Context, *engine.Engine, ir.Symbol) (any, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <symbol>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				sym, err := ir.ParseSymbol(args[0])
				if err != nil {
					return WrapExitError(ExitCommandError, "invalid symbol", err)
				}
				return opts.operation(cmd, func(ctx context.Context, e *engine.Engine) (any, error) {
					return fn(ctx, e, sym)
				})
			},
		}
	}
	byID := func(use, short string, fn func(context.Context, *engine.Engine, uint64) (any, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(use, args[0])
				if err != nil {
					return err
				}
				return opts.operation(cmd, func(ctx context.Context, e *engine.Engine) (any, error) {
					return fn(ctx, e, id)
				})
			},
		}
	}

	cmd.AddCommand(bySymbol("community", "Show a community", func(ctx context.Context, e *engine.Engine, sym ir.Symbol) (any, error) {
		return e.GetCommunity(ctx, sym)
	}))
	cmd.AddCommand(bySymbol("members", "List a community's members", func(ctx context.Context, e *engine.Engine, sym ir.Symbol) (any, error) {
		return e.Members(ctx, sym)
	}))
	cmd.AddCommand(byID("objective", "Show an objective", func(ctx context.Context, e *engine.Engine, id uint64) (any, error) {
		return e.GetObjective(ctx, id)
	}))
	cmd.AddCommand(byID("action", "Show an action with its validators", func(ctx context.Context, e *engine.Engine, id uint64) (any, error) {
		return e.GetAction(ctx, id)
	}))
	cmd.AddCommand(byID("claim", "Show a claim with its checks", func(ctx context.Context, e *engine.Engine, id uint64) (any, error) {
		return e.GetClaim(ctx, id)
	}))

	var after int64
	issuancesCmd := &cobra.Command{
		Use:   "issuances",
		Short: "List committed issuer calls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.operation(cmd, func(ctx context.Context, e *engine.Engine) (any, error) {
				return e.ListIssuances(ctx, after)
			})
		},
	}
	issuancesCmd.Flags().Int64Var(&after, "after", 0, "only list entries with a greater sequence number")
	cmd.AddCommand(issuancesCmd)

	return cmd
}

// NewIndicesCommand creates the indices command group.
func NewIndicesCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "indices",
		Short: "Inspect or overwrite id counters",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the last allocated id of every kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.operation(cmd, func(ctx context.Context, e *engine.Engine) (any, error) {
				return e.GetIndices(ctx)
			})
		},
	})

	var ix engine.Indices
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Overwrite every id counter (admin only)",
		Long: `Overwrite every id counter. Counters not given are set to 0.

Example:
  spiral indices set --as spiral --objective 10 --action 40 --claim 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.operation(cmd, func(ctx context.Context, e *engine.Engine) (any, error) {
				if err := e.SetIndices(ctx, ix); err != nil {
					return nil, err
				}
				return ix, nil
			})
		},
	}
	setCmd.Flags().Uint64Var(&ix.Objective, "objective", 0, "last objective id")
	setCmd.Flags().Uint64Var(&ix.Action, "action", 0, "last action id")
	setCmd.Flags().Uint64Var(&ix.Claim, "claim", 0, "last claim id")
	setCmd.Flags().Uint64Var(&ix.Sale, "sale", 0, "last sale id")
	cmd.AddCommand(setCmd)

	return cmd
}

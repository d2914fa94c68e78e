package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/spiral/internal/engine"
	"github.com/roach88/spiral/internal/ir"
)

// NewAccountCommand creates the account command group.
func NewAccountCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the account registry",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>...",
		Short: "Register accounts",
		Long: `Register account names. Registering an existing account has no effect.

Example:
  spiral account add alice bob`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.operation(cmd, func(ctx context.Context, e *engine.Engine) (any, error) {
				for _, a := range args {
					if err := e.AddAccount(ctx, ir.Name(a)); err != nil {
						return nil, err
					}
				}
				return fmt.Sprintf("registered %d account(s)", len(args)), nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.operation(cmd, func(ctx context.Context, e *engine.Engine) (any, error) {
				return e.Accounts(ctx)
			})
		},
	})
	return cmd
}

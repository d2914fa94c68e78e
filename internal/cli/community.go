package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/spiral/internal/engine"
	"github.com/roach88/spiral/internal/ir"
)

// communityFlags holds the community fields shared by create and update.
type communityFlags struct {
	Symbol        string
	Creator       string
	Name          string
	Description   string
	Logo          string
	InviterReward string
	InvitedReward string
}

func (f *communityFlags) register(cmd *cobra.Command, withCreator bool) {
	cmd.Flags().StringVar(&f.Symbol, "symbol", "", `community symbol, e.g. "4,BES" (required)`)
	cmd.Flags().StringVar(&f.Name, "name", "", "display name")
	cmd.Flags().StringVar(&f.Description, "description", "", "description")
	cmd.Flags().StringVar(&f.Logo, "logo", "", "logo URL")
	cmd.Flags().StringVar(&f.InviterReward, "inviter-reward", "", `reward paid to the inviter, e.g. "1.0000 BES" (required)`)
	cmd.Flags().StringVar(&f.InvitedReward, "invited-reward", "", "reward paid to the new member (required)")
	_ = cmd.MarkFlagRequired("symbol")
	_ = cmd.MarkFlagRequired("inviter-reward")
	_ = cmd.MarkFlagRequired("invited-reward")
	if withCreator {
		cmd.Flags().StringVar(&f.Creator, "creator", "", "creator account (required)")
		_ = cmd.MarkFlagRequired("creator")
	}
}

func (f *communityFlags) community() (ir.Community, error) {
	sym, err := ir.ParseSymbol(f.Symbol)
	if err != nil {
		return ir.Community{}, WrapExitError(ExitCommandError, "invalid --symbol", err)
	}
	inviter, err := ir.ParseAsset(f.InviterReward)
	if err != nil {
		return ir.Community{}, WrapExitError(ExitCommandError, "invalid --inviter-reward", err)
	}
	invited, err := ir.ParseAsset(f.InvitedReward)
	if err != nil {
		return ir.Community{}, WrapExitError(ExitCommandError, "invalid --invited-reward", err)
	}
	return ir.Community{
		Symbol:        sym,
		Creator:       ir.Name(f.Creator),
		Logo:          f.Logo,
		Name:          f.Name,
		Description:   f.Description,
		InviterReward: inviter,
		InvitedReward: invited,
	}, nil
}

// NewCommunityCommand creates the community command group.
func NewCommunityCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "community",
		Short: "Create and update communities",
	}

	var create communityFlags
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a community and join its creator",
		Long: `Create a community. The call must be signed by the creator.

Example:
  spiral community create --as alice --symbol "4,BES" --creator alice \
    --name Bespiral --inviter-reward "1.0000 BES" --invited-reward "2.0000 BES"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := create.community()
			if err != nil {
				return err
			}
			return opts.operation(cmd, func(ctx context.Context, e *engine.Engine) (any, error) {
				if err := e.CreateCommunity(ctx, c); err != nil {
					return nil, err
				}
				return fmt.Sprintf("created community %s", c.Symbol), nil
			})
		},
	}
	create.register(createCmd, true)
	cmd.AddCommand(createCmd)

	var update communityFlags
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update a community's fields and rewards",
		Long:  `Overwrite a community's name, description, logo and rewards. The call must be signed by its creator.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := update.community()
			if err != nil {
				return err
			}
			return opts.operation(cmd, func(ctx context.Context, e *engine.Engine) (any, error) {
				if err := e.UpdateCommunity(ctx, c); err != nil {
					return nil, err
				}
				return fmt.Sprintf("updated community %s", c.Symbol), nil
			})
		},
	}
	update.register(updateCmd, false)
	cmd.AddCommand(updateCmd)

	return cmd
}

// NewJoinCommand creates the join command.
func NewJoinCommand(opts *RootOptions) *cobra.Command {
	var community, user, inviter string

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Add an account to a community",
		Long: `Add an account to a community through an inviter. The call must be
signed by the inviter or by a trusted issuer.

Example:
  spiral join --as alice --community "4,BES" --user bob --inviter alice`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sym, err := ir.ParseSymbol(community)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --community", err)
			}
			return opts.operation(cmd, func(ctx context.Context, e *engine.Engine) (any, error) {
				if err := e.Join(ctx, sym, ir.Name(user), ir.Name(inviter)); err != nil {
					return nil, err
				}
				return fmt.Sprintf("%s joined %s", user, sym), nil
			})
		},
	}
	cmd.Flags().StringVar(&community, "community", "", "community symbol (required)")
	cmd.Flags().StringVar(&user, "user", "", "joining account (required)")
	cmd.Flags().StringVar(&inviter, "inviter", "", "inviting member (required)")
	_ = cmd.MarkFlagRequired("community")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("inviter")
	return cmd
}

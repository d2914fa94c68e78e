package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/spiral/internal/engine"
	"github.com/roach88/spiral/internal/ir"
)

// parseID parses a positional entity id.
func parseID(what, s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, WrapExitError(ExitCommandError, fmt.Sprintf("invalid %s id %q", what, s), err)
	}
	return id, nil
}

// NewObjectiveCommand creates the objective command group.
func NewObjectiveCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "objective",
		Short: "Create and edit objectives",
	}

	var community, creator, description string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an objective in a community",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sym, err := ir.ParseSymbol(community)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --community", err)
			}
			return opts.operation(cmd, func(ctx context.Context, e *engine.Engine) (any, error) {
				id, err := e.CreateObjective(ctx, sym, ir.Name(creator), description)
				if err != nil {
					return nil, err
				}
				return map[string]uint64{"objective_id": id}, nil
			})
		},
	}
	createCmd.Flags().StringVar(&community, "community", "", "community symbol (required)")
	createCmd.Flags().StringVar(&creator, "creator", "", "creating member (required)")
	createCmd.Flags().StringVar(&description, "description", "", "objective description")
	_ = createCmd.MarkFlagRequired("community")
	_ = createCmd.MarkFlagRequired("creator")
	cmd.AddCommand(createCmd)

	var editor, newDescription string
	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace an objective's description",
		Long:  `Replace an objective's description. The editor must be the objective or community creator.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("objective", args[0])
			if err != nil {
				return err
			}
			return opts.operation(cmd, func(ctx context.Context, e *engine.Engine) (any, error) {
				if err := e.EditObjective(ctx, id, ir.Name(editor), newDescription); err != nil {
					return nil, err
				}
				return fmt.Sprintf("edited objective %d", id), nil
			})
		},
	}
	editCmd.Flags().StringVar(&editor, "editor", "", "editing member (required)")
	editCmd.Flags().StringVar(&newDescription, "description", "", "new description")
	_ = editCmd.MarkFlagRequired("editor")
	cmd.AddCommand(editCmd)

	return cmd
}

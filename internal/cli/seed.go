package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/spiral/internal/engine"
	"github.com/roach88/spiral/internal/seed"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.cue>",
		Short: "Bootstrap the database from a CUE seed file",
		Long: `Validate a CUE seed file against the seed schema and apply it: accounts,
communities with their members, objectives and actions, each signed by its
creator or inviter. Application stops at the first rejected entry.

Example:
  spiral seed --db ./spiral.db ./bootstrap.cue`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := seed.LoadFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid seed file", err)
			}
			opts.formatter(cmd).VerboseLog("seed %s: %d accounts, %d communities, %d objectives, %d actions",
				args[0], len(s.Accounts), len(s.Communities), len(s.Objectives), len(s.Actions))
			return opts.operation(cmd, func(ctx context.Context, e *engine.Engine) (any, error) {
				sum, err := seed.Apply(ctx, e, s)
				if err != nil {
					return nil, err
				}
				return sum, nil
			})
		},
	}
}

package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/spiral/internal/config"
)

// RootOptions holds global flags and the configuration resolved from them.
type RootOptions struct {
	Verbose bool
	Format  string   // "json" | "text"
	DB      string   // overrides SPIRAL_DB
	As      []string // signer identities
	EnvFile string   // .env file; ".env" when empty

	Config config.Config
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the spiral CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "spiral",
		Short: "spiral - community objectives, actions and claims",
		Long: `Manage communities, their objectives and actions, and the claims
members make against them. Rewards are paid through the configured token
issuer; every operation either commits with all of its rewards or not at all.

Configuration is read from SPIRAL_* environment variables and an optional
.env file. Flags override the environment.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "path to SQLite database (default $SPIRAL_DB or spiral.db)")
	cmd.PersistentFlags().StringSliceVar(&opts.As, "as", nil, "identities signing the call (comma-separated)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "path to a .env file")

	cmd.AddCommand(NewAccountCommand(opts))
	cmd.AddCommand(NewCommunityCommand(opts))
	cmd.AddCommand(NewJoinCommand(opts))
	cmd.AddCommand(NewObjectiveCommand(opts))
	cmd.AddCommand(NewActionCommand(opts))
	cmd.AddCommand(NewClaimCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewIndicesCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// resolve validates global flags, loads configuration and installs the logger.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	var envFiles []string
	if o.EnvFile != "" {
		envFiles = append(envFiles, o.EnvFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	if o.DB != "" {
		cfg.DB = o.DB
	}
	o.Config = cfg

	level := cfg.LogLevel
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(o.Logger)
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/spiral/internal/auth"
	"github.com/roach88/spiral/internal/engine"
	"github.com/roach88/spiral/internal/issuer"
	"github.com/roach88/spiral/internal/store"
)

// formatter returns an OutputFormatter bound to cmd's writers.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// issuer selects the HTTP token service when a URL is configured and the
// logging issuer otherwise.
func (o *RootOptions) issuer() engine.Issuer {
	if o.Config.IssuerURL == "" {
		return issuer.Log{Logger: o.Logger}
	}
	return issuer.NewHTTP(o.Config.IssuerURL,
		issuer.WithTimeout(o.Config.IssuerTimeout),
		issuer.WithToken(o.Config.IssuerToken),
	)
}

// openEngine opens the configured database and builds an engine over it.
// The returned function closes the database.
func (o *RootOptions) openEngine() (*engine.Engine, func(), error) {
	st, err := store.Open(o.Config.DB)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	e := engine.New(st,
		engine.WithLogger(o.Logger),
		engine.WithIssuer(o.issuer()),
		engine.WithAdmin(o.Config.Admin),
		engine.WithTrustedIssuers(o.Config.TrustedIssuers...),
	)
	closeFn := func() {
		if err := st.Close(); err != nil {
			o.Logger.Error("error closing database", "error", err)
		}
	}
	return e, closeFn, nil
}

// signed returns ctx carrying the --as identities.
func (o *RootOptions) signed(ctx context.Context) (context.Context, error) {
	names, err := auth.ParseSigners(strings.Join(o.As, ","))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid --as", err)
	}
	return auth.WithSigners(ctx, names...), nil
}

// operation runs fn against a freshly opened engine with the signed context
// and renders its result. Engine rejections are rendered with their kind as
// error code and exit with ExitFailure.
func (o *RootOptions) operation(cmd *cobra.Command, fn func(ctx context.Context, e *engine.Engine) (any, error)) error {
	ctx, err := o.signed(commandContext(cmd))
	if err != nil {
		return err
	}
	e, closeFn, err := o.openEngine()
	if err != nil {
		return err
	}
	defer closeFn()

	out := o.formatter(cmd)
	data, err := fn(ctx, e)
	if err != nil {
		if ferr := out.Error(ErrorCode(err), err.Error(), nil); ferr != nil {
			return ferr
		}
		exitErr := WrapExitError(GetExitCode(err), "operation failed", err)
		exitErr.Reported = true
		return exitErr
	}
	return out.Success(data)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

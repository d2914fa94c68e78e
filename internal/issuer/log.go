package issuer

import (
	"context"
	"log/slog"

	"github.com/roach88/spiral/internal/ir"
)

// Log accepts every call and writes it to a logger at Info level.
type Log struct {
	Logger *slog.Logger
}

func (l Log) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

// Issue logs the issuance.
func (l Log) Issue(ctx context.Context, to ir.Name, quantity ir.Asset, memo string) error {
	l.logger().InfoContext(ctx, "issue", "to", to, "quantity", quantity.String(), "memo", memo)
	return nil
}

// InitializeAccount logs the account initialization.
func (l Log) InitializeAccount(ctx context.Context, symbol ir.Symbol, account ir.Name) error {
	l.logger().InfoContext(ctx, "initacc", "symbol", symbol.String(), "account", account)
	return nil
}

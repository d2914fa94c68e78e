package engine

import (
	"context"
	"log/slog"

	"github.com/roach88/spiral/internal/ir"
)

// Notice tells an external indexer that account was involved in an operation.
type Notice struct {
	OpID    string
	Op      string
	Account ir.Name
}

// Notifier receives notices after an operation commits. Delivery is best
// effort: errors are logged and never undo the operation.
type Notifier interface {
	Notify(ctx context.Context, n Notice) error
}

// LogNotifier writes notices to a logger at Debug level.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify logs the notice.
func (l LogNotifier) Notify(ctx context.Context, n Notice) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.DebugContext(ctx, "notify", "op", n.Op, "op_id", n.OpID, "account", n.Account)
	return nil
}

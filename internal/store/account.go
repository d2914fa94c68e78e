package store

import (
	"context"
	"fmt"

	"github.com/roach88/spiral/internal/ir"
)

// InsertAccount registers an account name. Registering an existing name is a no-op.
func (t *Tx) InsertAccount(ctx context.Context, name ir.Name) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO accounts (name) VALUES (?)
		ON CONFLICT(name) DO NOTHING
	`, string(name))
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// ListAccounts returns every registered account in name order.
func (t *Tx) ListAccounts(ctx context.Context) ([]ir.Name, error) {
	rows, err := t.tx.QueryContext(ctx, `SELECT name FROM accounts ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var names []ir.Name
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("list accounts: scan: %w", err)
		}
		names = append(names, ir.Name(n))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return names, nil
}

// AccountExists reports whether name has been registered.
func (t *Tx) AccountExists(ctx context.Context, name ir.Name) (bool, error) {
	var count int
	err := t.tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM accounts WHERE name = ?
	`, string(name)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("account exists: %w", err)
	}
	return count > 0, nil
}

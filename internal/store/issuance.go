package store

import (
	"context"
	"fmt"

	"github.com/roach88/spiral/internal/ir"
)

// AppendIssuance journals one issuer call and returns its sequence number.
func (t *Tx) AppendIssuance(ctx context.Context, iss ir.Issuance) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO issuances (op_id, op, kind, account, quantity, memo)
		VALUES (?, ?, ?, ?, ?, ?)
	`, iss.OpID, iss.Op, string(iss.Kind), string(iss.Account), iss.Quantity.String(), iss.Memo)
	if err != nil {
		return 0, fmt.Errorf("append issuance: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("append issuance: last insert id: %w", err)
	}
	return seq, nil
}

// ListIssuances returns journal entries with seq greater than afterSeq, in order.
func (t *Tx) ListIssuances(ctx context.Context, afterSeq int64) ([]ir.Issuance, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT seq, op_id, op, kind, account, quantity, memo
		FROM issuances
		WHERE seq > ?
		ORDER BY seq ASC
	`, afterSeq)
	if err != nil {
		return nil, fmt.Errorf("list issuances: %w", err)
	}
	defer rows.Close()

	var out []ir.Issuance
	for rows.Next() {
		var (
			iss                     ir.Issuance
			kind, account, quantity string
		)
		if err := rows.Scan(&iss.Seq, &iss.OpID, &iss.Op, &kind, &account, &quantity, &iss.Memo); err != nil {
			return nil, fmt.Errorf("list issuances: scan: %w", err)
		}
		iss.Kind = ir.IssuanceKind(kind)
		iss.Account = ir.Name(account)
		if iss.Quantity, err = ir.ParseAsset(quantity); err != nil {
			return nil, fmt.Errorf("list issuances: quantity: %w", err)
		}
		out = append(out, iss)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list issuances: %w", err)
	}
	return out, nil
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/roach88/spiral/internal/ir"
	"github.com/roach88/spiral/internal/store"
)

// op is the state of one running operation: its transaction, the issuer
// calls it has scheduled and the accounts to notify once it commits.
type op struct {
	e    *Engine
	ctx  context.Context
	tx   *store.Tx
	name string
	id   string

	issuances []ir.Issuance
	notices   []ir.Name
}

// transact runs fn as operation name inside one store transaction.
//
// Scheduled issuances are journaled and sent to the issuer after fn
// succeeds and before commit, in the order fn scheduled them. Any error,
// from fn, the journal or the issuer, rolls back everything.
func (e *Engine) transact(ctx context.Context, name string, fn func(*op) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	o := &op{e: e, ctx: ctx, name: name, id: e.opIDs.Generate()}
	logger := e.logger.With("op", name, "op_id", o.id)

	err := e.store.Update(ctx, func(tx *store.Tx) error {
		o.tx = tx
		if err := fn(o); err != nil {
			return err
		}
		return o.flush()
	})
	if err != nil {
		logger.WarnContext(ctx, "operation rejected", "error", err)
		return err
	}

	logger.DebugContext(ctx, "operation committed", "issuances", len(o.issuances))
	for _, account := range o.notices {
		n := Notice{OpID: o.id, Op: name, Account: account}
		if err := e.notifier.Notify(ctx, n); err != nil {
			logger.WarnContext(ctx, "notification failed", "account", account, "error", err)
		}
	}
	return nil
}

// flush journals and delivers every scheduled issuance.
func (o *op) flush() error {
	for i := range o.issuances {
		iss := &o.issuances[i]
		seq, err := o.tx.AppendIssuance(o.ctx, *iss)
		if err != nil {
			return o.storage(err)
		}
		iss.Seq = seq

		switch iss.Kind {
		case ir.IssuanceIssue:
			err = o.e.issuer.Issue(o.ctx, iss.Account, iss.Quantity, iss.Memo)
		case ir.IssuanceInitAcc:
			err = o.e.issuer.InitializeAccount(o.ctx, iss.Quantity.Symbol, iss.Account)
		}
		if err != nil {
			return &Error{
				Kind:    KindIssuer,
				Op:      o.name,
				Message: fmt.Sprintf("issuer rejected %s for %s", iss.Kind, iss.Account),
				Err:     err,
			}
		}
	}
	return nil
}

// issue schedules a transfer of quantity to account.
func (o *op) issue(to ir.Name, quantity ir.Asset, memo string) {
	o.issuances = append(o.issuances, ir.Issuance{
		OpID:     o.id,
		Op:       o.name,
		Kind:     ir.IssuanceIssue,
		Account:  to,
		Quantity: quantity,
		Memo:     memo,
	})
}

// initAccount schedules creation of a zero balance of sym for account.
func (o *op) initAccount(sym ir.Symbol, account ir.Name) {
	o.issuances = append(o.issuances, ir.Issuance{
		OpID:     o.id,
		Op:       o.name,
		Kind:     ir.IssuanceInitAcc,
		Account:  account,
		Quantity: ir.NewAsset(0, sym),
	})
}

func (o *op) notify(account ir.Name) {
	if !slices.Contains(o.notices, account) {
		o.notices = append(o.notices, account)
	}
}

func (o *op) now() time.Time {
	return o.e.clock.Now()
}

func (o *op) fail(kind Kind, format string, args ...any) error {
	return newError(o.name, kind, format, args...)
}

// storage wraps an unexpected store failure. It carries no Kind.
func (o *op) storage(err error) error {
	return fmt.Errorf("%s: %w", o.name, err)
}

// lookup maps store.ErrNotFound to a not_found rejection.
func (o *op) lookup(err error, format string, args ...any) error {
	if errors.Is(err, store.ErrNotFound) {
		return o.fail(KindNotFound, format, args...)
	}
	return o.storage(err)
}

// requireAuth rejects the operation unless name signed it.
func (o *op) requireAuth(name ir.Name) error {
	if !o.e.authorizer.IsAuthorized(o.ctx, name) {
		return o.fail(KindAuthorization, "missing authority of %s", name)
	}
	return nil
}

func (o *op) authorized(name ir.Name) bool {
	return o.e.authorizer.IsAuthorized(o.ctx, name)
}

// accountExists consults the configured oracle, or the store registry.
func (o *op) accountExists(name ir.Name) (bool, error) {
	if !name.Valid() {
		return false, nil
	}
	if o.e.accounts != nil {
		return o.e.accounts.AccountExists(o.ctx, name), nil
	}
	ok, err := o.tx.AccountExists(o.ctx, name)
	if err != nil {
		return false, o.storage(err)
	}
	return ok, nil
}

// requireAccount rejects the operation unless name is an existing account.
func (o *op) requireAccount(name ir.Name, role string) error {
	ok, err := o.accountExists(name)
	if err != nil {
		return err
	}
	if !ok {
		return o.fail(KindValidation, "invalid account for %s: %q", role, name)
	}
	return nil
}

func (o *op) isMember(sym ir.Symbol, account ir.Name) (bool, error) {
	key, err := ir.MembershipKey(sym, account)
	if err != nil {
		return false, o.storage(err)
	}
	ok, err := o.tx.HasMembership(o.ctx, key)
	if err != nil {
		return false, o.storage(err)
	}
	return ok, nil
}

// requireMember rejects the operation unless account belongs to sym.
func (o *op) requireMember(sym ir.Symbol, account ir.Name, role string) error {
	ok, err := o.isMember(sym, account)
	if err != nil {
		return err
	}
	if !ok {
		return o.fail(KindNotFound, "%s %s doesn't belong to the community", role, account)
	}
	return nil
}

func (o *op) nextID(kind ir.IDKind) (uint64, error) {
	id, err := o.e.allocator.Next(o.ctx, o.tx, kind)
	if err != nil {
		return 0, o.storage(err)
	}
	return id, nil
}

// checkText enforces the byte limit on an NFC-normalized string.
func (o *op) checkText(field, s string) (string, error) {
	s = ir.NormalizeText(s)
	if len(s) > ir.MaxTextLength {
		return "", o.fail(KindValidation, "%s has more than %d bytes", field, ir.MaxTextLength)
	}
	return s, nil
}

// checkReward requires a valid, non-negative amount of the community token.
func (o *op) checkReward(field string, a ir.Asset, sym ir.Symbol) error {
	if !a.Valid() {
		return o.fail(KindValidation, "invalid %s", field)
	}
	if a.Amount < 0 {
		return o.fail(KindValidation, "%s must be greater than or equal to 0", field)
	}
	if a.Symbol != sym {
		return o.fail(KindValidation, "%s must be a community token", field)
	}
	return nil
}

package issuer

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/roach88/spiral/internal/ir"
)

// ErrRejected is returned by a Recorder told to fail.
var ErrRejected = errors.New("issuer rejected call")

// Call is one accepted issuer call.
type Call struct {
	Kind     ir.IssuanceKind
	Account  ir.Name
	Quantity ir.Asset
	Memo     string
}

// Recorder keeps accepted calls in memory.
//
// FailFor makes every call for one account fail; FailNext fails the next n
// calls regardless of account. Rejected calls are not recorded.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Recorder struct {
	mu       sync.Mutex
	calls    []Call
	failFor  map[ir.Name]bool
	failNext int
}

// NewRecorder creates an empty recorder that accepts every call.
func NewRecorder() *Recorder {
	return &Recorder{failFor: make(map[ir.Name]bool)}
}

// FailFor rejects every future call whose account is name.
func (r *Recorder) FailFor(name ir.Name) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failFor[name] = true
}

// FailNext rejects the next n calls.
func (r *Recorder) FailNext(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failNext = n
}

// Reset forgets recorded calls and failure rules.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.failFor = make(map[ir.Name]bool)
	r.failNext = 0
}

// Calls returns a copy of the accepted calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// Issue records a token issuance.
func (r *Recorder) Issue(_ context.Context, to ir.Name, quantity ir.Asset, memo string) error {
	return r.record(Call{Kind: ir.IssuanceIssue, Account: to, Quantity: quantity, Memo: memo})
}

// InitializeAccount records an account initialization with a zero quantity.
func (r *Recorder) InitializeAccount(_ context.Context, symbol ir.Symbol, account ir.Name) error {
	return r.record(Call{Kind: ir.IssuanceInitAcc, Account: account, Quantity: ir.NewAsset(0, symbol)})
}

func (r *Recorder) record(c Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failNext > 0 {
		r.failNext--
		return ErrRejected
	}
	if r.failFor[c.Account] {
		return ErrRejected
	}
	r.calls = append(r.calls, c)
	return nil
}

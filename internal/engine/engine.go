package engine

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/roach88/spiral/internal/auth"
	"github.com/roach88/spiral/internal/ir"
	"github.com/roach88/spiral/internal/store"
)

// Authorizer answers whether the caller has proven control of an identity.
type Authorizer interface {
	IsAuthorized(ctx context.Context, name ir.Name) bool
}

// AccountOracle answers whether an account exists outside the engine.
// When none is configured the engine consults the store's account registry.
type AccountOracle interface {
	AccountExists(ctx context.Context, name ir.Name) bool
}

// Issuer mints or transfers community tokens. Calls are made before the
// enclosing operation commits; an error aborts the whole operation.
type Issuer interface {
	Issue(ctx context.Context, to ir.Name, quantity ir.Asset, memo string) error
	InitializeAccount(ctx context.Context, symbol ir.Symbol, account ir.Name) error
}

// DefaultAdmin is the privileged identity used when WithAdmin is not given.
const DefaultAdmin ir.Name = "spiral"

// Engine executes community operations against the store.
//
// Every mutating operation runs inside one store transaction and is
// serialized with every other mutating operation: it either commits all of
// its effects, including issuer calls, or none of them.
//
// Thread-safety: all methods are safe for concurrent use; mutations are
// applied one at a time in call order.
type Engine struct {
	mu sync.Mutex

	store      *store.Store
	logger     *slog.Logger
	authorizer Authorizer
	accounts   AccountOracle
	clock      Clock
	allocator  Allocator
	issuer     Issuer
	notifier   Notifier
	opIDs      OpIDGenerator

	admin          ir.Name
	trustedIssuers []ir.Name

	// legacyAutoCompletion reproduces the historical completion boundary of
	// verify_action: completed when one usage remains after the decrement.
	legacyAutoCompletion bool
}

// EngineOption allows configuration of engine collaborators.
type EngineOption func(*Engine)

// WithLogger sets the logger used for operation outcomes.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithAuthorizer replaces the default context signer authorizer.
func WithAuthorizer(a Authorizer) EngineOption {
	return func(e *Engine) { e.authorizer = a }
}

// WithAccountOracle replaces the store account registry as the source of
// account existence.
func WithAccountOracle(o AccountOracle) EngineOption {
	return func(e *Engine) { e.accounts = o }
}

// WithClock sets the clock used for deadline checks.
func WithClock(c Clock) EngineOption {
	return func(e *Engine) { e.clock = c }
}

// WithAllocator replaces the persisted id counters.
func WithAllocator(a Allocator) EngineOption {
	return func(e *Engine) { e.allocator = a }
}

// WithIssuer sets the reward issuer.
func WithIssuer(i Issuer) EngineOption {
	return func(e *Engine) { e.issuer = i }
}

// WithNotifier sets the post-commit notification sink.
func WithNotifier(n Notifier) EngineOption {
	return func(e *Engine) { e.notifier = n }
}

// WithOpIDGenerator sets the generator for operation correlation ids.
func WithOpIDGenerator(g OpIDGenerator) EngineOption {
	return func(e *Engine) { e.opIDs = g }
}

// WithAdmin sets the identity allowed to run set_indices and delete_action.
func WithAdmin(name ir.Name) EngineOption {
	return func(e *Engine) { e.admin = name }
}

// WithTrustedIssuers sets the identities that may authorize a join on
// behalf of any inviter.
func WithTrustedIssuers(names ...ir.Name) EngineOption {
	return func(e *Engine) { e.trustedIssuers = slices.Clone(names) }
}

// WithLegacyAutomaticCompletion makes verify_action complete a limited action
// when the post-decrement count is one rather than zero. An action whose
// count reaches zero under this mode stays open but has no usages left.
func WithLegacyAutomaticCompletion() EngineOption {
	return func(e *Engine) { e.legacyAutoCompletion = true }
}

// New creates an Engine over s. Unset collaborators default to: context
// signer authorization, the store account registry, the system clock,
// persisted id counters, an issuer that accepts every call, log
// notifications and UUIDv7 operation ids.
func New(s *store.Store, opts ...EngineOption) *Engine {
	e := &Engine{
		store:      s,
		logger:     slog.Default(),
		authorizer: auth.ContextAuthorizer{},
		clock:      SystemClock{},
		allocator:  StoreAllocator{},
		issuer:     nopIssuer{},
		opIDs:      UUIDv7Generator{},
		admin:      DefaultAdmin,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.notifier == nil {
		e.notifier = LogNotifier{Logger: e.logger}
	}
	return e
}

// Admin returns the privileged identity.
func (e *Engine) Admin() ir.Name {
	return e.admin
}

// TrustedIssuers returns a copy of the trusted issuer identities.
func (e *Engine) TrustedIssuers() []ir.Name {
	return slices.Clone(e.trustedIssuers)
}

type nopIssuer struct{}

func (nopIssuer) Issue(context.Context, ir.Name, ir.Asset, string) error      { return nil }
func (nopIssuer) InitializeAccount(context.Context, ir.Symbol, ir.Name) error { return nil }

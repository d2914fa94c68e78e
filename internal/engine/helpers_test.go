package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/spiral/internal/auth"
	"github.com/roach88/spiral/internal/ir"
	"github.com/roach88/spiral/internal/issuer"
	"github.com/roach88/spiral/internal/store"
	"github.com/roach88/spiral/internal/testutil"
)

var (
	bes = ir.Symbol{Precision: 4, Code: "BES"}
	t0  = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

// as returns a context signed by names.
func as(names ...ir.Name) context.Context {
	return auth.WithSigners(context.Background(), names...)
}

// noticeRecorder captures post-commit notices.
type noticeRecorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (n *noticeRecorder) Notify(_ context.Context, notice Notice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	return nil
}

func (n *noticeRecorder) accounts() []ir.Name {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []ir.Name
	for _, x := range n.notices {
		out = append(out, x.Account)
	}
	return out
}

func (n *noticeRecorder) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = nil
}

type fixture struct {
	t       *testing.T
	engine  *Engine
	store   *store.Store
	issuer  *issuer.Recorder
	clock   *testutil.FixedClock
	notices *noticeRecorder
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(t.TempDir() + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// newFixture builds an engine over a fresh store with the accounts alice,
// bob, carol, dave, erin and mallory registered.
func newFixture(t *testing.T, opts ...EngineOption) *fixture {
	t.Helper()
	f := &fixture{
		t:       t,
		store:   setupTestStore(t),
		issuer:  issuer.NewRecorder(),
		clock:   testutil.NewFixedClock(t0),
		notices: &noticeRecorder{},
	}
	base := []EngineOption{
		WithIssuer(f.issuer),
		WithClock(f.clock),
		WithNotifier(f.notices),
		WithOpIDGenerator(NewSequenceGenerator("op")),
		WithTrustedIssuers("backend"),
	}
	f.engine = New(f.store, append(base, opts...)...)

	for _, n := range []ir.Name{"alice", "bob", "carol", "dave", "erin", "mallory", "backend"} {
		require.NoError(t, f.engine.AddAccount(context.Background(), n))
	}
	return f
}

func testCommunity(inviterReward, invitedReward string) ir.Community {
	return ir.Community{
		Symbol:        bes,
		Creator:       "alice",
		Logo:          "https://example.com/bes.png",
		Name:          "Bespiral",
		Description:   "a test community",
		InviterReward: ir.MustAsset(inviterReward),
		InvitedReward: ir.MustAsset(invitedReward),
	}
}

// withCommunity creates BES owned by alice and joins members through alice.
// The issuer and notice recorders are cleared afterwards.
func (f *fixture) withCommunity(members ...ir.Name) *fixture {
	f.t.Helper()
	require.NoError(f.t, f.engine.CreateCommunity(as("alice"), testCommunity("1.0000 BES", "2.0000 BES")))
	for _, m := range members {
		require.NoError(f.t, f.engine.Join(as("alice"), bes, m, "alice"))
	}
	f.issuer.Reset()
	f.notices.reset()
	return f
}

func (f *fixture) objective() uint64 {
	f.t.Helper()
	id, err := f.engine.CreateObjective(as("alice"), bes, "alice", "green the city")
	require.NoError(f.t, err)
	return id
}

func claimableSpec(objectiveID uint64, validators ...ir.Name) ActionSpec {
	return ActionSpec{
		ObjectiveID:           objectiveID,
		Description:           "plant a tree",
		Reward:                ir.MustAsset("10.0000 BES"),
		VerifierReward:        ir.MustAsset("0.0000 BES"),
		Usages:                5,
		VerificationsRequired: 2,
		Mode:                  ir.VerificationClaimable,
		Validators:            validators,
		Creator:               "alice",
	}
}

func automaticSpec(objectiveID uint64, usages uint64) ActionSpec {
	return ActionSpec{
		ObjectiveID:    objectiveID,
		Description:    "attend the meetup",
		Reward:         ir.MustAsset("3.0000 BES"),
		VerifierReward: ir.MustAsset("0.0000 BES"),
		Usages:         usages,
		Mode:           ir.VerificationAutomatic,
		Creator:        "alice",
	}
}

func (f *fixture) createAction(spec ActionSpec) uint64 {
	f.t.Helper()
	id, err := f.engine.UpsertAction(as(spec.Creator), CreateAction{spec})
	require.NoError(f.t, err)
	return id
}

func (f *fixture) action(id uint64) ir.Action {
	f.t.Helper()
	a, err := f.engine.GetAction(context.Background(), id)
	require.NoError(f.t, err)
	return a
}

func (f *fixture) claim(id uint64) ir.Claim {
	f.t.Helper()
	c, err := f.engine.GetClaim(context.Background(), id)
	require.NoError(f.t, err)
	return c
}

func (f *fixture) journal() []ir.Issuance {
	f.t.Helper()
	out, err := f.engine.ListIssuances(context.Background(), 0)
	require.NoError(f.t, err)
	return out
}

func (f *fixture) member(account ir.Name) bool {
	f.t.Helper()
	ok, err := f.engine.IsMember(context.Background(), bes, account)
	require.NoError(f.t, err)
	return ok
}

func issued(to ir.Name, qty, memo string) issuer.Call {
	return issuer.Call{Kind: ir.IssuanceIssue, Account: to, Quantity: ir.MustAsset(qty), Memo: memo}
}

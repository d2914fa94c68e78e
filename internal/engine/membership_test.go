package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/spiral/internal/ir"
	"github.com/roach88/spiral/internal/issuer"
)

func TestJoin_PaysReferralRewards(t *testing.T) {
	f := newFixture(t).withCommunity()

	require.NoError(t, f.engine.Join(as("alice"), bes, "bob", "alice"))

	assert.True(t, f.member("bob"))
	assert.Equal(t, []issuer.Call{
		issued("alice", "1.0000 BES", "Thanks for helping Bespiral grow!"),
		issued("bob", "2.0000 BES", "Welcome to Bespiral!"),
	}, f.issuer.Calls())
	assert.Equal(t, []ir.Name{"bob", "alice"}, f.notices.accounts())

	journal := f.journal()
	require.Len(t, journal, 2)
	assert.Equal(t, "join", journal[0].Op)
	assert.Equal(t, ir.IssuanceIssue, journal[0].Kind)
}

func TestJoin_TwiceIsNoop(t *testing.T) {
	f := newFixture(t).withCommunity()

	require.NoError(t, f.engine.Join(as("alice"), bes, "bob", "alice"))
	require.NoError(t, f.engine.Join(as("alice"), bes, "bob", "alice"))

	members, err := f.engine.Members(context.Background(), bes)
	require.NoError(t, err)
	assert.Len(t, members, 2)
	assert.Len(t, f.issuer.Calls(), 2, "the second join pays nothing")
	assert.Len(t, f.journal(), 2)
}

func TestJoin_ZeroInvitedRewardInitializesAccount(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.engine.CreateCommunity(as("alice"), testCommunity("0.0000 BES", "0.0000 BES")))
	f.notices.reset()

	require.NoError(t, f.engine.Join(as("alice"), bes, "bob", "alice"))

	calls := f.issuer.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, ir.IssuanceInitAcc, calls[0].Kind)
	assert.Equal(t, ir.Name("bob"), calls[0].Account)
	assert.Equal(t, bes, calls[0].Quantity.Symbol)
	assert.Equal(t, []ir.Name{"bob"}, f.notices.accounts(), "unpaid inviter is not notified")
}

func TestJoin_InviterMustBeMember(t *testing.T) {
	f := newFixture(t).withCommunity()

	err := f.engine.Join(as("bob"), bes, "carol", "bob")
	assert.True(t, IsNotFound(err), "%v", err)
	assert.False(t, f.member("carol"))

	require.NoError(t, f.engine.Join(as("alice"), bes, "bob", "alice"))
	require.NoError(t, f.engine.Join(as("bob"), bes, "carol", "bob"))

	members, err := f.engine.Members(context.Background(), bes)
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, ir.Name("bob"), members[2].InvitedBy)
}

func TestJoin_Authorization(t *testing.T) {
	f := newFixture(t).withCommunity()

	err := f.engine.Join(as("bob"), bes, "bob", "alice")
	assert.True(t, IsAuthorization(err), "%v", err)

	require.NoError(t, f.engine.Join(as("backend"), bes, "bob", "alice"), "trusted issuer signs for any inviter")
	assert.True(t, f.member("bob"))
}

func TestJoin_UnknownUserAndCommunity(t *testing.T) {
	f := newFixture(t).withCommunity()

	err := f.engine.Join(as("alice"), bes, "zed", "alice")
	assert.True(t, IsValidation(err), "%v", err)

	err = f.engine.Join(as("alice"), ir.Symbol{Precision: 4, Code: "FOO"}, "bob", "alice")
	assert.True(t, IsNotFound(err), "%v", err)
}

func TestJoin_IssuerFailureAbortsEverything(t *testing.T) {
	f := newFixture(t).withCommunity()
	before := len(f.journal())
	f.issuer.FailFor("bob")

	err := f.engine.Join(as("alice"), bes, "bob", "alice")
	require.Error(t, err)
	assert.True(t, IsIssuer(err), "%v", err)

	assert.False(t, f.member("bob"), "membership rolled back")
	assert.Len(t, f.journal(), before, "journal rolled back")
	assert.Empty(t, f.notices.accounts(), "no notices for an aborted join")
}

func TestJoin_AccountOracle(t *testing.T) {
	f := newFixture(t, WithAccountOracle(staticAccounts{"alice": true, "zed": true})).withCommunity()

	require.NoError(t, f.engine.Join(as("alice"), bes, "zed", "alice"))
	err := f.engine.Join(as("alice"), bes, "bob", "alice")
	assert.True(t, IsValidation(err), "%v", err)
}

type staticAccounts map[ir.Name]bool

func (s staticAccounts) AccountExists(_ context.Context, name ir.Name) bool { return s[name] }

func TestAddAccount_RejectsInvalidName(t *testing.T) {
	f := newFixture(t)

	err := f.engine.AddAccount(context.Background(), "Not.Valid")
	assert.True(t, IsValidation(err), "%v", err)

	accounts, err := f.engine.Accounts(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, accounts, ir.Name("Not.Valid"))
}

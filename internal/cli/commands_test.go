package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/spiral/internal/ir"
)

// cliEnv points every command at a fresh database and the logging issuer.
type cliEnv struct {
	t  *testing.T
	db string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	for _, key := range []string{"SPIRAL_DB", "SPIRAL_ADMIN", "SPIRAL_TRUSTED_ISSUERS", "SPIRAL_ISSUER_URL", "SPIRAL_ISSUER_TOKEN", "SPIRAL_LOG_LEVEL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return &cliEnv{t: t, db: filepath.Join(t.TempDir(), "spiral.db")}
}

// run executes the root command with args and returns stdout.
func (c *cliEnv) run(args ...string) (string, error) {
	c.t.Helper()
	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--db", c.db}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (c *cliEnv) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, out)
	return out
}

func (c *cliEnv) bootstrap() {
	c.t.Helper()
	c.mustRun("account", "add", "alice", "bob", "carol")
	c.mustRun("--as", "alice", "community", "create",
		"--symbol", "4,BES", "--creator", "alice", "--name", "Bespiral",
		"--inviter-reward", "1.0000 BES", "--invited-reward", "2.0000 BES")
}

func (c *cliEnv) issuances() []ir.Issuance {
	c.t.Helper()
	out := c.mustRun("--format", "json", "show", "issuances")
	var resp struct {
		Status string        `json:"status"`
		Data   []ir.Issuance `json:"data"`
	}
	require.NoError(c.t, json.Unmarshal([]byte(out), &resp))
	require.Equal(c.t, "ok", resp.Status)
	return resp.Data
}

func TestCLI_AccountAddAndList(t *testing.T) {
	c := newCLIEnv(t)

	out := c.mustRun("account", "add", "alice", "bob")
	assert.Equal(t, "registered 2 account(s)\n", out)

	out = c.mustRun("--format", "json", "account", "list")
	var resp struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []string{"alice", "bob"}, resp.Data)
}

func TestCLI_JoinPaysReferralRewards(t *testing.T) {
	c := newCLIEnv(t)
	c.bootstrap()

	out := c.mustRun("--as", "alice", "join", "--community", "4,BES", "--user", "bob", "--inviter", "alice")
	assert.Equal(t, "bob joined 4,BES\n", out)

	got := c.issuances()
	require.Len(t, got, 2)
	assert.Equal(t, ir.Name("alice"), got[0].Account)
	assert.Equal(t, "Thanks for helping Bespiral grow!", got[0].Memo)
	assert.Equal(t, ir.MustAsset("1.0000 BES"), got[0].Quantity)
	assert.Equal(t, ir.Name("bob"), got[1].Account)
	assert.Equal(t, "Welcome to Bespiral!", got[1].Memo)

	out = c.mustRun("--format", "json", "show", "members", "4,BES")
	var members struct {
		Data []ir.Membership `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &members))
	assert.Len(t, members.Data, 2)
}

func TestCLI_UnsignedJoinIsRejected(t *testing.T) {
	c := newCLIEnv(t)
	c.bootstrap()

	out, err := c.run("--as", "bob", "join", "--community", "4,BES", "--user", "bob", "--inviter", "alice")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [authorization]")

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.True(t, exitErr.Reported)
	assert.Empty(t, c.issuances())
}

func TestCLI_RejectionAsJSON(t *testing.T) {
	c := newCLIEnv(t)
	c.bootstrap()

	out, err := c.run("--format", "json", "--as", "alice", "objective", "create",
		"--community", "4,XYZ", "--creator", "alice", "--description", "nothing")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "not_found", resp.Error.Code)
}

func TestCLI_AutomaticActionFlow(t *testing.T) {
	c := newCLIEnv(t)
	c.bootstrap()
	c.mustRun("--as", "alice", "join", "--community", "4,BES", "--user", "bob", "--inviter", "alice")

	out := c.mustRun("--format", "json", "--as", "alice", "objective", "create",
		"--community", "4,BES", "--creator", "alice", "--description", "Plant trees")
	assert.JSONEq(t, `{"status":"ok","data":{"objective_id":1}}`, out)

	out = c.mustRun("--format", "json", "--as", "alice", "action", "create",
		"--objective", "1", "--creator", "alice", "--description", "Plant a tree",
		"--reward", "5.0000 BES", "--verifier-reward", "0.0000 BES", "--usages", "1")
	assert.JSONEq(t, `{"status":"ok","data":{"action_id":1}}`, out)

	out = c.mustRun("--as", "alice", "action", "verify", "1", "--maker", "bob", "--verifier", "alice")
	assert.Equal(t, "verified action 1 for bob\n", out)

	got := c.issuances()
	require.Len(t, got, 3)
	assert.Equal(t, ir.Name("bob"), got[2].Account)
	assert.Equal(t, ir.MustAsset("5.0000 BES"), got[2].Quantity)
	assert.Equal(t, "Thanks for doing an action for your community", got[2].Memo)

	out = c.mustRun("--format", "json", "show", "action", "1")
	var action struct {
		Data ir.Action `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &action))
	assert.Equal(t, uint64(0), action.Data.UsagesLeft)
	assert.True(t, action.Data.IsCompleted)

	_, err := c.run("--as", "alice", "action", "verify", "1", "--maker", "bob", "--verifier", "alice")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestCLI_ClaimFlow(t *testing.T) {
	c := newCLIEnv(t)
	c.bootstrap()
	c.mustRun("--as", "alice", "join", "--community", "4,BES", "--user", "bob", "--inviter", "alice")
	c.mustRun("--as", "alice", "join", "--community", "4,BES", "--user", "carol", "--inviter", "alice")
	c.mustRun("--as", "alice", "objective", "create", "--community", "4,BES", "--creator", "alice", "--description", "Clean up")
	c.mustRun("--as", "alice", "action", "create",
		"--objective", "1", "--creator", "alice", "--description", "Collect litter",
		"--reward", "3.0000 BES", "--verifier-reward", "0.5000 BES",
		"--mode", "claimable", "--verifications", "2", "--validators", "alice-carol")

	out := c.mustRun("--format", "json", "--as", "bob", "claim", "open", "--action", "1", "--maker", "bob")
	assert.JSONEq(t, `{"status":"ok","data":{"claim_id":1}}`, out)

	c.mustRun("--as", "alice", "claim", "vote", "1", "--verifier", "alice", "--vote", "approve")
	c.mustRun("--as", "carol", "claim", "vote", "1", "--verifier", "carol", "--vote", "1")

	out = c.mustRun("--format", "json", "show", "claim", "1")
	var claim struct {
		Data ir.Claim `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &claim))
	assert.True(t, claim.Data.IsVerified)
	assert.Len(t, claim.Data.Checks, 2)

	_, err := c.run("--as", "carol", "claim", "vote", "1", "--verifier", "carol", "--vote", "reject")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestCLI_Indices(t *testing.T) {
	c := newCLIEnv(t)

	_, err := c.run("--as", "alice", "indices", "set", "--objective", "10")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	c.mustRun("--as", "spiral", "indices", "set", "--objective", "10", "--action", "20")
	out := c.mustRun("--format", "json", "indices", "get")
	assert.JSONEq(t, `{"status":"ok","data":{"objective":10,"action":20,"claim":0,"sale":0}}`, out)
}

func TestCLI_CommandErrors(t *testing.T) {
	c := newCLIEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"invalid format", []string{"--format", "yaml", "account", "list"}},
		{"invalid symbol", []string{"show", "community", "BES"}},
		{"invalid id", []string{"show", "action", "x"}},
		{"invalid vote", []string{"claim", "vote", "1", "--verifier", "alice", "--vote", "maybe"}},
		{"invalid reward", []string{"community", "create", "--symbol", "4,BES", "--creator", "alice",
			"--inviter-reward", "BES", "--invited-reward", "1.0000 BES"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.run(tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestCLI_Seed(t *testing.T) {
	c := newCLIEnv(t)

	out := c.mustRun("--format", "json", "seed", "../seed/testdata/bootstrap.cue")
	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Accounts    int `json:"accounts"`
			Communities int `json:"communities"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 4, resp.Data.Accounts)
	assert.Equal(t, 1, resp.Data.Communities)

	_, err := c.run("seed", "missing.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

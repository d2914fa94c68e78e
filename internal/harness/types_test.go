package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/spiral/internal/ir"
)

func TestFormatTrace(t *testing.T) {
	trace := []StepTrace{
		{Index: 1, Op: "join", Issuances: []ir.Issuance{
			{Kind: ir.IssuanceIssue, Account: "alice", Quantity: ir.MustAsset("1.0000 BES"), Memo: `say "hi"`},
			{Kind: ir.IssuanceInitAcc, Account: "bob", Quantity: ir.MustAsset("0.00 TOK")},
		}},
		{Index: 2, Op: "cast_vote", Error: "duplicate"},
	}

	want := "scenario: s\n" +
		"#1 join ok\n" +
		"  issue alice 1.0000 BES \"say \\\"hi\\\"\"\n" +
		"  initacc 2,TOK bob\n" +
		"#2 cast_vote error=duplicate\n"
	assert.Equal(t, want, string(FormatTrace("s", trace)))
}

func TestResult_AddError(t *testing.T) {
	r := NewResult()
	assert.True(t, r.Pass)
	r.AddError("boom")
	assert.False(t, r.Pass)
	assert.Equal(t, []string{"boom"}, r.Errors)
}

package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortsKeys(t *testing.T) {
	out, err := MarshalCanonical(map[string]any{
		"zebra": "z",
		"apple": int64(1),
		"mango": true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"apple":1,"mango":true,"zebra":"z"}`, string(out))
}

func TestMarshalCanonical_NoHTMLEscape(t *testing.T) {
	out, err := MarshalCanonical("<a & b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a & b>"`, string(out))
}

func TestMarshalCanonical_LineSeparators(t *testing.T) {
	out, err := MarshalCanonical("a\u2028b")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\"", string(out))

	out, err = MarshalCanonical(`a\u2028b`)
	require.NoError(t, err)
	assert.Equal(t, `"a\\u2028b"`, string(out))
}

func TestMarshalCanonical_NFC(t *testing.T) {
	out, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(out))
}

func TestMarshalCanonical_Rejects(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.Error(t, err)

	_, err = MarshalCanonical(1.5)
	assert.Error(t, err)

	_, err = MarshalCanonical(map[string]any{"k": []any{1, nil}})
	assert.Error(t, err)
}

func TestMembershipKey_Deterministic(t *testing.T) {
	sym := Symbol{Precision: 4, Code: "BES"}

	k1, err := MembershipKey(sym, "alice")
	require.NoError(t, err)
	k2, err := MembershipKey(sym, "alice")
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 64)

	other, err := MembershipKey(sym, "bob")
	require.NoError(t, err)
	assert.NotEqual(t, k1, other)

	otherCmm, err := MembershipKey(Symbol{Precision: 2, Code: "BES"}, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, k1, otherCmm)
}
